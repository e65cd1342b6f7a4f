package projections

import (
	"context"

	identityStore "studio/internal/adapters/storage/identity"
	"studio/internal/domain/identity"
)

// TrainerListIdentityStore defines the identity store interface for the trainer list.
type TrainerListIdentityStore interface {
	List(ctx context.Context, filter identityStore.ListFilter) ([]identity.Identity, error)
}

// TrainerListDeps holds dependencies for the trainer list projection.
type TrainerListDeps struct {
	IdentityStore TrainerListIdentityStore
}

// TrainerEntry is one selectable trainer. Only the fields a booking
// form needs; never the credential material.
type TrainerEntry struct {
	ID          string `json:"id"`
	DisplayName string `json:"name"`
	Username    string `json:"username"`
}

// QueryTrainers returns all identities with the trainer role, in store
// order, shaped for the booking form's trainer selector.
// PRE: store is reachable
// POST: Returns zero or more trainer entries, never credential fields
func QueryTrainers(ctx context.Context, deps TrainerListDeps) ([]TrainerEntry, error) {
	trainers, err := deps.IdentityStore.List(ctx, identityStore.ListFilter{Role: identity.RoleTrainer})
	if err != nil {
		return nil, err
	}

	entries := make([]TrainerEntry, 0, len(trainers))
	for _, t := range trainers {
		entries = append(entries, TrainerEntry{
			ID:          t.ID,
			DisplayName: t.DisplayName,
			Username:    t.Username,
		})
	}
	return entries, nil
}
