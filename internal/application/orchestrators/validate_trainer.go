package orchestrators

import (
	"context"
	"errors"
	"fmt"

	identityStore "studio/internal/adapters/storage/identity"
	"studio/internal/domain/identity"

	"github.com/google/uuid"
)

// IdentityStoreForValidate defines the store interface needed by ValidateTrainer.
type IdentityStoreForValidate interface {
	GetByID(ctx context.Context, id string) (identity.Identity, error)
}

// ValidateTrainerDeps holds dependencies for ValidateTrainer.
type ValidateTrainerDeps struct {
	IdentityStore IdentityStoreForValidate
}

var (
	// ErrInvalidTrainerKey means the candidate key is not even a
	// well-formed store key; no lookup is attempted.
	ErrInvalidTrainerKey = errors.New("trainer id is not a valid key")
	// ErrTrainerNotFound means the key is well-formed but resolves to
	// nothing, or to an identity that is not a trainer.
	ErrTrainerNotFound = errors.New("no trainer found for the given id")
)

// ExecuteValidateTrainer checks that candidateKey is a syntactically
// valid store key and resolves to an existing identity whose role is
// trainer. The format check runs before any lookup so malformed keys
// never reach the store.
// PRE: candidateKey supplied by the caller, untrusted
// POST: Returns the resolved trainer identity on success
func ExecuteValidateTrainer(ctx context.Context, candidateKey string, deps ValidateTrainerDeps) (identity.Identity, error) {
	if _, err := uuid.Parse(candidateKey); err != nil {
		return identity.Identity{}, ErrInvalidTrainerKey
	}

	ident, err := deps.IdentityStore.GetByID(ctx, candidateKey)
	if err != nil {
		if errors.Is(err, identityStore.ErrNotFound) {
			return identity.Identity{}, ErrTrainerNotFound
		}
		return identity.Identity{}, fmt.Errorf("%w: %v", ErrStorageFault, err)
	}
	if !ident.IsTrainer() {
		return identity.Identity{}, ErrTrainerNotFound
	}
	return ident, nil
}
