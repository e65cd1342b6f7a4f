package orchestrators

import (
	"context"
	"errors"
	"testing"

	"studio/internal/domain/identity"
)

const trainerKey = "5c7b9a2e-1f3d-4e8a-9b6c-2d4f8e1a3c5b"

// TestExecuteValidateTrainer_Valid tests resolving a real trainer.
func TestExecuteValidateTrainer_Valid(t *testing.T) {
	store := newMockIdentityStore()
	store.identities[trainerKey] = identity.Identity{
		ID: trainerKey, Username: "coach", DisplayName: "Coach Pat", Role: identity.RoleTrainer,
	}
	ident, err := ExecuteValidateTrainer(context.Background(), trainerKey, ValidateTrainerDeps{IdentityStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ident.DisplayName != "Coach Pat" {
		t.Errorf("expected resolved trainer, got %+v", ident)
	}
}

// TestExecuteValidateTrainer_MalformedKey tests that a malformed key is
// rejected before any store lookup.
func TestExecuteValidateTrainer_MalformedKey(t *testing.T) {
	_, err := ExecuteValidateTrainer(context.Background(), "not-a-uuid", ValidateTrainerDeps{IdentityStore: nil})
	if !errors.Is(err, ErrInvalidTrainerKey) {
		t.Errorf("expected ErrInvalidTrainerKey, got %v", err)
	}
}

// TestExecuteValidateTrainer_Missing tests a well-formed key that
// resolves to nothing.
func TestExecuteValidateTrainer_Missing(t *testing.T) {
	store := newMockIdentityStore()
	_, err := ExecuteValidateTrainer(context.Background(), trainerKey, ValidateTrainerDeps{IdentityStore: store})
	if !errors.Is(err, ErrTrainerNotFound) {
		t.Errorf("expected ErrTrainerNotFound, got %v", err)
	}
}

// TestExecuteValidateTrainer_StoreFailure tests that an unavailable
// store is reported as a storage fault rather than a missing trainer.
func TestExecuteValidateTrainer_StoreFailure(t *testing.T) {
	store := newMockIdentityStore()
	store.getErr = errors.New("database is locked")
	_, err := ExecuteValidateTrainer(context.Background(), trainerKey, ValidateTrainerDeps{IdentityStore: store})
	if !errors.Is(err, ErrStorageFault) {
		t.Errorf("expected ErrStorageFault, got %v", err)
	}
	if errors.Is(err, ErrTrainerNotFound) {
		t.Error("a store failure must not read as a missing trainer")
	}
}

// TestExecuteValidateTrainer_WrongRole tests a key that resolves to an
// identity that is not a trainer.
func TestExecuteValidateTrainer_WrongRole(t *testing.T) {
	store := newMockIdentityStore()
	store.identities[trainerKey] = identity.Identity{
		ID: trainerKey, Username: "kai", Role: identity.RoleMember,
	}
	_, err := ExecuteValidateTrainer(context.Background(), trainerKey, ValidateTrainerDeps{IdentityStore: store})
	if !errors.Is(err, ErrTrainerNotFound) {
		t.Errorf("expected ErrTrainerNotFound, got %v", err)
	}
}
