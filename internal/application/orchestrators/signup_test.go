package orchestrators

import (
	"context"
	"errors"
	"testing"

	identityStore "studio/internal/adapters/storage/identity"
	"studio/internal/domain/identity"
)

// mockIdentityStore implements the identity store interfaces used by
// the orchestrators. Keyed by ID with secondary lookups by scan.
type mockIdentityStore struct {
	identities map[string]identity.Identity
	createErr  error // forced error for Create, simulating constraint violations
	getErr     error // forced error for lookups, simulating an unavailable store
}

func newMockIdentityStore() *mockIdentityStore {
	return &mockIdentityStore{identities: make(map[string]identity.Identity)}
}

// GetByID implements IdentityStoreForValidate.
// PRE: id is non-empty
// POST: returns identity or error
func (m *mockIdentityStore) GetByID(_ context.Context, id string) (identity.Identity, error) {
	if m.getErr != nil {
		return identity.Identity{}, m.getErr
	}
	i, ok := m.identities[id]
	if !ok {
		return identity.Identity{}, identityStore.ErrNotFound
	}
	return i, nil
}

// GetByEmail implements IdentityStoreForSignup.
// PRE: email is non-empty
// POST: returns identity or error
func (m *mockIdentityStore) GetByEmail(_ context.Context, email string) (identity.Identity, error) {
	if m.getErr != nil {
		return identity.Identity{}, m.getErr
	}
	for _, i := range m.identities {
		if i.Email == email {
			return i, nil
		}
	}
	return identity.Identity{}, identityStore.ErrNotFound
}

// GetByUsername implements IdentityStoreForSignup and IdentityStoreForLogin.
// PRE: username is non-empty
// POST: returns identity or error
func (m *mockIdentityStore) GetByUsername(_ context.Context, username string) (identity.Identity, error) {
	if m.getErr != nil {
		return identity.Identity{}, m.getErr
	}
	for _, i := range m.identities {
		if i.Username == username {
			return i, nil
		}
	}
	return identity.Identity{}, identityStore.ErrNotFound
}

// Create implements IdentityStoreForSignup.
// PRE: identity is valid
// POST: identity is persisted unless createErr is forced
func (m *mockIdentityStore) Create(_ context.Context, i identity.Identity) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.identities[i.ID] = i
	return nil
}

// Count implements IdentityStoreForSignup.
func (m *mockIdentityStore) Count(_ context.Context) (int, error) {
	return len(m.identities), nil
}

// --- ExecuteSignup tests ---

// TestExecuteSignup_Valid tests a full signup with valid input.
func TestExecuteSignup_Valid(t *testing.T) {
	store := newMockIdentityStore()
	id, err := ExecuteSignup(context.Background(), SignupInput{
		Email:    "kai@example.com",
		Username: "kai",
		Name:     "Kai Morgan",
		Password: "hunter2hunter2",
		Role:     identity.RoleMember,
	}, SignupDeps{IdentityStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty identity ID")
	}
	saved, ok := store.identities[id]
	if !ok {
		t.Fatal("expected identity to be persisted in store")
	}
	if saved.PasswordHash == "" || saved.PasswordHash == "hunter2hunter2" {
		t.Error("expected password to be stored hashed")
	}
	if saved.Role != identity.RoleMember {
		t.Errorf("expected role=member, got %s", saved.Role)
	}
}

// TestExecuteSignup_EmptyFields tests that each missing field is rejected.
func TestExecuteSignup_EmptyFields(t *testing.T) {
	store := newMockIdentityStore()
	base := SignupInput{
		Email:    "kai@example.com",
		Username: "kai",
		Name:     "Kai Morgan",
		Password: "hunter2hunter2",
		Role:     identity.RoleMember,
	}
	cases := []struct {
		name   string
		mutate func(*SignupInput)
	}{
		{"no email", func(in *SignupInput) { in.Email = "" }},
		{"no username", func(in *SignupInput) { in.Username = "" }},
		{"no password", func(in *SignupInput) { in.Password = "" }},
		{"no role", func(in *SignupInput) { in.Role = "" }},
	}
	for _, tc := range cases {
		in := base
		tc.mutate(&in)
		if _, err := ExecuteSignup(context.Background(), in, SignupDeps{IdentityStore: store}); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

// TestExecuteSignup_ShortPassword tests the minimum password length.
func TestExecuteSignup_ShortPassword(t *testing.T) {
	store := newMockIdentityStore()
	_, err := ExecuteSignup(context.Background(), SignupInput{
		Email:    "kai@example.com",
		Username: "kai",
		Name:     "Kai Morgan",
		Password: "short",
		Role:     identity.RoleMember,
	}, SignupDeps{IdentityStore: store})
	if !errors.Is(err, identity.ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

// TestExecuteSignup_DuplicateEmail tests the pre-flight email check.
func TestExecuteSignup_DuplicateEmail(t *testing.T) {
	store := newMockIdentityStore()
	store.identities["existing"] = identity.Identity{
		ID: "existing", Email: "kai@example.com", Username: "other",
	}
	_, err := ExecuteSignup(context.Background(), SignupInput{
		Email:    "kai@example.com",
		Username: "kai",
		Name:     "Kai Morgan",
		Password: "hunter2hunter2",
		Role:     identity.RoleMember,
	}, SignupDeps{IdentityStore: store})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

// TestExecuteSignup_DuplicateUsername tests the pre-flight username check.
func TestExecuteSignup_DuplicateUsername(t *testing.T) {
	store := newMockIdentityStore()
	store.identities["existing"] = identity.Identity{
		ID: "existing", Email: "other@example.com", Username: "kai",
	}
	_, err := ExecuteSignup(context.Background(), SignupInput{
		Email:    "kai@example.com",
		Username: "kai",
		Name:     "Kai Morgan",
		Password: "hunter2hunter2",
		Role:     identity.RoleMember,
	}, SignupDeps{IdentityStore: store})
	if !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Errorf("expected ErrUsernameAlreadyExists, got %v", err)
	}
}

// TestExecuteSignup_ConstraintRace tests that a unique-constraint
// violation from the store maps to the same conflict error the
// pre-flight check would have produced.
func TestExecuteSignup_ConstraintRace(t *testing.T) {
	store := newMockIdentityStore()
	store.createErr = identityStore.ErrDuplicateEmail
	_, err := ExecuteSignup(context.Background(), SignupInput{
		Email:    "kai@example.com",
		Username: "kai",
		Name:     "Kai Morgan",
		Password: "hunter2hunter2",
		Role:     identity.RoleMember,
	}, SignupDeps{IdentityStore: store})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists from constraint violation, got %v", err)
	}

	store.createErr = identityStore.ErrDuplicateUsername
	_, err = ExecuteSignup(context.Background(), SignupInput{
		Email:    "kai@example.com",
		Username: "kai",
		Name:     "Kai Morgan",
		Password: "hunter2hunter2",
		Role:     identity.RoleMember,
	}, SignupDeps{IdentityStore: store})
	if !errors.Is(err, ErrUsernameAlreadyExists) {
		t.Errorf("expected ErrUsernameAlreadyExists from constraint violation, got %v", err)
	}
}

// TestExecuteSignup_StoreFailure tests that a non-constraint store
// failure surfaces as a storage fault, not as a caller error.
func TestExecuteSignup_StoreFailure(t *testing.T) {
	store := newMockIdentityStore()
	store.createErr = errors.New("disk I/O error (5386)")
	_, err := ExecuteSignup(context.Background(), SignupInput{
		Email:    "kai@example.com",
		Username: "kai",
		Name:     "Kai Morgan",
		Password: "hunter2hunter2",
		Role:     identity.RoleMember,
	}, SignupDeps{IdentityStore: store})
	if !errors.Is(err, ErrStorageFault) {
		t.Errorf("expected ErrStorageFault, got %v", err)
	}
}

// --- ExecuteSeedAdmin tests ---

// TestExecuteSeedAdmin_EmptyStore tests that the admin is seeded on first boot.
func TestExecuteSeedAdmin_EmptyStore(t *testing.T) {
	store := newMockIdentityStore()
	if err := ExecuteSeedAdmin(context.Background(), SignupDeps{IdentityStore: store}, "admin@studio.local", "changeme-now"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	admin, err := store.GetByUsername(context.Background(), "admin")
	if err != nil {
		t.Fatal("expected seeded admin identity")
	}
	if admin.Role != identity.RoleAdmin {
		t.Errorf("expected role=administrator, got %s", admin.Role)
	}
}

// TestExecuteSeedAdmin_NonEmptyStore tests that seeding is skipped when
// any identity already exists.
func TestExecuteSeedAdmin_NonEmptyStore(t *testing.T) {
	store := newMockIdentityStore()
	store.identities["existing"] = identity.Identity{ID: "existing", Username: "kai"}
	if err := ExecuteSeedAdmin(context.Background(), SignupDeps{IdentityStore: store}, "admin@studio.local", "changeme-now"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.identities) != 1 {
		t.Errorf("expected no new identities, got %d", len(store.identities))
	}
}
