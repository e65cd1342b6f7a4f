package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	identityStore "studio/internal/adapters/storage/identity"
	"studio/internal/domain/identity"

	"github.com/google/uuid"
)

// IdentityStoreForSignup defines the store interface needed by Signup.
type IdentityStoreForSignup interface {
	GetByEmail(ctx context.Context, email string) (identity.Identity, error)
	GetByUsername(ctx context.Context, username string) (identity.Identity, error)
	Create(ctx context.Context, i identity.Identity) error
	Count(ctx context.Context) (int, error)
}

// SignupInput carries input for the signup orchestrator.
type SignupInput struct {
	Email    string
	Username string
	Name     string
	Password string
	Role     string
}

// SignupDeps holds dependencies for Signup.
type SignupDeps struct {
	IdentityStore IdentityStoreForSignup
}

var (
	ErrEmailAlreadyExists    = errors.New("an account with this email already exists")
	ErrUsernameAlreadyExists = errors.New("an account with this username already exists")
)

// ExecuteSignup coordinates identity creation.
// The existence lookups are a pre-flight courtesy only; the store's
// unique constraints are what actually prevent a concurrent duplicate
// from slipping through, and their violations surface here as the same
// conflict errors.
// PRE: Valid email, username, password >= 8 chars, valid role
// POST: Identity created with hashed password
// INVARIANT: Email and username are each unique
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) (string, error) {
	if input.Email == "" {
		return "", errors.New("email cannot be empty")
	}
	if input.Username == "" {
		return "", errors.New("username cannot be empty")
	}
	if input.Password == "" {
		return "", errors.New("password cannot be empty")
	}
	if input.Role == "" {
		return "", errors.New("role cannot be empty")
	}

	// Pre-flight duplicate checks
	if _, err := deps.IdentityStore.GetByEmail(ctx, input.Email); err == nil {
		return "", ErrEmailAlreadyExists
	}
	if _, err := deps.IdentityStore.GetByUsername(ctx, input.Username); err == nil {
		return "", ErrUsernameAlreadyExists
	}

	ident := identity.Identity{
		ID:          uuid.New().String(),
		Email:       input.Email,
		Username:    input.Username,
		DisplayName: input.Name,
		Role:        input.Role,
		CreatedAt:   time.Now(),
	}

	// Validate domain rules
	if err := ident.Validate(); err != nil {
		return "", err
	}

	// Set password (handles hashing and length validation)
	if err := ident.SetPassword(input.Password); err != nil {
		return "", err
	}

	// Save to store; a constraint violation here means we lost a race
	// with a concurrent duplicate signup. Anything else is the store's
	// fault, not the caller's.
	if err := deps.IdentityStore.Create(ctx, ident); err != nil {
		switch {
		case errors.Is(err, identityStore.ErrDuplicateEmail):
			return "", ErrEmailAlreadyExists
		case errors.Is(err, identityStore.ErrDuplicateUsername):
			return "", ErrUsernameAlreadyExists
		}
		slog.Error("auth_event", "event", "signup_store_failed", "error", err.Error())
		return "", fmt.Errorf("%w: %v", ErrStorageFault, err)
	}

	slog.Info("auth_event", "event", "identity_created", "username", input.Username, "role", input.Role)

	return ident.ID, nil
}

// ExecuteSeedAdmin creates a default administrator identity if no
// identities exist.
// PRE: Database is initialized
// POST: Admin identity created if count == 0
func ExecuteSeedAdmin(ctx context.Context, deps SignupDeps, adminEmail, adminPassword string) error {
	count, err := deps.IdentityStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Identities already exist, skip seeding
	}

	_, err = ExecuteSignup(ctx, SignupInput{
		Email:    adminEmail,
		Username: "admin",
		Name:     "Administrator",
		Password: adminPassword,
		Role:     identity.RoleAdmin,
	}, deps)
	if err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "email", adminEmail)
	return nil
}
