package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	identityStore "studio/internal/adapters/storage/identity"
	"studio/internal/domain/identity"
)

// IdentityStoreForLogin defines the store interface needed by Login.
type IdentityStoreForLogin interface {
	GetByUsername(ctx context.Context, username string) (identity.Identity, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the result of a successful login: the
// session-safe snapshot plus the page the client should land on.
type LoginResult struct {
	Snapshot       identity.Snapshot
	RedirectTarget string
	TrainerID      string // set only when the identity is a trainer
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	IdentityStore IdentityStoreForLogin
}

// ErrInvalidCredentials deliberately carries no detail about which
// field was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// dashboardFor maps a role to its landing page.
func dashboardFor(role string) string {
	switch role {
	case identity.RoleTrainer:
		return "/dashboard-trainer.html"
	case identity.RoleAdmin:
		return "/dashboard-admin.html"
	default:
		return "/dashboard-member.html"
	}
}

// ExecuteLogin validates credentials and returns the identity snapshot
// for session creation.
// PRE: Username and password provided
// POST: Returns snapshot and redirect target on success
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Username == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}

	ident, err := deps.IdentityStore.GetByUsername(ctx, input.Username)
	if err != nil {
		if !errors.Is(err, identityStore.ErrNotFound) {
			slog.Error("auth_event", "event", "login_store_failed", "username", input.Username, "error", err.Error())
			return LoginResult{}, fmt.Errorf("%w: %v", ErrStorageFault, err)
		}
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := ident.CheckPassword(input.Password); err != nil {
		if errors.Is(err, identity.ErrMalformedDigest) {
			// A corrupt stored hash is a server problem, not bad credentials.
			slog.Error("auth_event", "event", "login_error", "username", input.Username, "reason", "malformed_digest")
			return LoginResult{}, err
		}
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "wrong_password")
		return LoginResult{}, ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_success", "username", input.Username, "role", ident.Role)

	result := LoginResult{
		Snapshot:       ident.ToSnapshot(),
		RedirectTarget: dashboardFor(ident.Role),
	}
	if ident.IsTrainer() {
		result.TrainerID = ident.ID
	}
	return result, nil
}
