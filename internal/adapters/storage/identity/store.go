package identity

import (
	"context"
	"errors"

	domain "studio/internal/domain/identity"
)

// Sentinel errors surfaced by Create when a storage-level unique
// constraint fires. The constraint is the source of truth for
// uniqueness; callers treat any pre-flight lookup as advisory only.
var (
	ErrDuplicateEmail    = errors.New("an account with this email already exists")
	ErrDuplicateUsername = errors.New("an account with this username already exists")
	ErrNotFound          = errors.New("identity not found")
)

// Store persists Identity state.
type Store interface {
	Create(ctx context.Context, value domain.Identity) error
	GetByID(ctx context.Context, id string) (domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (domain.Identity, error)
	GetByUsername(ctx context.Context, username string) (domain.Identity, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Identity, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Role   string
}
