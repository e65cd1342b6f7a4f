package payment

import (
	"context"

	domain "studio/internal/domain/payment"
)

// Store persists Payment state.
type Store interface {
	Create(ctx context.Context, value domain.Payment) error
	ListByMember(ctx context.Context, memberEmail string) ([]domain.Payment, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Payment, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Method string
}
