package appointment

import (
	"context"

	domain "studio/internal/domain/appointment"
)

// Store persists Appointment state. Appointments are created through
// the booking flow and never mutated; deletion is out of scope.
type Store interface {
	Create(ctx context.Context, value domain.Appointment) error
	GetByID(ctx context.Context, id string) (domain.Appointment, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]domain.Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Appointment, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit  int
	Offset int
	Date   string
}
