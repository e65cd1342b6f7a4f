package projections

import (
	"context"

	"studio/internal/domain/appointment"
	"studio/internal/domain/identity"
)

// TrainerAppointmentsAppointmentStore defines the appointment store
// interface for the trainer schedule.
type TrainerAppointmentsAppointmentStore interface {
	ListByTrainer(ctx context.Context, trainerID string) ([]appointment.Appointment, error)
}

// TrainerAppointmentsIdentityStore defines the identity store interface
// for resolving the trainer's display name.
type TrainerAppointmentsIdentityStore interface {
	GetByID(ctx context.Context, id string) (identity.Identity, error)
}

// TrainerAppointmentsDeps holds dependencies for the trainer schedule projection.
type TrainerAppointmentsDeps struct {
	AppointmentStore TrainerAppointmentsAppointmentStore
	IdentityStore    TrainerAppointmentsIdentityStore
}

// AppointmentEntry is one scheduled session, flattened for display.
type AppointmentEntry struct {
	ID           string `json:"id"`
	SubjectName  string `json:"name"`
	SubjectEmail string `json:"email"`
	TrainerID    string `json:"trainerId"`
	TrainerName  string `json:"trainerName,omitempty"`
	Age          int    `json:"age,omitempty"`
	Gender       string `json:"gender,omitempty"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Kind         string `json:"kind"`
	Phone        string `json:"phone,omitempty"`
}

// QueryTrainerAppointments returns a trainer's appointments ordered by
// date then time, with the trainer's display name attached to each
// entry. A trainer ID that resolves to nothing yields an empty list,
// same as a trainer with no bookings.
// PRE: trainerID supplied by the caller
// POST: Returns zero or more entries sorted by date, then time
func QueryTrainerAppointments(ctx context.Context, trainerID string, deps TrainerAppointmentsDeps) ([]AppointmentEntry, error) {
	appts, err := deps.AppointmentStore.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	// Best-effort name resolution; a missing identity leaves the name blank.
	trainerName := ""
	if ident, err := deps.IdentityStore.GetByID(ctx, trainerID); err == nil {
		trainerName = ident.DisplayName
	}

	entries := make([]AppointmentEntry, 0, len(appts))
	for _, a := range appts {
		entries = append(entries, AppointmentEntry{
			ID:           a.ID,
			SubjectName:  a.SubjectName,
			SubjectEmail: a.SubjectEmail,
			TrainerID:    a.TrainerID,
			TrainerName:  trainerName,
			Age:          a.Age,
			Gender:       a.Gender,
			Date:         a.Date,
			Time:         a.Time,
			Kind:         a.Kind,
			Phone:        a.Phone,
		})
	}
	return entries, nil
}
