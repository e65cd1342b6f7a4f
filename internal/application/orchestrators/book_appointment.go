package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"studio/internal/adapters/email"
	"studio/internal/domain/appointment"
	"studio/internal/domain/identity"
)

// BookingState names a state of the booking flow.
type BookingState string

// Booking flow states. Persisted and Rejected are terminal.
const (
	BookingReceived         BookingState = "received"
	BookingTrainerValidated BookingState = "trainer_validated"
	BookingPersisted        BookingState = "persisted"
	BookingRejected         BookingState = "rejected"
)

// ErrStorageFault marks a write that failed in the store rather than
// because of the request. The HTTP edge maps it to a 500.
var ErrStorageFault = errors.New("storage fault")

// AppointmentStoreForBooking defines the store interface needed by BookAppointment.
type AppointmentStoreForBooking interface {
	Create(ctx context.Context, a appointment.Appointment) error
}

// BookAppointmentInput carries input for the booking orchestrator.
type BookAppointmentInput struct {
	SubjectName  string
	SubjectEmail string
	TrainerID    string
	Age          int
	Gender       string
	Date         string
	Time         string
	Kind         string
	Phone        string
}

// BookAppointmentDeps holds dependencies for BookAppointment.
type BookAppointmentDeps struct {
	IdentityStore    IdentityStoreForValidate
	AppointmentStore AppointmentStoreForBooking
	EmailSender      email.Sender // optional; confirmation is best-effort
	EmailFrom        string
	EmailReplyTo     string
}

// BookAppointmentResult reports the terminal state of the flow. Err is
// set only when State is BookingRejected.
type BookAppointmentResult struct {
	State         BookingState
	AppointmentID string
	Trainer       identity.Identity
	Err           error
}

// ExecuteBookAppointment runs the booking flow:
// Received -> TrainerValidated -> Persisted, or Rejected with a reason.
// Single attempt, no retries; the caller surfaces the terminal state
// directly. The trainer-validation read happens-before the write.
// PRE: Input fields supplied by the caller, untrusted
// POST: Appointment persisted exactly when State == BookingPersisted
func ExecuteBookAppointment(ctx context.Context, input BookAppointmentInput, deps BookAppointmentDeps) BookAppointmentResult {
	// Received -> Rejected on trainer reference problems
	trainer, err := ExecuteValidateTrainer(ctx, input.TrainerID, ValidateTrainerDeps{IdentityStore: deps.IdentityStore})
	if err != nil {
		slog.Info("booking_event", "event", "booking_rejected", "reason", err.Error(), "trainer_id", input.TrainerID)
		return BookAppointmentResult{State: BookingRejected, Err: err}
	}

	// Received -> TrainerValidated
	appt := appointment.Appointment{
		ID:           uuid.New().String(),
		SubjectName:  input.SubjectName,
		SubjectEmail: input.SubjectEmail,
		TrainerID:    trainer.ID,
		Age:          input.Age,
		Gender:       input.Gender,
		Date:         input.Date,
		Time:         input.Time,
		Kind:         input.Kind,
		Phone:        input.Phone,
		CreatedAt:    time.Now(),
	}
	if err := appt.Validate(); err != nil {
		slog.Info("booking_event", "event", "booking_rejected", "reason", err.Error())
		return BookAppointmentResult{State: BookingRejected, Err: err}
	}

	// TrainerValidated -> Persisted | Rejected(storage)
	if err := deps.AppointmentStore.Create(ctx, appt); err != nil {
		slog.Error("booking_event", "event", "booking_store_failed", "error", err.Error())
		return BookAppointmentResult{State: BookingRejected, Err: fmt.Errorf("%w: %v", ErrStorageFault, err)}
	}

	slog.Info("booking_event", "event", "booking_persisted",
		"appointment_id", appt.ID, "trainer_id", trainer.ID, "date", appt.Date)

	// Confirmation email is best-effort and never changes the outcome.
	if deps.EmailSender != nil {
		sendBookingConfirmation(ctx, deps, appt, trainer)
	}

	return BookAppointmentResult{State: BookingPersisted, AppointmentID: appt.ID, Trainer: trainer}
}

// sendBookingConfirmation composes the confirmation email from a
// Markdown body and sends it. Failures are logged and swallowed.
func sendBookingConfirmation(ctx context.Context, deps BookAppointmentDeps, appt appointment.Appointment, trainer identity.Identity) {
	md := fmt.Sprintf(
		"# Booking confirmed\n\nHi %s,\n\nYour **%s** session with %s is booked for %s at %s.\n\nSee you at the studio.\n",
		appt.SubjectName, appt.Kind, trainer.DisplayName, appt.Date, appt.Time,
	)

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		slog.Error("booking_event", "event", "confirmation_render_failed", "error", err.Error())
		return
	}

	_, err := deps.EmailSender.Send(ctx, email.SendRequest{
		To:      []string{appt.SubjectEmail},
		From:    deps.EmailFrom,
		Subject: "Your appointment is confirmed",
		HTML:    buf.String(),
		ReplyTo: deps.EmailReplyTo,
	})
	if err != nil {
		slog.Error("booking_event", "event", "confirmation_send_failed", "error", err.Error())
	}
}
