package appointment_test

import (
	"errors"
	"testing"

	"studio/internal/domain/appointment"
)

func validAppointment() appointment.Appointment {
	return appointment.Appointment{
		ID:           "a1",
		SubjectName:  "Jordan Smith",
		SubjectEmail: "jordan@studio.local",
		TrainerID:    "t1",
		Age:          30,
		Gender:       "female",
		Date:         "2024-05-01",
		Time:         "10:30",
		Kind:         appointment.KindPersonalTraining,
		Phone:        "021 555 0123",
	}
}

// TestAppointment_Validate tests validation of Appointment.
func TestAppointment_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*appointment.Appointment)
		wantErr error
	}{
		{"valid", func(a *appointment.Appointment) {}, nil},
		{"empty name", func(a *appointment.Appointment) { a.SubjectName = "" }, appointment.ErrEmptyName},
		{"empty email", func(a *appointment.Appointment) { a.SubjectEmail = "" }, appointment.ErrEmptyEmail},
		{"email without at sign", func(a *appointment.Appointment) { a.SubjectEmail = "nope" }, appointment.ErrInvalidEmail},
		{"empty trainer", func(a *appointment.Appointment) { a.TrainerID = "" }, appointment.ErrEmptyTrainer},
		{"empty date", func(a *appointment.Appointment) { a.Date = "" }, appointment.ErrEmptyDate},
		{"bad date format", func(a *appointment.Appointment) { a.Date = "01/05/2024" }, appointment.ErrInvalidDate},
		{"empty time", func(a *appointment.Appointment) { a.Time = "" }, appointment.ErrEmptyTime},
		{"bad kind", func(a *appointment.Appointment) { a.Kind = "massage" }, appointment.ErrInvalidKind},
		{"age out of range", func(a *appointment.Appointment) { a.Age = 300 }, appointment.ErrInvalidAge},
		{"age zero is allowed", func(a *appointment.Appointment) { a.Age = 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAppointment()
			tt.mutate(&a)
			err := a.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
