package appointment

import (
	"errors"
	"strings"
	"time"
)

// Appointment kind constants
const (
	KindPersonalTraining = "personal_training"
	KindAssessment       = "assessment"
	KindConsultation     = "consultation"
)

// ValidKinds contains all valid appointment kinds.
var ValidKinds = []string{KindPersonalTraining, KindAssessment, KindConsultation}

// Domain errors
var (
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrEmptyEmail    = errors.New("email cannot be empty")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrEmptyTrainer  = errors.New("trainer must be selected")
	ErrEmptyDate     = errors.New("date cannot be empty")
	ErrInvalidDate   = errors.New("date must be in YYYY-MM-DD format")
	ErrEmptyTime     = errors.New("time cannot be empty")
	ErrInvalidKind   = errors.New("kind must be one of: personal_training, assessment, consultation")
	ErrInvalidAge    = errors.New("age must be between 1 and 120")
)

// Appointment holds a booked session between a member and a trainer.
// TrainerID is a non-owning reference to an Identity with role trainer;
// it is validated at creation time and records are never mutated after.
type Appointment struct {
	ID           string
	SubjectName  string
	SubjectEmail string
	TrainerID    string
	Age          int
	Gender       string
	Date         string // YYYY-MM-DD
	Time         string // HH:MM
	Kind         string
	Phone        string
	CreatedAt    time.Time
}

// Validate checks if the Appointment has valid data. Trainer existence
// and role are checked by the booking flow, not here.
// PRE: Appointment struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Appointment) Validate() error {
	if strings.TrimSpace(a.SubjectName) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(a.SubjectEmail) == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(a.SubjectEmail, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(a.TrainerID) == "" {
		return ErrEmptyTrainer
	}
	if strings.TrimSpace(a.Date) == "" {
		return ErrEmptyDate
	}
	if _, err := time.Parse("2006-01-02", a.Date); err != nil {
		return ErrInvalidDate
	}
	if strings.TrimSpace(a.Time) == "" {
		return ErrEmptyTime
	}
	if !isValidKind(a.Kind) {
		return ErrInvalidKind
	}
	if a.Age != 0 && (a.Age < 1 || a.Age > 120) {
		return ErrInvalidAge
	}
	return nil
}

func isValidKind(kind string) bool {
	for _, k := range ValidKinds {
		if k == kind {
			return true
		}
	}
	return false
}
