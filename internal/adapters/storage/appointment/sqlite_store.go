package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"studio/internal/adapters/storage"
	domain "studio/internal/domain/appointment"
)

// ErrNotFound is returned when no appointment matches the given ID.
var ErrNotFound = errors.New("appointment not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new AppointmentStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const appointmentColumns = "id, subject_name, subject_email, trainer_id, age, gender, date, time, kind, phone, created_at"

// Create inserts a new Appointment.
// PRE: entity has been validated and its trainer reference resolved
// POST: Entity is persisted
func (s *SQLiteStore) Create(ctx context.Context, entity domain.Appointment) error {
	query := fmt.Sprintf("INSERT INTO appointment (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", appointmentColumns)
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.SubjectName,
		entity.SubjectEmail,
		entity.TrainerID,
		entity.Age,
		entity.Gender,
		entity.Date,
		entity.Time,
		entity.Kind,
		entity.Phone,
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// GetByID retrieves an Appointment by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Appointment, error) {
	query := fmt.Sprintf("SELECT %s FROM appointment WHERE id = ?", appointmentColumns)
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanAppointment(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Appointment{}, ErrNotFound
	}
	return entity, err
}

// ListByTrainer retrieves all appointments booked with the given trainer.
// PRE: trainerID is non-empty
// POST: Returns matching entities ordered by date then time
func (s *SQLiteStore) ListByTrainer(ctx context.Context, trainerID string) ([]domain.Appointment, error) {
	query := fmt.Sprintf("SELECT %s FROM appointment WHERE trainer_id = ? ORDER BY date, time", appointmentColumns)
	rows, err := s.db.QueryContext(ctx, query, trainerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

// List retrieves Appointments based on the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Appointment, error) {
	var queryBuilder strings.Builder
	var args []interface{}

	queryBuilder.WriteString(fmt.Sprintf("SELECT %s FROM appointment", appointmentColumns))

	if filter.Date != "" {
		queryBuilder.WriteString(" WHERE date = ?")
		args = append(args, filter.Date)
	}

	queryBuilder.WriteString(" ORDER BY date, time")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func collectAppointments(rows *sql.Rows) ([]domain.Appointment, error) {
	var results []domain.Appointment
	for rows.Next() {
		entity, err := scanAppointment(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanAppointment extracts an Appointment from a row scanner function.
func scanAppointment(scan func(dest ...interface{}) error) (domain.Appointment, error) {
	var entity domain.Appointment
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.SubjectName,
		&entity.SubjectEmail,
		&entity.TrainerID,
		&entity.Age,
		&entity.Gender,
		&entity.Date,
		&entity.Time,
		&entity.Kind,
		&entity.Phone,
		&createdAt,
	)
	if err != nil {
		return domain.Appointment{}, err
	}
	entity.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return entity, nil
}
