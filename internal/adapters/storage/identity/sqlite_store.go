package identity

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"studio/internal/adapters/storage"
	domain "studio/internal/domain/identity"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new IdentityStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const identityColumns = "id, email, username, display_name, password_hash, role, created_at"

// Create inserts a new Identity. Identities are never updated in this
// flow, so this is a plain INSERT; the UNIQUE constraints on email and
// username make the uniqueness check and the insert atomic.
// PRE: entity has been validated
// POST: Entity is persisted, or a duplicate error is returned
func (s *SQLiteStore) Create(ctx context.Context, entity domain.Identity) error {
	query := fmt.Sprintf("INSERT INTO identity (%s) VALUES (?, ?, ?, ?, ?, ?, ?)", identityColumns)
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Email,
		entity.Username,
		entity.DisplayName,
		entity.PasswordHash,
		entity.Role,
		entity.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

// GetByID retrieves an Identity by its ID.
// PRE: id is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Identity, error) {
	query := fmt.Sprintf("SELECT %s FROM identity WHERE id = ?", identityColumns)
	row := s.db.QueryRowContext(ctx, query, id)

	entity, err := scanIdentity(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Identity{}, ErrNotFound
	}
	return entity, err
}

// GetByEmail retrieves an Identity by email.
// PRE: email is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Identity, error) {
	query := fmt.Sprintf("SELECT %s FROM identity WHERE email = ?", identityColumns)
	row := s.db.QueryRowContext(ctx, query, email)

	entity, err := scanIdentity(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Identity{}, ErrNotFound
	}
	return entity, err
}

// GetByUsername retrieves an Identity by username.
// PRE: username is non-empty
// POST: Returns the entity or ErrNotFound
func (s *SQLiteStore) GetByUsername(ctx context.Context, username string) (domain.Identity, error) {
	query := fmt.Sprintf("SELECT %s FROM identity WHERE username = ?", identityColumns)
	row := s.db.QueryRowContext(ctx, query, username)

	entity, err := scanIdentity(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Identity{}, ErrNotFound
	}
	return entity, err
}

// List retrieves Identities based on the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Identity, error) {
	var queryBuilder strings.Builder
	var args []interface{}

	queryBuilder.WriteString(fmt.Sprintf("SELECT %s FROM identity", identityColumns))

	if filter.Role != "" {
		queryBuilder.WriteString(" WHERE role = ?")
		args = append(args, filter.Role)
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Identity
	for rows.Next() {
		entity, err := scanIdentity(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the total number of identities.
// PRE: none
// POST: Returns total identity count
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM identity").Scan(&count)
	return count, err
}

// mapUniqueViolation converts a SQLite unique-constraint failure into
// the matching sentinel error, identifying the column from the message.
func mapUniqueViolation(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return err
	}
	if strings.Contains(msg, "identity.username") {
		return ErrDuplicateUsername
	}
	return ErrDuplicateEmail
}

// scanIdentity extracts an Identity from a row scanner function.
func scanIdentity(scan func(dest ...interface{}) error) (domain.Identity, error) {
	var entity domain.Identity
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.Username,
		&entity.DisplayName,
		&entity.PasswordHash,
		&entity.Role,
		&createdAt,
	)
	if err != nil {
		return domain.Identity{}, err
	}
	entity.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("scan identity %s: %w", entity.ID, err)
	}
	return entity, nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", s)
}
