package payment

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"studio/internal/adapters/storage"
	domain "studio/internal/domain/payment"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new PaymentStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const paymentColumns = "id, member_email, amount_cents, method, plan_name, paid_at"

// Create inserts a new Payment record.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Create(ctx context.Context, entity domain.Payment) error {
	query := fmt.Sprintf("INSERT INTO payment (%s) VALUES (?, ?, ?, ?, ?, ?)", paymentColumns)
	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.MemberEmail,
		entity.AmountCents,
		entity.Method,
		entity.PlanName,
		entity.PaidAt.Format(time.RFC3339Nano),
	)
	return err
}

// ListByMember retrieves payments recorded for the given member email.
// PRE: memberEmail is non-empty
// POST: Returns matching entities, newest first
func (s *SQLiteStore) ListByMember(ctx context.Context, memberEmail string) ([]domain.Payment, error) {
	query := fmt.Sprintf("SELECT %s FROM payment WHERE member_email = ? ORDER BY paid_at DESC", paymentColumns)
	rows, err := s.db.QueryContext(ctx, query, memberEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayments(rows)
}

// List retrieves Payments based on the filter.
// PRE: filter has valid parameters
// POST: Returns matching entities
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Payment, error) {
	var queryBuilder strings.Builder
	var args []interface{}

	queryBuilder.WriteString(fmt.Sprintf("SELECT %s FROM payment", paymentColumns))

	if filter.Method != "" {
		queryBuilder.WriteString(" WHERE method = ?")
		args = append(args, filter.Method)
	}

	queryBuilder.WriteString(" ORDER BY paid_at DESC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPayments(rows)
}

func collectPayments(rows *sql.Rows) ([]domain.Payment, error) {
	var results []domain.Payment
	for rows.Next() {
		entity, err := scanPayment(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// scanPayment extracts a Payment from a row scanner function.
func scanPayment(scan func(dest ...interface{}) error) (domain.Payment, error) {
	var entity domain.Payment
	var paidAt string
	err := scan(
		&entity.ID,
		&entity.MemberEmail,
		&entity.AmountCents,
		&entity.Method,
		&entity.PlanName,
		&paidAt,
	)
	if err != nil {
		return domain.Payment{}, err
	}
	entity.PaidAt, _ = time.Parse(time.RFC3339Nano, paidAt)
	return entity, nil
}
