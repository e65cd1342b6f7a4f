package payment_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"studio/internal/adapters/storage"
	paymentStore "studio/internal/adapters/storage/payment"
	domain "studio/internal/domain/payment"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLiteStore_CreateAndListByMember(t *testing.T) {
	db := openTestDB(t)
	store := paymentStore.NewSQLiteStore(db)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for _, p := range []domain.Payment{
		{ID: "p1", MemberEmail: "a@studio.local", AmountCents: 5000, Method: domain.MethodCash, PaidAt: base},
		{ID: "p2", MemberEmail: "a@studio.local", AmountCents: 12000, Method: domain.MethodCard, PlanName: "monthly", PaidAt: base.Add(24 * time.Hour)},
		{ID: "p3", MemberEmail: "b@studio.local", AmountCents: 100, Method: domain.MethodBank, PaidAt: base},
	} {
		if err := store.Create(ctx, p); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	list, err := store.ListByMember(ctx, "a@studio.local")
	if err != nil {
		t.Fatalf("ListByMember failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(list))
	}
	// Newest first
	if list[0].ID != "p2" || list[1].ID != "p1" {
		t.Errorf("wrong order: %s, %s", list[0].ID, list[1].ID)
	}
	if list[0].AmountCents != 12000 || list[0].PlanName != "monthly" {
		t.Errorf("fields not round-tripped: %+v", list[0])
	}
}

func TestSQLiteStore_List_FilterByMethod(t *testing.T) {
	db := openTestDB(t)
	store := paymentStore.NewSQLiteStore(db)
	ctx := context.Background()

	now := time.Now()
	for _, p := range []domain.Payment{
		{ID: "p1", MemberEmail: "a@studio.local", AmountCents: 100, Method: domain.MethodCash, PaidAt: now},
		{ID: "p2", MemberEmail: "b@studio.local", AmountCents: 200, Method: domain.MethodCard, PaidAt: now},
	} {
		if err := store.Create(ctx, p); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	cash, err := store.List(ctx, paymentStore.ListFilter{Method: domain.MethodCash})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(cash) != 1 || cash[0].ID != "p1" {
		t.Errorf("method filter wrong: %+v", cash)
	}
}
