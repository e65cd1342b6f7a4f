package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Create tables. Uniqueness of identity email and username lives
	// here, at the storage layer; application-side existence checks are
	// a pre-flight optimization only.
	schema := `
	CREATE TABLE IF NOT EXISTS identity (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS appointment (
		id TEXT PRIMARY KEY,
		subject_name TEXT NOT NULL,
		subject_email TEXT NOT NULL,
		trainer_id TEXT NOT NULL,
		age INTEGER NOT NULL DEFAULT 0,
		gender TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		kind TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		FOREIGN KEY (trainer_id) REFERENCES identity(id)
	);

	CREATE TABLE IF NOT EXISTS payment (
		id TEXT PRIMARY KEY,
		member_email TEXT NOT NULL,
		amount_cents INTEGER NOT NULL,
		method TEXT NOT NULL,
		plan_name TEXT NOT NULL DEFAULT '',
		paid_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// migration is a single schema change applied in order.
type migration struct {
	version int
	sql     string
}

// migrations are applied once each, tracked in schema_version.
// Version 1 is the baseline schema created by InitDB.
var migrations = []migration{
	{2, "CREATE INDEX IF NOT EXISTS idx_appointment_trainer ON appointment(trainer_id)"},
	{3, "CREATE INDEX IF NOT EXISTS idx_payment_member ON payment(member_email)"},
}

// MigrateDB creates the baseline schema and applies pending migrations.
// PRE: db is a valid database connection
// POST: Schema is at the latest version
func MigrateDB(db *sql.DB) error {
	if err := InitDB(db); err != nil {
		return err
	}

	var current int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 1) FROM schema_version").Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := db.Exec(m.sql); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		if _, err := db.Exec(
			"INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
			m.version, time.Now().UTC().Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
	}

	return nil
}
