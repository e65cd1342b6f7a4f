package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	_ "modernc.org/sqlite"

	emailPkg "studio/internal/adapters/email"
	web "studio/internal/adapters/http"
	"studio/internal/adapters/http/metrics"
	"studio/internal/adapters/storage"
	appointmentStore "studio/internal/adapters/storage/appointment"
	identityStore "studio/internal/adapters/storage/identity"
	paymentStore "studio/internal/adapters/storage/payment"
	"studio/internal/application/orchestrators"
	"studio/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	// Health check: an unreachable store is fatal at startup
	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	log.Println("Database initialized successfully!")

	// Metrics: one registry for the whole process; DB access is wrapped
	// with timing that feeds the query-latency histogram
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	timedDB := storage.NewTimedDB(db, collector)

	idStore := identityStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		IdentityStore:    idStore,
		AppointmentStore: appointmentStore.NewSQLiteStore(timedDB),
		PaymentStore:     paymentStore.NewSQLiteStore(timedDB),
	}

	// Seed default admin identity if none exist
	adminPassword := cfg.AdminPassword
	if adminPassword == "" {
		adminPassword = "changeme-now" // dev only; config.Load rejects this in production
	}
	seedDeps := orchestrators.SignupDeps{IdentityStore: idStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, cfg.AdminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Configure email sender
	if cfg.ResendAPIKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom), cfg.EmailFrom, cfg.EmailReplyTo)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), cfg.EmailFrom, cfg.EmailReplyTo)
		if cfg.IsProduction() {
			log.Println("WARNING: STUDIO_RESEND_API_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set STUDIO_RESEND_API_KEY for real delivery)")
		}
	}

	handler := web.NewMux(cfg, stores, collector, registry)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("studio server %s listening on %s (static dir %s)", version, addr, cfg.StaticDir)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
