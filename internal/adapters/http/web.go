package web

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"studio/internal/adapters/email"
	"studio/internal/adapters/http/metrics"
	"studio/internal/adapters/http/middleware"
	appointmentStore "studio/internal/adapters/storage/appointment"
	identityStore "studio/internal/adapters/storage/identity"
	paymentStore "studio/internal/adapters/storage/payment"
	"studio/internal/config"
)

// Stores holds all storage dependencies.
type Stores struct {
	IdentityStore    identityStore.Store
	AppointmentStore appointmentStore.Store
	PaymentStore     paymentStore.Store
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global metrics collector (set by NewMux)
var collector *metrics.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// loadCSRFKey decodes the configured CSRF secret (hex-encoded, 32
// bytes). In development an empty key falls back to a random one
// generated per startup; config.Load has already enforced presence in
// production.
func loadCSRFKey(cfg *config.Config) []byte {
	if cfg.CSRFKey != "" {
		key, err := hex.DecodeString(cfg.CSRFKey)
		if err != nil || len(key) != 32 {
			log.Fatal("STUDIO_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (form tokens won't survive restart). Set STUDIO_CSRF_KEY for production.")
	return key
}

// NewMux wires HTTP handlers for the app.
func NewMux(cfg *config.Config, s *Stores, c *metrics.Collector, gatherer prometheus.Gatherer) http.Handler {
	stores = s
	collector = c
	sessions = middleware.NewSessionStoreWithMaxAge(time.Duration(cfg.SessionMaxAge) * time.Second)
	middleware.SecureCookies = cfg.IsProduction()

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))
	registerRoutes(mux, gatherer)

	csrfKey := loadCSRFKey(cfg)

	// Apply middleware: Metrics -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, cfg.IsProduction(), trustedOrigins(cfg)),
		middleware.Auth(sessions),
		metrics.Middleware(c),
	)
}

// trustedOrigins lists the host:port forms the server answers on, for
// CSRF origin checking on form submissions.
func trustedOrigins(cfg *config.Config) []string {
	return []string{
		fmt.Sprintf("localhost:%d", cfg.Port),
		fmt.Sprintf("127.0.0.1:%d", cfg.Port),
	}
}
