package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server
	Port      int
	Env       string // "production" or anything else for development
	StaticDir string

	// Database
	DBPath string

	// CSRF key, hex-encoded 32 bytes. Required in production.
	CSRFKey string

	// Session
	SessionMaxAge int // seconds

	// Seed admin
	AdminEmail    string
	AdminPassword string

	// Email
	ResendAPIKey string
	EmailFrom    string
	EmailReplyTo string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnvInt("STUDIO_PORT", 8080),
		Env:           getEnv("STUDIO_ENV", "development"),
		StaticDir:     getEnv("STUDIO_STATIC_DIR", "static"),
		DBPath:        getEnv("STUDIO_DB", "studio.db"),
		CSRFKey:       getEnv("STUDIO_CSRF_KEY", ""),
		SessionMaxAge: getEnvInt("STUDIO_SESSION_MAX_AGE", 86400),
		AdminEmail:    getEnv("STUDIO_ADMIN_EMAIL", "admin@studio.local"),
		AdminPassword: getEnv("STUDIO_ADMIN_PASSWORD", ""),
		ResendAPIKey:  getEnv("STUDIO_RESEND_API_KEY", ""),
		EmailFrom:     getEnv("STUDIO_EMAIL_FROM", "Studio <noreply@studio.local>"),
		EmailReplyTo:  getEnv("STUDIO_EMAIL_REPLY_TO", ""),
	}

	if cfg.IsProduction() {
		if cfg.CSRFKey == "" {
			return nil, fmt.Errorf("STUDIO_CSRF_KEY is required in production")
		}
		if cfg.AdminPassword == "" {
			return nil, fmt.Errorf("STUDIO_ADMIN_PASSWORD is required in production")
		}
	}
	if cfg.CSRFKey != "" {
		key, err := hex.DecodeString(cfg.CSRFKey)
		if err != nil || len(key) != 32 {
			return nil, fmt.Errorf("STUDIO_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
	}

	return cfg, nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
