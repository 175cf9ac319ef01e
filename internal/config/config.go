package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Placeholder connection values shipped in sample configuration. They count
// as "not configured".
const (
	PlaceholderSupabaseURL = "YOUR_SUPABASE_PROJECT_URL"
	PlaceholderSupabaseKey = "YOUR_SUPABASE_ANON_KEY"
)

const (
	RemoteDriverPostgREST = "postgrest"
	RemoteDriverPostgres  = "postgres"
)

const (
	LocalStoreMemory = "memory"
	LocalStoreSQLite = "sqlite"
	LocalStoreRedis  = "redis"
)

type Config struct {
	// Supabase
	SupabaseURL            string `env:"SUPABASE_URL"`
	SupabasePublishableKey string `env:"SUPABASE_PUBLISHABLE_KEY"`
	SupabaseStorageBucket  string `env:"SUPABASE_STORAGE_BUCKET" envDefault:"order-attachments"`

	// Remote order table
	RemoteDriver string `env:"REMOTE_DRIVER" envDefault:"postgrest"`
	DatabaseURL  string `env:"DATABASE_URL"`

	// Local cache
	LocalStore           string `env:"LOCAL_STORE" envDefault:"sqlite"`
	LocalStorePath       string `env:"LOCAL_STORE_PATH" envDefault:"designhub.db"`
	RedisAddr            string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	LocalStoreQuotaBytes int    `env:"LOCAL_STORE_QUOTA_BYTES" envDefault:"5242880"`

	// Admin
	AdminUsername     string        `env:"ADMIN_USERNAME"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	AdminJWTSecret    string        `env:"ADMIN_JWT_SECRET"`
	AdminTokenTTL     time.Duration `env:"ADMIN_TOKEN_TTL" envDefault:"12h"`

	// Server
	Port               string   `env:"PORT" envDefault:"8080"`
	Environment        string   `env:"ENVIRONMENT" envDefault:"development"`
	BaseURL            string   `env:"BASE_URL" envDefault:"http://localhost:8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	OrderRateLimit     float64  `env:"ORDER_RATE_LIMIT" envDefault:"0.2"`
	OrderRateBurst     int      `env:"ORDER_RATE_BURST" envDefault:"5"`

	// Tracing
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.AdminUsername == "" {
		return fmt.Errorf("ADMIN_USERNAME is required")
	}
	if c.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD_HASH is required")
	}
	if c.AdminJWTSecret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET is required")
	}
	switch c.RemoteDriver {
	case RemoteDriverPostgREST, RemoteDriverPostgres:
	default:
		return fmt.Errorf("REMOTE_DRIVER must be %q or %q", RemoteDriverPostgREST, RemoteDriverPostgres)
	}
	switch c.LocalStore {
	case LocalStoreMemory, LocalStoreSQLite, LocalStoreRedis:
	default:
		return fmt.Errorf("LOCAL_STORE must be one of memory, sqlite, redis")
	}
	return nil
}

// SupabaseConfigured reports whether real Supabase credentials were supplied.
func (c *Config) SupabaseConfigured() bool {
	url := strings.TrimSpace(c.SupabaseURL)
	key := strings.TrimSpace(c.SupabasePublishableKey)
	return url != "" && key != "" &&
		url != PlaceholderSupabaseURL && key != PlaceholderSupabaseKey
}

// RemoteConfigured reports whether the selected remote driver has what it needs.
func (c *Config) RemoteConfigured() bool {
	if c.RemoteDriver == RemoteDriverPostgres {
		return c.DatabaseURL != ""
	}
	return c.SupabaseConfigured()
}
