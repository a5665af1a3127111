// Package config loads the API server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"sportsdesk/internal/infra/db"
)

// DBConfig selects the driver and tunes the pool.
type DBConfig struct {
	Driver          string        `env:"DB_DRIVER"             envDefault:"pgx"`
	URL             string        `env:"DATABASE_URL,notEmpty"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS"     envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS"     envDefault:"10"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME"  envDefault:"1h"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"30m"`
}

func (c DBConfig) Pool() db.ConnectionConfig {
	return db.ConnectionConfig{
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		ConnMaxIdleTime: c.ConnMaxIdleTime,
	}
}

// RateLimitConfig sets the per-IP budgets for the token endpoint and for
// account registration.
type RateLimitConfig struct {
	AuthLimit       int           `env:"AUTH_LIMIT"       envDefault:"5"`
	AuthWindow      time.Duration `env:"AUTH_WINDOW"      envDefault:"1m"`
	RegisterLimit   int           `env:"REGISTER_LIMIT"   envDefault:"10"`
	RegisterWindow  time.Duration `env:"REGISTER_WINDOW"  envDefault:"1h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"5m"`
	IdleTTL         time.Duration `env:"IDLE_TTL"         envDefault:"30m"`
}

type APIConfig struct {
	Addr    string `env:"HTTP_ADDR" envDefault:":8080"`
	Version string `env:"VERSION"   envDefault:"dev"`

	JWTSecret     string        `env:"JWT_SECRET,notEmpty"`
	JWTTTL        time.Duration `env:"JWT_TTL"       envDefault:"1h"`
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"true"`
	CSPReportOnly bool          `env:"CSP_REPORT_ONLY" envDefault:"false"`
	// TrustProxy makes X-Forwarded-For authoritative for rate limiting.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`

	DB             DBConfig
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"true"`
	SeedFile       string `env:"SEED_FILE"`

	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES"   envDefault:"1048576"`

	RateLimit RateLimitConfig `envPrefix:"RATELIMIT_"`
}

// MinSecretLength is 256 bits of key material for HS256.
const MinSecretLength = 32

var weakSecrets = []string{"secret", "password", "changeme", "default", "sportsdesk"}

// LoadAPI parses and validates the process environment.
func LoadAPI() (*APIConfig, error) {
	return loadAPI(env.Options{})
}

func loadAPI(opts env.Options) (*APIConfig, error) {
	cfg, err := env.ParseAsWithOptions[APIConfig](opts)
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateSecret(secret string) error {
	if len(secret) < MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", MinSecretLength)
	}
	lower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if strings.ReplaceAll(lower, weak, "") == "" {
			return fmt.Errorf("JWT_SECRET must not be a repetition of %q", weak)
		}
	}
	return nil
}

func (c *APIConfig) Validate() error {
	var errs []error
	if err := validateSecret(c.JWTSecret); err != nil {
		errs = append(errs, err)
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	switch c.DB.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q must be %s or %s", c.DB.Driver, db.DriverPostgres, db.DriverSQLite))
	}
	if c.DB.MaxOpenConns <= 0 || c.DB.MaxIdleConns < 0 {
		errs = append(errs, errors.New("DB pool sizes must be positive"))
	}
	if c.RequestTimeout <= 0 || c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT and SHUTDOWN_TIMEOUT must be positive"))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	rl := c.RateLimit
	if rl.AuthLimit <= 0 || rl.RegisterLimit <= 0 || rl.AuthWindow <= 0 || rl.RegisterWindow <= 0 {
		errs = append(errs, errors.New("rate limits and windows must be positive"))
	}
	if rl.CleanupInterval <= 0 || rl.IdleTTL <= 0 {
		errs = append(errs, errors.New("RATELIMIT_CLEANUP_INTERVAL and RATELIMIT_IDLE_TTL must be positive"))
	}
	return errors.Join(errs...)
}
