package config

import (
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportsdesk/internal/infra/db"
)

const goodSecret = "0123456789abcdef0123456789abcdef"

func envWith(kv ...string) env.Options {
	m := map[string]string{
		"JWT_SECRET":   goodSecret,
		"DATABASE_URL": "postgres://localhost/sportsdesk",
	}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return env.Options{Environment: m}
}

func TestLoadAPI_Defaults(t *testing.T) {
	cfg, err := loadAPI(envWith())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "dev", cfg.Version)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.CookieSecure)
	assert.False(t, cfg.TrustProxy)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, db.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, db.DefaultConnectionConfig(), cfg.DB.Pool())
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 5, cfg.RateLimit.AuthLimit)
	assert.Equal(t, time.Minute, cfg.RateLimit.AuthWindow)
	assert.Equal(t, 10, cfg.RateLimit.RegisterLimit)
	assert.Equal(t, time.Hour, cfg.RateLimit.RegisterWindow)
}

func TestLoadAPI_Overrides(t *testing.T) {
	cfg, err := loadAPI(envWith(
		"HTTP_ADDR", "127.0.0.1:9000",
		"DB_DRIVER", "sqlite",
		"DATABASE_URL", "/tmp/sportsdesk.db",
		"SEED_FILE", "seeds/leagues.yaml",
		"JWT_TTL", "30m",
		"COOKIE_SECURE", "false",
		"TRUST_PROXY", "true",
		"RATELIMIT_AUTH_LIMIT", "3",
		"RATELIMIT_AUTH_WINDOW", "10s",
	))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, db.DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "/tmp/sportsdesk.db", cfg.DB.URL)
	assert.Equal(t, "seeds/leagues.yaml", cfg.SeedFile)
	assert.Equal(t, 30*time.Minute, cfg.JWTTTL)
	assert.False(t, cfg.CookieSecure)
	assert.True(t, cfg.TrustProxy)
	assert.Equal(t, 3, cfg.RateLimit.AuthLimit)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.AuthWindow)
}

func TestLoadAPI_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts env.Options
		want string
	}{
		{"missing secret", env.Options{Environment: map[string]string{"DATABASE_URL": "x"}}, "JWT_SECRET"},
		{"missing database url", env.Options{Environment: map[string]string{"JWT_SECRET": goodSecret}}, "DATABASE_URL"},
		{"short secret", envWith("JWT_SECRET", "short"), "at least 32"},
		{"weak secret", envWith("JWT_SECRET", strings.Repeat("secret", 6)), "repetition"},
		{"unknown driver", envWith("DB_DRIVER", "mysql"), "DB_DRIVER"},
		{"bad duration", envWith("JWT_TTL", "forever"), "JWT_TTL"},
		{"negative ttl", envWith("JWT_TTL", "-1h"), "JWT_TTL must be positive"},
		{"zero rate limit", envWith("RATELIMIT_REGISTER_LIMIT", "0"), "rate limits"},
		{"zero body", envWith("MAX_BODY_BYTES", "0"), "MAX_BODY_BYTES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadAPI(tt.opts)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg, err := loadAPI(envWith())
	require.NoError(t, err)

	cfg.JWTSecret = "x"
	cfg.DB.Driver = "oracle"
	cfg.ShutdownTimeout = 0

	err = cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"JWT_SECRET", "DB_DRIVER", "SHUTDOWN_TIMEOUT"} {
		assert.Contains(t, err.Error(), want)
	}
}
