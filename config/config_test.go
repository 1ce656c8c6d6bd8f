package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 4, cfg.App.BodyLimitMB)
	assert.Equal(t, 60*time.Second, cfg.App.RateLimitWindow)
	assert.Equal(t, 8, cfg.Billing.BulkDeleteConcurrency)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "billing")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "orders")
	t.Setenv("JWT_SECRET", "fallback")
	t.Setenv("APP_TIMEZONE", "Asia/Kolkata")
	t.Setenv("BULK_DELETE_CONCURRENCY", "3")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "5")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "fallback", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Auth.Enabled())
	assert.Equal(t, 3, cfg.Billing.BulkDeleteConcurrency)
	assert.Equal(t, 5*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, "Asia/Kolkata", cfg.App.Location().String())
	assert.Equal(t,
		"host=db user=billing password=secret dbname=orders port=5432 sslmode=disable TimeZone=UTC",
		cfg.Database.DSN())
}

func TestLoadPrefersJWTSecretKey(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "primary")
	t.Setenv("JWT_SECRET", "fallback")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "primary", cfg.Auth.JWTSecret)
}

func TestLoadReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("RATE_LIMIT_MAX=15\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("RATE_LIMIT_MAX") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.App.RateLimitMax)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"APP_TIMEZONE":            "Mars/Olympus",
		"BODY_LIMIT_MB":           "0",
		"BULK_DELETE_CONCURRENCY": "-1",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
