package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "production") // skip .env loading
	t.Setenv("DATABASE_URL", "postgres://localhost/familytask")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, int32(25), cfg.Database.MaxConns)
	assert.Equal(t, int32(2), cfg.Database.MinConns)
	assert.Equal(t, "familytask", cfg.Auth.JWTIssuer)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/familytask")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("DB_MAX_CONNS", "50")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 2*time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, int32(50), cfg.Database.MaxConns)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestValidateMissingDatabaseURL(t *testing.T) {
	cfg := &Config{
		Auth: AuthConfig{JWTSecret: "x"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestValidateMissingJWTSecret(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{URL: "postgres://localhost/x"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateWebhookSecretsOptional(t *testing.T) {
	// Missing webhook secrets are not a startup error: the endpoints
	// they guard reject everything instead.
	cfg := &Config{
		Database: DatabaseConfig{URL: "postgres://localhost/x", MaxConns: 10, MinConns: 1},
		Auth:     AuthConfig{JWTSecret: "x"},
	}
	assert.NoError(t, cfg.Validate())
}

func TestValidateConnBounds(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{URL: "postgres://localhost/x", MaxConns: 2, MinConns: 10},
		Auth:     AuthConfig{JWTSecret: "x"},
	}
	assert.Error(t, cfg.Validate())
}

func TestGetIntEnvBadValue(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	assert.Equal(t, 7, getIntEnv("SOME_INT", 7))
}

func TestGetDurationEnvBadValue(t *testing.T) {
	t.Setenv("SOME_DURATION", "eleventy")
	assert.Equal(t, time.Minute, getDurationEnv("SOME_DURATION", time.Minute))
}
