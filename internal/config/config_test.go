package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTExpiresIn)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "0 0 3 * * *", cfg.Schedule.Cleanup)
	assert.NotEmpty(t, cfg.Auth.JWTSecret)
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestUnsetEnvNeedsSecret(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "a-real-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "a-real-secret", cfg.Auth.JWTSecret)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "hvac", Password: "p@ss", Name: "hvac", SSLMode: "disable"}
	assert.Equal(t, "postgres://hvac:p%40ss@db:5432/hvac?sslmode=disable", d.DSN())

	d.URL = "postgres://other"
	assert.Equal(t, "postgres://other", d.DSN())
}

func TestStringMasksSecret(t *testing.T) {
	cfg := &Config{Auth: AuthConfig{JWTSecret: "supersecretvalue"}}
	s := cfg.String()
	assert.NotContains(t, s, "supersecretvalue")
	assert.Contains(t, s, "su****ue")
}
