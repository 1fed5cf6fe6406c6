package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"SERVER_PORT", "PORT", "DATABASE_URL", "SECRET_KEY", "ADMIN_USER", "ADMIN_PASS",
		"REDIS_ADDR", "REDIS_DB", "SESSION_TTL", "COOKIE_SECURE", "RESET_DB",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, DefaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, "changeme", cfg.SecretKey)
	assert.Empty(t, cfg.AdminUser)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.CookieSecure)
	assert.False(t, cfg.ResetDB)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PORT", "10000")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/pai")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("ADMIN_USER", "admin")
	t.Setenv("ADMIN_PASS", "x")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()

	assert.Equal(t, "10000", cfg.ServerPort)
	assert.Equal(t, "postgres://u:p@db:5432/pai", cfg.DatabaseURL)
	assert.Equal(t, "s3cret", cfg.SecretKey)
	assert.Equal(t, "admin", cfg.AdminUser)
	assert.Equal(t, "x", cfg.AdminPass)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.CookieSecure)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("SESSION_TTL", "-5m")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.CookieSecure)
}
