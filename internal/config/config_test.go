package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PROFILE_CACHE_TTL", "")
	t.Setenv("SUMMARY_MAX_INPUT", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 5*time.Minute, cfg.ProfileCacheTTL)
	assert.Equal(t, 8000, cfg.SummaryMaxInput)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("PROFILE_CACHE_TTL", "90s")
	t.Setenv("LOG_DEVELOPMENT", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 90*time.Second, cfg.ProfileCacheTTL)
	assert.True(t, cfg.LogDevelopment)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("PROFILE_CACHE_TTL", "soon")
	t.Setenv("LOG_DEVELOPMENT", "maybe")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 5*time.Minute, cfg.ProfileCacheTTL)
	assert.False(t, cfg.LogDevelopment)
}
