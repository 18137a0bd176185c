package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clearskies/clearskies/internal/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := config.FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "data/granules", cfg.DataDir)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 1000, cfg.CacheMaxEntries)
	assert.False(t, cfg.TelemetryEnabled)
	assert.False(t, cfg.RefreshEnabled)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Empty(t, cfg.FIRMSAPIKey)
	assert.Empty(t, cfg.OpenAIAPIKey)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("TEMPO_DATA_DIR", "/var/lib/clearskies/granules")
	t.Setenv("CACHE_TTL_SECONDS", "600")
	t.Setenv("CACHE_MAX_ENTRIES", "50")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("REFRESH_ENABLED", "true")
	t.Setenv("REFRESH_INTERVAL", "5m")
	t.Setenv("FIRMS_API_KEY", "firms-key")

	cfg := config.FromEnv()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "/var/lib/clearskies/granules", cfg.DataDir)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 50, cfg.CacheMaxEntries)
	assert.True(t, cfg.TelemetryEnabled)
	assert.True(t, cfg.RefreshEnabled)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, "firms-key", cfg.FIRMSAPIKey)
}
