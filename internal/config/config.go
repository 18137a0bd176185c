// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the ClearSkies service.
type Config struct {
	// Port the HTTP server listens on.
	Port string

	// Environment name (development, staging, production).
	Environment string

	// DataDir holds the TEMPO granule files.
	DataDir string

	// CacheTTL is the freshness window for location caches.
	CacheTTL time.Duration

	// CacheMaxEntries bounds each location cache.
	CacheMaxEntries int

	// OTLPEndpoint receives traces and metrics when telemetry is enabled.
	OTLPEndpoint string

	// TelemetryEnabled turns OpenTelemetry export on.
	TelemetryEnabled bool

	// FIRMSAPIKey authenticates against the NASA FIRMS fire API.
	// Empty means the wildfire service serves sample data.
	FIRMSAPIKey string

	// OpenAIAPIKey authenticates the insights chat client.
	// Empty means insights always serve fallback content.
	OpenAIAPIKey string

	// OpenAIBaseURL overrides the chat API endpoint, for compatible
	// self-hosted models.
	OpenAIBaseURL string

	// RefreshEnabled starts the in-process cache warming loop.
	RefreshEnabled bool

	// RefreshInterval between cache warming passes.
	RefreshInterval time.Duration
}

// FromEnv loads configuration from environment variables, applying
// defaults for anything unset.
func FromEnv() Config {
	cacheTTLSeconds, _ := strconv.Atoi(getEnvOrDefault("CACHE_TTL_SECONDS", "1800"))
	maxEntries, _ := strconv.Atoi(getEnvOrDefault("CACHE_MAX_ENTRIES", "1000"))
	refreshInterval, _ := time.ParseDuration(getEnvOrDefault("REFRESH_INTERVAL", "15m"))

	return Config{
		Port:             getEnvOrDefault("APP_PORT", "8080"),
		Environment:      getEnvOrDefault("APP_ENV", "development"),
		DataDir:          getEnvOrDefault("TEMPO_DATA_DIR", "data/granules"),
		CacheTTL:         time.Duration(cacheTTLSeconds) * time.Second,
		CacheMaxEntries:  maxEntries,
		OTLPEndpoint:     getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TelemetryEnabled: os.Getenv("OTEL_ENABLED") == "true",
		FIRMSAPIKey:      os.Getenv("FIRMS_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
		RefreshEnabled:   os.Getenv("REFRESH_ENABLED") == "true",
		RefreshInterval:  refreshInterval,
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
