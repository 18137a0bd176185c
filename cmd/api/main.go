// Package main provides the entrypoint for the ClearSkies API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearskies/clearskies/internal/api"
	"github.com/clearskies/clearskies/internal/api/middleware"
	"github.com/clearskies/clearskies/internal/cache"
	"github.com/clearskies/clearskies/internal/conditions"
	"github.com/clearskies/clearskies/internal/config"
	"github.com/clearskies/clearskies/internal/forecast"
	"github.com/clearskies/clearskies/internal/geocode"
	"github.com/clearskies/clearskies/internal/ground"
	"github.com/clearskies/clearskies/internal/ground/openaq"
	"github.com/clearskies/clearskies/internal/insights"
	"github.com/clearskies/clearskies/internal/provider/resilience"
	"github.com/clearskies/clearskies/internal/telemetry"
	"github.com/clearskies/clearskies/internal/tempo"
	"github.com/clearskies/clearskies/internal/weather"
	"github.com/clearskies/clearskies/internal/weather/openmeteo"
	"github.com/clearskies/clearskies/internal/wildfire"
	"github.com/clearskies/clearskies/internal/wildfire/firms"
	"github.com/clearskies/clearskies/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "clearskies-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting ClearSkies API")

	cfg := config.FromEnv()

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.TelemetryEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Provider registry tracks circuit state for every upstream client.
	registry := resilience.NewRegistry()

	// Satellite granule store
	store := tempo.NewStore(tempo.StoreConfig{
		DataDir: cfg.DataDir,
		Logger:  log,
	})
	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("granules", store.GranuleCount()).
		Msg("granule store initialized")

	// Ground sensors
	groundService := ground.NewService(ground.ServiceConfig{
		Provider: openaq.NewClient(openaq.ClientConfig{Registry: registry}),
		Logger:   log,
	})

	// Weather
	weatherService := weather.NewService(weather.ServiceConfig{
		Provider:        openmeteo.NewClient(openmeteo.ClientConfig{Registry: registry}),
		Logger:          log,
		CacheMaxEntries: cfg.CacheMaxEntries,
	})

	// Conditions aggregates satellite, ground and weather data.
	conditionsService := conditions.NewService(conditions.ServiceConfig{
		Satellite:       store,
		Ground:          groundService,
		Weather:         weatherService,
		Logger:          log,
		CacheTTL:        cfg.CacheTTL,
		CacheMaxEntries: cfg.CacheMaxEntries,
	})

	// Forecasting over the granule series
	forecaster := forecast.NewForecaster(forecast.ForecasterConfig{
		Provider: store,
		Cache: cache.New[*forecast.Result](cache.Config{
			TTL:        cfg.CacheTTL,
			MaxEntries: cfg.CacheMaxEntries,
		}),
		Logger: log,
	})

	// Wildfires: without a FIRMS key the service serves sample data.
	var fireProvider wildfire.Provider
	if cfg.FIRMSAPIKey != "" {
		fireProvider = firms.NewClient(firms.ClientConfig{
			APIKey:   cfg.FIRMSAPIKey,
			Registry: registry,
		})
		log.Info().Msg("FIRMS fire detection client initialized")
	} else {
		log.Warn().Msg("FIRMS_API_KEY not set - serving sample fire data")
	}
	wildfireService := wildfire.NewService(wildfire.ServiceConfig{
		Provider: fireProvider,
		Logger:   log,
	})

	// Insights: without an API key the service serves canned narratives.
	var chatClient insights.ChatClient
	if cfg.OpenAIAPIKey != "" {
		chatClient = insights.NewChatClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
		log.Info().Msg("insights chat client initialized")
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set - serving fallback insights")
	}
	insightsService := insights.NewService(insights.ServiceConfig{
		Client: chatClient,
		Logger: log,
	})

	// Geocoding
	geocodeSearch := geocode.NewSearchClient(geocode.SearchConfig{Registry: registry})
	geocodeReverse := geocode.NewNominatimClient(geocode.NominatimConfig{Registry: registry})

	// Optional in-process cache warming
	if cfg.RefreshEnabled {
		job := worker.NewRefreshJob(worker.RefreshJobConfig{
			Config: worker.RefreshConfig{
				Targets:           worker.DefaultRefreshTargets(),
				Interval:          cfg.RefreshInterval,
				RefreshConditions: true,
				RefreshWeather:    true,
				RefreshForecast:   true,
			},
			Logger:            log,
			ConditionsService: conditionsService,
			WeatherService:    weatherService,
			Forecaster:        forecaster,
		})
		warmCtx, warmCancel := context.WithCancel(ctx)
		defer warmCancel()
		go job.RunLoop(warmCtx)
		log.Info().
			Dur("interval", cfg.RefreshInterval).
			Msg("cache warming loop started")
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:           Version,
		BuildTime:         BuildTime,
		Logger:            log,
		ServiceName:       serviceName,
		Metrics:           metrics,
		GranuleStore:      store,
		Registry:          registry,
		ConditionsService: conditionsService,
		Forecaster:        forecaster,
		GroundService:     groundService,
		WeatherService:    weatherService,
		WildfireService:   wildfireService,
		InsightsService:   insightsService,
		GeocodeSearch:     geocodeSearch,
		GeocodeReverse:    geocodeReverse,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
