// Package api provides the HTTP API for ClearSkies.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/clearskies/clearskies/internal/api/handler"
	"github.com/clearskies/clearskies/internal/api/middleware"
	"github.com/clearskies/clearskies/internal/conditions"
	"github.com/clearskies/clearskies/internal/forecast"
	"github.com/clearskies/clearskies/internal/geocode"
	"github.com/clearskies/clearskies/internal/ground"
	"github.com/clearskies/clearskies/internal/insights"
	"github.com/clearskies/clearskies/internal/provider/resilience"
	"github.com/clearskies/clearskies/internal/weather"
	"github.com/clearskies/clearskies/internal/wildfire"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	GranuleStore      handler.GranuleCounter
	Registry          *resilience.Registry
	ConditionsService *conditions.Service
	Forecaster        *forecast.Forecaster
	GroundService     *ground.Service
	WeatherService    *weather.Service
	WildfireService   *wildfire.Service
	InsightsService   *insights.Service
	GeocodeSearch     *geocode.SearchClient
	GeocodeReverse    *geocode.NominatimClient
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "clearskies-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.CORS)                 // Cross-origin requests from browser clients
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.GranuleStore, cfg.Registry)
	conditionsHandler := handler.NewConditionsHandler(cfg.ConditionsService)
	forecastHandler := handler.NewForecastHandler(cfg.Forecaster)
	groundHandler := handler.NewGroundHandler(cfg.GroundService)
	weatherHandler := handler.NewWeatherHandler(cfg.WeatherService)
	firesHandler := handler.NewFiresHandler(cfg.WildfireService)
	geocodeHandler := handler.NewGeocodeHandler(cfg.GeocodeSearch, cfg.GeocodeReverse)
	breathScoreHandler := handler.NewBreathScoreHandler(cfg.ConditionsService, cfg.WildfireService)
	insightsHandler := handler.NewInsightsHandler(cfg.ConditionsService, cfg.InsightsService)
	cacheHandler := handler.NewCacheHandler(cacheInspectors(cfg))

	r.Get("/", opsHandler.Root)

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Air quality
		r.Get("/conditions", conditionsHandler.Current)
		r.Get("/forecast", forecastHandler.Forecast24h)
		r.Get("/alerts", conditionsHandler.Alerts)
		r.Get("/history", conditionsHandler.History)
		r.Get("/compare", conditionsHandler.Compare)
		r.Get("/ground", groundHandler.Measurements)

		// Environment
		r.Get("/weather", weatherHandler.Report)
		r.Get("/fires", firesHandler.Nearby)

		// Geocoding
		r.Route("/geocode", func(r chi.Router) {
			r.Get("/search", geocodeHandler.Search)
			r.Get("/reverse", geocodeHandler.Reverse)
		})

		// Composites
		r.Get("/breath-score", breathScoreHandler.Score)
		r.Get("/insights", insightsHandler.Generate)

		// Cache administration
		r.Route("/cache", func(r chi.Router) {
			r.Get("/stats", cacheHandler.Stats)
			r.Post("/clear", cacheHandler.Clear)
		})
	})

	return r
}

// cacheInspectors collects the caches that the cache endpoints expose,
// skipping services that were not wired in.
func cacheInspectors(cfg RouterConfig) map[string]handler.CacheInspector {
	inspectors := make(map[string]handler.CacheInspector)
	if cfg.ConditionsService != nil {
		inspectors["conditions"] = cfg.ConditionsService
	}
	if cfg.Forecaster != nil {
		inspectors["forecast"] = cfg.Forecaster
	}
	if cfg.WeatherService != nil {
		inspectors["weather"] = cfg.WeatherService
	}
	return inspectors
}
