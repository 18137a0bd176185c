package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/clearskies/clearskies/internal/conditions"
	"github.com/clearskies/clearskies/internal/forecast"
	"github.com/clearskies/clearskies/internal/weather"
)

// RefreshJob keeps the per-service caches warm for the configured metro
// areas, so the first user request after a cache expiry does not pay the
// upstream latency.
type RefreshJob struct {
	config RefreshConfig
	logger zerolog.Logger

	// Services (optional, nil if not configured)
	conditionsService *conditions.Service
	weatherService    *weather.Service
	forecaster        *forecast.Forecaster

	// Metrics
	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRefreshes    int64
	SuccessfulRefresh int64
	FailedRefreshes   int64
	ConditionsRefresh int64
	WeatherRefresh    int64
	ForecastRefresh   int64

	// Timings
	LastRefreshAt       time.Time
	LastRefreshDuration time.Duration
	TotalDuration       time.Duration
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config            RefreshConfig
	Logger            zerolog.Logger
	ConditionsService *conditions.Service
	WeatherService    *weather.Service
	Forecaster        *forecast.Forecaster
}

// NewRefreshJob creates a new cache warming job.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	config := cfg.Config
	if len(config.Targets) == 0 {
		config = DefaultRefreshConfig()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 3
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Interval <= 0 {
		config.Interval = 15 * time.Minute
	}

	return &RefreshJob{
		config:            config,
		logger:            cfg.Logger.With().Str("component", "refresh-job").Logger(),
		conditionsService: cfg.ConditionsService,
		weatherService:    cfg.WeatherService,
		forecaster:        cfg.Forecaster,
		metrics:           &RefreshMetrics{},
	}
}

// RefreshResult contains the result of a refresh operation.
type RefreshResult struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	TotalPoints int
	Successful  int
	Failed      int
	Errors      []RefreshError
}

// RefreshError represents an error during refresh.
type RefreshError struct {
	Service string
	Point   Point
	Error   string
}

// Run executes one refresh pass over all configured targets.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	startTime := time.Now()
	result := &RefreshResult{
		StartTime:   startTime,
		TotalPoints: j.config.TotalPoints(),
	}

	j.logger.Info().
		Int("total_points", result.TotalPoints).
		Int("concurrency", j.config.Concurrency).
		Msg("starting cache warming pass")

	points := j.config.AllPoints()

	pointsChan := make(chan Point, len(points))
	resultsChan := make(chan pointResult, len(points))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.refreshWorker(ctx, pointsChan, resultsChan)
		}()
	}

	for _, p := range points {
		pointsChan <- p
	}
	close(pointsChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	for pr := range resultsChan {
		if pr.success {
			result.Successful++
		} else {
			result.Failed++
		}
		result.Errors = append(result.Errors, pr.errors...)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("cache warming pass completed")

	return result
}

// RunLoop runs refresh passes on the configured interval until the context
// is cancelled. The first pass runs immediately.
func (j *RefreshJob) RunLoop(ctx context.Context) {
	j.Run(ctx)

	ticker := time.NewTicker(j.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("cache warming loop stopped")
			return
		case <-ticker.C:
			j.Run(ctx)
		}
	}
}

type pointResult struct {
	point   Point
	success bool
	errors  []RefreshError
}

func (j *RefreshJob) refreshWorker(ctx context.Context, points <-chan Point, results chan<- pointResult) {
	for point := range points {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.refreshPoint(ctx, point)
		}
	}
}

func (j *RefreshJob) refreshPoint(ctx context.Context, point Point) pointResult {
	result := pointResult{
		point:   point,
		success: true,
	}

	pointCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	if j.config.RefreshConditions && j.conditionsService != nil {
		if err := j.refreshConditions(pointCtx, point); err != nil {
			result.errors = append(result.errors, RefreshError{
				Service: "conditions",
				Point:   point,
				Error:   err.Error(),
			})
			result.success = false
		} else {
			atomic.AddInt64(&j.metrics.ConditionsRefresh, 1)
		}
	}

	if j.config.RefreshWeather && j.weatherService != nil {
		if err := j.refreshWeather(pointCtx, point); err != nil {
			result.errors = append(result.errors, RefreshError{
				Service: "weather",
				Point:   point,
				Error:   err.Error(),
			})
			result.success = false
		} else {
			atomic.AddInt64(&j.metrics.WeatherRefresh, 1)
		}
	}

	if j.config.RefreshForecast && j.forecaster != nil {
		if err := j.refreshForecast(pointCtx, point); err != nil {
			result.errors = append(result.errors, RefreshError{
				Service: "forecast",
				Point:   point,
				Error:   err.Error(),
			})
			// A location without enough observations yet is not a failure.
		} else {
			atomic.AddInt64(&j.metrics.ForecastRefresh, 1)
		}
	}

	return result
}

func (j *RefreshJob) refreshConditions(ctx context.Context, point Point) error {
	_, err := j.conditionsService.Current(ctx, point.Lat, point.Lon)
	if errors.Is(err, conditions.ErrNoSatelliteData) {
		// No granules covering this point yet.
		return nil
	}
	return err
}

func (j *RefreshJob) refreshWeather(ctx context.Context, point Point) error {
	_, err := j.weatherService.GetReport(ctx, point.Lat, point.Lon)
	return err
}

func (j *RefreshJob) refreshForecast(ctx context.Context, point Point) error {
	_, err := j.forecaster.Forecast24h(ctx, point.Lat, point.Lon)
	if errors.Is(err, forecast.ErrInsufficientData) {
		return nil
	}
	return err
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRefreshes++
	j.metrics.SuccessfulRefresh += int64(result.Successful)
	j.metrics.FailedRefreshes += int64(result.Failed)
	j.metrics.LastRefreshAt = result.EndTime
	j.metrics.LastRefreshDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRefreshes:      j.metrics.TotalRefreshes,
		SuccessfulRefresh:   j.metrics.SuccessfulRefresh,
		FailedRefreshes:     j.metrics.FailedRefreshes,
		ConditionsRefresh:   j.metrics.ConditionsRefresh,
		WeatherRefresh:      j.metrics.WeatherRefresh,
		ForecastRefresh:     j.metrics.ForecastRefresh,
		LastRefreshAt:       j.metrics.LastRefreshAt,
		LastRefreshDuration: j.metrics.LastRefreshDuration,
		TotalDuration:       j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_refreshes":       m.TotalRefreshes,
		"successful_refreshes":  m.SuccessfulRefresh,
		"failed_refreshes":      m.FailedRefreshes,
		"conditions_refreshes":  m.ConditionsRefresh,
		"weather_refreshes":     m.WeatherRefresh,
		"forecast_refreshes":    m.ForecastRefresh,
		"last_refresh_at":       m.LastRefreshAt,
		"last_refresh_duration": m.LastRefreshDuration.String(),
		"total_duration":        m.TotalDuration.String(),
	}
}
