package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearskies/clearskies/internal/api"
	"github.com/clearskies/clearskies/internal/api/models"
	"github.com/clearskies/clearskies/internal/cache"
	"github.com/clearskies/clearskies/internal/conditions"
	"github.com/clearskies/clearskies/internal/forecast"
	"github.com/clearskies/clearskies/internal/geocode"
	"github.com/clearskies/clearskies/internal/ground"
	"github.com/clearskies/clearskies/internal/insights"
	"github.com/clearskies/clearskies/internal/provider/resilience"
	"github.com/clearskies/clearskies/internal/tempo"
	"github.com/clearskies/clearskies/internal/weather"
	"github.com/clearskies/clearskies/internal/wildfire"
)

// moderateColumn converts to 100 ppb, which lands on AQI 100.
const moderateColumn = 5.0e15

type mockSatellite struct{}

func (m *mockSatellite) Latest(_ context.Context, lat, lon float64) (*tempo.Reading, error) {
	return &tempo.Reading{
		Pollutant:  "NO2",
		Value:      moderateColumn,
		Unit:       "molecules/cm^2",
		NearestLat: lat,
		NearestLon: lon,
		ObservedAt: time.Now().Add(-time.Hour),
	}, nil
}

func (m *mockSatellite) Observations(_ context.Context, _, _ float64) ([]forecast.Observation, error) {
	now := time.Now()
	return []forecast.Observation{
		{Timestamp: now.Add(-3 * time.Hour), NO2: 4.0e15},
		{Timestamp: now.Add(-2 * time.Hour), NO2: 4.5e15},
		{Timestamp: now.Add(-1 * time.Hour), NO2: 5.0e15},
		{Timestamp: now, NO2: 5.5e15},
	}, nil
}

func (m *mockSatellite) GranuleCount() int { return 4 }

type mockGroundProvider struct{}

func (m *mockGroundProvider) Name() string { return "mock-ground" }

func (m *mockGroundProvider) FetchMeasurements(_ context.Context, _, _, _ float64) ([]ground.Measurement, error) {
	return []ground.Measurement{
		{StationID: "test-station", Parameter: "no2", Value: 80, Unit: "ppb"},
		{StationID: "test-station", Parameter: "pm25", Value: 10, Unit: "µg/m³"},
	}, nil
}

type mockWeatherProvider struct{}

func (m *mockWeatherProvider) Name() string { return "mock-weather" }

func (m *mockWeatherProvider) Fetch(_ context.Context, lat, lon float64) (*weather.Report, error) {
	return &weather.Report{
		Lat: lat,
		Lon: lon,
		Current: weather.Current{
			Temperature:   18.5,
			FeelsLike:     17.0,
			Humidity:      55,
			WeatherCode:   0,
			Description:   "Clear sky",
			WindSpeed:     12,
			WindDirection: 270,
		},
		FetchedAt: time.Now().UTC(),
	}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zerolog.New(io.Discard)
	satellite := &mockSatellite{}

	groundService := ground.NewService(ground.ServiceConfig{
		Provider: &mockGroundProvider{},
		Logger:   logger,
	})
	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: &mockWeatherProvider{},
		Logger:   logger,
	})
	conditionsService := conditions.NewService(conditions.ServiceConfig{
		Satellite: satellite,
		Ground:    groundService,
		Weather:   weatherService,
		Logger:    logger,
	})
	forecaster := forecast.NewForecaster(forecast.ForecasterConfig{
		Provider: satellite,
		Cache:    cache.New[*forecast.Result](cache.Config{TTL: time.Minute, MaxEntries: 10}),
		Logger:   logger,
	})
	wildfireService := wildfire.NewService(wildfire.ServiceConfig{Logger: logger})
	insightsService := insights.NewService(insights.ServiceConfig{Logger: logger})

	geoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/search":
			_, _ = w.Write([]byte(`{"results":[{"name":"New York","latitude":40.7128,"longitude":-74.006,"country":"United States","country_code":"US","admin1":"New York","population":8000000,"timezone":"America/New_York"}]}`))
		case "/reverse":
			_, _ = w.Write([]byte(`{"lat":"40.7128","lon":"-74.0060","address":{"city":"New York","state":"New York","country":"United States"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(geoServer.Close)

	return api.NewRouter(api.RouterConfig{
		Version:           "test",
		BuildTime:         "2026-01-01T00:00:00Z",
		Logger:            logger,
		GranuleStore:      satellite,
		Registry:          resilience.NewRegistry(),
		ConditionsService: conditionsService,
		Forecaster:        forecaster,
		GroundService:     groundService,
		WeatherService:    weatherService,
		WildfireService:   wildfireService,
		InsightsService:   insightsService,
		GeocodeSearch: geocode.NewSearchClient(geocode.SearchConfig{
			BaseURL:    geoServer.URL,
			HTTPClient: geoServer.Client(),
		}),
		GeocodeReverse: geocode.NewNominatimClient(geocode.NominatimConfig{
			BaseURL:    geoServer.URL,
			HTTPClient: geoServer.Client(),
		}),
	})
}

func doGet(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/ops/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "test", health.Details["version"])
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/ops/ready")

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, float64(4), health.Details["granulesLoaded"])
}

func TestRouter_SystemStatus(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/ops/status")

	assert.Equal(t, http.StatusOK, w.Code)

	var status models.SystemStatus
	err := json.Unmarshal(w.Body.Bytes(), &status)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, status.Status)
	assert.NotEmpty(t, status.Subsystems)
}

func TestRouter_Root(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/")

	assert.Equal(t, http.StatusOK, w.Code)

	var index map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &index)
	require.NoError(t, err)

	assert.Equal(t, "ClearSkies API", index["service"])
	assert.NotEmpty(t, index["endpoints"])
}

func TestRouter_Conditions(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/conditions?lat=40.7128&lon=-74.0060")

	assert.Equal(t, http.StatusOK, w.Code)

	var snapshot conditions.Snapshot
	err := json.Unmarshal(w.Body.Bytes(), &snapshot)
	require.NoError(t, err)

	assert.Equal(t, 100, snapshot.AQI)
	assert.Equal(t, "Moderate", snapshot.Category)
	assert.NotNil(t, snapshot.Ground)
	assert.NotNil(t, snapshot.Weather)
}

func TestRouter_Conditions_DefaultsToNYC(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/conditions")

	assert.Equal(t, http.StatusOK, w.Code)

	var snapshot conditions.Snapshot
	err := json.Unmarshal(w.Body.Bytes(), &snapshot)
	require.NoError(t, err)

	assert.InDelta(t, 40.7128, snapshot.Lat, 0.001)
	assert.InDelta(t, -74.0060, snapshot.Lon, 0.001)
}

func TestRouter_Conditions_OutOfCoverage(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/conditions?lat=48.8566&lon=2.3522")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "lon", problem.Errors[0].Field)
}

func TestRouter_Conditions_InvalidLat(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/conditions?lat=abc")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "lat", problem.Errors[0].Field)
}

func TestRouter_Forecast(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/forecast?lat=40.7128&lon=-74.0060")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Available bool             `json:"available"`
		Forecast  *forecast.Result `json:"forecast"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.True(t, resp.Available)
	require.NotNil(t, resp.Forecast)
	assert.Equal(t, forecast.ConfidenceHigh, resp.Forecast.Confidence)
	assert.Equal(t, 4, resp.Forecast.DataPoints)
}

func TestRouter_Alerts(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/alerts?threshold=50")

	assert.Equal(t, http.StatusOK, w.Code)

	var alert conditions.Alert
	err := json.Unmarshal(w.Body.Bytes(), &alert)
	require.NoError(t, err)

	assert.True(t, alert.Active)
	assert.Equal(t, 100, alert.AQI)
	assert.Equal(t, 50, alert.Threshold)
}

func TestRouter_Alerts_BelowThreshold(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/alerts")

	assert.Equal(t, http.StatusOK, w.Code)

	var alert conditions.Alert
	err := json.Unmarshal(w.Body.Bytes(), &alert)
	require.NoError(t, err)

	assert.False(t, alert.Active)
	assert.Equal(t, conditions.DefaultAlertThreshold, alert.Threshold)
}

func TestRouter_History(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/history?days=2")

	assert.Equal(t, http.StatusOK, w.Code)

	var history conditions.History
	err := json.Unmarshal(w.Body.Bytes(), &history)
	require.NoError(t, err)

	assert.Equal(t, 2, history.Days)
	assert.Len(t, history.Points, 4)
}

func TestRouter_Compare(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/compare")

	assert.Equal(t, http.StatusOK, w.Code)

	var comparison conditions.Comparison
	err := json.Unmarshal(w.Body.Bytes(), &comparison)
	require.NoError(t, err)

	// Satellite 100 ppb vs ground 80 ppb.
	assert.InDelta(t, 25.0, comparison.DeviationPct, 0.1)
}

func TestRouter_Ground(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/ground")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Available bool             `json:"available"`
		Snapshot  *ground.Snapshot `json:"snapshot"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.True(t, resp.Available)
	require.NotNil(t, resp.Snapshot)
	assert.Contains(t, resp.Snapshot.Pollutants, "NO2")
	assert.Contains(t, resp.Snapshot.Pollutants, "PM25")
}

func TestRouter_Weather(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/weather?lat=40.7128&lon=-74.0060")

	assert.Equal(t, http.StatusOK, w.Code)

	var report weather.Report
	err := json.Unmarshal(w.Body.Bytes(), &report)
	require.NoError(t, err)

	assert.InDelta(t, 18.5, report.Current.Temperature, 0.01)
	assert.False(t, report.Fallback)
}

func TestRouter_Weather_GlobalCoordinates(t *testing.T) {
	router := newTestRouter(t)

	// Paris is outside satellite coverage but weather still works there.
	w := doGet(t, router, "/v1/weather?lat=48.8566&lon=2.3522")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Fires_SampleData(t *testing.T) {
	router := newTestRouter(t)

	// No provider configured, so California falls back to sample fires.
	w := doGet(t, router, "/v1/fires?lat=37.0&lon=-120.0")

	assert.Equal(t, http.StatusOK, w.Code)

	var report wildfire.Report
	err := json.Unmarshal(w.Body.Bytes(), &report)
	require.NoError(t, err)

	assert.Equal(t, "sample", report.Source)
	assert.Equal(t, 2, report.Count)
}

func TestRouter_GeocodeSearch(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/geocode/search?q=New+York")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count   int             `json:"count"`
		Results []geocode.Place `json:"results"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "New York", resp.Results[0].Name)
}

func TestRouter_GeocodeSearch_MissingQuery(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/geocode/search")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "q", problem.Errors[0].Field)
}

func TestRouter_GeocodeReverse(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/geocode/reverse?lat=40.7128&lon=-74.0060")

	assert.Equal(t, http.StatusOK, w.Code)

	var address geocode.Address
	err := json.Unmarshal(w.Body.Bytes(), &address)
	require.NoError(t, err)

	assert.Equal(t, "New York", address.City)
	assert.Equal(t, "New York, New York, United States", address.DisplayName)
}

func TestRouter_BreathScore(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/breath-score")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Score struct {
			Score    int    `json:"score"`
			Category string `json:"category"`
			Mask     string `json:"mask_recommendation"`
		} `json:"score"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Greater(t, resp.Score.Score, 0)
	assert.NotEmpty(t, resp.Score.Category)
	assert.NotEmpty(t, resp.Score.Mask)
}

func TestRouter_Insights_Fallback(t *testing.T) {
	router := newTestRouter(t)

	// No chat client configured, so the canned narrative is served.
	w := doGet(t, router, "/v1/insights")

	assert.Equal(t, http.StatusOK, w.Code)

	var result insights.Insights
	err := json.Unmarshal(w.Body.Bytes(), &result)
	require.NoError(t, err)

	assert.Equal(t, "fallback", result.Source)
	assert.NotEmpty(t, result.Summary)
	assert.NotEmpty(t, result.HealthRecommendations)
}

func TestRouter_CacheStats(t *testing.T) {
	router := newTestRouter(t)

	// Warm the conditions cache first.
	doGet(t, router, "/v1/conditions")

	w := doGet(t, router, "/v1/cache/stats")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Caches map[string]cache.Stats `json:"caches"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	require.Contains(t, resp.Caches, "conditions")
	require.Contains(t, resp.Caches, "forecast")
	require.Contains(t, resp.Caches, "weather")
	assert.Equal(t, 1, resp.Caches["conditions"].Size)
}

func TestRouter_CacheClear(t *testing.T) {
	router := newTestRouter(t)

	doGet(t, router, "/v1/conditions")
	doGet(t, router, "/v1/forecast")

	req := httptest.NewRequest(http.MethodPost, "/v1/cache/clear", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message      string         `json:"message"`
		Cleared      map[string]int `json:"cleared"`
		TotalCleared int            `json:"total_cleared"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	// Fetching conditions warms the weather cache too, so three entries
	// are dropped in total.
	assert.Equal(t, "caches cleared successfully", resp.Message)
	assert.Equal(t, 1, resp.Cleared["conditions"])
	assert.Equal(t, 1, resp.Cleared["forecast"])
	assert.Equal(t, 1, resp.Cleared["weather"])
	assert.Equal(t, 3, resp.TotalCleared)
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doGet(t, router, "/v1/nonexistent")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
