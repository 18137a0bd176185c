// Package openmeteo implements the weather provider backed by the
// Open-Meteo forecast API. Open-Meteo requires no API key.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clearskies/clearskies/internal/provider/resilience"
	"github.com/clearskies/clearskies/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openmeteo"

	// DefaultBaseURL is the Open-Meteo forecast API base URL.
	DefaultBaseURL = "https://api.open-meteo.com/v1"

	// forecastDays is how many days of forecast to request.
	forecastDays = 3
)

// Parameter lists requested from the forecast endpoint.
const (
	currentParams = "temperature_2m,relative_humidity_2m,apparent_temperature,precipitation,weather_code,wind_speed_10m,wind_direction_10m,wind_gusts_10m"
	hourlyParams  = "temperature_2m,precipitation_probability,precipitation,weather_code,wind_speed_10m"
	dailyParams   = "weather_code,temperature_2m_max,temperature_2m_min,precipitation_probability_max,sunrise,sunset"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Open-Meteo client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use.
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Registry tracks the default resilient client, when one is created.
	Registry *resilience.Registry

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// Client is an Open-Meteo API client implementing weather.Provider.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new Open-Meteo client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Registry:        cfg.Registry,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Open-Meteo API response structures.

type forecastResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Current   struct {
		Temperature         float64 `json:"temperature_2m"`
		RelativeHumidity    float64 `json:"relative_humidity_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		Precipitation       float64 `json:"precipitation"`
		WeatherCode         int     `json:"weather_code"`
		WindSpeed           float64 `json:"wind_speed_10m"`
		WindDirection       float64 `json:"wind_direction_10m"`
		WindGusts           float64 `json:"wind_gusts_10m"`
	} `json:"current"`
	Hourly struct {
		Time              []string  `json:"time"`
		Temperature       []float64 `json:"temperature_2m"`
		PrecipProbability []float64 `json:"precipitation_probability"`
		Precipitation     []float64 `json:"precipitation"`
		WeatherCode       []int     `json:"weather_code"`
		WindSpeed         []float64 `json:"wind_speed_10m"`
	} `json:"hourly"`
	Daily struct {
		Time                 []string  `json:"time"`
		WeatherCode          []int     `json:"weather_code"`
		TempMax              []float64 `json:"temperature_2m_max"`
		TempMin              []float64 `json:"temperature_2m_min"`
		PrecipProbabilityMax []float64 `json:"precipitation_probability_max"`
		Sunrise              []string  `json:"sunrise"`
		Sunset               []string  `json:"sunset"`
	} `json:"daily"`
}

// Fetch retrieves a raw weather report for the point. The caller layers on
// rain analysis and advice.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (*weather.Report, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("current", currentParams)
	q.Set("hourly", hourlyParams)
	q.Set("daily", dailyParams)
	q.Set("temperature_unit", "celsius")
	q.Set("wind_speed_unit", "kmh")
	q.Set("precipitation_unit", "mm")
	q.Set("timezone", "UTC")
	q.Set("forecast_days", fmt.Sprintf("%d", forecastDays))

	reqURL := fmt.Sprintf("%s/forecast?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from forecast endpoint", resp.StatusCode)
	}

	var omResp forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&omResp); err != nil {
		return nil, fmt.Errorf("decode forecast response: %w", err)
	}

	return c.toReport(&omResp), nil
}

func (c *Client) toReport(resp *forecastResponse) *weather.Report {
	report := &weather.Report{
		Lat: resp.Latitude,
		Lon: resp.Longitude,
		Current: weather.Current{
			Temperature:   resp.Current.Temperature,
			FeelsLike:     resp.Current.ApparentTemperature,
			Humidity:      resp.Current.RelativeHumidity,
			Precipitation: resp.Current.Precipitation,
			WeatherCode:   resp.Current.WeatherCode,
			Description:   weather.DescribeWeatherCode(resp.Current.WeatherCode),
			WindSpeed:     resp.Current.WindSpeed,
			WindDirection: resp.Current.WindDirection,
			WindGust:      resp.Current.WindGusts,
		},
		FetchedAt: time.Now().UTC(),
	}

	for i, ts := range resp.Hourly.Time {
		point := weather.HourlyPoint{Time: parseAPITime(ts)}
		if i < len(resp.Hourly.Temperature) {
			point.Temperature = resp.Hourly.Temperature[i]
		}
		if i < len(resp.Hourly.PrecipProbability) {
			point.PrecipProbability = resp.Hourly.PrecipProbability[i]
		}
		if i < len(resp.Hourly.Precipitation) {
			point.Precipitation = resp.Hourly.Precipitation[i]
		}
		if i < len(resp.Hourly.WeatherCode) {
			point.WeatherCode = resp.Hourly.WeatherCode[i]
		}
		if i < len(resp.Hourly.WindSpeed) {
			point.WindSpeed = resp.Hourly.WindSpeed[i]
		}
		report.Hourly = append(report.Hourly, point)
	}

	for i, ts := range resp.Daily.Time {
		point := weather.DailyPoint{Date: parseAPITime(ts)}
		if i < len(resp.Daily.WeatherCode) {
			point.WeatherCode = resp.Daily.WeatherCode[i]
			point.Description = weather.DescribeWeatherCode(point.WeatherCode)
		}
		if i < len(resp.Daily.TempMax) {
			point.TempMax = resp.Daily.TempMax[i]
		}
		if i < len(resp.Daily.TempMin) {
			point.TempMin = resp.Daily.TempMin[i]
		}
		if i < len(resp.Daily.PrecipProbabilityMax) {
			point.PrecipProbabilityMax = resp.Daily.PrecipProbabilityMax[i]
		}
		if i < len(resp.Daily.Sunrise) {
			point.Sunrise = parseAPITime(resp.Daily.Sunrise[i])
		}
		if i < len(resp.Daily.Sunset) {
			point.Sunset = parseAPITime(resp.Daily.Sunset[i])
		}
		report.Daily = append(report.Daily, point)
	}

	return report
}

// parseAPITime handles the ISO 8601 variants Open-Meteo emits: minute
// precision timestamps and bare dates.
func parseAPITime(s string) time.Time {
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
