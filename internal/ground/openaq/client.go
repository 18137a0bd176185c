// Package openaq provides a client for the OpenAQ latest-measurements API.
package openaq

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/clearskies/clearskies/internal/ground"
	"github.com/clearskies/clearskies/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the OpenAQ API.
	DefaultBaseURL = "https://api.openaq.org/v2"

	// ProviderName identifies this provider.
	ProviderName = "openaq"

	// defaultStationLimit caps how many nearby stations are aggregated.
	defaultStationLimit = 3
)

// ClientConfig holds configuration for the OpenAQ client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Registry tracks the default resilient client, when one is created.
	Registry *resilience.Registry

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an OpenAQ API client implementing ground.Provider.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new OpenAQ client.
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

// Name implements ground.Provider.
func (c *Client) Name() string {
	return ProviderName
}

// API response types (from the OpenAQ API).

type latestResponse struct {
	Results []stationResult `json:"results"`
}

type stationResult struct {
	Location     string            `json:"location"`
	Measurements []measurementData `json:"measurements"`
}

type measurementData struct {
	Parameter string  `json:"parameter"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
}

// FetchMeasurements retrieves the latest readings from stations within
// radiusKm of the point.
func (c *Client) FetchMeasurements(ctx context.Context, lat, lon, radiusKm float64) ([]ground.Measurement, error) {
	q := url.Values{}
	q.Set("coordinates", fmt.Sprintf("%f,%f", lat, lon))
	q.Set("radius", fmt.Sprintf("%d", int(radiusKm*1000)))
	q.Set("limit", fmt.Sprintf("%d", defaultStationLimit))

	reqURL := fmt.Sprintf("%s/latest?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest measurements: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from latest endpoint", resp.StatusCode)
	}

	var result latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode latest response: %w", err)
	}

	var measurements []ground.Measurement
	for _, station := range result.Results {
		for _, m := range station.Measurements {
			if m.Parameter == "" {
				continue
			}
			measurements = append(measurements, ground.Measurement{
				StationID: station.Location,
				Parameter: m.Parameter,
				Value:     m.Value,
				Unit:      m.Unit,
			})
		}
	}

	return measurements, nil
}
