// Package firms implements the wildfire provider backed by the NASA FIRMS
// area API, which serves satellite fire detections as CSV.
package firms

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/clearskies/clearskies/internal/provider/resilience"
	"github.com/clearskies/clearskies/internal/wildfire"
)

const (
	// ProviderName identifies this fire detection provider.
	ProviderName = "firms"

	// DefaultBaseURL is the FIRMS API base URL.
	DefaultBaseURL = "https://firms.modaps.eosdis.nasa.gov"

	// DefaultSource is the VIIRS Suomi NPP near-real-time product.
	DefaultSource = "VIIRS_SNPP_NRT"

	// kmPerDegree approximates one degree of latitude.
	kmPerDegree = 111.0
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the FIRMS client.
type ClientConfig struct {
	// APIKey is the FIRMS map key (required).
	APIKey string

	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// Source is the detection product (defaults to DefaultSource).
	Source string

	// HTTPClient is the HTTP client to use.
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Registry tracks the default resilient client, when one is created.
	Registry *resilience.Registry

	// Timeout for individual API requests (default: 15s).
	Timeout time.Duration
}

// Client is a FIRMS API client implementing wildfire.Provider.
type Client struct {
	apiKey     string
	baseURL    string
	source     string
	httpClient HTTPDoer
}

// NewClient creates a new FIRMS client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	source := cfg.Source
	if source == "" {
		source = DefaultSource
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
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
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		source:     source,
		httpClient: httpClient,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// FetchDetections retrieves fire detections around the point for the last
// dayRange days. The search area is a box radiusKm wide centered on the
// point.
func (c *Client) FetchDetections(ctx context.Context, lat, lon, radiusKm float64, dayRange int) ([]wildfire.Detection, error) {
	if dayRange <= 0 {
		dayRange = wildfire.DefaultDayRange
	}
	degOffset := radiusKm / kmPerDegree

	reqURL := fmt.Sprintf("%s/api/area/csv/%s/%s/%.4f,%.4f,%.4f/%d",
		c.baseURL, c.apiKey, c.source, lat, lon, degOffset, dayRange)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch detections: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from area endpoint", resp.StatusCode)
	}

	return parseDetections(resp.Body)
}

// parseDetections reads the FIRMS CSV. Column order varies by product, so
// fields are located by header name.
func parseDetections(r io.Reader) ([]wildfire.Detection, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.ToLower(name))] = i
	}

	var detections []wildfire.Detection
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}

		lat, ok1 := floatField(record, col, "latitude")
		lon, ok2 := floatField(record, col, "longitude")
		if !ok1 || !ok2 {
			continue
		}

		brightness, ok := floatField(record, col, "bright_ti4")
		if !ok {
			brightness, _ = floatField(record, col, "brightness")
		}

		detections = append(detections, wildfire.Detection{
			Lat:        lat,
			Lon:        lon,
			Brightness: brightness,
			Confidence: confidenceField(record, col),
			Satellite:  stringField(record, col, "satellite"),
			DetectedAt: timeField(record, col),
		})
	}
	return detections, nil
}

func stringField(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func floatField(record []string, col map[string]int, name string) (float64, bool) {
	s := stringField(record, col, name)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// confidenceField handles both numeric confidence and the VIIRS letter
// codes (low, nominal, high).
func confidenceField(record []string, col map[string]int) float64 {
	s := stringField(record, col, "confidence")
	switch strings.ToLower(s) {
	case "l", "low":
		return 30
	case "n", "nominal":
		return 50
	case "h", "high":
		return 90
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// timeField combines acq_date (2006-01-02) and acq_time (HHMM as an
// integer, leading zeros dropped).
func timeField(record []string, col map[string]int) time.Time {
	date := stringField(record, col, "acq_date")
	if date == "" {
		return time.Time{}
	}
	hhmm := stringField(record, col, "acq_time")
	for len(hhmm) < 4 {
		hhmm = "0" + hhmm
	}
	t, err := time.Parse("2006-01-02 1504", date+" "+hhmm)
	if err != nil {
		t, err = time.Parse("2006-01-02", date)
		if err != nil {
			return time.Time{}
		}
	}
	return t.UTC()
}
