package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/clearskies/clearskies/internal/provider/resilience"
)

const (
	// NominatimBaseURL is the default Nominatim endpoint.
	NominatimBaseURL = "https://nominatim.openstreetmap.org"

	// userAgent is sent on every Nominatim request. Nominatim's usage
	// policy rejects requests without an identifying agent.
	userAgent = "clearskies/1.0"
)

// NominatimConfig holds configuration for the reverse geocoding client.
type NominatimConfig struct {
	// BaseURL is the API base URL (defaults to NominatimBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use.
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

// NominatimClient resolves coordinates to addresses.
type NominatimClient struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewNominatimClient creates a reverse geocoding client.
func NewNominatimClient(cfg NominatimConfig) *NominatimClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = NominatimBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            "nominatim",
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Registry:        cfg.Registry,
		})
	}

	return &NominatimClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

type nominatimResponse struct {
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	Address struct {
		Neighbourhood string `json:"neighbourhood"`
		Suburb        string `json:"suburb"`
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		Municipality  string `json:"municipality"`
		State         string `json:"state"`
		Region        string `json:"region"`
		Country       string `json:"country"`
	} `json:"address"`
	Error string `json:"error"`
}

// Reverse resolves a coordinate pair to a human readable address.
func (c *NominatimClient) Reverse(ctx context.Context, lat, lon float64) (*Address, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("format", "json")
	q.Set("zoom", "18")
	q.Set("addressdetails", "1")

	reqURL := fmt.Sprintf("%s/reverse?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var nr nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&nr); err != nil {
		return nil, fmt.Errorf("decode reverse response: %w", err)
	}
	if nr.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, nr.Error)
	}

	addr := &Address{
		Neighbourhood: firstNonEmpty(nr.Address.Neighbourhood, nr.Address.Suburb),
		City:          firstNonEmpty(nr.Address.City, nr.Address.Town, nr.Address.Village, nr.Address.Municipality),
		State:         firstNonEmpty(nr.Address.State, nr.Address.Region),
		Country:       nr.Address.Country,
		Lat:           parseCoord(nr.Lat, lat),
		Lon:           parseCoord(nr.Lon, lon),
		PrecisionM:    precisionMeters(lat),
		TimezoneEst:   timezoneEstimate(lon),
		FetchedAt:     time.Now().UTC(),
	}
	addr.DisplayName = buildDisplayName(addr)
	return addr, nil
}

// buildDisplayName joins the most specific known parts of the address.
func buildDisplayName(a *Address) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Neighbourhood, a.City, a.State, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%.4f, %.4f", a.Lat, a.Lon)
	}
	return strings.Join(parts, ", ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseCoord(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return v
}
