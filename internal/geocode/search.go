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

// SearchBaseURL is the default Open-Meteo geocoding endpoint.
const SearchBaseURL = "https://geocoding-api.open-meteo.com/v1"

// DefaultSearchLimit caps how many places a search returns.
const DefaultSearchLimit = 5

// SearchConfig holds configuration for the forward geocoding client.
type SearchConfig struct {
	// BaseURL is the API base URL (defaults to SearchBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use.
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Registry tracks the default resilient client, when one is created.
	Registry *resilience.Registry

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// SearchClient resolves place names to coordinates.
type SearchClient struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewSearchClient creates a forward geocoding client.
func NewSearchClient(cfg SearchConfig) *SearchClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = SearchBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            "geocode-search",
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Registry:        cfg.Registry,
		})
	}

	return &SearchClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

type searchResponse struct {
	Results []struct {
		Name        string  `json:"name"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		Country     string  `json:"country"`
		CountryCode string  `json:"country_code"`
		Admin1      string  `json:"admin1"`
		Population  int64   `json:"population"`
		Timezone    string  `json:"timezone"`
		Elevation   float64 `json:"elevation"`
		FeatureCode string  `json:"feature_code"`
	} `json:"results"`
}

// Search resolves a place name to candidate locations. Returns ErrNotFound
// when the upstream has no match.
func (c *SearchClient) Search(ctx context.Context, name string, limit int) ([]Place, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	q := url.Values{}
	q.Set("name", name)
	q.Set("count", strconv.Itoa(limit))
	q.Set("language", "en")
	q.Set("format", "json")

	reqURL := fmt.Sprintf("%s/search?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if len(sr.Results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	places := make([]Place, 0, len(sr.Results))
	for _, r := range sr.Results {
		places = append(places, Place{
			Name:        r.Name,
			Lat:         r.Latitude,
			Lon:         r.Longitude,
			Country:     r.Country,
			CountryCode: r.CountryCode,
			Admin1:      r.Admin1,
			Population:  r.Population,
			Timezone:    r.Timezone,
			Elevation:   r.Elevation,
			FeatureCode: r.FeatureCode,
		})
	}
	return places, nil
}
