package geocode_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearskies/clearskies/internal/geocode"
)

func TestNominatimClient_Reverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "18", q.Get("zoom"))
		assert.Equal(t, "1", q.Get("addressdetails"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"), "Nominatim requires an identifying agent")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"lat": "40.7580",
			"lon": "-73.9855",
			"address": {
				"suburb": "Midtown",
				"city": "New York",
				"state": "New York",
				"country": "United States"
			}
		}`))
	}))
	defer server.Close()

	client := geocode.NewNominatimClient(geocode.NominatimConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	addr, err := client.Reverse(context.Background(), 40.758, -73.9855)
	require.NoError(t, err)

	assert.Equal(t, "Midtown, New York, New York, United States", addr.DisplayName)
	assert.Equal(t, "Midtown", addr.Neighbourhood, "suburb backfills neighbourhood")
	assert.Equal(t, "New York", addr.City)
	assert.InDelta(t, 40.758, addr.Lat, 0.0001)
	assert.Equal(t, "UTC-4", addr.TimezoneEst)
	assert.GreaterOrEqual(t, addr.PrecisionM, 1)
}

func TestNominatimClient_Reverse_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error": "Unable to geocode"}`))
	}))
	defer server.Close()

	client := geocode.NewNominatimClient(geocode.NominatimConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Reverse(context.Background(), 0, 0)
	assert.ErrorIs(t, err, geocode.ErrNotFound)
}

func TestNominatimClient_Reverse_FallbackDisplayName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lat": "40.0", "lon": "-74.0", "address": {}}`))
	}))
	defer server.Close()

	client := geocode.NewNominatimClient(geocode.NominatimConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	addr, err := client.Reverse(context.Background(), 40.0, -74.0)
	require.NoError(t, err)
	assert.Equal(t, "40.0000, -74.0000", addr.DisplayName)
}

func TestSearchClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Chicago", q.Get("name"))
		assert.Equal(t, "5", q.Get("count"))
		assert.Equal(t, "en", q.Get("language"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [
				{
					"name": "Chicago",
					"latitude": 41.85,
					"longitude": -87.65,
					"country": "United States",
					"country_code": "US",
					"admin1": "Illinois",
					"population": 2696555,
					"timezone": "America/Chicago",
					"elevation": 180,
					"feature_code": "PPLA2"
				}
			]
		}`))
	}))
	defer server.Close()

	client := geocode.NewSearchClient(geocode.SearchConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	places, err := client.Search(context.Background(), "Chicago", 0)
	require.NoError(t, err)
	require.Len(t, places, 1)

	assert.Equal(t, "Chicago", places[0].Name)
	assert.InDelta(t, 41.85, places[0].Lat, 0.001)
	assert.Equal(t, "Illinois", places[0].Admin1)
	assert.Equal(t, int64(2696555), places[0].Population)
	assert.Equal(t, "America/Chicago", places[0].Timezone)
}

func TestSearchClient_Search_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := geocode.NewSearchClient(geocode.SearchConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Search(context.Background(), "Nowheresville", 0)
	assert.ErrorIs(t, err, geocode.ErrNotFound)
}

func TestSearchClient_Search_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := geocode.NewSearchClient(geocode.SearchConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Search(context.Background(), "Chicago", 0)
	assert.ErrorIs(t, err, geocode.ErrProviderUnavailable)
}
