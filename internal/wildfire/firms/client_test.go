package firms_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearskies/clearskies/internal/wildfire/firms"
)

const sampleCSV = `latitude,longitude,bright_ti4,scan,track,acq_date,acq_time,satellite,confidence,version,bright_ti5,frp,daynight
34.5123,-118.4021,367.5,0.39,0.36,2026-08-29,2112,N,h,2.0NRT,290.1,12.4,D
34.8870,-118.9954,341.2,0.41,0.37,2026-08-29,2112,N,65,2.0NRT,288.7,8.1,D
`

func TestClient_FetchDetections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/api/area/csv/test-key/VIIRS_SNPP_NRT/"), r.URL.Path)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/2"), "day range in path")

		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	client := firms.NewClient(firms.ClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	detections, err := client.FetchDetections(context.Background(), 34.0522, -118.2437, 100, 2)
	require.NoError(t, err)
	require.Len(t, detections, 2)

	first := detections[0]
	assert.InDelta(t, 34.5123, first.Lat, 0.0001)
	assert.InDelta(t, 367.5, first.Brightness, 0.001)
	assert.InDelta(t, 90, first.Confidence, 0.001, "letter code h maps to 90")
	assert.Equal(t, "N", first.Satellite)
	assert.Equal(t, 21, first.DetectedAt.Hour())
	assert.Equal(t, 12, first.DetectedAt.Minute())

	assert.InDelta(t, 65, detections[1].Confidence, 0.001, "numeric confidence passes through")
}

func TestClient_FetchDetections_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
	}))
	defer server.Close()

	client := firms.NewClient(firms.ClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	detections, err := client.FetchDetections(context.Background(), 34.0522, -118.2437, 100, 2)
	require.NoError(t, err)
	assert.Empty(t, detections)
}

func TestClient_FetchDetections_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := firms.NewClient(firms.ClientConfig{
		APIKey:     "bad-key",
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.FetchDetections(context.Background(), 34.0522, -118.2437, 100, 2)
	assert.Error(t, err)
}

func TestClient_Name(t *testing.T) {
	client := firms.NewClient(firms.ClientConfig{APIKey: "k", HTTPClient: http.DefaultClient})
	assert.Equal(t, "firms", client.Name())
}
