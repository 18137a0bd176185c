package wildfire_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearskies/clearskies/internal/wildfire"
)

type mockProvider struct {
	mu         sync.Mutex
	detections []wildfire.Detection
	err        error
	callCount  int
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) FetchDetections(_ context.Context, _, _, _ float64, _ int) ([]wildfire.Detection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	return m.detections, nil
}

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		brightness float64
		confidence float64
		expected   string
	}{
		{390, 85, wildfire.SeverityExtreme},
		{380, 80, wildfire.SeverityExtreme},
		{380, 70, wildfire.SeverityHigh},
		{365, 50, wildfire.SeverityHigh},
		{320, 75, wildfire.SeverityHigh},
		{345, 40, wildfire.SeverityModerate},
		{330, 55, wildfire.SeverityModerate},
		{320, 40, wildfire.SeverityLow},
	}

	for _, tt := range tests {
		got := wildfire.ClassifySeverity(tt.brightness, tt.confidence)
		assert.Equal(t, tt.expected, got, "brightness %.0f confidence %.0f", tt.brightness, tt.confidence)
	}
}

func TestService_GetReport_SortedByDistance(t *testing.T) {
	provider := &mockProvider{
		detections: []wildfire.Detection{
			{Lat: 35.0, Lon: -119.5, Brightness: 350, Confidence: 60}, // farther
			{Lat: 34.2, Lon: -118.3, Brightness: 370, Confidence: 85}, // nearer
		},
	}

	svc := wildfire.NewService(wildfire.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	report, err := svc.GetReport(context.Background(), 34.0522, -118.2437, 150)
	require.NoError(t, err)
	require.Equal(t, 2, report.Count)

	assert.Less(t, report.Fires[0].DistanceKm, report.Fires[1].DistanceKm)
	assert.Equal(t, wildfire.SeverityHigh, report.Fires[0].Severity)
	assert.Equal(t, "mock", report.Source)

	nearest, ok := report.NearestKm()
	require.True(t, ok)
	assert.Equal(t, report.Fires[0].DistanceKm, nearest)
}

func TestService_GetReport_FiltersOutsideRadius(t *testing.T) {
	provider := &mockProvider{
		detections: []wildfire.Detection{
			{Lat: 34.1, Lon: -118.3, Brightness: 350, Confidence: 60}, // ~7 km
			{Lat: 38.0, Lon: -122.0, Brightness: 350, Confidence: 60}, // hundreds of km
		},
	}

	svc := wildfire.NewService(wildfire.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	report, err := svc.GetReport(context.Background(), 34.0522, -118.2437, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count)
}

func TestService_GetReport_SampleFallbackOnError(t *testing.T) {
	provider := &mockProvider{err: errors.New("upstream down")}

	svc := wildfire.NewService(wildfire.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	report, err := svc.GetReport(context.Background(), 34.0522, -118.2437, 100)
	require.NoError(t, err)

	assert.Equal(t, "sample", report.Source)
	require.Equal(t, 2, report.Count)
	assert.Equal(t, wildfire.SeverityHigh, report.Fires[0].Severity)
	assert.Equal(t, wildfire.SeverityModerate, report.Fires[1].Severity)
}

func TestService_GetReport_SampleEmptyOutsideRegion(t *testing.T) {
	svc := wildfire.NewService(wildfire.ServiceConfig{
		Provider: nil, // no upstream configured
		Logger:   zerolog.Nop(),
	})

	report, err := svc.GetReport(context.Background(), 40.7128, -74.0060, 100)
	require.NoError(t, err)

	assert.Equal(t, "sample", report.Source)
	assert.Equal(t, 0, report.Count)

	_, ok := report.NearestKm()
	assert.False(t, ok)
}

func TestService_GetReport_DefaultRadius(t *testing.T) {
	svc := wildfire.NewService(wildfire.ServiceConfig{
		Provider: nil,
		Logger:   zerolog.Nop(),
	})

	report, err := svc.GetReport(context.Background(), 40.7128, -74.0060, 0)
	require.NoError(t, err)
	assert.Equal(t, wildfire.DefaultRadiusKm, report.RadiusKm)
}
