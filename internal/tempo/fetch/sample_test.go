package fetch_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearskies/clearskies/internal/tempo"
	"github.com/clearskies/clearskies/internal/tempo/fetch"
)

func TestGenerateSamples_WritesExpectedFiles(t *testing.T) {
	dir := t.TempDir()
	end := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)

	written, err := fetch.GenerateSamples(dir, fetch.SampleConfig{
		Count:   3,
		Spacing: time.Hour,
		End:     end,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "TEMPO_NO2_L3_20260830T180000Z.json")
	assert.Contains(t, names, "TEMPO_NO2_L3_20260830T170000Z.json")
	assert.Contains(t, names, "TEMPO_NO2_L3_20260830T160000Z.json")
}

func TestGenerateSamples_Defaults(t *testing.T) {
	dir := t.TempDir()

	written, err := fetch.GenerateSamples(dir, fetch.SampleConfig{})
	require.NoError(t, err)
	assert.Equal(t, 8, written)
}

func TestGenerateSamples_StoreReadsOutput(t *testing.T) {
	dir := t.TempDir()
	end := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)

	_, err := fetch.GenerateSamples(dir, fetch.SampleConfig{
		Count:   4,
		Spacing: time.Hour,
		End:     end,
	})
	require.NoError(t, err)

	store := tempo.NewStore(tempo.StoreConfig{
		DataDir: dir,
		Logger:  zerolog.Nop(),
	})
	assert.Equal(t, 4, store.GranuleCount())

	// New York sits on a plume, so the column there must stand well
	// above the remote background.
	ctx := context.Background()
	nyc, err := store.Latest(ctx, 40.7128, -74.0060)
	require.NoError(t, err)
	assert.Equal(t, "NO2", nyc.Pollutant)
	assert.Equal(t, end, nyc.ObservedAt)

	remote, err := store.Latest(ctx, 55.0, -110.0)
	require.NoError(t, err)
	assert.Greater(t, nyc.Value, 3*remote.Value)

	obs, err := store.Observations(ctx, 40.7128, -74.0060)
	require.NoError(t, err)
	assert.Len(t, obs, 4)
}

func TestGenerateSamples_Deterministic(t *testing.T) {
	end := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cfg := fetch.SampleConfig{Count: 1, Spacing: time.Hour, End: end}

	dirA := t.TempDir()
	dirB := t.TempDir()
	_, err := fetch.GenerateSamples(dirA, cfg)
	require.NoError(t, err)
	_, err = fetch.GenerateSamples(dirB, cfg)
	require.NoError(t, err)

	name := "TEMPO_NO2_L3_20260830T120000Z.json"
	a, err := os.ReadFile(dirA + "/" + name)
	require.NoError(t, err)
	b, err := os.ReadFile(dirB + "/" + name)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
