package breathscore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clearskies/clearskies/internal/breathscore"
)

func ptr(v float64) *float64 { return &v }

func TestCompute_BaseFromAQI(t *testing.T) {
	tests := []struct {
		aqi      int
		expected float64
	}{
		{0, 100},
		{50, 85},
		{75, 77.5},
		{100, 70},
		{125, 60},
		{150, 50},
		{200, 30},
		{250, 20},
		{300, 10},
		{400, 5},
		{500, 0},
	}

	for _, tt := range tests {
		score := breathscore.Compute(breathscore.Input{AQI: tt.aqi})
		assert.InDelta(t, tt.expected, score.Base, 0.01, "aqi %d", tt.aqi)
	}
}

func TestCompute_CleanAir(t *testing.T) {
	score := breathscore.Compute(breathscore.Input{
		AQI:          20,
		Pollutants:   map[string]float64{"PM25": 5, "NO2": 10},
		HumidityPct:  ptr(45.0),
		TemperatureC: ptr(22.0),
	})

	// Base 94, no penalties, +2 humidity bonus.
	assert.Equal(t, 96, score.Score)
	assert.Equal(t, "Excellent", score.Category)
	assert.Equal(t, "No mask needed", score.Mask)
	assert.Empty(t, score.RiskFactors)
	assert.Equal(t, "Safe for all age groups", score.AgeGuidance)
	assert.Equal(t, "All outdoor activities are fine", score.OutdoorActivity)
}

func TestCompute_PollutantPenalties(t *testing.T) {
	score := breathscore.Compute(breathscore.Input{
		AQI: 0,
		Pollutants: map[string]float64{
			"PM25": 45.4, // 10 over the high threshold: 3.0
			"CO":   10,   // 1 over: 2.0
		},
	})

	assert.InDelta(t, 5.0, score.PollutantPenalty, 0.01)
	assert.Equal(t, 95, score.Score)
	assert.Contains(t, score.RiskFactors, "elevated fine particulates (PM2.5)")
	assert.Contains(t, score.RiskFactors, "elevated carbon monoxide")
}

func TestCompute_MildPollutantPenalty(t *testing.T) {
	score := breathscore.Compute(breathscore.Input{
		AQI:        0,
		Pollutants: map[string]float64{"PM25": 22}, // 10 over the low threshold: 1.0
	})

	assert.InDelta(t, 1.0, score.PollutantPenalty, 0.01)
	assert.Empty(t, score.RiskFactors, "mild elevation is not a named risk")
}

func TestCompute_PollutantPenaltyCapped(t *testing.T) {
	score := breathscore.Compute(breathscore.Input{
		AQI: 0,
		Pollutants: map[string]float64{
			"PM25": 500,
			"PM10": 500,
			"CO":   50,
		},
	})

	assert.InDelta(t, 40.0, score.PollutantPenalty, 0.01)
}

func TestCompute_WildfirePenaltyBands(t *testing.T) {
	tests := []struct {
		distanceKm float64
		penalty    float64
	}{
		{5, 30},
		{15, 20},
		{40, 12},
		{80, 5},
		{150, 0},
	}

	for _, tt := range tests {
		score := breathscore.Compute(breathscore.Input{
			AQI:           0,
			NearestFireKm: ptr(tt.distanceKm),
		})
		assert.InDelta(t, tt.penalty, score.WildfirePenalty, 0.01, "distance %.0f", tt.distanceKm)
		if tt.penalty > 0 {
			assert.NotEmpty(t, score.RiskFactors)
		}
	}
}

func TestCompute_WeatherModifier(t *testing.T) {
	comfortable := breathscore.Compute(breathscore.Input{AQI: 0, HumidityPct: ptr(50.0), TemperatureC: ptr(20.0)})
	assert.InDelta(t, 2, comfortable.WeatherModifier, 0.01)

	harsh := breathscore.Compute(breathscore.Input{AQI: 0, HumidityPct: ptr(90.0), TemperatureC: ptr(38.0)})
	assert.InDelta(t, -5, harsh.WeatherModifier, 0.01)

	dry := breathscore.Compute(breathscore.Input{AQI: 0, HumidityPct: ptr(10.0)})
	assert.InDelta(t, -3, dry.WeatherModifier, 0.01)
}

func TestCompute_ClampedToRange(t *testing.T) {
	floor := breathscore.Compute(breathscore.Input{
		AQI:           500,
		Pollutants:    map[string]float64{"PM25": 500},
		NearestFireKm: ptr(5.0),
	})
	assert.Equal(t, 0, floor.Score)
	assert.Equal(t, "Hazardous", floor.Category)
	assert.Equal(t, "P100 required, stay indoors if possible", floor.Mask)

	ceiling := breathscore.Compute(breathscore.Input{AQI: 0, HumidityPct: ptr(45.0)})
	assert.Equal(t, 100, ceiling.Score)
}

func TestCompute_GuidanceBands(t *testing.T) {
	smoky := breathscore.Compute(breathscore.Input{
		AQI:           160,
		NearestFireKm: ptr(20.0),
	})

	// Base 46, minus 20 wildfire.
	assert.Equal(t, 26, smoky.Score)
	assert.Equal(t, "Very Unhealthy", smoky.Category)
	assert.Equal(t, "N95 or P100 required outdoors", smoky.Mask)
	assert.Equal(t, "Children and older adults should stay indoors", smoky.AgeGuidance)
	assert.Equal(t, "Avoid outdoor exercise", smoky.OutdoorActivity)
}
