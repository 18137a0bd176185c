package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/clearskies/clearskies/internal/api/response"
	"github.com/clearskies/clearskies/internal/breathscore"
	"github.com/clearskies/clearskies/internal/conditions"
	"github.com/clearskies/clearskies/internal/wildfire"
)

// BreathScoreHandler composes conditions, wildfire and weather data into
// a single breathability score.
type BreathScoreHandler struct {
	conditions *conditions.Service
	wildfire   *wildfire.Service
}

// NewBreathScoreHandler creates a new BreathScoreHandler.
func NewBreathScoreHandler(cond *conditions.Service, fires *wildfire.Service) *BreathScoreHandler {
	return &BreathScoreHandler{conditions: cond, wildfire: fires}
}

type breathScoreResponse struct {
	Lat   float64            `json:"lat"`
	Lon   float64            `json:"lon"`
	Score *breathscore.Score `json:"score"`
	Time  time.Time          `json:"time"`
}

// Score handles GET /v1/breath-score.
func (h *BreathScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	lat, lon, fieldErrors := parseCoordinates(r)
	if fieldErrors != nil {
		response.BadRequest(w, r, "invalid coordinates", fieldErrors)
		return
	}

	snapshot, err := h.conditions.Current(r.Context(), lat, lon)
	if err != nil {
		if errors.Is(err, conditions.ErrNoSatelliteData) {
			response.NotFound(w, r, "no satellite observations for this location")
			return
		}
		response.InternalError(w, r, "failed to assemble conditions")
		return
	}

	input := breathscore.Input{AQI: snapshot.AQI}

	if snapshot.Ground != nil {
		input.Pollutants = make(map[string]float64, len(snapshot.Ground.Pollutants))
		for name, avg := range snapshot.Ground.Pollutants {
			input.Pollutants[name] = avg.Value
		}
	}
	if snapshot.Weather != nil {
		humidity := snapshot.Weather.Humidity
		temperature := snapshot.Weather.Temperature
		input.HumidityPct = &humidity
		input.TemperatureC = &temperature
	}

	// Wildfire proximity is best-effort; the service already degrades to
	// sample data on provider failure.
	if report, ferr := h.wildfire.GetReport(r.Context(), lat, lon, wildfire.DefaultRadiusKm); ferr == nil {
		if nearest, ok := report.NearestKm(); ok {
			input.NearestFireKm = &nearest
		}
	}

	score := breathscore.Compute(input)
	response.JSON(w, r, http.StatusOK, breathScoreResponse{
		Lat:   lat,
		Lon:   lon,
		Score: &score,
		Time:  time.Now().UTC(),
	})
}
