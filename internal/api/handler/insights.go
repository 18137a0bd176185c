package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/clearskies/clearskies/internal/api/response"
	"github.com/clearskies/clearskies/internal/breathscore"
	"github.com/clearskies/clearskies/internal/conditions"
	"github.com/clearskies/clearskies/internal/insights"
)

// InsightsHandler turns current conditions into a plain-language briefing.
type InsightsHandler struct {
	conditions *conditions.Service
	insights   *insights.Service
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(cond *conditions.Service, ins *insights.Service) *InsightsHandler {
	return &InsightsHandler{conditions: cond, insights: ins}
}

// Generate handles GET /v1/insights. The location query parameter names
// the place for the narrative; it defaults to the coordinates.
func (h *InsightsHandler) Generate(w http.ResponseWriter, r *http.Request) {
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

	location := r.URL.Query().Get("location")
	if location == "" {
		location = fmt.Sprintf("%.4f, %.4f", lat, lon)
	}

	req := insights.Request{
		Location: location,
		AQI:      snapshot.AQI,
		Category: snapshot.Category,
	}
	if snapshot.Ground != nil {
		req.Pollutants = make(map[string]float64, len(snapshot.Ground.Pollutants))
		for name, avg := range snapshot.Ground.Pollutants {
			req.Pollutants[name] = avg.Value
		}
	}

	scoreInput := breathscore.Input{AQI: snapshot.AQI, Pollutants: req.Pollutants}
	if snapshot.Weather != nil {
		humidity := snapshot.Weather.Humidity
		temperature := snapshot.Weather.Temperature
		scoreInput.HumidityPct = &humidity
		scoreInput.TemperatureC = &temperature
		req.WeatherSummary = fmt.Sprintf("%s, %.0f°C, wind %.0f km/h",
			snapshot.Weather.Description,
			snapshot.Weather.Temperature,
			snapshot.Weather.WindSpeed)
	}
	req.BreathScore = breathscore.Compute(scoreInput).Score

	result, err := h.insights.Generate(r.Context(), req)
	if err != nil {
		response.InternalError(w, r, "failed to generate insights")
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}
