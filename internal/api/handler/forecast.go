package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/clearskies/clearskies/internal/api/response"
	"github.com/clearskies/clearskies/internal/forecast"
)

// ForecastHandler serves 24-hour AQI projections.
type ForecastHandler struct {
	forecaster *forecast.Forecaster
}

// NewForecastHandler creates a new ForecastHandler.
func NewForecastHandler(forecaster *forecast.Forecaster) *ForecastHandler {
	return &ForecastHandler{forecaster: forecaster}
}

// forecastResponse wraps a forecast result with availability metadata so
// clients can distinguish "no forecast yet" from transport errors.
type forecastResponse struct {
	Available bool             `json:"available"`
	Lat       float64          `json:"lat"`
	Lon       float64          `json:"lon"`
	Forecast  *forecast.Result `json:"forecast,omitempty"`
	Message   string           `json:"message,omitempty"`
	Time      time.Time        `json:"time"`
}

// Forecast24h handles GET /v1/forecast. A location without enough
// observations gets a 200 with available=false, not an error.
func (h *ForecastHandler) Forecast24h(w http.ResponseWriter, r *http.Request) {
	lat, lon, fieldErrors := parseCoordinates(r)
	if fieldErrors != nil {
		response.BadRequest(w, r, "invalid coordinates", fieldErrors)
		return
	}

	result, err := h.forecaster.Forecast24h(r.Context(), lat, lon)
	switch {
	case errors.Is(err, forecast.ErrInsufficientData):
		response.JSON(w, r, http.StatusOK, forecastResponse{
			Available: false,
			Lat:       lat,
			Lon:       lon,
			Message:   "not enough observations yet to forecast this location",
			Time:      time.Now().UTC(),
		})
	case errors.Is(err, forecast.ErrProviderUnavailable):
		response.ServiceUnavailable(w, r, "observation source unavailable")
	case err != nil:
		response.InternalError(w, r, "failed to compute forecast")
	default:
		response.JSON(w, r, http.StatusOK, forecastResponse{
			Available: true,
			Lat:       lat,
			Lon:       lon,
			Forecast:  result,
			Time:      time.Now().UTC(),
		})
	}
}
