package handler

import (
	"errors"
	"net/http"

	"github.com/clearskies/clearskies/internal/api/response"
	"github.com/clearskies/clearskies/internal/weather"
)

// WeatherHandler serves weather reports.
type WeatherHandler struct {
	service *weather.Service
}

// NewWeatherHandler creates a new WeatherHandler.
func NewWeatherHandler(service *weather.Service) *WeatherHandler {
	return &WeatherHandler{service: service}
}

// Report handles GET /v1/weather. Weather works globally, so coordinates
// are only checked against valid ranges, not the satellite coverage area.
func (h *WeatherHandler) Report(w http.ResponseWriter, r *http.Request) {
	lat, lon, fieldErrors := parseGlobalCoordinates(r)
	if fieldErrors != nil {
		response.BadRequest(w, r, "invalid coordinates", fieldErrors)
		return
	}

	report, err := h.service.GetReport(r.Context(), lat, lon)
	if err != nil {
		if errors.Is(err, weather.ErrInvalidCoordinates) {
			response.BadRequest(w, r, "coordinates out of range", nil)
			return
		}
		response.InternalError(w, r, "failed to fetch weather")
		return
	}
	response.JSON(w, r, http.StatusOK, report)
}
