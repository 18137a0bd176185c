package handler

import (
	"errors"
	"net/http"

	"github.com/clearskies/clearskies/internal/api/response"
	"github.com/clearskies/clearskies/internal/conditions"
)

// ConditionsHandler handles current-conditions, alert, history and
// comparison endpoints.
type ConditionsHandler struct {
	service *conditions.Service
}

// NewConditionsHandler creates a new ConditionsHandler.
func NewConditionsHandler(service *conditions.Service) *ConditionsHandler {
	return &ConditionsHandler{service: service}
}

// Current handles GET /v1/conditions.
func (h *ConditionsHandler) Current(w http.ResponseWriter, r *http.Request) {
	lat, lon, fieldErrors := parseCoordinates(r)
	if fieldErrors != nil {
		response.BadRequest(w, r, "invalid coordinates", fieldErrors)
		return
	}

	snapshot, err := h.service.Current(r.Context(), lat, lon)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, snapshot)
}

// Alerts handles GET /v1/alerts. The threshold query parameter overrides
// the default AQI alert threshold.
func (h *ConditionsHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	lat, lon, fieldErrors := parseCoordinates(r)
	if fieldErrors != nil {
		response.BadRequest(w, r, "invalid coordinates", fieldErrors)
		return
	}
	threshold := parseIntParam(r, "threshold", conditions.DefaultAlertThreshold)

	alert, err := h.service.Evaluate(r.Context(), lat, lon, threshold)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, alert)
}

// History handles GET /v1/history.
func (h *ConditionsHandler) History(w http.ResponseWriter, r *http.Request) {
	lat, lon, fieldErrors := parseCoordinates(r)
	if fieldErrors != nil {
		response.BadRequest(w, r, "invalid coordinates", fieldErrors)
		return
	}
	days := parseIntParam(r, "days", conditions.DefaultHistoryDays)

	history, err := h.service.History(r.Context(), lat, lon, days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, history)
}

// Compare handles GET /v1/compare - satellite column vs ground sensors.
func (h *ConditionsHandler) Compare(w http.ResponseWriter, r *http.Request) {
	lat, lon, fieldErrors := parseCoordinates(r)
	if fieldErrors != nil {
		response.BadRequest(w, r, "invalid coordinates", fieldErrors)
		return
	}

	comparison, err := h.service.Compare(r.Context(), lat, lon)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, comparison)
}

// writeError maps service errors onto problem responses. Missing data is
// a 404, never a 500.
func (h *ConditionsHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, conditions.ErrNoSatelliteData):
		response.NotFound(w, r, "no satellite observations for this location")
	case errors.Is(err, conditions.ErrNoGroundData):
		response.NotFound(w, r, "no ground measurements for this location")
	default:
		response.InternalError(w, r, "failed to assemble conditions")
	}
}
