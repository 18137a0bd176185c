package handler

import (
	"net/http"

	"github.com/clearskies/clearskies/internal/api/response"
	"github.com/clearskies/clearskies/internal/wildfire"
)

// FiresHandler serves active wildfire detections.
type FiresHandler struct {
	service *wildfire.Service
}

// NewFiresHandler creates a new FiresHandler.
func NewFiresHandler(service *wildfire.Service) *FiresHandler {
	return &FiresHandler{service: service}
}

// Nearby handles GET /v1/fires. The wildfire service degrades to sample
// data internally, so this endpoint does not surface provider failures.
func (h *FiresHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, lon, fieldErrors := parseCoordinates(r)
	if fieldErrors != nil {
		response.BadRequest(w, r, "invalid coordinates", fieldErrors)
		return
	}
	radiusKm := parseFloatParam(r, "radius_km", wildfire.DefaultRadiusKm)

	report, err := h.service.GetReport(r.Context(), lat, lon, radiusKm)
	if err != nil {
		response.InternalError(w, r, "failed to fetch fire detections")
		return
	}
	response.JSON(w, r, http.StatusOK, report)
}
