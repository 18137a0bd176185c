package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/clearskies/clearskies/internal/api/response"
	"github.com/clearskies/clearskies/internal/ground"
)

// GroundHandler serves ground sensor measurements.
type GroundHandler struct {
	service *ground.Service
}

// NewGroundHandler creates a new GroundHandler.
func NewGroundHandler(service *ground.Service) *GroundHandler {
	return &GroundHandler{service: service}
}

type groundResponse struct {
	Available bool             `json:"available"`
	Lat       float64          `json:"lat"`
	Lon       float64          `json:"lon"`
	RadiusKm  float64          `json:"radius_km"`
	Snapshot  *ground.Snapshot `json:"snapshot,omitempty"`
	Time      time.Time        `json:"time"`
}

// Measurements handles GET /v1/ground. No stations within range is a
// normal answer, reported as available=false.
func (h *GroundHandler) Measurements(w http.ResponseWriter, r *http.Request) {
	lat, lon, fieldErrors := parseCoordinates(r)
	if fieldErrors != nil {
		response.BadRequest(w, r, "invalid coordinates", fieldErrors)
		return
	}
	radiusKm := parseFloatParam(r, "radius_km", ground.DefaultRadiusKm)

	snapshot, err := h.service.GetSnapshot(r.Context(), lat, lon, radiusKm)
	if err != nil {
		if errors.Is(err, ground.ErrProviderUnavailable) {
			response.ServiceUnavailable(w, r, "ground sensor provider unavailable")
			return
		}
		response.InternalError(w, r, "failed to fetch ground measurements")
		return
	}

	response.JSON(w, r, http.StatusOK, groundResponse{
		Available: snapshot != nil,
		Lat:       lat,
		Lon:       lon,
		RadiusKm:  radiusKm,
		Snapshot:  snapshot,
		Time:      time.Now().UTC(),
	})
}
