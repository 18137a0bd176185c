package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/clearskies/clearskies/internal/api/models"
	"github.com/clearskies/clearskies/internal/api/response"
	"github.com/clearskies/clearskies/internal/geocode"
)

// GeocodeHandler serves place search and reverse geocoding.
type GeocodeHandler struct {
	search  *geocode.SearchClient
	reverse *geocode.NominatimClient
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(search *geocode.SearchClient, reverse *geocode.NominatimClient) *GeocodeHandler {
	return &GeocodeHandler{search: search, reverse: reverse}
}

type searchResponse struct {
	Query   string          `json:"query"`
	Count   int             `json:"count"`
	Results []geocode.Place `json:"results"`
	Time    time.Time       `json:"time"`
}

// Search handles GET /v1/geocode/search?q=<name>.
func (h *GeocodeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, r, "missing search query", []models.FieldError{
			{Field: "q", Message: "is required", Code: "REQUIRED"},
		})
		return
	}
	limit := parseIntParam(r, "limit", geocode.DefaultSearchLimit)

	places, err := h.search.Search(r.Context(), query, limit)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			response.JSON(w, r, http.StatusOK, searchResponse{
				Query:   query,
				Count:   0,
				Results: []geocode.Place{},
				Time:    time.Now().UTC(),
			})
			return
		}
		response.ServiceUnavailable(w, r, "geocoding provider unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, searchResponse{
		Query:   query,
		Count:   len(places),
		Results: places,
		Time:    time.Now().UTC(),
	})
}

// Reverse handles GET /v1/geocode/reverse?lat=..&lon=..
func (h *GeocodeHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	lat, lon, fieldErrors := parseGlobalCoordinates(r)
	if fieldErrors != nil {
		response.BadRequest(w, r, "invalid coordinates", fieldErrors)
		return
	}

	address, err := h.reverse.Reverse(r.Context(), lat, lon)
	if err != nil {
		if errors.Is(err, geocode.ErrNotFound) {
			response.NotFound(w, r, "no address at these coordinates")
			return
		}
		response.ServiceUnavailable(w, r, "geocoding provider unavailable")
		return
	}
	response.JSON(w, r, http.StatusOK, address)
}
