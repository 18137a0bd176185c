// Package handler provides HTTP handlers for the ClearSkies API.
package handler

import (
	"net/http"
	"strconv"

	"github.com/clearskies/clearskies/internal/api/models"
)

// Coverage bounds of the satellite product: North America from the
// Yucatan up through Alaska's populated latitudes.
const (
	MinLat = 17.0
	MaxLat = 64.0
	MinLon = -140.0
	MaxLon = -50.0
)

// Default coordinates (New York City) used when a request omits lat/lon.
const (
	DefaultLat = 40.7128
	DefaultLon = -74.0060
)

// parseCoordinates reads lat/lon query parameters, applying the NYC
// defaults when absent and validating against the coverage area.
func parseCoordinates(r *http.Request) (lat, lon float64, fieldErrors []models.FieldError) {
	lat, lon = DefaultLat, DefaultLon

	if s := r.URL.Query().Get("lat"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field: "lat", Message: "must be a number", Code: "INVALID",
			})
		} else {
			lat = v
		}
	}
	if s := r.URL.Query().Get("lon"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field: "lon", Message: "must be a number", Code: "INVALID",
			})
		} else {
			lon = v
		}
	}
	if len(fieldErrors) > 0 {
		return 0, 0, fieldErrors
	}

	if lat < MinLat || lat > MaxLat {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "lat", Message: "must be between 17 and 64", Code: "OUT_OF_RANGE",
		})
	}
	if lon < MinLon || lon > MaxLon {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "lon", Message: "must be between -140 and -50", Code: "OUT_OF_RANGE",
		})
	}
	if len(fieldErrors) > 0 {
		return 0, 0, fieldErrors
	}
	return lat, lon, nil
}

// parseGlobalCoordinates reads lat/lon without the coverage restriction,
// for endpoints like reverse geocoding that work anywhere on the globe.
func parseGlobalCoordinates(r *http.Request) (lat, lon float64, fieldErrors []models.FieldError) {
	lat, lon = DefaultLat, DefaultLon

	if s := r.URL.Query().Get("lat"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < -90 || v > 90 {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field: "lat", Message: "must be between -90 and 90", Code: "OUT_OF_RANGE",
			})
		} else {
			lat = v
		}
	}
	if s := r.URL.Query().Get("lon"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < -180 || v > 180 {
			fieldErrors = append(fieldErrors, models.FieldError{
				Field: "lon", Message: "must be between -180 and 180", Code: "OUT_OF_RANGE",
			})
		} else {
			lon = v
		}
	}
	if len(fieldErrors) > 0 {
		return 0, 0, fieldErrors
	}
	return lat, lon, nil
}

// parseIntParam reads an optional positive integer query parameter,
// returning fallback when absent or invalid.
func parseIntParam(r *http.Request, name string, fallback int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return fallback
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// parseFloatParam reads an optional positive float query parameter,
// returning fallback when absent or invalid.
func parseFloatParam(r *http.Request, name string, fallback float64) float64 {
	s := r.URL.Query().Get(name)
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
