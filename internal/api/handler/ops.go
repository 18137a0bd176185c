package handler

import (
	"net/http"
	"time"

	"github.com/clearskies/clearskies/internal/api/models"
	"github.com/clearskies/clearskies/internal/api/response"
	"github.com/clearskies/clearskies/internal/provider/resilience"
)

// GranuleCounter reports how many satellite granules are loaded.
type GranuleCounter interface {
	GranuleCount() int
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	granules  GranuleCounter
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, granules GranuleCounter, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		granules:  granules,
		registry:  registry,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
// The service is degraded (but still serving) when no satellite granules
// are loaded yet, since most endpoints depend on them.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	details := map[string]interface{}{}

	if h.granules != nil {
		count := h.granules.GranuleCount()
		details["granulesLoaded"] = count
		if count == 0 {
			status = models.HealthStatusDegraded
		}
	}

	health := models.Health{
		Status:  status,
		Time:    models.Timestamp(time.Now()),
		Details: details,
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())
	overall := models.HealthStatusOK
	var flags []string

	subsystems := []models.SubsystemStatus{}
	if h.granules != nil {
		granuleStatus := models.HealthStatusOK
		if h.granules.GranuleCount() == 0 {
			granuleStatus = models.HealthStatusDegraded
			overall = models.HealthStatusDegraded
			flags = append(flags, "no_satellite_granules")
		}
		subsystems = append(subsystems, models.SubsystemStatus{
			Name:   "granule-store",
			Status: granuleStatus,
		})
	}

	providers := []models.ProviderStatus{}
	if h.registry != nil {
		for _, ph := range h.registry.GetAllHealth() {
			status := models.HealthStatusOK
			switch {
			case ph.IsUnhealthy():
				status = models.HealthStatusFail
				overall = models.HealthStatusDegraded
				flags = append(flags, "provider_circuit_open:"+ph.Name)
			case ph.IsDegraded():
				status = models.HealthStatusDegraded
			}

			ps := models.ProviderStatus{
				Provider: ph.Name,
				Status:   status,
			}
			if ph.LastSuccessAt != nil {
				ts := models.Timestamp(*ph.LastSuccessAt)
				ps.LastSuccessAt = &ts
			}
			if ph.LastFailureAt != nil {
				ts := models.Timestamp(*ph.LastFailureAt)
				ps.LastFailureAt = &ts
			}
			if ph.LastError != "" {
				msg := ph.LastError
				ps.Message = &msg
			}
			providers = append(providers, ps)
		}
	}

	status := models.SystemStatus{
		Status:                 overall,
		Time:                   now,
		Subsystems:             subsystems,
		Providers:              providers,
		ActiveDegradationFlags: flags,
	}
	response.JSON(w, r, http.StatusOK, status)
}

// Root handles GET / - a small service index for humans poking at the API.
func (h *OpsHandler) Root(w http.ResponseWriter, r *http.Request) {
	index := map[string]interface{}{
		"service": "ClearSkies API",
		"version": h.version,
		"endpoints": []string{
			"/v1/conditions",
			"/v1/forecast",
			"/v1/alerts",
			"/v1/history",
			"/v1/compare",
			"/v1/ground",
			"/v1/weather",
			"/v1/fires",
			"/v1/geocode/search",
			"/v1/geocode/reverse",
			"/v1/breath-score",
			"/v1/insights",
			"/v1/cache/stats",
			"/v1/ops/health",
		},
	}
	response.JSON(w, r, http.StatusOK, index)
}
