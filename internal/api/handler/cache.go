package handler

import (
	"net/http"
	"time"

	"github.com/clearskies/clearskies/internal/api/response"
	"github.com/clearskies/clearskies/internal/cache"
)

// CacheInspector exposes a service's location cache for inspection.
type CacheInspector interface {
	CacheStats() cache.Stats
	ClearCache() int
}

// CacheHandler exposes stats and clearing for the per-service caches.
type CacheHandler struct {
	caches map[string]CacheInspector
}

// NewCacheHandler creates a CacheHandler over the named service caches.
func NewCacheHandler(caches map[string]CacheInspector) *CacheHandler {
	return &CacheHandler{caches: caches}
}

type cacheStatsResponse struct {
	Caches    map[string]cache.Stats `json:"caches"`
	Timestamp time.Time              `json:"timestamp"`
}

// Stats handles GET /v1/cache/stats.
func (h *CacheHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := make(map[string]cache.Stats, len(h.caches))
	for name, c := range h.caches {
		stats[name] = c.CacheStats()
	}
	response.JSON(w, r, http.StatusOK, cacheStatsResponse{
		Caches:    stats,
		Timestamp: time.Now().UTC(),
	})
}

type cacheClearResponse struct {
	Message      string         `json:"message"`
	Cleared      map[string]int `json:"cleared"`
	TotalCleared int            `json:"total_cleared"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Clear handles POST /v1/cache/clear.
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	cleared := make(map[string]int, len(h.caches))
	total := 0
	for name, c := range h.caches {
		n := c.ClearCache()
		cleared[name] = n
		total += n
	}
	response.JSON(w, r, http.StatusOK, cacheClearResponse{
		Message:      "caches cleared successfully",
		Cleared:      cleared,
		TotalCleared: total,
		Timestamp:    time.Now().UTC(),
	})
}
