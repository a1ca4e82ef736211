package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports whether the service can reach its backends.
type HealthHandler struct {
	deps Deps
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(deps Deps) *HealthHandler { return &HealthHandler{deps: deps} }

// HealthCheck pings the database and, when configured, the cache.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	checks := gin.H{"database": "ok"}
	healthy := true

	if err := h.deps.Store.Ping(c.Request.Context()); err != nil {
		h.deps.Logger.WarnContext(c.Request.Context(), "Database ping failed", "error", err)
		checks["database"] = "unavailable"
		healthy = false
	}
	if h.deps.CachePing != nil {
		checks["cache"] = "ok"
		if err := h.deps.CachePing(c.Request.Context()); err != nil {
			h.deps.Logger.WarnContext(c.Request.Context(), "Cache ping failed", "error", err)
			checks["cache"] = "unavailable"
			healthy = false
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}
