package v1

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/duynhne/contact-service/middleware"
)

const readinessPingTimeout = 2 * time.Second

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	ping     func(ctx context.Context) error
	draining atomic.Bool
}

// NewHealthHandler creates a health handler. ping checks the storage backend; nil skips the check.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// StartDraining makes readiness fail so traffic drains before the HTTP server stops.
func (h *HealthHandler) StartDraining() {
	h.draining.Store(true)
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.draining.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "shutting_down"})
		return
	}
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessPingTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			middleware.GetLoggerFromGinContext(c).Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database_unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
