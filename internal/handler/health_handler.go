package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harshWarbhe/revticket/pkg/database"
	"github.com/harshWarbhe/revticket/pkg/redis"
)

// HealthHandler reports process and dependency health
type HealthHandler struct {
	db    *database.PostgresDB
	redis *redis.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.PostgresDB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz; not ready when a dependency is down
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()
	checks := gin.H{}
	healthy := true

	if h.db != nil {
		if err := h.db.HealthCheck(ctx); err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		} else {
			checks["postgres"] = "ok"
		}
	}

	if h.redis != nil {
		if err := h.redis.HealthCheck(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": checks})
}
