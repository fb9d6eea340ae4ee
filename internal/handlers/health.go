package handlers

import (
	"context"
	"database/sql"
	"net/http"

	"videotube/internal/response"

	"github.com/gin-gonic/gin"
)

// Pinger reports database reachability and pool usage
type Pinger interface {
	PingContext(ctx context.Context) error
	Stats() sql.DBStats
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")

	stats := h.db.Stats()
	pool := gin.H{
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
		"max_open":         stats.MaxOpenConnections,
		"wait_count":       stats.WaitCount,
	}

	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, response.Envelope{
			StatusCode: http.StatusServiceUnavailable,
			Data:       gin.H{"database": false, "database_stats": pool},
			Message:    "Database unreachable",
			Success:    false,
		})
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"status":         "healthy",
		"database":       true,
		"database_stats": pool,
	}, "OK")
}
