package handlers

import (
	"context"
	"net/http"

	"videotube/internal/models"
	"videotube/internal/response"

	"github.com/gin-gonic/gin"
)

type DashboardReader interface {
	GetChannelStats(ctx context.Context, ownerID string) (*models.ChannelStats, error)
	GetChannelVideos(ctx context.Context, ownerID string) ([]models.ChannelVideo, error)
}

// DashboardHandler serves the caller's own channel
type DashboardHandler struct {
	service DashboardReader
}

func NewDashboardHandler(service DashboardReader) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) GetChannelStats(c *gin.Context) {
	stats, err := h.service.GetChannelStats(c.Request.Context(), callerID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Cache-Control", "private, no-cache")
	response.Success(c, http.StatusOK, stats, "Channel stats fetched successfully")
}

func (h *DashboardHandler) GetChannelVideos(c *gin.Context) {
	videos, err := h.service.GetChannelVideos(c.Request.Context(), callerID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Cache-Control", "private, no-cache")
	response.Success(c, http.StatusOK, videos, "Channel videos fetched successfully")
}
