// ===============================
// internal/services/dashboard.go - Channel Dashboard
// ===============================

package services

import (
	"context"

	"videotube/internal/apperrors"
	"videotube/internal/models"
)

type DashboardStore interface {
	ChannelStats(ctx context.Context, ownerID string) (*models.ChannelStats, error)
	ChannelVideos(ctx context.Context, ownerID string) ([]models.ChannelVideo, error)
}

type DashboardService struct {
	store DashboardStore
	cache StatsCache
}

func NewDashboardService(store DashboardStore, cache StatsCache) *DashboardService {
	if cache == nil {
		cache = noopStatsCache{}
	}
	return &DashboardService{store: store, cache: cache}
}

// GetChannelStats always returns every counter, zero when there is nothing
// to count
func (s *DashboardService) GetChannelStats(ctx context.Context, ownerID string) (*models.ChannelStats, error) {
	if err := validateID(ownerID, "channel id"); err != nil {
		return nil, err
	}

	if stats, ok := s.cache.Get(ctx, ownerID); ok {
		return stats, nil
	}

	stats, err := s.store.ChannelStats(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Internal("Error while fetching channel stats", err)
	}
	if stats == nil {
		return nil, apperrors.NotFound("Channel not found")
	}

	s.cache.Set(ctx, ownerID, stats)
	return stats, nil
}

// GetChannelVideos lists all of the owner's videos; none is an empty list
func (s *DashboardService) GetChannelVideos(ctx context.Context, ownerID string) ([]models.ChannelVideo, error) {
	if err := validateID(ownerID, "channel id"); err != nil {
		return nil, err
	}

	videos, err := s.store.ChannelVideos(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Internal("Error while fetching channel videos", err)
	}
	if videos == nil {
		videos = []models.ChannelVideo{}
	}
	return videos, nil
}
