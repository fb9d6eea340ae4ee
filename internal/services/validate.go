package services

import (
	"context"

	"videotube/internal/apperrors"
	"videotube/internal/models"

	"github.com/google/uuid"
)

// validateID rejects malformed identifiers before any query runs
func validateID(id, field string) error {
	if id == "" {
		return apperrors.InvalidInput(field + " is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.InvalidInput("Invalid " + field)
	}
	return nil
}

// passThrough keeps typed errors and wraps everything else as internal
func passThrough(err error, msg string) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.Internal(msg, err)
}

// StatsCache holds recently computed channel stats. Implementations swallow
// their own failures; a miss is always safe.
type StatsCache interface {
	Get(ctx context.Context, ownerID string) (*models.ChannelStats, bool)
	Set(ctx context.Context, ownerID string, stats *models.ChannelStats)
	Invalidate(ctx context.Context, ownerID string)
}

type noopStatsCache struct{}

func (noopStatsCache) Get(context.Context, string) (*models.ChannelStats, bool) { return nil, false }
func (noopStatsCache) Set(context.Context, string, *models.ChannelStats)      {}
func (noopStatsCache) Invalidate(context.Context, string)                     {}
