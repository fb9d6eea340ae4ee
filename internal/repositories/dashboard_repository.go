// ===============================
// internal/repositories/dashboard_repository.go - Channel Dashboard Queries
// ===============================

package repositories

import (
	"context"

	"videotube/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

type channelStatsRow struct {
	OwnerExists bool `db:"owner_exists"`
	models.ChannelStats
}

// ChannelStats aggregates the owner's channel in one statement. Every count
// is COALESCEd so channels without videos or subscribers get zeros. Returns
// nil when the owner does not exist.
func (r *DashboardRepository) ChannelStats(ctx context.Context, ownerID string) (*models.ChannelStats, error) {
	var row channelStatsRow
	query := `
		SELECT
			EXISTS (SELECT 1 FROM users WHERE id = $1) AS owner_exists,
			COALESCE((SELECT COUNT(*) FROM videos WHERE owner_id = $1), 0) AS total_videos,
			COALESCE((SELECT SUM(views) FROM videos WHERE owner_id = $1), 0)::BIGINT AS total_views,
			COALESCE((
				SELECT COUNT(*) FROM comments c
				JOIN videos v ON v.id = c.video_id
				WHERE v.owner_id = $1
			), 0) AS total_comments,
			COALESCE((
				SELECT COUNT(*) FROM likes l
				JOIN videos v ON v.id = l.video_id
				WHERE v.owner_id = $1
			), 0) AS total_likes,
			COALESCE((SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1), 0) AS total_subscribers`

	if err := r.db.GetContext(ctx, &row, query, ownerID); err != nil {
		return nil, errors.Wrap(err, "dashboard: channel stats")
	}
	if !row.OwnerExists {
		return nil, nil
	}
	stats := row.ChannelStats
	return &stats, nil
}

// ChannelVideos lists every video of the owner, published or not, newest
// first, with like and comment counts
func (r *DashboardRepository) ChannelVideos(ctx context.Context, ownerID string) ([]models.ChannelVideo, error) {
	videos := []models.ChannelVideo{}
	query := `
		SELECT ` + videoColumns + `,
			COALESCE((SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id), 0) AS total_likes,
			COALESCE((SELECT COUNT(*) FROM comments c WHERE c.video_id = v.id), 0) AS total_comments
		FROM videos v
		WHERE v.owner_id = $1
		ORDER BY v.created_at DESC, v.id DESC`

	if err := r.db.SelectContext(ctx, &videos, query, ownerID); err != nil {
		return nil, errors.Wrap(err, "dashboard: channel videos")
	}
	return videos, nil
}
