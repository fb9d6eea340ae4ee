// ===============================
// internal/repositories/video_repository.go - Video Repository
// ===============================

package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"videotube/internal/database"
	"videotube/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// DeleteGuard runs inside the delete transaction after the target row is
// locked. A nil row means the target does not exist. Returning an error
// aborts the transaction and is passed back unchanged.
type DeleteGuard[T any] func(row *T) error

type VideoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// ===============================
// READS
// ===============================

// GetByID returns the raw video record regardless of publish state
func (r *VideoRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	var video models.Video
	query := `SELECT ` + videoColumns + ` FROM videos v WHERE v.id = $1`

	err := r.db.GetContext(ctx, &video, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "videos: get by id")
	}
	return &video, nil
}

// IsPublished reports existence and publish state in one lookup
func (r *VideoRepository) IsPublished(ctx context.Context, id string) (exists bool, published bool, err error) {
	err = r.db.QueryRowxContext(ctx, `SELECT is_published FROM videos WHERE id = $1`, id).Scan(&published)
	if err == sql.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, errors.Wrap(err, "videos: publish state")
	}
	return true, published, nil
}

// List returns one page of published videos matching the filter plus the
// total number of matches. SortBy must already be a known public field.
func (r *VideoRepository) List(ctx context.Context, f models.VideoListFilter) ([]models.VideoWithOwner, int64, error) {
	column, ok := models.SortColumn(f.SortBy)
	if !ok {
		return nil, 0, fmt.Errorf("videos: unknown sort field %q", f.SortBy)
	}
	direction := "DESC"
	if f.SortDirection == models.SortAsc {
		direction = "ASC"
	}

	q := &queryBuilder{}
	q.where("v.is_published = true")
	if f.OwnerID != "" {
		q.where("v.owner_id = " + q.arg(f.OwnerID))
	}
	if query := strings.TrimSpace(f.Query); query != "" {
		q.where("to_tsvector('english', v.title || ' ' || v.description) @@ plainto_tsquery('english', " + q.arg(query) + ")")
	}
	where := q.whereClause()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM videos v`+where, q.args...); err != nil {
		return nil, 0, errors.Wrap(err, "videos: count")
	}

	videos := []models.VideoWithOwner{}
	if total == 0 {
		return videos, 0, nil
	}

	limit := q.arg(f.Limit)
	offset := q.arg(f.Offset())
	query := `SELECT ` + videoColumns + `, ` + ownerColumns + `
		FROM videos v
		JOIN users u ON u.id = v.owner_id` + where + `
		ORDER BY ` + column + ` ` + direction + `, v.id ` + direction + `
		LIMIT ` + limit + ` OFFSET ` + offset

	if err := r.db.SelectContext(ctx, &videos, query, q.args...); err != nil {
		return nil, 0, errors.Wrap(err, "videos: list")
	}
	return videos, total, nil
}

// GetDetail returns a published video with owner profile, engagement counts
// and the caller's like/subscription state. Nil when absent or unpublished.
func (r *VideoRepository) GetDetail(ctx context.Context, videoID, callerID string) (*models.VideoDetail, error) {
	var detail models.VideoDetail
	query := `
		SELECT ` + videoColumns + `, ` + ownerColumns + `,
			COALESCE((SELECT COUNT(*) FROM likes l WHERE l.video_id = v.id), 0) AS total_likes,
			COALESCE((SELECT COUNT(*) FROM comments c WHERE c.video_id = v.id), 0) AS total_comments,
			COALESCE((SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = v.owner_id), 0) AS total_subscribers,
			EXISTS (SELECT 1 FROM likes l WHERE l.video_id = v.id AND l.liked_by = $2) AS is_liked,
			EXISTS (SELECT 1 FROM subscriptions s WHERE s.channel_id = v.owner_id AND s.subscriber_id = $2) AS is_subscribed
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.id = $1 AND v.is_published = true`

	err := r.db.GetContext(ctx, &detail, query, videoID, callerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "videos: get detail")
	}
	return &detail, nil
}

// ===============================
// WRITES
// ===============================

// Create inserts a video and fills in the generated id and timestamps
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (owner_id, video_file, thumbnail, title, description, duration, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, views, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		video.OwnerID, video.VideoFile, video.Thumbnail, video.Title,
		video.Description, video.Duration, video.IsPublished,
	).Scan(&video.ID, &video.Views, &video.CreatedAt, &video.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "videos: create")
	}
	return nil
}

// IncrementViews bumps the counter of a published video. Returns false when
// no published row matched.
func (r *VideoRepository) IncrementViews(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE videos SET views = views + 1 WHERE id = $1 AND is_published = true`, id)
	if err != nil {
		return false, errors.Wrap(err, "videos: increment views")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "videos: increment views")
	}
	return affected > 0, nil
}

// Update applies every supplied change in a single statement. Returns nil
// when the video is gone or no longer owned by ownerID.
func (r *VideoRepository) Update(ctx context.Context, id, ownerID string, changes models.VideoChanges) (*models.Video, error) {
	q := &queryBuilder{}
	var sets []string
	if changes.Title != nil {
		sets = append(sets, "title = "+q.arg(*changes.Title))
	}
	if changes.Description != nil {
		sets = append(sets, "description = "+q.arg(*changes.Description))
	}
	if changes.Thumbnail != nil {
		sets = append(sets, "thumbnail = "+q.arg(*changes.Thumbnail))
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("videos: update with no changes")
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")

	q.where("v.id = " + q.arg(id))
	q.where("v.owner_id = " + q.arg(ownerID))

	query := `UPDATE videos v SET ` + strings.Join(sets, ", ") + q.whereClause() +
		` RETURNING ` + videoColumns

	var video models.Video
	err := r.db.GetContext(ctx, &video, query, q.args...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "videos: update")
	}
	return &video, nil
}

// TogglePublish flips is_published atomically and returns the new record
func (r *VideoRepository) TogglePublish(ctx context.Context, id, ownerID string) (*models.Video, error) {
	query := `
		UPDATE videos v
		SET is_published = NOT v.is_published, updated_at = CURRENT_TIMESTAMP
		WHERE v.id = $1 AND v.owner_id = $2
		RETURNING ` + videoColumns

	var video models.Video
	err := r.db.GetContext(ctx, &video, query, id, ownerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "videos: toggle publish")
	}
	return &video, nil
}

// DeleteCascade removes a video with its comments, the likes on those
// comments and the likes on the video, all in one transaction. The video row
// is locked first so concurrent deletes serialize; the loser's guard sees nil.
func (r *VideoRepository) DeleteCascade(ctx context.Context, id string, guard DeleteGuard[models.Video]) (*models.Video, *models.CascadeResult, error) {
	var (
		deleted models.Video
		result  models.CascadeResult
	)

	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var row *models.Video
		err := tx.GetContext(ctx, &deleted,
			`SELECT `+videoColumns+` FROM videos v WHERE v.id = $1 FOR UPDATE`, id)
		switch {
		case err == sql.ErrNoRows:
		case err != nil:
			return errors.Wrap(err, "videos: lock for delete")
		default:
			row = &deleted
		}

		if err := guard(row); err != nil {
			return err
		}

		steps := []struct {
			query string
			count *int64
		}{
			{`DELETE FROM likes WHERE comment_id IN (SELECT id FROM comments WHERE video_id = $1)`, &result.CommentLikesDeleted},
			{`DELETE FROM comments WHERE video_id = $1`, &result.CommentsDeleted},
			{`DELETE FROM likes WHERE video_id = $1`, &result.LikesDeleted},
			{`DELETE FROM videos WHERE id = $1`, nil},
		}
		for _, step := range steps {
			res, err := tx.ExecContext(ctx, step.query, id)
			if err != nil {
				return errors.Wrap(err, "videos: cascade delete")
			}
			if step.count != nil {
				if *step.count, err = res.RowsAffected(); err != nil {
					return errors.Wrap(err, "videos: cascade delete")
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &deleted, &result, nil
}
