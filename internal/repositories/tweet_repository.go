// ===============================
// internal/repositories/tweet_repository.go - Tweet Repository
// ===============================

package repositories

import (
	"context"
	"database/sql"

	"videotube/internal/database"
	"videotube/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type TweetRepository struct {
	db *sqlx.DB
}

func NewTweetRepository(db *sqlx.DB) *TweetRepository {
	return &TweetRepository{db: db}
}

func (r *TweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	query := `
		INSERT INTO tweets (owner_id, content)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query, tweet.OwnerID, tweet.Content).
		Scan(&tweet.ID, &tweet.CreatedAt, &tweet.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "tweets: create")
	}
	return nil
}

func (r *TweetRepository) GetByID(ctx context.Context, id string) (*models.Tweet, error) {
	var tweet models.Tweet
	query := `SELECT ` + tweetColumns + ` FROM tweets t WHERE t.id = $1`

	err := r.db.GetContext(ctx, &tweet, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "tweets: get by id")
	}
	return &tweet, nil
}

// ListByOwnerWithLikes returns every tweet of ownerID with its like count,
// ordered by tweet id ascending
func (r *TweetRepository) ListByOwnerWithLikes(ctx context.Context, ownerID string) ([]models.TweetWithLikes, error) {
	tweets := []models.TweetWithLikes{}
	query := `
		SELECT ` + tweetColumns + `, COUNT(l.id) AS total_likes
		FROM tweets t
		LEFT JOIN likes l ON l.tweet_id = t.id
		WHERE t.owner_id = $1
		GROUP BY t.id
		ORDER BY t.id ASC`

	if err := r.db.SelectContext(ctx, &tweets, query, ownerID); err != nil {
		return nil, errors.Wrap(err, "tweets: list by owner")
	}
	return tweets, nil
}

// UpdateContent replaces the content of a tweet owned by ownerID. Nil when
// no such tweet exists.
func (r *TweetRepository) UpdateContent(ctx context.Context, id, ownerID, content string) (*models.Tweet, error) {
	var tweet models.Tweet
	query := `
		UPDATE tweets t
		SET content = $3, updated_at = CURRENT_TIMESTAMP
		WHERE t.id = $1 AND t.owner_id = $2
		RETURNING ` + tweetColumns

	err := r.db.GetContext(ctx, &tweet, query, id, ownerID, content)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "tweets: update content")
	}
	return &tweet, nil
}

// DeleteCascade removes a tweet and every like targeting it in one
// transaction. Returns the number of likes removed.
func (r *TweetRepository) DeleteCascade(ctx context.Context, id string, guard DeleteGuard[models.Tweet]) (int64, error) {
	var likesDeleted int64

	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var (
			tweet models.Tweet
			row   *models.Tweet
		)
		err := tx.GetContext(ctx, &tweet,
			`SELECT `+tweetColumns+` FROM tweets t WHERE t.id = $1 FOR UPDATE`, id)
		switch {
		case err == sql.ErrNoRows:
		case err != nil:
			return errors.Wrap(err, "tweets: lock for delete")
		default:
			row = &tweet
		}

		if err := guard(row); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE tweet_id = $1`, id)
		if err != nil {
			return errors.Wrap(err, "tweets: delete likes")
		}
		if likesDeleted, err = res.RowsAffected(); err != nil {
			return errors.Wrap(err, "tweets: delete likes")
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM tweets WHERE id = $1`, id); err != nil {
			return errors.Wrap(err, "tweets: delete")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return likesDeleted, nil
}
