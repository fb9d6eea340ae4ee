// ===============================
// internal/database/migrations.go - Schema Migrations
// ===============================

package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

type Migration struct {
	Version string
	Query   string
}

// Migrations is the ordered schema history. Never edit an applied entry,
// append a new one instead.
var Migrations = []Migration{
	{
		Version: "001_users_videos_tweets",
		Query: `
			CREATE EXTENSION IF NOT EXISTS pgcrypto;

			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				auth_uid VARCHAR(255) UNIQUE NOT NULL,
				username VARCHAR(100) UNIQUE NOT NULL,
				full_name VARCHAR(255) NOT NULL DEFAULT '',
				email VARCHAR(255) NOT NULL DEFAULT '',
				avatar TEXT NOT NULL DEFAULT '',
				cover_image TEXT NOT NULL DEFAULT '',
				watch_history TEXT[] NOT NULL DEFAULT '{}',
				created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
			);

			CREATE TABLE IF NOT EXISTS videos (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				owner_id UUID NOT NULL REFERENCES users(id),
				video_file TEXT NOT NULL,
				thumbnail TEXT NOT NULL,
				title VARCHAR(200) NOT NULL,
				description TEXT NOT NULL,
				duration DOUBLE PRECISION NOT NULL DEFAULT 0,
				views BIGINT NOT NULL DEFAULT 0 CHECK (views >= 0),
				is_published BOOLEAN NOT NULL DEFAULT true,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
			);

			CREATE TABLE IF NOT EXISTS tweets (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				owner_id UUID NOT NULL REFERENCES users(id),
				content TEXT NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
			);
		`,
	},
	{
		Version: "002_engagement",
		Query: `
			CREATE TABLE IF NOT EXISTS comments (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				video_id UUID NOT NULL REFERENCES videos(id),
				owner_id UUID NOT NULL REFERENCES users(id),
				content TEXT NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
			);

			CREATE TABLE IF NOT EXISTS likes (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				video_id UUID REFERENCES videos(id),
				tweet_id UUID REFERENCES tweets(id),
				comment_id UUID REFERENCES comments(id),
				liked_by UUID NOT NULL REFERENCES users(id),
				created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
				CONSTRAINT likes_single_target CHECK (num_nonnulls(video_id, tweet_id, comment_id) = 1)
			);

			CREATE TABLE IF NOT EXISTS subscriptions (
				id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
				subscriber_id UUID NOT NULL REFERENCES users(id),
				channel_id UUID NOT NULL REFERENCES users(id),
				created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
				UNIQUE(subscriber_id, channel_id)
			);
		`,
	},
	{
		Version: "003_indexes",
		Query: `
			CREATE INDEX IF NOT EXISTS idx_videos_owner_created ON videos(owner_id, created_at DESC);
			CREATE INDEX IF NOT EXISTS idx_videos_published_created ON videos(is_published, created_at DESC);
			CREATE INDEX IF NOT EXISTS idx_videos_search ON videos
				USING GIN (to_tsvector('english', title || ' ' || description));
			CREATE INDEX IF NOT EXISTS idx_tweets_owner ON tweets(owner_id, id);
			CREATE INDEX IF NOT EXISTS idx_comments_video ON comments(video_id);
			CREATE INDEX IF NOT EXISTS idx_likes_video ON likes(video_id) WHERE video_id IS NOT NULL;
			CREATE INDEX IF NOT EXISTS idx_likes_tweet ON likes(tweet_id) WHERE tweet_id IS NOT NULL;
			CREATE INDEX IF NOT EXISTS idx_likes_comment ON likes(comment_id) WHERE comment_id IS NOT NULL;
			CREATE INDEX IF NOT EXISTS idx_subscriptions_channel ON subscriptions(channel_id);
		`,
	},
}

// RunMigrations applies every pending migration in order
func RunMigrations(ctx context.Context, db *sqlx.DB, log zerolog.Logger) error {
	log.Info().Int("count", len(Migrations)).Msg("running database migrations")

	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS migrations (
			id SERIAL PRIMARY KEY,
			version VARCHAR(255) UNIQUE NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, migration := range Migrations {
		if err := applyMigration(ctx, db, migration, log); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
		}
	}

	log.Info().Msg("database migrations completed")
	return nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, migration Migration, log zerolog.Logger) error {
	// Check if migration already applied
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations WHERE version = $1", migration.Version).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check migration status: %w", err)
	}

	if count > 0 {
		log.Debug().Str("version", migration.Version).Msg("migration already applied, skipping")
		return nil
	}

	log.Info().Str("version", migration.Version).Msg("applying migration")

	return WithTx(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, migration.Query); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO migrations (version) VALUES ($1)", migration.Version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
		}
		return nil
	})
}
