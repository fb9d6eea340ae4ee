// ===============================
// internal/repositories/user_repository.go - User Repository
// ===============================

package repositories

import (
	"context"
	"database/sql"

	"videotube/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// ErrUsernameTaken is returned by Ensure when another account already holds
// the requested username.
var ErrUsernameTaken = errors.New("users: username taken")

const usernameConstraint = "users_username_key"

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByAuthUID looks up the user linked to a Firebase uid
func (r *UserRepository) GetByAuthUID(ctx context.Context, authUID string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE auth_uid = $1`

	err := r.db.GetContext(ctx, &user, query, authUID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "users: get by auth uid")
	}
	return &user, nil
}

// Ensure creates the user for a Firebase uid on first sign-in and returns the
// stored row. Existing rows are returned unchanged.
func (r *UserRepository) Ensure(ctx context.Context, user *models.User) (*models.User, error) {
	var stored models.User
	query := `
		INSERT INTO users (auth_uid, username, full_name, email, avatar)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (auth_uid) DO UPDATE SET auth_uid = EXCLUDED.auth_uid
		RETURNING ` + userColumns

	err := r.db.GetContext(ctx, &stored, query,
		user.AuthUID, user.Username, user.FullName, user.Email, user.Avatar,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == usernameConstraint {
			return nil, ErrUsernameTaken
		}
		return nil, errors.Wrap(err, "users: ensure")
	}
	return &stored, nil
}

// GetProfile returns the public projection, nil when absent
func (r *UserRepository) GetProfile(ctx context.Context, id string) (*models.OwnerProfile, error) {
	var profile models.OwnerProfile
	query := `
		SELECT id, username, full_name, avatar, created_at, updated_at
		FROM users WHERE id = $1`

	err := r.db.GetContext(ctx, &profile, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "users: get profile")
	}
	return &profile, nil
}

// AppendWatchHistory adds videoID to the user's watch history when it is not
// already there. Returns true when a row was changed.
func (r *UserRepository) AppendWatchHistory(ctx context.Context, userID, videoID string) (bool, error) {
	query := `
		UPDATE users
		SET watch_history = array_append(watch_history, $2::text),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND NOT ($2::text = ANY(watch_history))`

	result, err := r.db.ExecContext(ctx, query, userID, videoID)
	if err != nil {
		return false, errors.Wrap(err, "users: append watch history")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "users: append watch history")
	}
	return affected > 0, nil
}
