// ===============================
// internal/services/user.go - Caller Resolution
// ===============================

package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"videotube/internal/apperrors"
	"videotube/internal/models"
	"videotube/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// usernameAttempts bounds how often a colliding handle is re-derived
const usernameAttempts = 3

type UserStore interface {
	GetByAuthUID(ctx context.Context, authUID string) (*models.User, error)
	Ensure(ctx context.Context, user *models.User) (*models.User, error)
}

type UserService struct {
	users UserStore
	log   zerolog.Logger
}

func NewUserService(users UserStore, log zerolog.Logger) *UserService {
	return &UserService{
		users: users,
		log:   log.With().Str("component", "users").Logger(),
	}
}

// ResolveCaller maps a verified Firebase identity to the local user row,
// creating the row on first sign-in
func (s *UserService) ResolveCaller(ctx context.Context, identity models.AuthIdentity) (*models.User, error) {
	if identity.UID == "" {
		return nil, apperrors.Unauthorized("Invalid token")
	}

	user, err := s.users.GetByAuthUID(ctx, identity.UID)
	if err != nil {
		return nil, apperrors.Internal("Error while resolving user", err)
	}
	if user != nil {
		return user, nil
	}

	username := deriveUsername(identity)
	for attempt := 1; ; attempt++ {
		user, err = s.users.Ensure(ctx, &models.User{
			AuthUID:  identity.UID,
			Username: username,
			FullName: identity.Name,
			Email:    identity.Email,
			Avatar:   identity.Picture,
		})
		if err == nil {
			break
		}
		if !errors.Is(err, repositories.ErrUsernameTaken) || attempt == usernameAttempts {
			return nil, apperrors.Internal("Error while creating user", err)
		}
		s.log.Debug().Str("username", username).Msg("username taken, deriving another")
		username = deriveUsername(identity) + "_" + uuid.NewString()[:8]
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered on first sign-in")
	return user, nil
}

var usernameDisallowed = regexp.MustCompile(`[^a-z0-9_]+`)

// deriveUsername builds a unique handle from the email local part and the
// Firebase uid
func deriveUsername(identity models.AuthIdentity) string {
	base := "user"
	if at := strings.Index(identity.Email, "@"); at > 0 {
		base = identity.Email[:at]
	}
	base = usernameDisallowed.ReplaceAllString(strings.ToLower(base), "")
	if base == "" {
		base = "user"
	}
	if len(base) > 40 {
		base = base[:40]
	}

	suffix := strings.ToLower(identity.UID)
	if len(suffix) > 10 {
		suffix = suffix[:10]
	}
	return base + "_" + suffix
}
