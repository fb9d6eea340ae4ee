// ===============================
// internal/services/tweet.go - Tweet Workflow
// ===============================

package services

import (
	"context"

	"videotube/internal/apperrors"
	"videotube/internal/models"
	"videotube/internal/repositories"

	"github.com/rs/zerolog"
)

type TweetStore interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id string) (*models.Tweet, error)
	ListByOwnerWithLikes(ctx context.Context, ownerID string) ([]models.TweetWithLikes, error)
	UpdateContent(ctx context.Context, id, ownerID, content string) (*models.Tweet, error)
	DeleteCascade(ctx context.Context, id string, guard repositories.DeleteGuard[models.Tweet]) (int64, error)
}

type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*models.OwnerProfile, error)
}

type TweetService struct {
	tweets TweetStore
	users  ProfileStore
	log    zerolog.Logger
}

func NewTweetService(tweets TweetStore, users ProfileStore, log zerolog.Logger) *TweetService {
	return &TweetService{
		tweets: tweets,
		users:  users,
		log:    log.With().Str("component", "tweets").Logger(),
	}
}

func (s *TweetService) CreateTweet(ctx context.Context, ownerID, content string) (*models.Tweet, error) {
	content, errs := models.ValidateTweetContent(content)
	if len(errs) > 0 {
		return nil, apperrors.InvalidInput("Invalid tweet content").WithDetails(errs...)
	}

	tweet := &models.Tweet{OwnerID: ownerID, Content: content}
	if err := s.tweets.Create(ctx, tweet); err != nil {
		return nil, apperrors.Internal("Error while creating tweet", err)
	}

	stored, err := s.tweets.GetByID(ctx, tweet.ID)
	if err != nil {
		return nil, apperrors.Internal("Error while confirming tweet", err)
	}
	if stored == nil {
		return nil, apperrors.Internal("Tweet was not saved", nil)
	}
	return stored, nil
}

// GetUserTweets lists a user's tweets by id with like counts next to the
// author's public profile. A user without tweets is reported as not found.
func (s *TweetService) GetUserTweets(ctx context.Context, targetUserID, callerID string) (*models.UserTweets, error) {
	if err := validateID(targetUserID, "userId"); err != nil {
		return nil, err
	}

	tweets, err := s.tweets.ListByOwnerWithLikes(ctx, targetUserID)
	if err != nil {
		return nil, apperrors.Internal("Error while fetching tweets", err)
	}
	if len(tweets) == 0 {
		return nil, apperrors.NotFound("No tweets found")
	}

	profile, err := s.users.GetProfile(ctx, targetUserID)
	if err != nil {
		return nil, apperrors.Internal("Error while fetching user", err)
	}
	if profile == nil {
		return nil, apperrors.NotFound("User not found")
	}

	return &models.UserTweets{
		Tweets: tweets,
		TweetedBy: models.TweetAuthor{
			OwnerProfile: *profile,
			IsTweetOwner: callerID == targetUserID,
		},
	}, nil
}

func (s *TweetService) UpdateTweet(ctx context.Context, tweetID, callerID, content string) (*models.Tweet, error) {
	if err := validateID(tweetID, "tweetId"); err != nil {
		return nil, err
	}
	content, errs := models.ValidateTweetContent(content)
	if len(errs) > 0 {
		return nil, apperrors.InvalidInput("Invalid tweet content").WithDetails(errs...)
	}

	existing, err := s.tweets.GetByID(ctx, tweetID)
	if err != nil {
		return nil, apperrors.Internal("Error while fetching tweet", err)
	}
	if existing == nil {
		return nil, apperrors.NotFound("Tweet not found")
	}
	if existing.OwnerID != callerID {
		return nil, apperrors.Forbidden("You are not allowed to update this tweet")
	}

	updated, err := s.tweets.UpdateContent(ctx, tweetID, callerID, content)
	if err != nil {
		return nil, apperrors.Internal("Error while updating tweet", err)
	}
	if updated == nil {
		return nil, apperrors.NotFound("Tweet not found")
	}
	return updated, nil
}

// DeleteTweet removes the tweet and its likes together
func (s *TweetService) DeleteTweet(ctx context.Context, tweetID, callerID string) error {
	if err := validateID(tweetID, "tweetId"); err != nil {
		return err
	}

	likes, err := s.tweets.DeleteCascade(ctx, tweetID, func(t *models.Tweet) error {
		if t == nil {
			return apperrors.NotFound("Tweet not found")
		}
		if t.OwnerID != callerID {
			return apperrors.Forbidden("You are not allowed to delete this tweet")
		}
		return nil
	})
	if err != nil {
		return passThrough(err, "Error while deleting tweet")
	}

	s.log.Info().Str("tweet_id", tweetID).Int64("likes", likes).Msg("tweet deleted")
	return nil
}
