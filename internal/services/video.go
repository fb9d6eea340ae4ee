// ===============================
// internal/services/video.go - Video Workflow
// ===============================

package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"videotube/internal/apperrors"
	"videotube/internal/models"
	"videotube/internal/repositories"

	"github.com/rs/zerolog"
)

// VideoStore is the persistence the video workflow needs
type VideoStore interface {
	GetByID(ctx context.Context, id string) (*models.Video, error)
	IsPublished(ctx context.Context, id string) (exists bool, published bool, err error)
	List(ctx context.Context, f models.VideoListFilter) ([]models.VideoWithOwner, int64, error)
	GetDetail(ctx context.Context, videoID, callerID string) (*models.VideoDetail, error)
	Create(ctx context.Context, video *models.Video) error
	IncrementViews(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id, ownerID string, changes models.VideoChanges) (*models.Video, error)
	TogglePublish(ctx context.Context, id, ownerID string) (*models.Video, error)
	DeleteCascade(ctx context.Context, id string, guard repositories.DeleteGuard[models.Video]) (*models.Video, *models.CascadeResult, error)
}

// WatchHistoryStore records videos a user has opened
type WatchHistoryStore interface {
	AppendWatchHistory(ctx context.Context, userID, videoID string) (bool, error)
}

// MediaBridge uploads local temp files and deletes hosted assets
type MediaBridge interface {
	Upload(ctx context.Context, localPath string) (*models.UploadedMedia, error)
	Delete(ctx context.Context, url string)
}

type VideoService struct {
	videos VideoStore
	users  WatchHistoryStore
	media  MediaBridge
	stats  StatsCache
	log    zerolog.Logger
}

func NewVideoService(videos VideoStore, users WatchHistoryStore, media MediaBridge, stats StatsCache, log zerolog.Logger) *VideoService {
	if stats == nil {
		stats = noopStatsCache{}
	}
	return &VideoService{
		videos: videos,
		users:  users,
		media:  media,
		stats:  stats,
		log:    log.With().Str("component", "videos").Logger(),
	}
}

// ===============================
// LISTING AND READS
// ===============================

// ListVideos returns one page of published videos. A page past the end is an
// empty page, not an error.
func (s *VideoService) ListVideos(ctx context.Context, q models.VideoListQuery) (*models.VideoPage, error) {
	filter, errs := q.Filter()
	if len(errs) > 0 {
		return nil, apperrors.InvalidInput("Invalid query parameters").WithDetails(errs...)
	}
	if filter.OwnerID != "" {
		if err := validateID(filter.OwnerID, "userId"); err != nil {
			return nil, err
		}
	}

	videos, total, err := s.videos.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("Error while fetching videos", err)
	}
	return models.NewVideoPage(videos, total, filter), nil
}

// GetVideo returns the stored record regardless of publish state
func (s *VideoService) GetVideo(ctx context.Context, videoID string) (*models.Video, error) {
	if err := validateID(videoID, "videoId"); err != nil {
		return nil, err
	}
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, apperrors.Internal("Error while fetching video", err)
	}
	if video == nil {
		return nil, apperrors.NotFound("Video not found")
	}
	return video, nil
}

// GetVideoDetail counts a view, records the video in the caller's watch
// history and returns the detail view. Missing and unpublished videos are
// rejected before the counter moves. The view drops the owner's cached
// channel stats.
func (s *VideoService) GetVideoDetail(ctx context.Context, videoID, callerID string) (*models.VideoDetail, error) {
	if err := validateID(videoID, "videoId"); err != nil {
		return nil, err
	}

	exists, published, err := s.videos.IsPublished(ctx, videoID)
	if err != nil {
		return nil, apperrors.Internal("Error while fetching video", err)
	}
	if !exists || !published {
		return nil, apperrors.NotFound("Video not found")
	}

	if _, err := s.videos.IncrementViews(ctx, videoID); err != nil {
		return nil, apperrors.Internal("Error while updating views", err)
	}

	detail, err := s.videos.GetDetail(ctx, videoID, callerID)
	if err != nil {
		return nil, apperrors.Internal("Error while fetching video", err)
	}
	if detail == nil {
		return nil, apperrors.NotFound("Video not found")
	}
	s.stats.Invalidate(ctx, detail.OwnerID)

	if callerID != "" {
		if _, err := s.users.AppendWatchHistory(ctx, callerID, videoID); err != nil {
			s.log.Warn().Err(err).Str("user_id", callerID).Str("video_id", videoID).Msg("watch history not updated")
		}
	}

	return detail, nil
}

// ===============================
// PUBLISH / UPDATE
// ===============================

// PublishVideo uploads the media, then persists the record. Each failure
// after an upload removes whatever was already uploaded.
func (s *VideoService) PublishVideo(ctx context.Context, in models.PublishVideoInput) (*models.Video, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, apperrors.InvalidInput("All fields are required").WithDetails(errs...)
	}

	videoFile, err := s.media.Upload(ctx, in.VideoPath)
	if err != nil {
		return nil, apperrors.Internal("Error while uploading video", err)
	}

	thumbnail, err := s.media.Upload(ctx, in.ThumbnailPath)
	if err != nil {
		s.media.Delete(context.WithoutCancel(ctx), videoFile.URL)
		return nil, apperrors.Internal("Error while uploading thumbnail", err)
	}

	discard := func() {
		cleanup := context.WithoutCancel(ctx)
		s.media.Delete(cleanup, videoFile.URL)
		s.media.Delete(cleanup, thumbnail.URL)
	}

	video := &models.Video{
		OwnerID:     in.OwnerID,
		VideoFile:   videoFile.URL,
		Thumbnail:   thumbnail.URL,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Duration:    videoFile.Duration,
		IsPublished: true,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		discard()
		return nil, apperrors.Internal("Error while saving video", err)
	}

	stored, err := s.videos.GetByID(ctx, video.ID)
	if err != nil {
		return nil, apperrors.Internal("Error while confirming video", err)
	}
	if stored == nil {
		discard()
		return nil, apperrors.Internal("Video was not saved", nil)
	}

	s.stats.Invalidate(ctx, in.OwnerID)
	s.log.Info().Str("video_id", stored.ID).Str("owner_id", stored.OwnerID).Msg("video published")

	return stored, nil
}

// UpdateVideo applies title, description and thumbnail changes in one write.
// A replaced thumbnail is deleted only after the write succeeds; a new
// thumbnail is deleted again if the write fails.
func (s *VideoService) UpdateVideo(ctx context.Context, videoID, callerID string, in models.UpdateVideoInput) (*models.Video, error) {
	if err := validateID(videoID, "videoId"); err != nil {
		return nil, err
	}

	in.Normalize()
	if in.IsEmpty() {
		return nil, apperrors.InvalidInput("At least one field is required to update")
	}
	if in.Title != nil && utf8.RuneCountInString(*in.Title) > models.MaxTitleLength {
		return nil, apperrors.InvalidInput("title must be 200 characters or less")
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > models.MaxDescriptionLength {
		return nil, apperrors.InvalidInput("description must be 5000 characters or less")
	}

	existing, err := s.ownedVideo(ctx, videoID, callerID, "You are not allowed to update this video")
	if err != nil {
		return nil, err
	}

	changes := models.VideoChanges{Title: in.Title, Description: in.Description}

	var uploaded *models.UploadedMedia
	if in.ThumbnailPath != "" {
		if uploaded, err = s.media.Upload(ctx, in.ThumbnailPath); err != nil {
			return nil, apperrors.Internal("Error while uploading thumbnail", err)
		}
		changes.Thumbnail = &uploaded.URL
	}

	updated, err := s.videos.Update(ctx, videoID, callerID, changes)
	if err != nil || updated == nil {
		if uploaded != nil {
			s.media.Delete(context.WithoutCancel(ctx), uploaded.URL)
		}
		if err != nil {
			return nil, apperrors.Internal("Error while updating video", err)
		}
		return nil, apperrors.NotFound("Video not found")
	}

	if uploaded != nil && existing.Thumbnail != "" && existing.Thumbnail != uploaded.URL {
		s.media.Delete(context.WithoutCancel(ctx), existing.Thumbnail)
	}

	return updated, nil
}

// TogglePublish flips the publish flag of an owned video
func (s *VideoService) TogglePublish(ctx context.Context, videoID, callerID string) (*models.Video, error) {
	if err := validateID(videoID, "videoId"); err != nil {
		return nil, err
	}
	if _, err := s.ownedVideo(ctx, videoID, callerID, "You are not allowed to change this video"); err != nil {
		return nil, err
	}

	video, err := s.videos.TogglePublish(ctx, videoID, callerID)
	if err != nil {
		return nil, apperrors.Internal("Error while toggling publish status", err)
	}
	if video == nil {
		return nil, apperrors.NotFound("Video not found")
	}

	s.stats.Invalidate(ctx, callerID)
	return video, nil
}

// ===============================
// DELETE
// ===============================

// DeleteVideo removes the video and its comments and likes in one
// transaction, then deletes the hosted files. Host failures after commit are
// logged only.
func (s *VideoService) DeleteVideo(ctx context.Context, videoID, callerID string) (*models.CascadeResult, error) {
	if err := validateID(videoID, "videoId"); err != nil {
		return nil, err
	}

	deleted, result, err := s.videos.DeleteCascade(ctx, videoID, func(v *models.Video) error {
		if v == nil {
			return apperrors.NotFound("Video not found")
		}
		if v.OwnerID != callerID {
			return apperrors.Forbidden("You are not allowed to delete this video")
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "Error while deleting video")
	}

	cleanup := context.WithoutCancel(ctx)
	s.media.Delete(cleanup, deleted.VideoFile)
	s.media.Delete(cleanup, deleted.Thumbnail)
	s.stats.Invalidate(cleanup, deleted.OwnerID)

	s.log.Info().
		Str("video_id", videoID).
		Int64("comments", result.CommentsDeleted).
		Int64("likes", result.LikesDeleted).
		Int64("comment_likes", result.CommentLikesDeleted).
		Msg("video deleted")

	return result, nil
}

func (s *VideoService) ownedVideo(ctx context.Context, videoID, callerID, forbidden string) (*models.Video, error) {
	video, err := s.videos.GetByID(ctx, videoID)
	if err != nil {
		return nil, apperrors.Internal("Error while fetching video", err)
	}
	if video == nil {
		return nil, apperrors.NotFound("Video not found")
	}
	if video.OwnerID != callerID {
		return nil, apperrors.Forbidden(forbidden)
	}
	return video, nil
}
