// ===============================
// internal/handlers/video.go - Video Endpoints
// ===============================

package handlers

import (
	"context"
	"net/http"

	"videotube/internal/apperrors"
	"videotube/internal/models"
	"videotube/internal/response"

	"github.com/gin-gonic/gin"
)

// VideoWorkflow is the part of the video service the HTTP layer drives
type VideoWorkflow interface {
	ListVideos(ctx context.Context, q models.VideoListQuery) (*models.VideoPage, error)
	GetVideoDetail(ctx context.Context, videoID, callerID string) (*models.VideoDetail, error)
	PublishVideo(ctx context.Context, in models.PublishVideoInput) (*models.Video, error)
	UpdateVideo(ctx context.Context, videoID, callerID string, in models.UpdateVideoInput) (*models.Video, error)
	TogglePublish(ctx context.Context, videoID, callerID string) (*models.Video, error)
	DeleteVideo(ctx context.Context, videoID, callerID string) (*models.CascadeResult, error)
}

type VideoHandler struct {
	service VideoWorkflow
	uploads *UploadIntake
}

func NewVideoHandler(service VideoWorkflow, uploads *UploadIntake) *VideoHandler {
	return &VideoHandler{service: service, uploads: uploads}
}

// ===============================
// HEADER HELPERS
// ===============================

func (h *VideoHandler) setVideoListHeaders(c *gin.Context) {
	c.Header("Cache-Control", "private, max-age=60")
}

func (h *VideoHandler) setInteractionHeaders(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
}

// ===============================
// READS
// ===============================

func (h *VideoHandler) GetAllVideos(c *gin.Context) {
	var q models.VideoListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(apperrors.InvalidInput("Invalid query parameters").WithDetails(err.Error()))
		return
	}

	page, err := h.service.ListVideos(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setVideoListHeaders(c)
	response.Success(c, http.StatusOK, page, "Videos fetched successfully")
}

func (h *VideoHandler) GetVideoByID(c *gin.Context) {
	detail, err := h.service.GetVideoDetail(c.Request.Context(), c.Param("videoId"), callerID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setInteractionHeaders(c)
	response.Success(c, http.StatusOK, detail, "Video fetched successfully")
}

// ===============================
// WRITES
// ===============================

func (h *VideoHandler) PublishVideo(c *gin.Context) {
	h.uploads.limit(c)

	videoPath, err := h.uploads.save(c, "videoFile")
	defer cleanup(videoPath)
	if err != nil {
		_ = c.Error(err)
		return
	}
	thumbnailPath, err := h.uploads.save(c, "thumbnail")
	defer cleanup(thumbnailPath)
	if err != nil {
		_ = c.Error(err)
		return
	}

	video, err := h.service.PublishVideo(c.Request.Context(), models.PublishVideoInput{
		OwnerID:       callerID(c),
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		VideoPath:     videoPath,
		ThumbnailPath: thumbnailPath,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, video, "Video published successfully")
}

func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	var in models.UpdateVideoInput

	if c.ContentType() == "multipart/form-data" {
		h.uploads.limit(c)
		path, err := h.uploads.save(c, "thumbnail")
		defer cleanup(path)
		if err != nil {
			_ = c.Error(err)
			return
		}
		in.ThumbnailPath = path
	}

	if title, ok := c.GetPostForm("title"); ok {
		in.Title = &title
	}
	if description, ok := c.GetPostForm("description"); ok {
		in.Description = &description
	}

	video, err := h.service.UpdateVideo(c.Request.Context(), c.Param("videoId"), callerID(c), in)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, video, "Video updated successfully")
}

func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	result, err := h.service.DeleteVideo(c.Request.Context(), c.Param("videoId"), callerID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, result, "Video deleted successfully")
}

func (h *VideoHandler) TogglePublishStatus(c *gin.Context) {
	video, err := h.service.TogglePublish(c.Request.Context(), c.Param("videoId"), callerID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, video, "Publish status toggled successfully")
}

// callerID is set by the auth middleware
func callerID(c *gin.Context) string {
	return c.GetString("userID")
}
