package handlers

import (
	"context"
	"net/http"

	"videotube/internal/apperrors"
	"videotube/internal/models"
	"videotube/internal/response"

	"github.com/gin-gonic/gin"
)

type TweetWorkflow interface {
	CreateTweet(ctx context.Context, ownerID, content string) (*models.Tweet, error)
	GetUserTweets(ctx context.Context, targetUserID, callerID string) (*models.UserTweets, error)
	UpdateTweet(ctx context.Context, tweetID, callerID, content string) (*models.Tweet, error)
	DeleteTweet(ctx context.Context, tweetID, callerID string) error
}

type TweetHandler struct {
	service TweetWorkflow
}

func NewTweetHandler(service TweetWorkflow) *TweetHandler {
	return &TweetHandler{service: service}
}

func (h *TweetHandler) CreateTweet(c *gin.Context) {
	var req models.TweetContentRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(apperrors.InvalidInput("Invalid request body").WithDetails(err.Error()))
		return
	}

	tweet, err := h.service.CreateTweet(c.Request.Context(), callerID(c), req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, tweet, "Tweet created successfully")
}

func (h *TweetHandler) GetUserTweets(c *gin.Context) {
	tweets, err := h.service.GetUserTweets(c.Request.Context(), c.Param("userId"), callerID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, tweets, "Tweets fetched successfully")
}

func (h *TweetHandler) UpdateTweet(c *gin.Context) {
	var req models.TweetContentRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(apperrors.InvalidInput("Invalid request body").WithDetails(err.Error()))
		return
	}

	tweet, err := h.service.UpdateTweet(c.Request.Context(), c.Param("tweetId"), callerID(c), req.Content)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, tweet, "Tweet updated successfully")
}

func (h *TweetHandler) DeleteTweet(c *gin.Context) {
	if err := h.service.DeleteTweet(c.Request.Context(), c.Param("tweetId"), callerID(c)); err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{}, "Tweet deleted successfully")
}
