package handlers

import (
	"net/http"

	"videotube/internal/apperrors"
	"videotube/internal/models"
	"videotube/internal/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GetCurrentUser returns the caller resolved by the auth middleware,
// registering them on first sight.
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	value, ok := c.Get("user")
	user, isUser := value.(*models.User)
	if !ok || !isUser {
		_ = c.Error(apperrors.Unauthorized("User not authenticated"))
		return
	}

	c.Header("Cache-Control", "private, no-cache")
	response.Success(c, http.StatusOK, user, "Current user fetched successfully")
}
