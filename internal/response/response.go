// ===============================
// internal/response/response.go - JSON Envelopes
// ===============================

package response

import (
	"videotube/internal/apperrors"

	"github.com/gin-gonic/gin"
)

// Envelope wraps every successful response
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// ErrorEnvelope wraps every failed response
type ErrorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
	Success    bool     `json:"success"`
}

func Success(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, Envelope{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	})
}

func Failure(c *gin.Context, err *apperrors.APIError) {
	errs := err.Errors
	if errs == nil {
		errs = []string{}
	}
	c.AbortWithStatusJSON(err.StatusCode, ErrorEnvelope{
		StatusCode: err.StatusCode,
		Message:    err.Message,
		Errors:     errs,
		Success:    false,
	})
}
