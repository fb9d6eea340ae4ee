// ===============================
// internal/middleware/errors.go - Error Envelope and Panic Recovery
// ===============================

package middleware

import (
	"net/http"

	"videotube/internal/apperrors"
	"videotube/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrorHandler turns the last error attached with c.Error into the failure
// envelope. Handlers attach the error and return without writing.
func ErrorHandler(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		apiErr := apperrors.FromError(c.Errors.Last().Err)
		if apiErr.StatusCode >= http.StatusInternalServerError {
			log.Error().
				Err(apiErr.Unwrap()).
				Str("method", c.Request.Method).
				Str("path", c.FullPath()).
				Msg(apiErr.Message)
		}
		response.Failure(c, apiErr)
	}
}

// Recovery logs panics and answers with a generic internal error
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("recovered from panic")
		response.Failure(c, apperrors.Internal("Something went wrong", nil))
	})
}
