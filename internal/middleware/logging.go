package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RequestLogger writes one line per request
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_id", c.GetString("userID")).
			Msg("request")
	}
}

// RequestTimeout bounds the request context. Multipart uploads get
// uploadTimeout instead, long enough for the media transfers they carry.
func RequestTimeout(timeout, uploadTimeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := timeout
		if c.ContentType() == "multipart/form-data" {
			limit = uploadTimeout
		}
		if limit <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), limit)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
