// ===============================
// internal/middleware/auth.go - Firebase Auth Middleware
// ===============================

package middleware

import (
	"context"
	"strings"

	"videotube/internal/apperrors"
	"videotube/internal/models"

	"github.com/gin-gonic/gin"
)

// TokenVerifier checks a bearer token and returns the identity behind it
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*models.AuthIdentity, error)
}

// CallerResolver maps a verified identity to a local user
type CallerResolver interface {
	ResolveCaller(ctx context.Context, identity models.AuthIdentity) (*models.User, error)
}

// FirebaseAuth verifies the bearer token and stores the caller on the context
// as "userID" and "user".
func FirebaseAuth(verifier TokenVerifier, resolver CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, apperrors.Unauthorized("Authorization header required"))
			return
		}

		// Extract token from "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
			abortWith(c, apperrors.Unauthorized("Invalid authorization header format"))
			return
		}

		identity, err := verifier.VerifyIDToken(c.Request.Context(), tokenParts[1])
		if err != nil {
			abortWith(c, apperrors.Unauthorized("Invalid token"))
			return
		}

		user, err := resolver.ResolveCaller(c.Request.Context(), *identity)
		if err != nil {
			abortWith(c, err)
			return
		}

		c.Set("userID", user.ID)
		c.Set("user", user)
		c.Next()
	}
}

func abortWith(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
