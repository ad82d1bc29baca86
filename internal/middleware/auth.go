package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TokenValidator interface {
	ValidateAccessToken(token string) (string, error)
}

type UserEnsurer interface {
	Ensure(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AuthMiddleware validates the Bearer token and guarantees the profile row
// exists before any handler runs. The user id ends up in the context under
// "userId" as a uuid.UUID.
func AuthMiddleware(tokens TokenValidator, users UserEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "error": "Unauthenticated", "message": "Authorization header is required",
			})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "error": "Unauthenticated", "message": "Invalid authorization header format",
			})
			return
		}

		sub, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "error": "Unauthenticated", "message": "Invalid or expired token",
			})
			return
		}

		uid, err := uuid.Parse(sub)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "error": "Unauthenticated", "message": "Invalid subject claim",
			})
			return
		}

		if _, err := users.Ensure(c.Request.Context(), uid); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false, "error": "InternalError", "message": "Failed to load profile",
			})
			return
		}

		c.Set("userId", uid)
		c.Next()
	}
}
