package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tunsmm/diary-network/internal/auth"
	"github.com/tunsmm/diary-network/internal/authz"
	"github.com/tunsmm/diary-network/internal/models"
)

// ContextUserKey is the gin context key holding the acting authz.Identity.
const ContextUserKey = "user"

type UserFinder interface {
	FindUserByID(ctx context.Context, id int) (*models.User, error)
}

// AuthMiddleware requires a valid Bearer token naming an existing user.
func AuthMiddleware(tokens *auth.TokenIssuer, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := users.FindUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		c.Set(ContextUserKey, authz.Identity{ID: user.ID, Username: user.Username})
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by AuthMiddleware.
func CurrentIdentity(c *gin.Context) (authz.Identity, bool) {
	val, exists := c.Get(ContextUserKey)
	if !exists {
		return authz.Identity{}, false
	}
	id, ok := val.(authz.Identity)
	return id, ok && id.ID != 0
}
