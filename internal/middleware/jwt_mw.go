package middleware

import (
	"net/http"
	"strings"

	"appointment_booking/internal/model"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey = "authUser"
	AuthRoleKey = "authRole"
)

// TokenAuthenticator turns a bearer token into the caller's identity
type TokenAuthenticator interface {
	Authenticate(token string) (model.Identity, error)
}

// JWTAuthMiddleware creates a middleware for JWT authentication
func JWTAuthMiddleware(auth TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		identity, err := auth.Authenticate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// Set user information in context
		c.Set(AuthUserKey, identity.UserID)
		c.Set(AuthRoleKey, identity.Role)

		c.Next()
	}
}

// IdentityFromContext returns the identity stored by JWTAuthMiddleware.
func IdentityFromContext(c *gin.Context) (model.Identity, bool) {
	userID := c.GetString(AuthUserKey)
	roleVal, exists := c.Get(AuthRoleKey)
	if userID == "" || !exists {
		return model.Identity{}, false
	}
	role, ok := roleVal.(model.Role)
	if !ok {
		return model.Identity{}, false
	}
	return model.Identity{UserID: userID, Role: role}, true
}
