package middleware

import (
	"errors"
	"net/http"

	"jobready-portal/pkg/auth"
	"jobready-portal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const identityKey = "identity"

// Identity is the authenticated caller attached to the request context
type Identity struct {
	UserID uuid.UUID
}

// RequireAuth validates the Bearer token and aborts with 401 when it is
// missing, malformed, expired or otherwise invalid.
func RequireAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.ExtractTokenFromBearer(c.GetHeader("Authorization"))
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication required",
			})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			message := "Invalid or expired token"
			if errors.Is(err, auth.ErrTokenExpired) {
				message = "Token has expired"
			}

			logger.Debug("Token validation failed", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": message,
			})
			c.Abort()
			return
		}

		c.Set(identityKey, &Identity{UserID: claims.UserID})
		c.Next()
	}
}

// OptionalAuth attaches an Identity when a valid Bearer token is present
// and silently continues anonymously otherwise. Handlers behind it must
// treat a missing identity as a logged-out caller, never as an error.
func OptionalAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.ExtractTokenFromBearer(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(identityKey, &Identity{UserID: claims.UserID})
		c.Next()
	}
}

// CurrentUserID returns the authenticated user's ID, if any
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return uuid.Nil, false
	}

	identity, ok := value.(*Identity)
	if !ok {
		return uuid.Nil, false
	}

	return identity.UserID, true
}
