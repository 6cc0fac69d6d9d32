package auth

import (
	"errors"
	"strings"

	"fitclub/internal/api"
	"fitclub/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"
)

// TokenVerifier turns a raw bearer token into an Identity.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			api.Abort(c, apperr.Unauthorized("Missing or invalid authorization header"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(strings.TrimSpace(parts[0]), "Bearer") {
			api.Abort(c, apperr.Unauthorized("Missing or invalid authorization header"))
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			api.Abort(c, apperr.Unauthorized("Missing or invalid authorization header"))
			return
		}

		identity, err := verifier.Verify(tokenString)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				api.Abort(c, apperr.Unauthorized("Token expired"))
				return
			}
			api.Abort(c, apperr.Unauthorized("Invalid or expired token"))
			return
		}

		c.Set(ctxUserID, identity.ID)
		c.Set(ctxUserEmail, identity.Email)
		c.Set(ctxUserRole, identity.Role)

		c.Next()
	}
}

func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxUserRole)
		if !exists {
			api.Abort(c, apperr.Unauthorized(""))
			return
		}

		roleStr, ok := role.(string)
		if !ok || roleStr != requiredRole {
			api.Abort(c, apperr.Forbidden("Insufficient permissions"))
			return
		}

		c.Next()
	}
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}

	return id, true
}

func GetUserEmail(c *gin.Context) string {
	return c.GetString(ctxUserEmail)
}

// MustUserID returns the caller id or renders 401 and returns false.
func MustUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := GetUserID(c)
	if !ok {
		api.Fail(c, apperr.Unauthorized(""))
	}
	return id, ok
}
