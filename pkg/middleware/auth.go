package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/postline/postline/backend/go-services/internal/sessions"
	"github.com/postline/postline/backend/go-services/internal/tokens"
)

// ClaimsKey is the gin context key under which verified access claims are stored.
const ClaimsKey = "claims"

// AccessValidator is the minimal surface the middleware needs from the
// session service.
type AccessValidator interface {
	ValidateAccess(ctx context.Context, raw string) (*tokens.Claims, error)
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header; empty when the header is missing or not bearer-shaped.
func BearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// AuthMiddleware gates protected routes on a valid, non-revoked access token.
// Verified claims are stored under ClaimsKey for downstream handlers.
func AuthMiddleware(v AccessValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := BearerToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := v.ValidateAccess(c.Request.Context(), raw)
		if err != nil {
			switch {
			case errors.Is(err, sessions.ErrTokenRevoked):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token revoked"})
			case errors.Is(err, sessions.ErrTokenInvalid):
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "could not validate credentials"})
			default:
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token validation failed"})
			}
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
