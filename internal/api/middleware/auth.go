package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/francisco-dev-ao/angohost-api/internal/domain"
	"github.com/francisco-dev-ao/angohost-api/internal/service"
)

const (
	userContextKey  = "user"
	tokenContextKey = "token"

	// SessionHeader carries the client-generated session id used to key
	// guest carts and checkout flows.
	SessionHeader = "X-Session-ID"
)

// AuthMiddleware resolves the bearer token and rejects requests without a
// valid session.
func AuthMiddleware(auth *service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Set(tokenContextKey, token)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves the bearer token when present but lets
// anonymous requests through. Guest carts and local-only profiles depend
// on this.
func OptionalAuthMiddleware(auth *service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token != "" {
			if user, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				c.Set(userContextKey, user)
				c.Set(tokenContextKey, token)
			}
		}
		c.Next()
	}
}

// AdminOnly gates a route group on the admin role. Must run after
// AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserFromContext(c)
		if !ok || user.Role != domain.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserFromContext returns the authenticated user, if any.
func GetUserFromContext(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}

// GetTokenFromContext returns the raw bearer token, if any.
func GetTokenFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(tokenContextKey)
	if !ok {
		return "", false
	}
	token, ok := v.(string)
	return token, ok
}

// SessionKey identifies the cart/checkout session: the explicit session
// header when the client sends one, otherwise the bearer token. Empty
// means the caller gave us nothing to key on.
func SessionKey(c *gin.Context) string {
	if key := c.GetHeader(SessionHeader); key != "" {
		return key
	}
	if token, ok := GetTokenFromContext(c); ok {
		return token
	}
	return ""
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
