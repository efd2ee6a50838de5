package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	usernameKey  = "username"
	sessionIDKey = "sessionId"
	tokenKey     = "sessionToken"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    string
	Username  string
	SessionID string
}

// Authenticator resolves a bearer token to a live session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (Principal, error)
}

// Auth requires a valid bearer session on every path except the public
// ones. Public paths still pick up the principal when a valid token is sent.
func Auth(authn Authenticator, publicPaths ...string) gin.HandlerFunc {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		_, isPublic := public[c.Request.URL.Path]
		token, ok := BearerToken(c)
		if !ok {
			if isPublic {
				c.Next()
				return
			}
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		principal, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			if isPublic {
				c.Next()
				return
			}
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		SetPrincipal(c, principal)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// SetPrincipal stores the caller identity on the request context.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(userIDKey, p.UserID)
	c.Set(usernameKey, p.Username)
	c.Set(sessionIDKey, p.SessionID)
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	return contextString(c, userIDKey)
}

// PrincipalFromContext returns the identity set by the auth middleware.
func PrincipalFromContext(c *gin.Context) (Principal, bool) {
	p := Principal{
		UserID:    contextString(c, userIDKey),
		Username:  contextString(c, usernameKey),
		SessionID: contextString(c, sessionIDKey),
	}
	return p, p.UserID != ""
}

func contextString(c *gin.Context, key string) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(key)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
