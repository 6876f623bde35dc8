// internal/middleware/auth.go
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"planora/internal/auth"

	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the session id.
const SessionKey = "session_id"

type AuthMiddleware struct {
	tokenService *auth.TokenService
}

func NewAuthMiddleware(ts *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenService: ts}
}

// RequireSession rejects requests without a valid "Bearer <session token>".
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenStr, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format"})
			return
		}

		sessionID, err := m.tokenService.ParseToken(tokenStr)
		if err != nil {
			slog.Debug("session token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		c.Set(SessionKey, sessionID)
		c.Next()
	}
}

// Session returns the id stored by RequireSession.
func Session(c *gin.Context) string {
	return c.GetString(SessionKey)
}
