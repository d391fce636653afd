package middleware

import (
	"net/http"
	"strings"

	"github.com/ruolez/inventory-update/internal/services"

	"github.com/gin-gonic/gin"
)

// Context keys set by SessionAuthMiddleware for downstream handlers.
const (
	ContextUsername     = "username"
	ContextFullName     = "fullName"
	contextSessionToken = "sessionToken"
)

// SessionToken returns the raw session token attached to the request, or ""
// when the request was not authenticated.
func SessionToken(c *gin.Context) string {
	return c.GetString(contextSessionToken)
}

// SessionAuthMiddleware creates a Gin middleware that resolves an opaque
// session token against the session store. The token is accepted either as a
// Bearer authorization header or an X-Session-Token header.
func SessionAuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Session-Token")
		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
				c.Abort()
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format. Use Bearer <token>"})
				c.Abort()
				return
			}
			token = parts[1]
		}

		session, err := authService.GetSession(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			c.Abort()
			return
		}

		// Set user information in the context for downstream handlers
		c.Set(ContextUsername, session.Username)
		c.Set(ContextFullName, session.FullName)
		c.Set(contextSessionToken, token)

		c.Next()
	}
}
