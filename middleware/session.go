package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"medicine-chatbot-backend/models"
)

const sessionKeyContext = "sessionKey"

// SessionKey resolves which session a request belongs to and stores it in
// the gin context. Tokens are used as opaque keys, they are not verified.
func SessionKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionKeyContext, resolveSessionKey(c))
		c.Next()
	}
}

func resolveSessionKey(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader("X-Session-Id")); id != "" {
		return id
	}
	if auth := strings.TrimSpace(c.GetHeader("Authorization")); strings.HasPrefix(auth, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); token != "" {
			return token
		}
	}
	if token := strings.TrimSpace(c.GetHeader("auth-token")); token != "" {
		return token
	}
	return models.AnonymousSession
}

// GetSessionKey returns the key set by SessionKey, resolving it on the spot
// when the middleware did not run.
func GetSessionKey(c *gin.Context) string {
	if key := c.GetString(sessionKeyContext); key != "" {
		return key
	}
	return resolveSessionKey(c)
}
