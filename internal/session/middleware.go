package session

import (
	"net/http"
	"strings"

	"github.com/bobby0007/internal-CRM/internal/models"

	"github.com/gin-gonic/gin"
)

const contextKey = "session"

// Middleware gates a route group on a live session. The token travels in
// the "token" header or as an Authorization bearer.
func Middleware(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Get(TokenFromRequest(c))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(contextKey, sess)
		c.Next()
	}
}

// TokenFromRequest extracts the session token from the request headers.
func TokenFromRequest(c *gin.Context) string {
	if token := c.GetHeader("token"); token != "" {
		return token
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// Operator returns the email of the logged-in operator, if any.
func Operator(c *gin.Context) string {
	if v, ok := c.Get(contextKey); ok {
		if sess, ok := v.(*models.Session); ok {
			return sess.Email
		}
	}
	return ""
}
