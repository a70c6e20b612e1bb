package httpserver

import (
	"net/http"
	"strings"
	"time"

	sessionrepo "retroshop/internal/repository/session"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// authMiddleware resolves a bearer token to a user id via the session
// store. Session issuance lives outside this service; only validation
// happens here.
func authMiddleware(sessions sessionrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		sess, err := sessions.Get(c.Request.Context(), strings.TrimSpace(token))
		if err != nil || sess.ExpiresAt.Before(time.Now()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(userIDKey, sess.UserID)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
