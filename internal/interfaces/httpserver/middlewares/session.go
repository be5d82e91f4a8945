package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"obrolan/chat-client/internal/domain/chat"
)

const sessionContextKey = "session"

// SessionMiddleware builds a chat.Session from the bearer token and aborts
// with 401 when none is present. The presentation layer treats 401 as a
// redirect to its login flow.
func SessionMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := chat.SessionFromToken(c.GetHeader("Authorization"))
		if err != nil {
			logger.Warn().
				Str("path", c.FullPath()).
				Str("method", c.Request.Method).
				Msg("unauthenticated request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			return
		}
		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// SessionFromContext returns the session attached by SessionMiddleware.
func SessionFromContext(c *gin.Context) (*chat.Session, bool) {
	val, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	session, ok := val.(*chat.Session)
	return session, ok
}
