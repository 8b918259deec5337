package api

import (
	"strings"

	"github.com/dip051030/flightbooking/internal/auth"
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// SessionResolver turns a bearer token into a live session.
type SessionResolver interface {
	SessionByToken(token string) (*auth.Session, error)
}

// SessionMiddleware resolves "Authorization: Bearer <token>" into a session
// on the request context. A missing or stale token leaves the request
// anonymous; the gated operations reject it themselves.
func SessionMiddleware(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			if sess, err := sessions.SessionByToken(token); err == nil {
				c.Set(sessionKey, sess)
			}
		}
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*auth.Session)
	return sess
}
