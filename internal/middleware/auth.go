package middleware

import (
	"net/http"
	"strings"

	"managerpanel/internal/session"
	"managerpanel/pkg/response"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// RequireSession validates the session cookie. Browser navigation is sent to
// the login page; JSON and websocket requests get a 401 envelope instead.
func RequireSession(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Read(c)
		if err != nil {
			store.Clear(c)
			if wantsJSON(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authorization is missing"))
				return
			}
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session placed by RequireSession.
func CurrentSession(c *gin.Context) *session.Session {
	value, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := value.(*session.Session)
	return sess
}

func wantsJSON(c *gin.Context) bool {
	if c.GetHeader("Upgrade") == "websocket" {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
