package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"greenfield-library/internal/models"
)

const sessionContextKey = "auth.session"

// Require is the access guard: it rejects callers without a valid session,
// and, when role is non-empty, callers whose role does not match. Both
// cases redirect to /login rather than returning 403, so restricted routes
// are indistinguishable from the logged-out experience.
func (m *Manager) Require(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := m.sessionFromRequest(c)
		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		if role != "" && sess.Role != role {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// CurrentSession returns the session stashed by Require, if any.
func CurrentSession(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*Session)
	return sess, ok
}

// SessionFromRequest decodes the session cookie without enforcing a role.
// Used by routes that branch on login state instead of requiring it.
func (m *Manager) SessionFromRequest(c *gin.Context) (*Session, error) {
	return m.sessionFromRequest(c)
}

func (m *Manager) sessionFromRequest(c *gin.Context) (*Session, error) {
	raw, err := c.Cookie(SessionCookie)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return m.ParseToken(raw)
}
