package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Manager writes the persistent session cookie recognised on return visits.
type Manager struct {
	Name   string
	Domain string
	Secure bool
}

func NewCookie(name, domain string, secure bool) *Manager {
	return &Manager{Name: name, Domain: domain, Secure: secure}
}

// SetSession stores the session token for maxAge. The cookie is HttpOnly;
// the value is an opaque server-issued token, never the username itself.
func (m *Manager) SetSession(c *gin.Context, token string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.Name, token, int(maxAge.Seconds()), "/", m.Domain, m.Secure, true)
}

// Clear expires the session cookie immediately by replacing it with an
// empty value and a negative MaxAge.
func (m *Manager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.Name, "", -1, "/", m.Domain, m.Secure, true)
}

// Read returns the session token presented by the client, or "" when the
// cookie is absent.
func (m *Manager) Read(c *gin.Context) string {
	v, err := c.Cookie(m.Name)
	if err != nil {
		return ""
	}
	return v
}
