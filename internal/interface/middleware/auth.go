package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rakapradana/fitness-tracker/internal/application"
	"github.com/rakapradana/fitness-tracker/pkg/helpers"
	"github.com/rakapradana/fitness-tracker/pkg/response"
)

const (
	CtxSessionKey  = "session"
	CtxUsernameKey = "username"
	CtxTokenKey    = "session_token"
)

// Auth validates the session cookie on protected routes. The token must
// resolve in the server-side token store AND the username must still exist
// in the user directory; middleware then stores the per-visit Session in
// the Gin context. No retry machinery here — a client hitting protected
// routes has finished booting, so a missing cookie is simply unauthorized.
func Auth(cookies *helpers.Manager, auth *application.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookies.Read(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing session token", nil)
			c.Abort()
			return
		}

		sess, err := auth.RestoreFromToken(c.Request.Context(), token)
		if err != nil {
			response.Error[any](c, http.StatusServiceUnavailable, "session store unavailable", nil)
			c.Abort()
			return
		}
		if !sess.Authenticated() {
			response.Error[any](c, http.StatusUnauthorized, "invalid or expired session", nil)
			c.Abort()
			return
		}

		c.Set(CtxSessionKey, sess)
		c.Set(CtxUsernameKey, sess.Username())
		c.Set(CtxTokenKey, token)
		c.Next()
	}
}

// SessionFrom returns the Session placed in the context by Auth.
func SessionFrom(c *gin.Context) *application.Session {
	if v, ok := c.Get(CtxSessionKey); ok {
		if sess, ok := v.(*application.Session); ok {
			return sess
		}
	}
	return application.NewSession()
}
