package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rakapradana/fitness-tracker/internal/container"
	handlers "github.com/rakapradana/fitness-tracker/internal/interface/http"
	"github.com/rakapradana/fitness-tracker/internal/interface/middleware"
)

// AuthModule wires the authentication endpoints.
// Public: POST /api/signup, POST /api/login, GET /api/session
// Protected: POST /api/logout, GET /api/me, PUT /api/account/email,
// PUT /api/account/password
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	credsLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	sessionLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.POST("/signup", credsLimiter, m.Handler.Signup)
	rg.POST("/login", credsLimiter, m.Handler.Login)
	rg.GET("/session", sessionLimiter, m.Handler.Session)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetCookies(), container.GetAuthService()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUsername(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
		auth.PUT("/account/email", m.Handler.UpdateEmail)
		auth.PUT("/account/password", m.Handler.UpdatePassword)
	}
}
