package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rakapradana/fitness-tracker/internal/container"
	handlers "github.com/rakapradana/fitness-tracker/internal/interface/http"
	"github.com/rakapradana/fitness-tracker/internal/interface/middleware"
)

// ProfileModule wires the profile and notes endpoints. All routes
// require an authenticated session.
type ProfileModule struct {
	Handler *handlers.ProfileHandler
}

func NewProfileModule(h *handlers.ProfileHandler) *ProfileModule {
	return &ProfileModule{Handler: h}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	grp := rg.Group("/profile")
	grp.Use(middleware.Auth(container.GetCookies(), container.GetAuthService()))
	grp.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUsername(), nil))
	{
		grp.GET("", m.Handler.Get)
		grp.PUT("/general", m.Handler.UpdateGeneral)
		grp.PUT("/goals", m.Handler.UpdateGoals)
		grp.PUT("/nutrition", m.Handler.UpdateNutrition)
	}

	notes := rg.Group("/notes")
	notes.Use(middleware.Auth(container.GetCookies(), container.GetAuthService()))
	notes.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUsername(), nil))
	{
		notes.GET("", m.Handler.ListNotes)
		notes.POST("", m.Handler.AddNote)
		notes.DELETE("/:id", m.Handler.DeleteNote)
	}
}
