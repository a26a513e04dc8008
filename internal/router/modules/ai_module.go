package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rakapradana/fitness-tracker/internal/container"
	handlers "github.com/rakapradana/fitness-tracker/internal/interface/http"
	"github.com/rakapradana/fitness-tracker/internal/interface/middleware"
)

// AIModule wires the model-backed coaching endpoints. Upstream calls
// are slow and metered, so the per-user limit is tight.
type AIModule struct {
	Handler *handlers.AIHandler
}

func NewAIModule(h *handlers.AIHandler) *AIModule {
	return &AIModule{Handler: h}
}

func (m *AIModule) Register(rg *gin.RouterGroup) {
	grp := rg.Group("/ai")
	grp.Use(middleware.Auth(container.GetCookies(), container.GetAuthService()))
	grp.Use(middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByUsername(), nil))
	{
		grp.POST("/ask", m.Handler.Ask)
		grp.POST("/macros", m.Handler.Macros)
	}
}
