package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rakapradana/fitness-tracker/internal/application"
	"github.com/rakapradana/fitness-tracker/internal/infrastructure/langflow"
	"github.com/rakapradana/fitness-tracker/internal/interface/middleware"
	"github.com/rakapradana/fitness-tracker/pkg/response"
	"github.com/rakapradana/fitness-tracker/pkg/validation"
)

type AIHandler struct {
	AI       *application.AIService
	Profiles *application.ProfileService
	Logger   *logrus.Logger
}

func NewAIHandler(ai *application.AIService, profiles *application.ProfileService, logger *logrus.Logger) *AIHandler {
	return &AIHandler{AI: ai, Profiles: profiles, Logger: logger}
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

func failAI(c *gin.Context, err error) {
	var ve *application.ValidationError
	switch {
	case errors.As(err, &ve):
		response.Error[any](c, http.StatusBadRequest, ve.Reason, nil)
	case errors.Is(err, langflow.ErrNotConfigured):
		response.Error[any](c, http.StatusServiceUnavailable, "ai service is not configured", nil)
	case errors.Is(err, application.ErrStorageUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, "service temporarily unavailable, please retry", nil)
	default:
		response.Error[any](c, http.StatusBadGateway, "error generating ai response", nil)
	}
}

// Ask handles POST /api/ai/ask: a free-form question answered in the
// context of the visitor's profile.
func (h *AIHandler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	sess := middleware.SessionFrom(c)
	profile, err := h.Profiles.GetOrCreate(c.Request.Context(), sess)
	if err != nil {
		failAI(c, err)
		return
	}

	answer, err := h.AI.Ask(c.Request.Context(), profile, req.Question)
	if err != nil {
		failAI(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"answer": answer}, "ai response", nil)
}

// Macros handles POST /api/ai/macros. The generated targets are returned
// for review; the client saves them through PUT /api/profile/nutrition
// once accepted, mirroring the generate-then-save flow of the forms.
func (h *AIHandler) Macros(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	profile, err := h.Profiles.GetOrCreate(c.Request.Context(), sess)
	if err != nil {
		failAI(c, err)
		return
	}

	macros, err := h.AI.GenerateMacros(c.Request.Context(), profile)
	if err != nil {
		failAI(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"nutrition": macros}, "macros generated", nil)
}
