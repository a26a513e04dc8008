package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rakapradana/fitness-tracker/internal/application"
	"github.com/rakapradana/fitness-tracker/internal/domain/entity"
	"github.com/rakapradana/fitness-tracker/internal/interface/middleware"
	"github.com/rakapradana/fitness-tracker/pkg/response"
	"github.com/rakapradana/fitness-tracker/pkg/validation"
)

type ProfileHandler struct {
	Svc    *application.ProfileService
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.ProfileService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

type generalRequest struct {
	Name          string  `json:"name" binding:"required"`
	Age           int     `json:"age" binding:"required,gte=1,lte=120"`
	Weight        float64 `json:"weight" binding:"required,gt=0,lte=300"`
	Height        float64 `json:"height" binding:"required,gt=0,lte=250"`
	Gender        string  `json:"gender" binding:"required,oneof=Male Female"`
	ActivityLevel string  `json:"activity_level" binding:"required,oneof='Sedentary' 'Lightly Active' 'Moderately Active' 'Very Active' 'Super Active'"`
}

type goalsRequest struct {
	Goals []string `json:"goals" binding:"required,min=1,dive,oneof='Muscle Gain' 'Fat Loss' 'Stay Active'"`
}

type nutritionRequest struct {
	Calories int `json:"calories" binding:"gte=0"`
	Protein  int `json:"protein" binding:"gte=0"`
	Fat      int `json:"fat" binding:"gte=0"`
	Carbs    int `json:"carbs" binding:"gte=0"`
}

type noteRequest struct {
	Text string `json:"text" binding:"required"`
}

func failProfile(c *gin.Context, err error) {
	var ve *application.ValidationError
	switch {
	case errors.As(err, &ve):
		response.Error[any](c, http.StatusBadRequest, ve.Reason, nil)
	case errors.Is(err, application.ErrStorageUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, "service temporarily unavailable, please retry", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func profileBody(p *entity.Profile) gin.H {
	return gin.H{
		"username":   p.Username,
		"general":    p.General,
		"goals":      p.Goals,
		"nutrition":  p.Nutrition,
		"updated_at": p.UpdatedAt,
	}
}

// Get handles GET /api/profile, creating the default document on first visit.
func (h *ProfileHandler) Get(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	p, err := h.Svc.GetOrCreate(c.Request.Context(), sess)
	if err != nil {
		failProfile(c, err)
		return
	}
	response.Success(c, http.StatusOK, profileBody(p), "profile", nil)
}

// UpdateGeneral handles PUT /api/profile/general.
func (h *ProfileHandler) UpdateGeneral(c *gin.Context) {
	var req generalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	sess := middleware.SessionFrom(c)
	p, err := h.Svc.UpdateGeneral(c.Request.Context(), sess, entity.General{
		Name:          req.Name,
		Age:           req.Age,
		Weight:        req.Weight,
		Height:        req.Height,
		Gender:        req.Gender,
		ActivityLevel: req.ActivityLevel,
	})
	if err != nil {
		failProfile(c, err)
		return
	}
	response.Success(c, http.StatusOK, profileBody(p), "information saved", nil)
}

// UpdateGoals handles PUT /api/profile/goals.
func (h *ProfileHandler) UpdateGoals(c *gin.Context) {
	var req goalsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	sess := middleware.SessionFrom(c)
	p, err := h.Svc.UpdateGoals(c.Request.Context(), sess, req.Goals)
	if err != nil {
		failProfile(c, err)
		return
	}
	response.Success(c, http.StatusOK, profileBody(p), "goals updated", nil)
}

// UpdateNutrition handles PUT /api/profile/nutrition.
func (h *ProfileHandler) UpdateNutrition(c *gin.Context) {
	var req nutritionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	sess := middleware.SessionFrom(c)
	p, err := h.Svc.UpdateNutrition(c.Request.Context(), sess, entity.Nutrition{
		Calories: req.Calories,
		Protein:  req.Protein,
		Fat:      req.Fat,
		Carbs:    req.Carbs,
	})
	if err != nil {
		failProfile(c, err)
		return
	}
	response.Success(c, http.StatusOK, profileBody(p), "information saved", nil)
}

// ListNotes handles GET /api/notes.
func (h *ProfileHandler) ListNotes(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	notes, err := h.Svc.ListNotes(c.Request.Context(), sess)
	if err != nil {
		failProfile(c, err)
		return
	}
	response.Success(c, http.StatusOK, notes, "notes", nil)
}

// AddNote handles POST /api/notes.
func (h *ProfileHandler) AddNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	sess := middleware.SessionFrom(c)
	note, err := h.Svc.AddNote(c.Request.Context(), sess, req.Text)
	if err != nil {
		failProfile(c, err)
		return
	}
	response.Success(c, http.StatusCreated, note, "note added", nil)
}

// DeleteNote handles DELETE /api/notes/:id.
func (h *ProfileHandler) DeleteNote(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	if err := h.Svc.DeleteNote(c.Request.Context(), sess, c.Param("id")); err != nil {
		failProfile(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "note deleted", nil)
}
