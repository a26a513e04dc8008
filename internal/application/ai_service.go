package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rakapradana/fitness-tracker/internal/domain/entity"
)

// AIClient is the opaque boundary to the hosted text-generation service.
type AIClient interface {
	Ask(ctx context.Context, profileText, question string) (string, error)
	Macros(ctx context.Context, input string) (entity.Nutrition, error)
}

// AIService turns profile documents into prompt text and delegates to the
// AI boundary. Generated macros are not persisted here; the caller saves
// them through the profile service once the visitor accepts them.
type AIService struct {
	client AIClient
	logger *logrus.Logger
}

func NewAIService(client AIClient, logger *logrus.Logger) *AIService {
	return &AIService{client: client, logger: logger}
}

// Ask answers a free-form question in the context of the visitor's profile.
func (s *AIService) Ask(ctx context.Context, profile *entity.Profile, question string) (string, error) {
	if question == "" {
		return "", &ValidationError{Reason: "please enter a question"}
	}

	answer, err := s.client.Ask(ctx, RenderProfile(profile), question)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("ai ask failed")
		}
		return "", fmt.Errorf("ask ai: %w", err)
	}
	return answer, nil
}

// GenerateMacros asks the AI for macro targets fitting the profile's
// personal data and goals.
func (s *AIService) GenerateMacros(ctx context.Context, profile *entity.Profile) (entity.Nutrition, error) {
	goals := "general fitness"
	if len(profile.Goals) > 0 {
		goals = strings.Join(profile.Goals, ", ")
	}
	input := fmt.Sprintf("Profile: %s\nGoals: %s", renderGeneral(profile.General), goals)

	macros, err := s.client.Macros(ctx, input)
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Warn("ai macros failed")
		}
		return entity.Nutrition{}, fmt.Errorf("generate macros: %w", err)
	}
	return macros, nil
}

// RenderProfile flattens a profile document into the readable key/value
// text the AI flows expect.
func RenderProfile(p *entity.Profile) string {
	parts := []string{
		"general: " + renderGeneral(p.General),
		"goals: " + strings.Join(p.Goals, ", "),
		fmt.Sprintf("nutrition: calories: %d, protein: %d, fat: %d, carbs: %d",
			p.Nutrition.Calories, p.Nutrition.Protein, p.Nutrition.Fat, p.Nutrition.Carbs),
	}
	return strings.Join(parts, ", ")
}

func renderGeneral(g entity.General) string {
	return fmt.Sprintf("name: %s, age: %d, weight: %g, height: %g, gender: %s, activity_level: %s",
		g.Name, g.Age, g.Weight, g.Height, g.Gender, g.ActivityLevel)
}
