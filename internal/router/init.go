package router

import (
	"github.com/rakapradana/fitness-tracker/internal/application"
	"github.com/rakapradana/fitness-tracker/internal/container"
	pginfra "github.com/rakapradana/fitness-tracker/internal/infrastructure/postgres"
	"github.com/rakapradana/fitness-tracker/internal/infrastructure/redisstore"
	handlers "github.com/rakapradana/fitness-tracker/internal/interface/http"
	"github.com/rakapradana/fitness-tracker/internal/router/modules"
)

type Deps struct {
	Auth     *application.AuthService
	Profiles *application.ProfileService
	AI       *application.AIService

	AuthHandler    *handlers.AuthHandler
	ProfileHandler *handlers.ProfileHandler
	AIHandler      *handlers.AIHandler
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	log := container.GetLogger()

	users := pginfra.NewUserRepository(container.GetPGPool())
	profiles := pginfra.NewProfileRepository(container.GetPGPool())
	notes := pginfra.NewNoteRepository(container.GetPGPool())
	tokens := redisstore.NewTokenStore(container.GetRedis())

	authSvc := application.NewAuthService(
		users,
		tokens,
		log,
		cfg.BcryptCost,
		cfg.SessionTTL,
		cfg.StorageTimeout,
	)
	container.SetAuthService(authSvc)

	profileSvc := application.NewProfileService(
		profiles,
		notes,
		users,
		container.GetRedis(),
		log,
		cfg.StorageTimeout,
	)

	aiSvc := application.NewAIService(container.GetAIClient(), log)

	authHandler := handlers.NewAuthHandler(
		authSvc,
		profileSvc,
		container.GetCookies(),
		log,
		cfg.RestoreMaxAttempts,
		cfg.RestoreRetryDelay,
	)
	profileHandler := handlers.NewProfileHandler(profileSvc, log)
	aiHandler := handlers.NewAIHandler(aiSvc, profileSvc, log)

	return Deps{
		Auth:     authSvc,
		Profiles: profileSvc,
		AI:       aiSvc,

		AuthHandler:    authHandler,
		ProfileHandler: profileHandler,
		AIHandler:      aiHandler,
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()
	r.Add(modules.NewAuthModule(deps.AuthHandler))
	r.Add(modules.NewProfileModule(deps.ProfileHandler))
	r.Add(modules.NewAIModule(deps.AIHandler))
}
