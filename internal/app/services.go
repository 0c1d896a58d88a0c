package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/modules/roadmap"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime"
	"github.com/yungbote/roadmap-backend/internal/services"
)

type Services struct {
	User    services.UserService
	Auth    services.AuthService
	Roadmap services.RoadmapService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, hub *realtime.SSEHub) (Services, error) {
	log.Info("Wiring services...")

	// With a bus every instance (this one included) receives the event through
	// its forwarder; without one the local hub is the only audience.
	var emit services.SSEEmitter = &services.HubEmitter{Hub: hub}
	if clients.SSEBus != nil {
		emit = &services.RedisEmitter{Bus: clients.SSEBus, Log: log}
	}

	userService := services.NewUserService(log, reposet.User)
	authService, err := services.NewAuthService(log, clients.Verifier, userService, services.AuthConfig{
		DevBypass: cfg.DevBypass,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}
	if cfg.DevBypass {
		log.Warn("AUTH_DEV_BYPASS enabled; unauthenticated requests act as the local test user")
	}

	generator := roadmap.NewGenerator(clients.Model, roadmap.WithStrictValidation(cfg.StrictValidation))
	roadmapService := services.NewRoadmapService(
		db,
		log,
		generator,
		reposet.Roadmap,
		reposet.User,
		services.NewRoadmapNotifier(emit),
		services.RoadmapServiceConfig{PublicRead: cfg.PublicRead},
	)

	return Services{
		User:    userService,
		Auth:    authService,
		Roadmap: roadmapService,
	}, nil
}
