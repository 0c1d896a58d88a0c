package app

import (
	httpH "github.com/yungbote/roadmap-backend/internal/http/handlers"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	User     *httpH.UserHandler
	Roadmap  *httpH.RoadmapHandler
	Realtime *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, services Services, hub *realtime.SSEHub, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(db),
		User:     httpH.NewUserHandler(services.User),
		Roadmap:  httpH.NewRoadmapHandler(log, services.Roadmap),
		Realtime: httpH.NewRealtimeHandler(log, hub),
	}
}
