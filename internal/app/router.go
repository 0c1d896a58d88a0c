package app

import (
	"github.com/gin-gonic/gin"

	server "github.com/yungbote/roadmap-backend/internal/http"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	log.Info("Wiring router...")
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return server.NewRouter(server.RouterConfig{
		Log:               log,
		ServiceName:       cfg.OTel.ServiceName,
		TracingEnabled:    cfg.OTel.Enabled,
		CORSOrigins:       cfg.CORSOrigins,
		PublicRoadmapRead: cfg.PublicRead,
		AuthMiddleware:    middleware.Auth,
		UserHandler:       handlers.User,
		RoadmapHandler:    handlers.Roadmap,
		RealtimeHandler:   handlers.Realtime,
		HealthHandler:     handlers.Health,
	})
}
