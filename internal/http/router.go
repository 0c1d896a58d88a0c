package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/roadmap-backend/internal/http/handlers"
	httpMW "github.com/yungbote/roadmap-backend/internal/http/middleware"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	TracingEnabled bool
	CORSOrigins    []string

	// PublicRoadmapRead mounts GET /api/roadmaps/:id without requiring a
	// session. A token, when sent, still identifies the caller.
	PublicRoadmapRead bool

	AuthMiddleware  *httpMW.AuthMiddleware
	UserHandler     *httpH.UserHandler
	RoadmapHandler  *httpH.RoadmapHandler
	RealtimeHandler *httpH.RealtimeHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	api := r.Group("/api")
	if cfg.RoadmapHandler != nil && cfg.PublicRoadmapRead {
		if cfg.AuthMiddleware != nil {
			api.GET("/roadmaps/:id", cfg.AuthMiddleware.OptionalAuth(), cfg.RoadmapHandler.Get)
		} else {
			api.GET("/roadmaps/:id", cfg.RoadmapHandler.Get)
		}
	}
	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Realtime (SSE)
		if cfg.RealtimeHandler != nil {
			protected.GET("/sse/stream", cfg.RealtimeHandler.SSEStream)
		}

		// User (Me)
		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
		}

		// Roadmaps
		if cfg.RoadmapHandler != nil {
			protected.POST("/roadmaps", cfg.RoadmapHandler.Generate)
			protected.GET("/roadmaps", cfg.RoadmapHandler.List)
			if !cfg.PublicRoadmapRead {
				protected.GET("/roadmaps/:id", cfg.RoadmapHandler.Get)
			}
			protected.PUT("/roadmaps/:id/progress", cfg.RoadmapHandler.UpdateProgress)
			protected.POST("/roadmaps/:id/stages/:stage/steps/:step/toggle", cfg.RoadmapHandler.ToggleStep)
			protected.POST("/roadmap/progress", cfg.RoadmapHandler.UpdateProgressByBody)
		}
	}

	return r
}
