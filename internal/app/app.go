package app

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmap-backend/internal/data/db"
	server "github.com/yungbote/roadmap-backend/internal/http"
	"github.com/yungbote/roadmap-backend/internal/observability"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *db.Service
	Router   *gin.Engine
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	SSEHub   *realtime.SSEHub

	shutdownOTel func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	shutdownOTel, err := observability.InitOTel(ctx, log, cfg.OTel)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init otel: %w", err)
	}

	a := &App{Log: log, Cfg: cfg, shutdownOTel: shutdownOTel}
	if err := a.wire(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire() error {
	dbs, err := db.Open(a.Log, a.Cfg.DB)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	a.DB = dbs
	if err := dbs.AutoMigrateAll(); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	a.Clients, err = wireClients(a.Log, a.Cfg)
	if err != nil {
		return err
	}

	a.SSEHub = realtime.NewSSEHub(a.Log)
	a.Repos = wireRepos(dbs.DB(), a.Log)
	a.Services, err = wireServices(dbs.DB(), a.Log, a.Cfg, a.Repos, a.Clients, a.SSEHub)
	if err != nil {
		return err
	}

	handlers := wireHandlers(a.Log, a.Services, a.SSEHub, dbs)
	middleware := wireMiddleware(a.Log, a.Services)
	a.Router = wireRouter(a.Log, a.Cfg, handlers, middleware)
	return nil
}

// Run serves HTTP until ctx is cancelled. Open SSE streams are ended when
// shutdown starts.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Clients.SSEBus != nil {
		if err := a.Clients.SSEBus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
			return fmt.Errorf("start SSE forwarder: %w", err)
		}
	}

	srv := server.NewServer(a.Log, net.JoinHostPort("", a.Cfg.Port), a.Router)
	srv.OnShutdown(a.SSEHub.CloseAll)
	return srv.Run(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("Database close failed", "error", err)
		}
	}
	if a.shutdownOTel != nil {
		if err := a.shutdownOTel(context.Background()); err != nil {
			a.Log.Warn("OTel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
