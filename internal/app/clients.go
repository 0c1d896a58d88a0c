package app

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/roadmap-backend/internal/modules/roadmap"
	"github.com/yungbote/roadmap-backend/internal/platform/gemini"
	"github.com/yungbote/roadmap-backend/internal/platform/identity"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/platform/openai"
	"github.com/yungbote/roadmap-backend/internal/realtime/bus"
)

type Clients struct {
	Model    roadmap.TextModel
	Verifier identity.Verifier
	SSEBus   bus.Bus
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	model, err := wireTextModel(log, cfg)
	if err != nil {
		return Clients{}, err
	}

	var verifier identity.Verifier
	if strings.TrimSpace(cfg.Auth.JWKSURL) != "" {
		verifier, err = identity.NewVerifier(&http.Client{Timeout: 10 * time.Second}, cfg.Auth)
		if err != nil {
			return Clients{}, fmt.Errorf("init identity verifier: %w", err)
		}
	}

	// Redis is optional; without it events only reach streams on this instance.
	var sseBus bus.Bus
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		sseBus, err = bus.NewRedisBus(log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
	}

	return Clients{Model: model, Verifier: verifier, SSEBus: sseBus}, nil
}

func wireTextModel(log *logger.Logger, cfg Config) (roadmap.TextModel, error) {
	switch cfg.LLMProvider {
	case ProviderGemini:
		c, err := gemini.NewClient(log, cfg.Gemini)
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		log.Info("LLM provider selected", "provider", ProviderGemini, "model", c.Model())
		return c, nil
	case ProviderOpenAI:
		c, err := openai.NewClient(log, cfg.OpenAI)
		if err != nil {
			return nil, fmt.Errorf("init openai client: %w", err)
		}
		log.Info("LLM provider selected", "provider", ProviderOpenAI, "model", c.Model())
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
}
