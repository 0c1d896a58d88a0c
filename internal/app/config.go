package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yungbote/roadmap-backend/internal/data/db"
	"github.com/yungbote/roadmap-backend/internal/observability"
	"github.com/yungbote/roadmap-backend/internal/platform/envutil"
	"github.com/yungbote/roadmap-backend/internal/platform/gemini"
	"github.com/yungbote/roadmap-backend/internal/platform/identity"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"github.com/yungbote/roadmap-backend/internal/platform/openai"
	"github.com/yungbote/roadmap-backend/internal/realtime/bus"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	Port    string
	Env     string
	LogMode string

	DB db.Options

	LLMProvider string
	Gemini      gemini.Config
	OpenAI      openai.Config

	Auth      identity.Config
	DevBypass bool

	PublicRead       bool
	StrictValidation bool

	Redis bus.RedisConfig
	OTel  observability.OtelConfig

	CORSOrigins []string
}

func (c Config) IsProduction() bool {
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case "prod", "production":
		return true
	}
	return false
}

// LoadConfig reads the environment, layered over CONFIG_FILE when set.
func LoadConfig(log *logger.Logger) (Config, error) {
	src := envutil.NewSource(log)
	if err := src.LoadFile(os.Getenv("CONFIG_FILE")); err != nil {
		return Config{}, err
	}
	return loadConfig(src)
}

func loadConfig(src *envutil.Source) (Config, error) {
	llmTimeout := src.Seconds("LLM_TIMEOUT_SECONDS", 90*time.Second)
	env := src.String("APP_ENV", "development")

	cfg := Config{
		Port:    src.String("PORT", "8080"),
		Env:     env,
		LogMode: src.String("LOG_MODE", "development"),

		DB: db.Options{
			Driver:           src.String("DB_DRIVER", "postgres"),
			PostgresHost:     src.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     src.String("POSTGRES_PORT", "5432"),
			PostgresUser:     src.String("POSTGRES_USER", "postgres"),
			PostgresPassword: src.String("POSTGRES_PASSWORD", ""),
			PostgresName:     src.String("POSTGRES_NAME", "roadmap"),
			PostgresSSLMode:  src.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       src.String("SQLITE_PATH", "roadmap.db"),
			MaxOpenConns:     src.Int("DB_MAX_OPEN_CONNS", 0),
			MaxIdleConns:     src.Int("DB_MAX_IDLE_CONNS", 0),
		},

		LLMProvider: strings.ToLower(strings.TrimSpace(src.String("LLM_PROVIDER", ProviderGemini))),
		Gemini: gemini.Config{
			APIKey:  src.String("GEMINI_API_KEY", ""),
			BaseURL: src.String("GEMINI_BASE_URL", ""),
			Model:   src.String("GEMINI_MODEL", gemini.DefaultModel),
			Timeout: llmTimeout,
		},
		OpenAI: openai.Config{
			APIKey:  src.String("OPENAI_API_KEY", ""),
			BaseURL: src.String("OPENAI_BASE_URL", ""),
			Model:   src.String("OPENAI_MODEL", ""),
			Timeout: llmTimeout,
		},

		Auth: identity.Config{
			JWKSURL:  src.String("AUTH_JWKS_URL", ""),
			Issuer:   src.String("AUTH_ISSUER", ""),
			Audience: src.String("AUTH_AUDIENCE", ""),
			Leeway:   src.Seconds("AUTH_LEEWAY_SECONDS", 30*time.Second),
		},
		DevBypass: src.Bool("AUTH_DEV_BYPASS", false),

		PublicRead:       src.Bool("ROADMAP_PUBLIC_READ", true),
		StrictValidation: src.Bool("ROADMAP_STRICT_VALIDATION", true),

		Redis: bus.RedisConfig{
			Addr:     src.String("REDIS_ADDR", ""),
			Password: src.String("REDIS_PASSWORD", ""),
			DB:       src.Int("REDIS_DB", 0),
			Channel:  src.String("REDIS_CHANNEL", bus.DefaultChannel),
		},

		OTel: observability.OtelConfig{
			Enabled:     src.Bool("OTEL_ENABLED", false),
			ServiceName: src.String("OTEL_SERVICE_NAME", "roadmap-backend"),
			Environment: env,
			Version:     src.String("OTEL_SERVICE_VERSION", ""),
			Endpoint:    src.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(src.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    src.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: src.Float("OTEL_SAMPLE_RATIO", 1),
		},

		CORSOrigins: src.List("CORS_ALLOWED_ORIGINS", nil),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGemini:
		if strings.TrimSpace(c.Gemini.APIKey) == "" {
			return fmt.Errorf("missing GEMINI_API_KEY")
		}
	case ProviderOpenAI:
		if strings.TrimSpace(c.OpenAI.APIKey) == "" {
			return fmt.Errorf("missing OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.DevBypass && c.IsProduction() {
		return fmt.Errorf("AUTH_DEV_BYPASS is not allowed when APP_ENV=%s", c.Env)
	}
	if !c.DevBypass && (strings.TrimSpace(c.Auth.JWKSURL) == "" || strings.TrimSpace(c.Auth.Issuer) == "") {
		return fmt.Errorf("AUTH_JWKS_URL and AUTH_ISSUER are required unless AUTH_DEV_BYPASS is set")
	}
	return nil
}
