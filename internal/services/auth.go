package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/errs"
	"github.com/yungbote/roadmap-backend/internal/platform/identity"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

const (
	DevUserExternalID = "local-test-user"
	DevUserEmail      = "test@example.com"
)

type AuthService interface {
	// SetContextFromToken verifies the session token, provisions the caller and
	// returns ctx carrying ctxutil.RequestData.
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	DevBypass() bool
}

type AuthConfig struct {
	// DevBypass skips verification and authenticates every request as the
	// local test user. Callers must not enable it in production.
	DevBypass bool
}

type authService struct {
	log      *logger.Logger
	verifier identity.Verifier
	users    UserService
	cfg      AuthConfig
}

func NewAuthService(log *logger.Logger, verifier identity.Verifier, users UserService, cfg AuthConfig) (AuthService, error) {
	if verifier == nil && !cfg.DevBypass {
		return nil, fmt.Errorf("identity verifier required unless dev bypass is enabled")
	}
	serviceLog := log.With("service", "AuthService")
	if cfg.DevBypass {
		serviceLog.Warn("Auth dev bypass enabled; every request is the local test user")
	}
	return &authService{
		log:      serviceLog,
		verifier: verifier,
		users:    users,
		cfg:      cfg,
	}, nil
}

func (as *authService) DevBypass() bool { return as.cfg.DevBypass }

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	ctx = ctxutil.Default(ctx)

	var externalID, email string
	if as.cfg.DevBypass {
		externalID, email = DevUserExternalID, DevUserEmail
	} else {
		if strings.TrimSpace(tokenString) == "" {
			return ctx, fmt.Errorf("%w: missing token", errs.ErrUnauthorized)
		}
		id, err := as.verifier.Verify(ctx, tokenString)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidToken) {
				return ctx, fmt.Errorf("%w: %v", errs.ErrUnauthorized, err)
			}
			return ctx, err
		}
		externalID, email = id.Subject, id.Email
	}

	u, err := as.users.EnsureUser(dbctx.Context{Ctx: ctx}, externalID, email)
	if err != nil {
		return ctx, fmt.Errorf("ensure user: %w", err)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:     u.ID,
		ExternalID: u.ExternalID,
		Email:      u.Email,
	}), nil
}
