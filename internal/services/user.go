package services

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/platform/ctxutil"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

// NoEmail is stored when the identity provider asserts no email address.
const NoEmail = "no-email"

type UserService interface {
	// EnsureUser returns the local user for externalID, creating it on first
	// sight. Safe to call on every request.
	EnsureUser(dbc dbctx.Context, externalID, email string) (*types.User, error)
	GetMe(dbc dbctx.Context) (*types.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) EnsureUser(dbc dbctx.Context, externalID, email string) (*types.User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, fmt.Errorf("external id required")
	}
	email = strings.TrimSpace(email)
	if email == "" {
		email = NoEmail
	}

	existing, err := us.userRepo.GetByExternalID(dbc, externalID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	created, err := us.userRepo.UpsertByExternalID(dbc, externalID, email)
	if err != nil {
		return nil, fmt.Errorf("provision user: %w", err)
	}
	us.log.Info("Provisioned user", "user_id", created.ID.String(), "external_id", externalID)
	return created, nil
}

func (us *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		us.log.Warn("Request data not set in context")
		return nil, apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("request data not set in context"))
	}
	found, err := us.userRepo.GetByExternalID(dbc, rd.ExternalID)
	if err != nil {
		return nil, apierr.Internal("user_lookup_failed", err)
	}
	if found == nil || found.ID != rd.UserID {
		return nil, apierr.NotFound("user_not_found")
	}
	return found, nil
}
