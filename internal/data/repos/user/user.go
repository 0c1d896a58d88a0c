package user

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/errs"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type UserRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByExternalID(dbc dbctx.Context, externalID string) (*types.User, error)
	// UpsertByExternalID inserts the user unless a row with the same external id
	// exists, then returns the stored row. Calling it twice is a no-op.
	UpsertByExternalID(dbc dbctx.Context, externalID, email string) (*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.User
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *userRepo) GetByExternalID(dbc dbctx.Context, externalID string) (*types.User, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, nil
	}
	var out []*types.User
	if err := t.WithContext(dbc.Ctx).
		Where("external_id = ?", externalID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *userRepo) UpsertByExternalID(dbc dbctx.Context, externalID, email string) (*types.User, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, errs.ErrInvalidArgument
	}
	row := &types.User{ExternalID: externalID, Email: strings.TrimSpace(email)}
	if err := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoNothing: true,
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	stored, err := r.GetByExternalID(dbc, externalID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, errs.ErrNotFound
	}
	return stored, nil
}
