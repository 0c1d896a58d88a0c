package roadmap

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/errs"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

type RoadmapRepo interface {
	Create(dbc dbctx.Context, row *types.Roadmap) (*types.Roadmap, error)

	// GetByID does not check ownership. Returns (nil, nil) when missing.
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Roadmap, error)
	GetByIDAndUser(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.Roadmap, error)

	// ListByUser returns the user's roadmaps newest first.
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Roadmap, error)

	// UpdateStages overwrites the stages column of the row matching both id and
	// userID. It reports false when no row matched.
	UpdateStages(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID, stages []types.Stage) (bool, error)
}

type roadmapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoadmapRepo(db *gorm.DB, baseLog *logger.Logger) RoadmapRepo {
	return &roadmapRepo{db: db, log: baseLog.With("repo", "RoadmapRepo")}
}

func (r *roadmapRepo) Create(dbc dbctx.Context, row *types.Roadmap) (*types.Roadmap, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil {
		return nil, errs.ErrInvalidArgument
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *roadmapRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Roadmap, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Roadmap
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *roadmapRepo) GetByIDAndUser(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*types.Roadmap, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	var out []*types.Roadmap
	if err := t.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *roadmapRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Roadmap, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.Roadmap{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *roadmapRepo) UpdateStages(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID, stages []types.Stage) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || userID == uuid.Nil {
		return false, nil
	}
	if stages == nil {
		stages = []types.Stage{}
	}
	res := t.WithContext(dbc.Ctx).
		Model(&types.Roadmap{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("stages", datatypes.JSONSlice[types.Stage](stages))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
