package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/roadmap-backend/internal/data/repos"
	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/modules/roadmap"
	"github.com/yungbote/roadmap-backend/internal/platform/apierr"
	"github.com/yungbote/roadmap-backend/internal/platform/dbctx"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

// RoadmapView is a stored roadmap with its derived progress. Owner is only
// set by Get.
type RoadmapView struct {
	*types.Roadmap
	Progress      int           `json:"progress"`
	StageProgress []int         `json:"stage_progress"`
	Owner         *OwnerSummary `json:"owner,omitempty"`
}

// OwnerSummary identifies the user a roadmap belongs to. Email is only
// disclosed to the owner.
type OwnerSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email,omitempty"`
}

func NewRoadmapView(rm *types.Roadmap) *RoadmapView {
	if rm == nil {
		return nil
	}
	sum := roadmap.Summarize(rm.Stages)
	return &RoadmapView{Roadmap: rm, Progress: sum.Percent, StageProgress: sum.Stages}
}

type RoadmapServiceConfig struct {
	// PublicRead lets any caller, signed in or not, fetch a roadmap by id.
	// When false, Get behaves like the owner-scoped operations.
	PublicRead bool
}

type RoadmapService interface {
	Generate(ctx context.Context, ownerID uuid.UUID, goal string) (*RoadmapView, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*RoadmapView, error)
	Get(ctx context.Context, viewerID uuid.UUID, id uuid.UUID) (*RoadmapView, error)
	UpdateProgress(ctx context.Context, ownerID uuid.UUID, id uuid.UUID, stages []types.Stage) (*RoadmapView, error)
	ToggleStep(ctx context.Context, ownerID uuid.UUID, id uuid.UUID, stageIdx, stepIdx int) (*RoadmapView, error)
}

type roadmapService struct {
	db          *gorm.DB
	log         *logger.Logger
	generator   *roadmap.Generator
	roadmapRepo repos.RoadmapRepo
	userRepo    repos.UserRepo
	notify      RoadmapNotifier
	cfg         RoadmapServiceConfig
}

func NewRoadmapService(
	db *gorm.DB,
	log *logger.Logger,
	generator *roadmap.Generator,
	roadmapRepo repos.RoadmapRepo,
	userRepo repos.UserRepo,
	notify RoadmapNotifier,
	cfg RoadmapServiceConfig,
) RoadmapService {
	if notify == nil {
		notify = NewRoadmapNotifier(nil)
	}
	return &roadmapService{
		db:          db,
		log:         log.With("service", "RoadmapService"),
		generator:   generator,
		roadmapRepo: roadmapRepo,
		userRepo:    userRepo,
		notify:      notify,
		cfg:         cfg,
	}
}

func (s *roadmapService) Generate(ctx context.Context, ownerID uuid.UUID, goal string) (*RoadmapView, error) {
	if ownerID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("owner required"))
	}
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return nil, apierr.BadRequest("invalid_goal", roadmap.ErrEmptyGoal)
	}

	draft, err := s.generator.Generate(ctx, goal)
	if err != nil {
		return nil, s.generationError(ownerID, err)
	}

	created, err := s.roadmapRepo.Create(dbctx.Context{Ctx: ctx}, draft.ToRoadmap(ownerID))
	if err != nil {
		s.log.Error("Persist roadmap failed", "user_id", ownerID.String(), "error", err)
		return nil, apierr.Internal("persist_failed", fmt.Errorf("save roadmap: %w", err))
	}

	s.log.Info("Roadmap generated",
		"user_id", ownerID.String(),
		"roadmap_id", created.ID.String(),
		"stages", len(created.Stages),
		"resources", len(created.Resources),
	)
	s.notify.RoadmapCreated(ctx, ownerID, created)
	return NewRoadmapView(created), nil
}

func (s *roadmapService) generationError(ownerID uuid.UUID, err error) error {
	var (
		upstream *roadmap.UpstreamError
		parse    *roadmap.ParseError
		shape    *roadmap.ShapeError
	)
	switch {
	case errors.Is(err, roadmap.ErrEmptyGoal):
		return apierr.BadRequest("invalid_goal", err)
	case errors.As(err, &upstream):
		s.log.Warn("Roadmap generation failed", "user_id", ownerID.String(), "error", err)
		return apierr.New(http.StatusBadGateway, "generation_failed", err)
	case errors.As(err, &parse):
		s.log.Warn("Model output not parseable", "user_id", ownerID.String(), "snippet", parse.Snippet, "error", err)
		return apierr.New(http.StatusUnprocessableEntity, "invalid_roadmap_format", err)
	case errors.As(err, &shape):
		s.log.Warn("Model output has wrong shape", "user_id", ownerID.String(), "field", shape.Field, "error", err)
		return apierr.New(http.StatusUnprocessableEntity, "invalid_roadmap_format", err)
	default:
		s.log.Error("Roadmap generation failed", "user_id", ownerID.String(), "error", err)
		return apierr.Internal("generation_failed", err)
	}
}

func (s *roadmapService) List(ctx context.Context, ownerID uuid.UUID) ([]*RoadmapView, error) {
	if ownerID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("owner required"))
	}
	rows, err := s.roadmapRepo.ListByUser(dbctx.Context{Ctx: ctx}, ownerID)
	if err != nil {
		return nil, apierr.Internal("list_failed", err)
	}
	out := make([]*RoadmapView, 0, len(rows))
	for _, rm := range rows {
		out = append(out, NewRoadmapView(rm))
	}
	return out, nil
}

func (s *roadmapService) Get(ctx context.Context, viewerID uuid.UUID, id uuid.UUID) (*RoadmapView, error) {
	if id == uuid.Nil {
		return nil, apierr.BadRequest("invalid_roadmap_id", fmt.Errorf("roadmap id required"))
	}
	dbc := dbctx.Context{Ctx: ctx}

	var (
		rm  *types.Roadmap
		err error
	)
	switch {
	case s.cfg.PublicRead:
		rm, err = s.roadmapRepo.GetByID(dbc, id)
	case viewerID == uuid.Nil:
		return nil, apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("sign in to read roadmaps"))
	default:
		rm, err = s.roadmapRepo.GetByIDAndUser(dbc, id, viewerID)
	}
	if err != nil {
		return nil, apierr.Internal("fetch_failed", err)
	}
	if rm == nil {
		return nil, apierr.NotFound("roadmap_not_found")
	}

	view := NewRoadmapView(rm)
	view.Owner = &OwnerSummary{ID: rm.UserID}
	if viewerID == rm.UserID && s.userRepo != nil {
		owner, err := s.userRepo.GetByID(dbc, rm.UserID)
		if err != nil {
			s.log.Warn("Owner lookup failed", "roadmap_id", id.String(), "error", err)
		} else if owner != nil {
			view.Owner.Email = owner.Email
		}
	}
	return view, nil
}

func (s *roadmapService) UpdateProgress(ctx context.Context, ownerID uuid.UUID, id uuid.UUID, stages []types.Stage) (*RoadmapView, error) {
	if ownerID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("owner required"))
	}
	if id == uuid.Nil {
		return nil, apierr.BadRequest("invalid_roadmap_id", fmt.Errorf("roadmap id required"))
	}
	if stages == nil {
		return nil, apierr.BadRequest("invalid_stages", fmt.Errorf("stages required"))
	}

	var updated *types.Roadmap
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := s.roadmapRepo.GetByIDAndUser(dbc, id, ownerID)
		if err != nil {
			return apierr.Internal("fetch_failed", err)
		}
		if current == nil {
			return apierr.NotFound("roadmap_not_found")
		}
		if !roadmap.SameShape(current.Stages, stages) {
			return apierr.BadRequest("invalid_stages", fmt.Errorf("stages do not match the stored roadmap"))
		}
		next := types.CloneStages(stages)
		ok, err := s.roadmapRepo.UpdateStages(dbc, id, ownerID, next)
		if err != nil {
			return apierr.Internal("persist_failed", err)
		}
		if !ok {
			return apierr.NotFound("roadmap_not_found")
		}
		current.Stages = next
		updated = current
		return nil
	})
	if err != nil {
		if ae, ok := apierr.As(err); ok && ae.Status >= http.StatusInternalServerError {
			s.log.Error("Update progress failed", "user_id", ownerID.String(), "roadmap_id", id.String(), "error", err)
		}
		return nil, err
	}

	s.notify.RoadmapProgressUpdated(ctx, ownerID, updated)
	return NewRoadmapView(updated), nil
}

func (s *roadmapService) ToggleStep(ctx context.Context, ownerID uuid.UUID, id uuid.UUID, stageIdx, stepIdx int) (*RoadmapView, error) {
	if ownerID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthenticated", fmt.Errorf("owner required"))
	}
	if id == uuid.Nil {
		return nil, apierr.BadRequest("invalid_roadmap_id", fmt.Errorf("roadmap id required"))
	}

	var updated *types.Roadmap
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := s.roadmapRepo.GetByIDAndUser(dbc, id, ownerID)
		if err != nil {
			return apierr.Internal("fetch_failed", err)
		}
		if current == nil {
			return apierr.NotFound("roadmap_not_found")
		}

		tracker := roadmap.NewTracker(current.Stages, roadmap.PersisterFunc(func(ctx context.Context, stages []types.Stage) error {
			ok, err := s.roadmapRepo.UpdateStages(dbctx.Context{Ctx: ctx, Tx: tx}, id, ownerID, stages)
			if err != nil {
				return err
			}
			if !ok {
				return apierr.NotFound("roadmap_not_found")
			}
			return nil
		}), roadmap.RollbackOnFailure)

		next, err := tracker.Toggle(ctx, stageIdx, stepIdx)
		if err != nil {
			if errors.Is(err, roadmap.ErrStepOutOfRange) {
				return apierr.BadRequest("invalid_step", err)
			}
			if ae, ok := apierr.As(err); ok {
				return ae
			}
			return apierr.Internal("persist_failed", err)
		}
		current.Stages = next
		updated = current
		return nil
	})
	if err != nil {
		if ae, ok := apierr.As(err); ok && ae.Status >= http.StatusInternalServerError {
			s.log.Error("Toggle step failed", "user_id", ownerID.String(), "roadmap_id", id.String(), "error", err)
		}
		return nil, err
	}

	s.notify.RoadmapProgressUpdated(ctx, ownerID, updated)
	return NewRoadmapView(updated), nil
}
