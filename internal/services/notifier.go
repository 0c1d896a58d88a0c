package services

import (
	"context"

	"github.com/google/uuid"

	types "github.com/yungbote/roadmap-backend/internal/domain"
	"github.com/yungbote/roadmap-backend/internal/modules/roadmap"
	"github.com/yungbote/roadmap-backend/internal/realtime"
)

type RoadmapNotifier interface {
	RoadmapCreated(ctx context.Context, userID uuid.UUID, rm *types.Roadmap)
	RoadmapProgressUpdated(ctx context.Context, userID uuid.UUID, rm *types.Roadmap)
}

type roadmapNotifier struct {
	emit SSEEmitter
}

// NewRoadmapNotifier returns a notifier that drops everything when emit is nil.
func NewRoadmapNotifier(emit SSEEmitter) RoadmapNotifier {
	return &roadmapNotifier{emit: emit}
}

func (n *roadmapNotifier) RoadmapCreated(ctx context.Context, userID uuid.UUID, rm *types.Roadmap) {
	if n == nil || n.emit == nil || userID == uuid.Nil || rm == nil {
		return
	}
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventRoadmapCreated,
		Data: map[string]any{
			"roadmap_id": rm.ID,
			"title":      rm.Title,
			"progress":   roadmap.RoadmapProgress(rm.Stages),
		},
	})
}

func (n *roadmapNotifier) RoadmapProgressUpdated(ctx context.Context, userID uuid.UUID, rm *types.Roadmap) {
	if n == nil || n.emit == nil || userID == uuid.Nil || rm == nil {
		return
	}
	sum := roadmap.Summarize(rm.Stages)
	n.emit.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.SSEEventRoadmapProgressUpdated,
		Data: map[string]any{
			"roadmap_id":     rm.ID,
			"stages":         rm.Stages,
			"progress":       sum.Percent,
			"stage_progress": sum.Stages,
		},
	})
}
