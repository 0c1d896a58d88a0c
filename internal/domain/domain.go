package domain

import (
	"github.com/yungbote/roadmap-backend/internal/domain/roadmap"
	"github.com/yungbote/roadmap-backend/internal/domain/user"
)

type User = user.User

type Roadmap = roadmap.Roadmap
type Resource = roadmap.Resource
type ResourceType = roadmap.ResourceType
type Stage = roadmap.Stage
type Step = roadmap.Step

const (
	ResourceBook    = roadmap.ResourceBook
	ResourceCourse  = roadmap.ResourceCourse
	ResourceVideo   = roadmap.ResourceVideo
	ResourceArticle = roadmap.ResourceArticle
)

// Models lists every table this service owns, in migration order.
func Models() []any {
	return []any{
		&User{},
		&Roadmap{},
	}
}

func CloneStages(in []Stage) []Stage { return roadmap.CloneStages(in) }
