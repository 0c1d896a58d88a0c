package repos

import (
	"github.com/yungbote/roadmap-backend/internal/data/repos/roadmap"
	"github.com/yungbote/roadmap-backend/internal/data/repos/user"
	"github.com/yungbote/roadmap-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type RoadmapRepo = roadmap.RoadmapRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }

func NewRoadmapRepo(db *gorm.DB, log *logger.Logger) RoadmapRepo {
	return roadmap.NewRoadmapRepo(db, log)
}
