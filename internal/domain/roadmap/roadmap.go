package roadmap

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ResourceType string

const (
	ResourceBook    ResourceType = "Book"
	ResourceCourse  ResourceType = "Course"
	ResourceVideo   ResourceType = "Video"
	ResourceArticle ResourceType = "Article"
)

var ResourceTypes = []ResourceType{ResourceBook, ResourceCourse, ResourceVideo, ResourceArticle}

func (t ResourceType) Valid() bool {
	for _, v := range ResourceTypes {
		if t == v {
			return true
		}
	}
	return false
}

type Resource struct {
	Name string       `json:"name"`
	Type ResourceType `json:"type"`
	Link string       `json:"link"`
}

type Step struct {
	Task      string `json:"task"`
	Completed bool   `json:"completed"`
}

type Stage struct {
	Title string `json:"title"`
	Steps []Step `json:"steps"`
}

// Roadmap is a generated learning plan. Resources are immutable after creation;
// Stages is only ever replaced wholesale.
type Roadmap struct {
	ID        uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID                     `gorm:"type:uuid;not null;index:idx_roadmap_user_created,priority:1;column:user_id" json:"user_id"`
	Title     string                        `gorm:"not null;column:title" json:"title"`
	Goal      string                        `gorm:"not null;column:goal" json:"goal"`
	Resources datatypes.JSONSlice[Resource] `gorm:"not null;column:resources" json:"resources"`
	Stages    datatypes.JSONSlice[Stage]    `gorm:"not null;column:stages" json:"stages"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_roadmap_user_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Roadmap) TableName() string { return "roadmap" }

func (r *Roadmap) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Resources == nil {
		r.Resources = datatypes.JSONSlice[Resource]{}
	}
	if r.Stages == nil {
		r.Stages = datatypes.JSONSlice[Stage]{}
	}
	return nil
}

// CloneStages returns a deep copy so callers can mutate steps without aliasing
// the stored value.
func CloneStages(in []Stage) []Stage {
	if in == nil {
		return nil
	}
	out := make([]Stage, len(in))
	for i, st := range in {
		out[i] = Stage{Title: st.Title}
		if st.Steps != nil {
			out[i].Steps = append([]Step(nil), st.Steps...)
		}
	}
	return out
}
