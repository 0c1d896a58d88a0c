package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/roadmap-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, externalID string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:         uuid.New(),
		ExternalID: externalID,
		Email:      externalID + "@example.com",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SampleStages is two stages whose completion flags are [[true,false],[true,true]].
func SampleStages() []types.Stage {
	return []types.Stage{
		{Title: "Foundations", Steps: []types.Step{
			{Task: "Install the toolchain", Completed: true},
			{Task: "Write hello world", Completed: false},
		}},
		{Title: "Practice", Steps: []types.Step{
			{Task: "Build a CLI", Completed: true},
			{Task: "Publish it", Completed: true},
		}},
	}
}

func SampleResources() []types.Resource {
	return []types.Resource{
		{Name: "The Go Programming Language", Type: types.ResourceBook, Link: "https://www.gopl.io"},
		{Name: "Tour of Go", Type: types.ResourceCourse, Link: "https://go.dev/tour"},
		{Name: "Effective Go", Type: types.ResourceArticle, Link: "https://go.dev/doc/effective_go"},
	}
}

func SeedRoadmap(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string, createdAt time.Time) *types.Roadmap {
	tb.Helper()
	r := &types.Roadmap{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Goal:      "Learn " + title,
		Resources: datatypes.JSONSlice[types.Resource](SampleResources()),
		Stages:    datatypes.JSONSlice[types.Stage](SampleStages()),
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed roadmap: %v", err)
	}
	return r
}
