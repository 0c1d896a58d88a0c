package roadmap

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/roadmap-backend/internal/domain"
)

// TextModel is the external generation model: one prompt in, free text out.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type TextModelFunc func(ctx context.Context, prompt string) (string, error)

func (f TextModelFunc) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Draft is a generated roadmap that has no id or owner yet.
type Draft struct {
	Title     string           `json:"title"`
	Goal      string           `json:"goal"`
	Resources []types.Resource `json:"resources"`
	Stages    []types.Stage    `json:"stages"`
}

// ToRoadmap binds the draft to its owner for persistence.
func (d *Draft) ToRoadmap(userID uuid.UUID) *types.Roadmap {
	resources := d.Resources
	if resources == nil {
		resources = []types.Resource{}
	}
	stages := d.Stages
	if stages == nil {
		stages = []types.Stage{}
	}
	return &types.Roadmap{
		UserID:    userID,
		Title:     strings.TrimSpace(d.Title),
		Goal:      strings.TrimSpace(d.Goal),
		Resources: datatypes.JSONSlice[types.Resource](resources),
		Stages:    datatypes.JSONSlice[types.Stage](types.CloneStages(stages)),
	}
}

type Generator struct {
	model  TextModel
	strict bool
}

type GeneratorOption func(*Generator)

// WithStrictValidation toggles the checks in ValidateStrict. On by default.
func WithStrictValidation(on bool) GeneratorOption {
	return func(g *Generator) { g.strict = on }
}

func NewGenerator(model TextModel, opts ...GeneratorOption) *Generator {
	g := &Generator{model: model, strict: true}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate runs one model call and the parse -> shape -> decode pipeline.
// Errors are *UpstreamError, *ParseError, *ShapeError or ErrEmptyGoal.
func (g *Generator) Generate(ctx context.Context, goal string) (*Draft, error) {
	if strings.TrimSpace(goal) == "" {
		return nil, ErrEmptyGoal
	}

	text, err := g.model.GenerateText(ctx, BuildPrompt(goal))
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	obj, err := ParseModelOutput(text)
	if err != nil {
		return nil, err
	}
	if err := ValidateShape(obj); err != nil {
		return nil, err
	}
	draft, err := decodeDraft(obj)
	if err != nil {
		return nil, err
	}
	if g.strict {
		if err := ValidateStrict(draft); err != nil {
			return nil, err
		}
	}

	for i := range draft.Stages {
		if draft.Stages[i].Steps == nil {
			draft.Stages[i].Steps = []types.Step{}
		}
		for j := range draft.Stages[i].Steps {
			draft.Stages[i].Steps[j].Completed = false
		}
	}
	if draft.Resources == nil {
		draft.Resources = []types.Resource{}
	}
	return draft, nil
}
