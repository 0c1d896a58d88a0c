package roadmap

import (
	"fmt"
	"strings"

	types "github.com/yungbote/roadmap-backend/internal/domain"
)

// ValidateShape checks the four required top-level fields, in order: title and
// goal are non-empty strings, resources and stages are arrays. Nothing deeper.
func ValidateShape(candidate map[string]any) error {
	if candidate == nil {
		return &ShapeError{Field: "title", Reason: "is missing"}
	}
	for _, field := range []string{"title", "goal"} {
		v, ok := candidate[field]
		if !ok || v == nil {
			return &ShapeError{Field: field, Reason: "is missing"}
		}
		s, ok := v.(string)
		if !ok {
			return &ShapeError{Field: field, Reason: "must be a string"}
		}
		if strings.TrimSpace(s) == "" {
			return &ShapeError{Field: field, Reason: "is empty"}
		}
	}
	for _, field := range []string{"resources", "stages"} {
		v, ok := candidate[field]
		if !ok || v == nil {
			return &ShapeError{Field: field, Reason: "is missing"}
		}
		if _, ok := v.([]any); !ok {
			return &ShapeError{Field: field, Reason: "must be an array"}
		}
	}
	return nil
}

// ValidateStrict enforces what the prompt asks for but the shape check does not:
// at least one stage, at least one step per stage, and known resource types.
// Resource types are matched case-insensitively and rewritten to canonical form.
func ValidateStrict(d *Draft) error {
	if len(d.Stages) == 0 {
		return &ShapeError{Field: "stages", Reason: "is empty"}
	}
	for i, st := range d.Stages {
		if len(st.Steps) == 0 {
			return &ShapeError{Field: fmt.Sprintf("stages[%d].steps", i), Reason: "is empty"}
		}
	}
	for i := range d.Resources {
		canon, ok := canonicalResourceType(string(d.Resources[i].Type))
		if !ok {
			return &ShapeError{Field: fmt.Sprintf("resources[%d].type", i), Reason: fmt.Sprintf("has unknown value %q", d.Resources[i].Type)}
		}
		d.Resources[i].Type = canon
	}
	return nil
}

func canonicalResourceType(raw string) (types.ResourceType, bool) {
	raw = strings.TrimSpace(raw)
	for _, t := range []types.ResourceType{types.ResourceBook, types.ResourceCourse, types.ResourceVideo, types.ResourceArticle} {
		if strings.EqualFold(raw, string(t)) {
			return t, true
		}
	}
	return "", false
}
