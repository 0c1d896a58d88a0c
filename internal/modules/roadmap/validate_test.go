package roadmap

import (
	"errors"
	"testing"

	types "github.com/yungbote/roadmap-backend/internal/domain"
)

func TestValidateShape(t *testing.T) {
	valid := func() map[string]any {
		return map[string]any{
			"title":     "Learn Go",
			"goal":      "Ship a Go service.",
			"resources": []any{},
			"stages":    []any{},
		}
	}

	if err := ValidateShape(valid()); err != nil {
		t.Fatalf("valid candidate rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(m map[string]any)
		field  string
	}{
		{"missing title", func(m map[string]any) { delete(m, "title") }, "title"},
		{"empty title", func(m map[string]any) { m["title"] = "   " }, "title"},
		{"numeric title", func(m map[string]any) { m["title"] = 3.0 }, "title"},
		{"missing goal", func(m map[string]any) { delete(m, "goal") }, "goal"},
		{"null goal", func(m map[string]any) { m["goal"] = nil }, "goal"},
		{"resources object", func(m map[string]any) { m["resources"] = map[string]any{} }, "resources"},
		{"missing resources", func(m map[string]any) { delete(m, "resources") }, "resources"},
		{"stages string", func(m map[string]any) { m["stages"] = "1,2,3" }, "stages"},
		{"missing stages", func(m map[string]any) { delete(m, "stages") }, "stages"},
		{"title checked first", func(m map[string]any) { delete(m, "title"); delete(m, "stages") }, "title"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := valid()
			tc.mutate(m)
			err := ValidateShape(m)
			var se *ShapeError
			if !errors.As(err, &se) {
				t.Fatalf("expected *ShapeError, got %v", err)
			}
			if se.Field != tc.field {
				t.Fatalf("field: got=%q want=%q", se.Field, tc.field)
			}
		})
	}

	var se *ShapeError
	if !errors.As(ValidateShape(nil), &se) {
		t.Fatalf("nil candidate must fail")
	}
}

func TestValidateStrict(t *testing.T) {
	ok := &Draft{
		Title: "t", Goal: "g",
		Resources: []types.Resource{{Name: "n", Type: "video", Link: "https://x"}},
		Stages:    []types.Stage{{Title: "s", Steps: []types.Step{{Task: "a"}}}},
	}
	if err := ValidateStrict(ok); err != nil {
		t.Fatalf("ValidateStrict: %v", err)
	}
	if ok.Resources[0].Type != types.ResourceVideo {
		t.Fatalf("resource type should be canonicalised, got %q", ok.Resources[0].Type)
	}

	bad := []*Draft{
		{Title: "t", Goal: "g"},
		{Title: "t", Goal: "g", Stages: []types.Stage{{Title: "empty"}}},
		{Title: "t", Goal: "g",
			Resources: []types.Resource{{Name: "n", Type: "Podcast"}},
			Stages:    []types.Stage{{Title: "s", Steps: []types.Step{{Task: "a"}}}}},
	}
	for i, d := range bad {
		var se *ShapeError
		if !errors.As(ValidateStrict(d), &se) {
			t.Fatalf("case %d: expected *ShapeError", i)
		}
	}
}
