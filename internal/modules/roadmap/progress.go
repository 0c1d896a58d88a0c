package roadmap

import (
	"math"

	types "github.com/yungbote/roadmap-backend/internal/domain"
)

// Progress is derived on read and never stored.
type Progress struct {
	Percent   int   `json:"percent"`
	Completed int   `json:"completed"`
	Total     int   `json:"total"`
	Stages    []int `json:"stages"`
}

// Percent rounds done/total to the nearest whole percent; 0 when total is 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) * 100 / float64(total)))
}

func countStage(st types.Stage) (done, total int) {
	for _, step := range st.Steps {
		if step.Completed {
			done++
		}
	}
	return done, len(st.Steps)
}

func StageProgress(st types.Stage) int {
	return Percent(countStage(st))
}

func RoadmapProgress(stages []types.Stage) int {
	return Summarize(stages).Percent
}

func Summarize(stages []types.Stage) Progress {
	p := Progress{Stages: make([]int, 0, len(stages))}
	for _, st := range stages {
		done, total := countStage(st)
		p.Completed += done
		p.Total += total
		p.Stages = append(p.Stages, Percent(done, total))
	}
	p.Percent = Percent(p.Completed, p.Total)
	return p
}

// ToggleStep returns a copy of stages with the completion flag at
// [stageIdx][stepIdx] flipped. The input is not modified.
func ToggleStep(stages []types.Stage, stageIdx, stepIdx int) ([]types.Stage, error) {
	if stageIdx < 0 || stageIdx >= len(stages) {
		return nil, ErrStepOutOfRange
	}
	if stepIdx < 0 || stepIdx >= len(stages[stageIdx].Steps) {
		return nil, ErrStepOutOfRange
	}
	out := types.CloneStages(stages)
	out[stageIdx].Steps[stepIdx].Completed = !out[stageIdx].Steps[stepIdx].Completed
	return out, nil
}

// SameShape reports whether a and b differ only in completion flags: same
// stage titles, same step tasks, in the same order.
func SameShape(a, b []types.Stage) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Title != b[i].Title || len(a[i].Steps) != len(b[i].Steps) {
			return false
		}
		for j := range a[i].Steps {
			if a[i].Steps[j].Task != b[i].Steps[j].Task {
				return false
			}
		}
	}
	return true
}
