package roadmap

import (
	"context"
	"fmt"
	"sync"

	types "github.com/yungbote/roadmap-backend/internal/domain"
)

// Persister stores a full replacement of a roadmap's stages.
type Persister interface {
	PersistStages(ctx context.Context, stages []types.Stage) error
}

type PersisterFunc func(ctx context.Context, stages []types.Stage) error

func (f PersisterFunc) PersistStages(ctx context.Context, stages []types.Stage) error {
	return f(ctx, stages)
}

type FailurePolicy int

const (
	// RollbackOnFailure undoes the local flip when persistence fails.
	RollbackOnFailure FailurePolicy = iota
	// KeepOnFailure leaves the local view diverged from the store.
	KeepOnFailure
)

// PersistError is returned by Toggle when the local view was updated but the
// write did not go through. RolledBack tells the caller which view it holds.
type PersistError struct {
	Err        error
	RolledBack bool
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist stages (rolled_back=%t): %v", e.RolledBack, e.Err)
}
func (e *PersistError) Unwrap() error { return e.Err }

// Tracker is a local view of one roadmap's stages. Toggle applies a flip
// locally first, then sends the whole array to the Persister.
type Tracker struct {
	mu      sync.Mutex
	stages  []types.Stage
	persist Persister
	policy  FailurePolicy
}

func NewTracker(stages []types.Stage, persist Persister, policy FailurePolicy) *Tracker {
	return &Tracker{stages: types.CloneStages(stages), persist: persist, policy: policy}
}

func (t *Tracker) Stages() []types.Stage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return types.CloneStages(t.stages)
}

func (t *Tracker) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Summarize(t.stages)
}

// Toggle flips one step and persists the result. On success it returns the
// persisted stages. On persistence failure it returns a *PersistError and,
// under RollbackOnFailure, flips the same step back. Undoing by a second flip
// keeps any concurrent toggles of other steps intact.
func (t *Tracker) Toggle(ctx context.Context, stageIdx, stepIdx int) ([]types.Stage, error) {
	t.mu.Lock()
	next, err := ToggleStep(t.stages, stageIdx, stepIdx)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	t.stages = next
	snapshot := types.CloneStages(next)
	t.mu.Unlock()

	if err := t.persist.PersistStages(ctx, snapshot); err != nil {
		rolledBack := false
		if t.policy == RollbackOnFailure {
			t.mu.Lock()
			if reverted, rErr := ToggleStep(t.stages, stageIdx, stepIdx); rErr == nil {
				t.stages = reverted
				rolledBack = true
			}
			t.mu.Unlock()
		}
		return nil, &PersistError{Err: err, RolledBack: rolledBack}
	}
	return snapshot, nil
}
