package roadmap

import (
	"context"
	"errors"
	"testing"

	types "github.com/yungbote/roadmap-backend/internal/domain"
)

func TestTrackerTogglePersistsWholeArray(t *testing.T) {
	var persisted []types.Stage
	tr := NewTracker(stagesFromFlags([]bool{false, false}), PersisterFunc(func(ctx context.Context, stages []types.Stage) error {
		persisted = stages
		return nil
	}), RollbackOnFailure)

	got, err := tr.Toggle(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !got[0].Steps[0].Completed || !persisted[0].Steps[0].Completed {
		t.Fatalf("flip not persisted: got=%+v persisted=%+v", got, persisted)
	}
	if len(persisted[0].Steps) != 2 {
		t.Fatalf("persister must receive the whole stages array")
	}
	if p := tr.Progress(); p.Percent != 50 {
		t.Fatalf("Progress: %+v", p)
	}
}

func TestTrackerRollsBackOnFailure(t *testing.T) {
	boom := errors.New("store unavailable")
	tr := NewTracker(stagesFromFlags([]bool{false}), PersisterFunc(func(ctx context.Context, stages []types.Stage) error {
		if !stages[0].Steps[0].Completed {
			t.Fatalf("local flip must be applied before persisting")
		}
		return boom
	}), RollbackOnFailure)

	_, err := tr.Toggle(context.Background(), 0, 0)
	var pe *PersistError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PersistError, got %v", err)
	}
	if !pe.RolledBack || !errors.Is(err, boom) {
		t.Fatalf("unexpected persist error: %+v", pe)
	}
	if tr.Stages()[0].Steps[0].Completed {
		t.Fatalf("local view should be rolled back")
	}
}

func TestTrackerKeepsLocalViewWhenConfigured(t *testing.T) {
	tr := NewTracker(stagesFromFlags([]bool{false}), PersisterFunc(func(ctx context.Context, stages []types.Stage) error {
		return errors.New("down")
	}), KeepOnFailure)

	_, err := tr.Toggle(context.Background(), 0, 0)
	var pe *PersistError
	if !errors.As(err, &pe) || pe.RolledBack {
		t.Fatalf("expected non-rolled-back *PersistError, got %v", err)
	}
	if !tr.Stages()[0].Steps[0].Completed {
		t.Fatalf("local view should keep the optimistic flip")
	}
}

func TestTrackerOutOfRangeDoesNotPersist(t *testing.T) {
	called := false
	tr := NewTracker(stagesFromFlags([]bool{false}), PersisterFunc(func(ctx context.Context, stages []types.Stage) error {
		called = true
		return nil
	}), RollbackOnFailure)

	if _, err := tr.Toggle(context.Background(), 3, 0); !errors.Is(err, ErrStepOutOfRange) {
		t.Fatalf("expected ErrStepOutOfRange, got %v", err)
	}
	if called {
		t.Fatalf("persister must not be called for invalid indexes")
	}
}
