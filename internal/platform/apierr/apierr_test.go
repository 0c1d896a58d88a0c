package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAsUnwrapsWrappedError(t *testing.T) {
	base := BadRequest("invalid_goal", errors.New("goal required"))
	wrapped := fmt.Errorf("generate: %w", base)

	got, ok := As(wrapped)
	if !ok {
		t.Fatalf("expected api error in chain")
	}
	if got.Status != http.StatusBadRequest || got.Code != "invalid_goal" {
		t.Fatalf("unexpected api error: %+v", got)
	}
	if got.Error() != "goal required" {
		t.Fatalf("unexpected message: %q", got.Error())
	}
}

func TestErrorMessageFallbacks(t *testing.T) {
	if msg := New(http.StatusTeapot, "", nil).Error(); msg != "api error (418)" {
		t.Fatalf("status fallback: %q", msg)
	}
	if msg := New(0, "code_only", nil).Error(); msg != "code_only" {
		t.Fatalf("code fallback: %q", msg)
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Fatalf("plain error should not match")
	}
}
