package roadmap

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyGoal      = errors.New("goal required")
	ErrStepOutOfRange = errors.New("step index out of range")
)

// UpstreamError is a failure of the text model call itself.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("text model call failed: %v", e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }

// ParseError means the model answered with text that is not a single JSON object.
type ParseError struct {
	Err     error
	Snippet string
}

func (e *ParseError) Error() string { return fmt.Sprintf("model output is not valid JSON: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// ShapeError means the output parsed but is missing a required field or has
// the wrong kind of value for it.
type ShapeError struct {
	Field  string
	Reason string
}

func (e *ShapeError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid roadmap format: %s", e.Field)
	}
	return fmt.Sprintf("invalid roadmap format: %s %s", e.Field, e.Reason)
}
