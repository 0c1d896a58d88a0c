package roadmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

const snippetLimit = 200

// StripCodeFence removes a leading ``` or ```json fence line and a trailing ```
// fence. Text without fences is returned trimmed.
func StripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			lang := strings.TrimSpace(s[:nl])
			if lang == "" || isFenceLang(lang) {
				s = s[nl+1:]
			}
		} else if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isFenceLang(s string) bool {
	return strings.EqualFold(s, "json") || strings.EqualFold(s, "jsonc")
}

// ParseModelOutput is the strict first stage: the cleaned text must be exactly
// one JSON object.
func ParseModelOutput(text string) (map[string]any, error) {
	cleaned := StripCodeFence(text)
	if cleaned == "" {
		return nil, &ParseError{Err: errors.New("empty model output")}
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &ParseError{Err: err, Snippet: snippet(cleaned)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Err: errors.New("unexpected trailing content after JSON value"), Snippet: snippet(cleaned)}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &ParseError{Err: fmt.Errorf("expected JSON object, got %s", kindOf(v)), Snippet: snippet(cleaned)}
	}
	return obj, nil
}

// decodeDraft maps the validated object onto the typed draft. Type mismatches
// below the top level are reported as shape errors on the offending field.
func decodeDraft(obj map[string]any) (*Draft, error) {
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	var d Draft
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&d); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "roadmap"
			}
			return nil, &ShapeError{Field: field, Reason: fmt.Sprintf("must not be %s", typeErr.Value)}
		}
		return nil, &ParseError{Err: err}
	}
	return &d, nil
}

func snippet(s string) string {
	if len(s) <= snippetLimit {
		return s
	}
	return s[:snippetLimit] + "..."
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
