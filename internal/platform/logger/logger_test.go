package logger

import (
	"strings"
	"testing"
)

func TestSanitizeValue(t *testing.T) {
	cases := []struct {
		key  string
		val  interface{}
		want string
	}{
		{key: "email", val: "a@example.com", want: "[REDACTED]"},
		{key: "authorization", val: "Bearer x", want: "[REDACTED]"},
		{key: "gemini_api_key", val: "abc", want: "[REDACTED]"},
		{key: "raw", val: "aaaaaaaaaaaa.bbbbbbbbbbbbb.cc", want: "[REDACTED]"},
		{key: "roadmap_id", val: "1234", want: "1234"},
	}
	for _, tc := range cases {
		got := sanitizeValue(tc.key, tc.val)
		if got != tc.want {
			t.Fatalf("sanitizeValue(%q): got=%v want=%v", tc.key, got, tc.want)
		}
	}
}

func TestSanitizeValueNested(t *testing.T) {
	payload := map[string]interface{}{
		"roadmap_id": "r1",
		"owner":      map[string]interface{}{"Email": "a@example.com", "user_id": "u1"},
		"viewers": []interface{}{
			map[string]interface{}{"email": "b@example.com"},
			"aaaaaaaaaaaa.bbbbbbbbbbbbb.cc",
		},
		"headers": map[string]string{"Authorization": "Bearer x", "Accept": "application/json"},
	}

	got, ok := sanitizeValue("payload", payload).(map[string]interface{})
	if !ok {
		t.Fatalf("expected a map, got %T", got)
	}
	if got["roadmap_id"] != "r1" {
		t.Fatalf("plain field changed: %v", got["roadmap_id"])
	}
	owner := got["owner"].(map[string]interface{})
	if owner["Email"] != "[REDACTED]" {
		t.Fatalf("nested email not redacted: %v", owner["Email"])
	}
	if s, _ := owner["user_id"].(string); !strings.HasPrefix(s, "hash:") {
		t.Fatalf("nested user_id not hashed: %v", owner["user_id"])
	}
	viewers := got["viewers"].([]interface{})
	if viewers[0].(map[string]interface{})["email"] != "[REDACTED]" || viewers[1] != "[REDACTED]" {
		t.Fatalf("slice elements not sanitized: %#v", viewers)
	}
	headers := got["headers"].(map[string]interface{})
	if headers["Authorization"] != "[REDACTED]" || headers["Accept"] != "application/json" {
		t.Fatalf("unexpected headers: %#v", headers)
	}

	if payload["owner"].(map[string]interface{})["Email"] != "a@example.com" {
		t.Fatalf("input map was modified")
	}
}

func TestSanitizeValueHashesUserIDs(t *testing.T) {
	got, ok := sanitizeValue("user_id", "0b7e5d2e-8d0c-4f38-9a67-5c1f0c4a2d11").(string)
	if !ok {
		t.Fatalf("expected string")
	}
	if !strings.HasPrefix(got, "hash:") || len(got) != len("hash:")+12 {
		t.Fatalf("unexpected hash: %q", got)
	}
	again := sanitizeValue("user_id", "0b7e5d2e-8d0c-4f38-9a67-5c1f0c4a2d11")
	if again != got {
		t.Fatalf("hash is not stable: %v vs %v", again, got)
	}
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	if !redactionOn() {
		t.Skip("redaction disabled in environment")
	}
	out := sanitizeKVs([]interface{}{"email", "a@b.c", "dangling"})
	if len(out) != 3 {
		t.Fatalf("unexpected length: %d", len(out))
	}
	if out[1] != "[REDACTED]" || out[2] != "dangling" {
		t.Fatalf("unexpected output: %#v", out)
	}
}

func TestNewTestModeIsSilent(t *testing.T) {
	log, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("should be dropped", "k", "v")
	log.With("service", "x").Debug("dropped too")
}
