package envutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/roadmap-backend/internal/platform/logger"
)

// Source resolves configuration keys from the process environment first and an
// optional YAML file second. Keys in the file use the env var names.
type Source struct {
	log  *logger.Logger
	file map[string]string
}

func NewSource(log *logger.Logger) *Source {
	return &Source{log: log, file: map[string]string{}}
}

// LoadFile merges a flat YAML mapping (KEY: value) into the source.
func (s *Source) LoadFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	return s.LoadYAML(raw)
}

func (s *Source) LoadYAML(raw []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	for k, v := range doc {
		if v == nil {
			continue
		}
		s.file[strings.ToUpper(strings.TrimSpace(k))] = strings.TrimSpace(fmt.Sprint(v))
	}
	return nil
}

func (s *Source) lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := s.file[key]
	return v, ok
}

func (s *Source) String(key, def string) string {
	val, ok := s.lookup(key)
	if !ok {
		s.debug("Config key not found, using default", key, "default", def)
		return def
	}
	return val
}

func (s *Source) Int(key string, def int) int {
	raw, ok := s.lookup(key)
	if !ok {
		s.debug("Config key not found, using default", key, "default", def)
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.debug("Config key could not be parsed as int, using default", key, "provided", raw, "default", def, "error", err)
		return def
	}
	return i
}

func (s *Source) Bool(key string, def bool) bool {
	raw, ok := s.lookup(key)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		s.debug("Config key could not be parsed as bool, using default", key, "provided", raw, "default", def)
		return def
	}
}

func (s *Source) Float(key string, def float64) float64 {
	raw, ok := s.lookup(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		s.debug("Config key could not be parsed as float, using default", key, "provided", raw, "default", def, "error", err)
		return def
	}
	return f
}

// Seconds reads an integer number of seconds as a duration.
func (s *Source) Seconds(key string, def time.Duration) time.Duration {
	n := s.Int(key, int(def/time.Second))
	if n <= 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

// List splits a comma separated value, dropping blanks.
func (s *Source) List(key string, def []string) []string {
	raw, ok := s.lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return def
	}
	out := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Source) debug(msg, key string, kv ...interface{}) {
	if s.log == nil {
		return
	}
	s.log.Debug(msg, append([]interface{}{"env_var", key}, kv...)...)
}
