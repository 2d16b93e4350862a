// Package mapper translates between store rows and domain entities.
// Every function here is pure; "now" is passed in by the caller.
package mapper

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/asistoya/shared-services/internal/core/domain"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	domain.DateLayout,
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// timeOr parses a timestamp column, falling back to now when it is null or
// unreadable.
func timeOr(s *string, now time.Time) time.Time {
	if s == nil || *s == "" {
		return now
	}
	if t, ok := parseTime(*s); ok {
		return t
	}
	return now
}

func optTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	if t, ok := parseTime(*s); ok {
		return &t
	}
	return nil
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strs(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// nonZero drops zero coordinates and counts, which the store treats as unset.
func nonZero[T int | float64](v *T) *T {
	if v == nil || *v == 0 {
		return nil
	}
	out := *v
	return &out
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// decodeList decodes a json array column. Anything that is not a well formed
// array yields an empty, non-nil slice.
func decodeList[T any](raw json.RawMessage) []T {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []T{}
	}
	var out []T
	if err := json.Unmarshal(trimmed, &out); err != nil || out == nil {
		return []T{}
	}
	return out
}

// decodeObject decodes a json object column over the zero value, so absent
// keys keep their zero defaults.
func decodeObject[T any](raw json.RawMessage) T {
	var out T
	if isNull(raw) {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		var zero T
		return zero
	}
	return out
}

func decodeMap(raw json.RawMessage) map[string]any {
	if isNull(raw) {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// orNull maps an empty string to SQL NULL.
func orNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func orDefault[T ~string](v, def T) T {
	if v == "" {
		return def
	}
	return v
}
