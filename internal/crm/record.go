// Package crm integrates the remote contact directory: a read-only,
// Pipedrive-compatible service supplying person and organization records. The
// records are loosely shaped field bags; every accessor here degrades to an
// empty string on absent or oddly shaped fields rather than failing.
package crm

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is a raw directory record as decoded from JSON.
type Record map[string]any

// Clean normalizes a raw scalar to a trimmed string. Placeholder values the
// directory uses for "no data" ("-" and an em-dash) map to empty.
func Clean(v any) string {
	if v == nil {
		return ""
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		s = fmt.Sprint(t)
	}
	s = strings.TrimSpace(s)
	if s == "-" || s == "—" {
		return ""
	}
	return s
}

// String returns the cleaned scalar stored under key.
func (r Record) String(key string) string {
	if r == nil {
		return ""
	}
	return Clean(r[key])
}

// FirstValue extracts the leading entry of a multi-value field. The directory
// stores phone/email fields either as a list of objects carrying a "value"
// key or as a list of plain strings.
func (r Record) FirstValue(key string) string {
	if r == nil {
		return ""
	}
	list, ok := r[key].([]any)
	if !ok || len(list) == 0 {
		return ""
	}
	switch first := list[0].(type) {
	case map[string]any:
		return Clean(first["value"])
	case string:
		return Clean(first)
	}
	return ""
}

// Scalar unwraps a possibly nested field: objects resolve through their
// "value", "id", then "name" keys; anything else passes through unchanged.
func Scalar(v any) any {
	if v == nil {
		return nil
	}
	if m, ok := v.(map[string]any); ok {
		for _, k := range []string{"value", "id", "name"} {
			if inner, ok := m[k]; ok && inner != nil {
				return inner
			}
		}
		return nil
	}
	return v
}

// ScalarID resolves a nested field to a numeric identifier, reporting whether
// one was present.
func (r Record) ScalarID(key string) (int64, bool) {
	if r == nil {
		return 0, false
	}
	switch v := Scalar(r[key]).(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	}
	return 0, false
}
