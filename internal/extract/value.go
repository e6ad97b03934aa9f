package extract

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Helpers for walking decoded JSON (map[string]any, []any, scalars).

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func field(v any, key string) any {
	m, ok := asMap(v)
	if !ok {
		return nil
	}
	return m[key]
}

// dig follows a path of map keys (string) and slice indexes (int).
func dig(v any, path ...any) any {
	cur := v
	for _, p := range path {
		switch k := p.(type) {
		case string:
			m, ok := asMap(cur)
			if !ok {
				return nil
			}
			cur = m[k]
		case int:
			s, ok := asSlice(cur)
			if !ok || k < 0 || k >= len(s) {
				return nil
			}
			cur = s[k]
		default:
			return nil
		}
	}
	return cur
}

// number accepts JSON numbers and numeric strings such as "1.05".
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(n), "£"), 64)
		return f, err == nil
	}
	return 0, false
}

func str(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
