package adapter

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/util"
)

// NestedValue resolves the first candidate path that yields a defined value
// in a loosely-typed payload. Each path entry is one of:
//
//   - a plain key: "username"
//   - a dot-path: "user_data.followers_count"
//   - a comma-join of sibling keys: "firstName,lastName" (segments resolved
//     individually, empty ones dropped, the rest joined with one space)
//
// A nil or missing intermediate falls through to the next path. The optional
// transform is applied to the resolved value. The second return is false when
// no path resolves; callers supply their own defaults.
func NestedValue(payload domain.RawPayload, paths []string, transform func(any) any) (any, bool) {
	if payload == nil {
		return nil, false
	}

	for _, path := range paths {
		var value any
		var ok bool

		if strings.Contains(path, ",") {
			value, ok = joinedValue(payload, path)
		} else {
			value, ok = pathValue(payload, path)
		}

		if !ok {
			continue
		}
		if transform != nil {
			value = transform(value)
		}
		return value, true
	}

	return nil, false
}

// StringAt resolves the first path to display text, or "" when absent. A path
// that lands on a container instead of a scalar falls through to the next
// candidate, so "caption" and "caption.text" can cover both payload shapes.
func StringAt(payload domain.RawPayload, paths ...string) string {
	for _, path := range paths {
		v, ok := NestedValue(payload, []string{path}, nil)
		if !ok {
			continue
		}
		switch v.(type) {
		case map[string]any, []any:
			continue
		}
		return util.ToString(v)
	}
	return ""
}

// Int64At resolves the first path to an int64, or 0 when absent.
func Int64At(payload domain.RawPayload, paths ...string) int64 {
	if v, ok := NestedValue(payload, paths, nil); ok {
		return util.ToInt64(v)
	}
	return 0
}

// FloatAt resolves the first path to a float64, or 0 when absent.
func FloatAt(payload domain.RawPayload, paths ...string) float64 {
	if v, ok := NestedValue(payload, paths, nil); ok {
		return util.ToFloat(v)
	}
	return 0
}

// BoolAt resolves the first path to a truthy flag, or false when absent.
func BoolAt(payload domain.RawPayload, paths ...string) bool {
	if v, ok := NestedValue(payload, paths, nil); ok {
		return util.ToBool(v)
	}
	return false
}

// ListAt resolves the first path holding a non-empty JSON array.
func ListAt(payload domain.RawPayload, paths ...string) []any {
	for _, path := range paths {
		if v, ok := pathValue(payload, path); ok {
			if list, isList := v.([]any); isList && len(list) > 0 {
				return list
			}
		}
	}
	return nil
}

// MapAt resolves the first path holding a JSON object.
func MapAt(payload domain.RawPayload, paths ...string) domain.RawPayload {
	for _, path := range paths {
		if v, ok := pathValue(payload, path); ok {
			if m, isMap := v.(map[string]any); isMap {
				return m
			}
		}
	}
	return nil
}

// pathValue walks a dot-separated path segment by segment. Missing or nil
// intermediates resolve to (nil, false).
func pathValue(payload domain.RawPayload, path string) (any, bool) {
	current := any(payload)
	for _, segment := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		value, exists := node[segment]
		if !exists || value == nil {
			return nil, false
		}
		current = value
	}
	return current, true
}

// joinedValue resolves every comma-separated segment and joins the non-empty
// ones with a single space.
func joinedValue(payload domain.RawPayload, path string) (any, bool) {
	parts := make([]string, 0, 2)
	for _, segment := range strings.Split(path, ",") {
		v, ok := pathValue(payload, strings.TrimSpace(segment))
		if !ok {
			continue
		}
		if s := util.ToString(v); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return nil, false
	}
	return strings.Join(parts, " "), true
}

// TempID produces an ephemeral identifier for payloads without a stable one.
// Not globally unique; only used as a transient UI key until the profile is
// persisted under a real ID.
func TempID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixMilli(), rand.Intn(1000))
}
