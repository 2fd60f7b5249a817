package util

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatCount renders a follower/view count with a K/M/B suffix at one
// decimal place. Accepts numbers or numeric strings; anything unparseable
// formats as "0". When keepDecimal is false a trailing ".0" is stripped
// ("1.0K" -> "1K").
func FormatCount(value any, keepDecimal bool) string {
	n := ToFloat(value)
	if n < 0 {
		n = 0
	}

	var formatted string
	switch {
	case n >= 1e9:
		formatted = fmt.Sprintf("%.1fB", n/1e9)
	case n >= 1e6:
		formatted = fmt.Sprintf("%.1fM", n/1e6)
	case n >= 1e3:
		formatted = fmt.Sprintf("%.1fK", n/1e3)
	default:
		return strconv.FormatInt(int64(n), 10)
	}

	if !keepDecimal {
		formatted = strings.Replace(formatted, ".0", "", 1)
	}
	return formatted
}

// FormatPercent renders an engagement rate with two decimals and a percent
// sign, e.g. 0.376 -> "0.38%".
func FormatPercent(value any) string {
	return fmt.Sprintf("%.2f%%", ToFloat(value))
}

// ToFloat coerces JSON-decoded values (float64, int, numeric string) to a
// float64. Returns 0 for anything else; never panics.
func ToFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		trimmed := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		if trimmed == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
		return 0
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// ToInt64 coerces JSON-decoded values to an int64, truncating fractions.
func ToInt64(value any) int64 {
	return int64(ToFloat(value))
}

// ToString renders a JSON-decoded scalar as display text. Whole floats print
// without a decimal point; nil and composites print as "".
func ToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// ToBool interprets truthy payload values: true, non-zero numbers and the
// strings "true"/"1"/"yes".
func ToBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case string:
		lower := strings.ToLower(strings.TrimSpace(v))
		return lower == "true" || lower == "1" || lower == "yes"
	default:
		return false
	}
}
