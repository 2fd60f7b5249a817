package util

import "testing"

func TestFormatCountSuffixes(t *testing.T) {
	cases := []struct {
		value       any
		keepDecimal bool
		expected    string
	}{
		{999, true, "999"},
		{1000, true, "1.0K"},
		{1000, false, "1K"},
		{1500, true, "1.5K"},
		{250000, true, "250.0K"},
		{1500000, true, "1.5M"},
		{2000000000, true, "2.0B"},
		{2000000000, false, "2B"},
		{"1000000", true, "1.0M"},
		{0, true, "0"},
		{-50, true, "0"},
		{"garbage", true, "0"},
	}

	for _, c := range cases {
		if got := FormatCount(c.value, c.keepDecimal); got != c.expected {
			t.Errorf("FormatCount(%v, %v) = %q, expected %q", c.value, c.keepDecimal, got, c.expected)
		}
	}
}

func TestToFloatCoercion(t *testing.T) {
	cases := []struct {
		value    any
		expected float64
	}{
		{float64(1.5), 1.5},
		{int(3), 3},
		{"42", 42},
		{"1,000,000", 1000000},
		{" 2.5 ", 2.5},
		{"", 0},
		{"abc", 0},
		{nil, 0},
		{true, 1},
		{[]any{1}, 0},
	}

	for _, c := range cases {
		if got := ToFloat(c.value); got != c.expected {
			t.Errorf("ToFloat(%v) = %f, expected %f", c.value, got, c.expected)
		}
	}
}

func TestToStringWholeFloats(t *testing.T) {
	if got := ToString(float64(250000)); got != "250000" {
		t.Errorf("expected whole float without decimal point, got %q", got)
	}
	if got := ToString(nil); got != "" {
		t.Errorf("expected empty string for nil, got %q", got)
	}
}

func TestToBool(t *testing.T) {
	truthy := []any{true, float64(1), "true", "YES", "1"}
	for _, v := range truthy {
		if !ToBool(v) {
			t.Errorf("expected %v to be truthy", v)
		}
	}
	falsy := []any{false, float64(0), "", "false", nil, []any{}}
	for _, v := range falsy {
		if ToBool(v) {
			t.Errorf("expected %v to be falsy", v)
		}
	}
}
