package adapter

import (
	"strings"
	"testing"

	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
)

func TestNestedValueDotPath(t *testing.T) {
	payload := domain.RawPayload{
		"a": map[string]any{
			"b": map[string]any{
				"c": 5,
			},
		},
	}

	value, ok := NestedValue(payload, []string{"x", "a.b.c"}, nil)
	if !ok {
		t.Fatal("expected a.b.c to resolve")
	}
	if value != 5 {
		t.Errorf("expected 5, got %v", value)
	}
}

func TestNestedValueCommaJoin(t *testing.T) {
	payload := domain.RawPayload{
		"firstName": "A",
		"lastName":  "B",
	}

	value, ok := NestedValue(payload, []string{"missing", "firstName,lastName"}, nil)
	if !ok {
		t.Fatal("expected comma-join path to resolve")
	}
	if value != "A B" {
		t.Errorf("expected %q, got %v", "A B", value)
	}
}

func TestNestedValueCommaJoinSkipsEmptySegments(t *testing.T) {
	payload := domain.RawPayload{
		"firstName": "A",
		"lastName":  "",
	}

	value, ok := NestedValue(payload, []string{"firstName,lastName"}, nil)
	if !ok {
		t.Fatal("expected partial comma-join to resolve")
	}
	if value != "A" {
		t.Errorf("expected %q, got %v", "A", value)
	}
}

func TestNestedValueUnresolved(t *testing.T) {
	if _, ok := NestedValue(domain.RawPayload{}, []string{"missing"}, nil); ok {
		t.Error("expected missing path to report not resolved")
	}
	if _, ok := NestedValue(nil, []string{"anything"}, nil); ok {
		t.Error("expected nil payload to report not resolved")
	}
}

func TestNestedValueNilIntermediateFallsThrough(t *testing.T) {
	payload := domain.RawPayload{
		"a":        nil,
		"fallback": "v",
	}

	value, ok := NestedValue(payload, []string{"a.b", "fallback"}, nil)
	if !ok || value != "v" {
		t.Errorf("expected fallback path to win, got %v (%v)", value, ok)
	}
}

func TestNestedValueTransform(t *testing.T) {
	payload := domain.RawPayload{"name": "jane"}

	value, ok := NestedValue(payload, []string{"name"}, func(v any) any {
		return strings.ToUpper(v.(string))
	})
	if !ok || value != "JANE" {
		t.Errorf("expected transform to apply, got %v", value)
	}
}

func TestStringAtSkipsContainerValues(t *testing.T) {
	payload := domain.RawPayload{
		"caption": map[string]any{"text": "nested"},
		"tags":    []any{"a", "b"},
	}

	if got := StringAt(payload, "caption", "caption.text"); got != "nested" {
		t.Errorf("expected map resolution to fall through to caption.text, got %q", got)
	}
	if got := StringAt(payload, "tags"); got != "" {
		t.Errorf("expected list resolution to yield no text, got %q", got)
	}
}

func TestTempIDFormat(t *testing.T) {
	id := TempID("instagram")
	parts := strings.Split(id, "_")
	if len(parts) != 3 {
		t.Fatalf("expected prefix_millis_random, got %q", id)
	}
	if parts[0] != "instagram" {
		t.Errorf("expected instagram prefix, got %q", parts[0])
	}
}
