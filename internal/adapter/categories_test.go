package adapter

import (
	"fmt"
	"testing"

	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
)

func TestExtractCategoriesCapAndDedupe(t *testing.T) {
	media := make([]any, 0)
	for i := 0; i < 8; i++ {
		media = append(media, map[string]any{
			"caption": fmt.Sprintf("#tag%d post", i),
		})
	}
	payload := domain.RawPayload{
		"category":               "  fitness ",
		"business_category_name": "Fitness",
		"media":                  media,
	}

	categories := ExtractCategories(payload, "instagram")

	if len(categories) > 5 {
		t.Fatalf("expected at most 5 categories, got %d: %v", len(categories), categories)
	}
	seen := make(map[string]bool)
	for _, c := range categories {
		if seen[c] {
			t.Errorf("duplicate category %q in %v", c, categories)
		}
		seen[c] = true
	}
	if categories[0] != "Fitness" {
		t.Errorf("expected direct-field category first and cleaned, got %v", categories)
	}
}

func TestTopHashtagsByFrequency(t *testing.T) {
	media := []any{
		map[string]any{"caption": "#travel day! #food"},
		map[string]any{"caption": "#travel again #sunset"},
		map[string]any{"caption": "#travel #food #sunset #rare"},
	}

	tags := topHashtags(media, 3)

	if len(tags) != 3 {
		t.Fatalf("expected top 3 hashtags, got %v", tags)
	}
	if tags[0] != "travel" {
		t.Errorf("expected travel to rank first, got %v", tags)
	}
	if tags[1] != "food" || tags[2] != "sunset" {
		t.Errorf("expected frequency then discovery order, got %v", tags)
	}
}

func TestTopHashtagsNestedCaptionObject(t *testing.T) {
	media := []any{
		map[string]any{"caption": map[string]any{"text": "#fitness #fitness #travel"}},
		map[string]any{"caption": "#fitness flat shape"},
	}

	tags := topHashtags(media, 3)

	if len(tags) != 2 {
		t.Fatalf("expected hashtags from both caption shapes, got %v", tags)
	}
	if tags[0] != "fitness" || tags[1] != "travel" {
		t.Errorf("expected [fitness travel], got %v", tags)
	}
}

func TestExtractYouTubeCategories(t *testing.T) {
	channel := domain.RawPayload{
		"snippet": map[string]any{
			"categoryId": "20",
			"tags":       []any{"#skip", "abc", "gaming setup", "music covers", "tech talk"},
		},
	}

	categories := extractYouTubeCategories(channel)

	if len(categories) == 0 || categories[0] != "Gaming" {
		t.Fatalf("expected Gaming from categoryId 20, got %v", categories)
	}
	// "#skip" starts with '#', "abc" is too short; only two tags may follow.
	if len(categories) != 3 {
		t.Errorf("expected category + 2 matching tags, got %v", categories)
	}
}

func TestExtractLinkedInCategories(t *testing.T) {
	payload := domain.RawPayload{
		"industry":    "Information Technology",
		"specialties": []any{"cloud", "devops", "ignored third"},
		"headline":    "Senior Developer and data enthusiast",
	}

	categories := extractLinkedInCategories(payload)

	if categories[0] != "Information Technology" {
		t.Errorf("expected industry first, got %v", categories)
	}
	assertContains(t, categories, "Cloud")
	assertContains(t, categories, "Devops")
	assertContains(t, categories, "Software Development")
	assertNotContains(t, categories, "Ignored Third")
}

func TestCleanCategory(t *testing.T) {
	cases := map[string]string{
		"  fitness  ":      "Fitness",
		"health & beauty!": "Health Beauty",
		"MUSIC   videos":   "Music Videos",
		"###":              "",
	}
	for input, expected := range cases {
		if got := cleanCategory(input); got != expected {
			t.Errorf("cleanCategory(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestExtractCategoriesUnknownPlatform(t *testing.T) {
	if got := ExtractCategories(domain.RawPayload{"category": "x"}, "myspace"); len(got) != 0 {
		t.Errorf("expected no categories for unknown platform, got %v", got)
	}
}

func assertContains(t *testing.T, list []string, item string) {
	t.Helper()
	for _, entry := range list {
		if entry == item {
			return
		}
	}
	t.Errorf("expected %v to contain %q", list, item)
}

func assertNotContains(t *testing.T, list []string, item string) {
	t.Helper()
	for _, entry := range list {
		if entry == item {
			t.Errorf("expected %v to not contain %q", list, item)
		}
	}
}
