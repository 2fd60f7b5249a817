package adapter

import (
	"math"
	"testing"

	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"go.uber.org/zap"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(zap.NewNop())
}

func TestAdaptNilPayloadReturnsBase(t *testing.T) {
	profile := newTestNormalizer().Adapt(nil, "instagram")

	if profile.Platform != domain.PlatformInstagram {
		t.Errorf("expected Instagram platform, got %q", profile.Platform)
	}
	if profile.Followers != 0 {
		t.Errorf("expected zero followers, got %d", profile.Followers)
	}
	if profile.TrustScore != nil {
		t.Errorf("expected nil trust score, got %d", *profile.TrustScore)
	}
	if len(profile.Categories) != 0 {
		t.Errorf("expected empty categories, got %v", profile.Categories)
	}
}

func TestAdaptUnknownPlatform(t *testing.T) {
	profile := newTestNormalizer().Adapt(domain.RawPayload{"followers": 10}, "tiktok")

	if profile.Followers != 0 {
		t.Errorf("expected zeroed profile for unknown platform, got %d followers", profile.Followers)
	}
	if profile.TrustScore != nil {
		t.Error("expected nil trust score for unknown platform")
	}
}

func TestAdaptPlatformIsTitleCased(t *testing.T) {
	for _, name := range []string{"INSTAGRAM", "YouTube", "linkedin"} {
		profile := newTestNormalizer().Adapt(domain.RawPayload{}, name)
		got := string(profile.Platform)
		if got != "Instagram" && got != "YouTube" && got != "LinkedIn" {
			t.Errorf("platform %q not title-cased: %q", name, got)
		}
	}
}

func TestAdaptInstagramScenario(t *testing.T) {
	payload := domain.RawPayload{
		"username":        "jane",
		"followers_count": float64(250000),
		"is_verified":     true,
		"media": []any{
			map[string]any{"like_count": float64(1000), "comments_count": float64(50)},
			map[string]any{"like_count": float64(800), "comments_count": float64(30)},
		},
	}

	profile := newTestNormalizer().Adapt(payload, "instagram")

	if profile.Username != "jane" {
		t.Errorf("expected username jane, got %q", profile.Username)
	}
	if profile.Followers != 250000 {
		t.Errorf("expected 250000 followers, got %d", profile.Followers)
	}
	if profile.FollowersFormatted != "250.0K" {
		t.Errorf("expected 250.0K, got %q", profile.FollowersFormatted)
	}
	if profile.TrustScore == nil || *profile.TrustScore < 65 {
		t.Errorf("expected trust score >= 65 (base 50 + verified 15), got %v", profile.TrustScore)
	}
	// ((1000+50+800+30)/2)/250000*100
	if math.Abs(profile.Metrics.Engagement-0.376) > 0.001 {
		t.Errorf("expected engagement ~0.376, got %f", profile.Metrics.Engagement)
	}
	if profile.ID == "" {
		t.Error("expected generated ID for payload without one")
	}
}

func TestAdaptInstagramNestedUserData(t *testing.T) {
	payload := domain.RawPayload{
		"user_data": map[string]any{
			"username":        "nested",
			"followers_count": float64(1200),
		},
	}

	profile := newTestNormalizer().Adapt(payload, "instagram")

	if profile.Username != "nested" {
		t.Errorf("expected nested username, got %q", profile.Username)
	}
	if profile.Followers != 1200 {
		t.Errorf("expected 1200 followers from user_data, got %d", profile.Followers)
	}
}

func TestAdaptYouTubeEngagementScenario(t *testing.T) {
	payload := domain.RawPayload{
		"items": []any{
			map[string]any{
				"id": "UC123",
				"snippet": map[string]any{
					"title": "Channel",
				},
				"statistics": map[string]any{
					"viewCount":       "1000000",
					"videoCount":      "50",
					"subscriberCount": "10000",
				},
			},
		},
	}

	profile := newTestNormalizer().Adapt(payload, "youtube")

	// (1000000/50)/10000*100 = 200; engagement itself is never clamped.
	if math.Abs(profile.Metrics.Engagement-200) > 0.0001 {
		t.Errorf("expected engagement 200, got %f", profile.Metrics.Engagement)
	}
	if profile.Followers != 10000 {
		t.Errorf("expected 10000 subscribers, got %d", profile.Followers)
	}
	if profile.ID != "UC123" {
		t.Errorf("expected channel ID to survive, got %q", profile.ID)
	}
	if profile.TrustScore == nil || *profile.TrustScore < 0 || *profile.TrustScore > 100 {
		t.Errorf("trust score out of range: %v", profile.TrustScore)
	}
}

func TestAdaptYouTubeFlatPayload(t *testing.T) {
	payload := domain.RawPayload{
		"id": "UCflat",
		"statistics": map[string]any{
			"subscriberCount": "42",
		},
	}

	profile := newTestNormalizer().Adapt(payload, "youtube")
	if profile.Followers != 42 {
		t.Errorf("expected flat payload to adapt, got %d followers", profile.Followers)
	}
}

func TestAdaptLinkedInNameAssembly(t *testing.T) {
	payload := domain.RawPayload{
		"localizedFirstName": "Ada",
		"localizedLastName":  "Lovelace",
		"headline":           "Software developer and founder",
	}

	profile := newTestNormalizer().Adapt(payload, "linkedin")

	if profile.DisplayName != "Ada Lovelace" {
		t.Errorf("expected assembled name, got %q", profile.DisplayName)
	}
	if profile.Metrics.Engagement != 2.0 {
		t.Errorf("expected flat 2.0 engagement default, got %f", profile.Metrics.Engagement)
	}
}

func TestAdaptMalformedPayloadNeverPanics(t *testing.T) {
	malformed := []domain.RawPayload{
		{"media": "not-a-list"},
		{"items": []any{"not-a-map"}},
		{"followers_count": []any{1, 2}},
		{"statistics": "oops"},
		{"specialties": map[string]any{"a": 1}},
	}

	n := newTestNormalizer()
	for _, payload := range malformed {
		for _, platform := range []string{"instagram", "youtube", "linkedin"} {
			profile := n.Adapt(payload, platform)
			if profile.Followers < 0 {
				t.Errorf("negative followers for %s: %d", platform, profile.Followers)
			}
			if len(profile.Categories) > 5 {
				t.Errorf("too many categories for %s", platform)
			}
		}
	}
}
