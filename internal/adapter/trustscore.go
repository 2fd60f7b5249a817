package adapter

import (
	"math"
	"time"

	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/util"
)

// ScoreOptions configures the weighted trust-score formula. Call sites that
// need different weights pass overrides here instead of re-implementing the
// formula.
type ScoreOptions struct {
	EngagementWeight float64
	FollowersWeight  float64
	EngagementMax    float64
	FollowersMax     float64
}

// DefaultScoreOptions are the panel-wide weighting constants.
func DefaultScoreOptions() ScoreOptions {
	return ScoreOptions{
		EngagementWeight: 0.6,
		FollowersWeight:  0.4,
		EngagementMax:    5,
		FollowersMax:     100000,
	}
}

// WeightedTrustScore derives a 0-100 score from engagement rate and follower
// count. Each component is normalized against its configured maximum and
// capped at 100 before weighting; the result is rounded and clamped, never
// NaN, for any numeric input.
func WeightedTrustScore(engagement float64, followers int64, opts *ScoreOptions) int {
	options := DefaultScoreOptions()
	if opts != nil {
		options = *opts
	}
	if options.EngagementMax <= 0 {
		options.EngagementMax = DefaultScoreOptions().EngagementMax
	}
	if options.FollowersMax <= 0 {
		options.FollowersMax = DefaultScoreOptions().FollowersMax
	}

	engagementComponent := util.ClampFloat(engagement/options.EngagementMax*100, 0, 100)
	followersComponent := util.ClampFloat(float64(followers)/options.FollowersMax*100, 0, 100)

	score := engagementComponent*options.EngagementWeight +
		followersComponent*options.FollowersWeight

	return util.Clamp(int(math.Round(score)), 0, 100)
}

// EnsureTrustScore fills in a weighted score when the profile does not carry
// one yet. Profiles already scored are left unchanged.
func EnsureTrustScore(profile *domain.InfluencerProfile, opts *ScoreOptions) {
	if profile == nil || profile.TrustScore != nil {
		return
	}
	profile.SetTrustScore(WeightedTrustScore(profile.Metrics.Engagement, profile.Followers, opts))
}

// ProfileTrustScore derives a 0-100 score from profile-completeness signals
// in the raw payload: a base of 50, a verification bonus, and per-platform
// bonuses for filled-out fields. An explicit trustScore field in the payload
// short-circuits the computation (clamped to keep the invariant).
func ProfileTrustScore(payload domain.RawPayload, platform domain.Platform) int {
	if v, ok := NestedValue(payload, []string{"trustScore", "trust_score"}, nil); ok {
		return util.Clamp(int(util.ToInt64(v)), 0, 100)
	}

	score := 50
	if BoolAt(payload, "is_verified", "verified", "status.isVerified") {
		score += 15
	}

	switch platform {
	case domain.PlatformInstagram:
		score += instagramCompleteness(payload)
	case domain.PlatformYouTube:
		score += youtubeCompleteness(payload)
	case domain.PlatformLinkedIn:
		score += linkedInCompleteness(payload)
	}

	return util.Clamp(score, 0, 100)
}

func instagramCompleteness(payload domain.RawPayload) int {
	bonus := 0
	if len(StringAt(payload, "biography", "bio", "user_data.biography")) > 10 {
		bonus += 5
	}
	if StringAt(payload, "external_url", "user_data.external_url") != "" {
		bonus += 5
	}
	if Int64At(payload, "media_count", "user_data.media_count") > 5 {
		bonus += 10
	}
	if BoolAt(payload, "is_business_account", "user_data.is_business_account") {
		bonus += 5
	}
	return bonus
}

func youtubeCompleteness(payload domain.RawPayload) int {
	bonus := 0
	if len(StringAt(payload, "snippet.description", "description")) > 20 {
		bonus += 10
	}
	if Int64At(payload, "statistics.videoCount", "videoCount") > 10 {
		bonus += 5
	}
	if published := StringAt(payload, "snippet.publishedAt", "publishedAt"); published != "" {
		if created, err := time.Parse(time.RFC3339, published); err == nil {
			if time.Since(created) > 2*365*24*time.Hour {
				bonus += 10
			}
		}
	}
	return bonus
}

func linkedInCompleteness(payload domain.RawPayload) int {
	bonus := 0
	if len(StringAt(payload, "headline", "localizedHeadline")) > 10 {
		bonus += 5
	}
	if len(ListAt(payload, "experience", "positions")) > 0 {
		bonus += 10
	}
	if len(ListAt(payload, "education")) > 0 {
		bonus += 5
	}
	if len(ListAt(payload, "skills")) > 5 {
		bonus += 5
	}
	return bonus
}

// payloadTrustScore is the adapter-side entry point: non-nil payloads always
// get a completeness-based score.
func payloadTrustScore(payload domain.RawPayload, platform domain.Platform) *int {
	if payload == nil {
		return nil
	}
	score := ProfileTrustScore(payload, platform)
	return &score
}
