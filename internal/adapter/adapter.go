package adapter

import (
	"encoding/json"
	"time"

	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/util"
	"go.uber.org/zap"
)

// Normalizer converts raw per-platform payloads into the canonical
// InfluencerProfile. Normalization is total: it never returns an error and
// never lets a malformed payload escape as a panic.
type Normalizer struct {
	logger *zap.Logger
}

func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Base returns the zeroed profile skeleton every adapter starts from.
func Base(platform domain.Platform) domain.InfluencerProfile {
	return domain.InfluencerProfile{
		Platform:     platform,
		Categories:   []string{},
		AnalysisDate: time.Now().UTC(),
	}
}

// Adapt routes a raw payload to the matching platform adapter and returns a
// fully-populated canonical profile. Unknown platforms and nil payloads both
// yield the untouched base skeleton. Panics inside an adapter are recovered
// here, logged with a truncated dump of the input, and downgraded to the base
// skeleton as well.
func (n *Normalizer) Adapt(payload domain.RawPayload, platformName string) (profile domain.InfluencerProfile) {
	platform, ok := domain.ParsePlatform(platformName)
	if !ok {
		n.logger.Warn("Unknown platform, returning empty profile",
			zap.String("platform", platformName))
		return Base("")
	}

	base := Base(platform)
	if payload == nil {
		return base
	}

	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Adapter panicked, returning empty profile",
				zap.String("platform", platform.Key()),
				zap.Any("panic", r),
				zap.String("payload", truncatedDump(payload)),
			)
			profile = Base(platform)
		}
	}()

	switch platform {
	case domain.PlatformInstagram:
		profile = n.adaptInstagram(payload, base)
	case domain.PlatformYouTube:
		profile = n.adaptYouTube(payload, base)
	case domain.PlatformLinkedIn:
		profile = n.adaptLinkedIn(payload, base)
	}

	n.finalize(&profile)
	return profile
}

// finalize applies the cross-platform invariants: generated ID, formatted
// follower count, deduped categories capped at five entries.
func (n *Normalizer) finalize(profile *domain.InfluencerProfile) {
	if profile.ID == "" {
		profile.ID = TempID(profile.Platform.Key())
	}
	Sanitize(profile)
}

// Sanitize enforces the canonical profile invariants on a profile regardless
// of where it came from, so externally supplied data cannot store values the
// adapters never produce: non-negative followers with a refreshed formatted
// count, deduped categories capped at five, trust score clamped to [0, 100].
func Sanitize(profile *domain.InfluencerProfile) {
	if profile == nil {
		return
	}
	if profile.Followers < 0 {
		profile.Followers = 0
	}
	profile.FollowersFormatted = util.FormatCount(profile.Followers, true)
	profile.Categories = dedupeCategories(profile.Categories)
	if profile.TrustScore != nil {
		clamped := util.Clamp(*profile.TrustScore, 0, 100)
		profile.TrustScore = &clamped
	}
}

func truncatedDump(payload domain.RawPayload) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unserializable>"
	}
	return util.TruncateString(string(raw), 500)
}
