package adapter

import (
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/util"
	"go.uber.org/zap"
)

// adaptInstagram maps Instagram payloads onto the canonical profile. The
// Graph API sometimes nests everything under user_data and sometimes returns
// it flat, so every field reads through a candidate-path list.
func (n *Normalizer) adaptInstagram(payload domain.RawPayload, base domain.InfluencerProfile) domain.InfluencerProfile {
	out := base

	out.ID = StringAt(payload, "id", "pk", "user_data.id")
	out.Username = StringAt(payload, "username", "user_data.username")
	out.DisplayName = StringAt(payload, "full_name", "name", "user_data.full_name")
	if out.DisplayName == "" {
		out.DisplayName = out.Username
	}
	out.ThumbnailURL = StringAt(payload,
		"profile_pic_url", "profile_picture_url", "user_data.profile_pic_url")

	out.Followers = Int64At(payload,
		"followers_count", "followers", "media_count", "user_data.followers_count")
	out.Metrics.Posts = Int64At(payload, "media_count", "user_data.media_count")

	media := instagramMedia(payload)
	out.Metrics.Engagement = n.instagramEngagement(payload, media, out.Followers)
	out.Metrics.AvgLikes = instagramAvgLikes(media)

	out.Categories = extractInstagramCategories(payload, media)

	if audience := MapAt(payload, "audience", "user_data.audience"); audience != nil {
		out.Audience = audience
	}

	out.TrustScore = payloadTrustScore(payload, domain.PlatformInstagram)
	return out
}

// instagramEngagement prefers the explicit rate the API occasionally returns
// and otherwise averages likes+comments across recent media relative to the
// follower count. Requires both followers and media to be present; anything
// else is 0.
func (n *Normalizer) instagramEngagement(payload domain.RawPayload, media []any, followers int64) float64 {
	if v, ok := NestedValue(payload, []string{"engagement_rate", "engagement"}, nil); ok {
		return util.ToFloat(v)
	}

	if followers <= 0 || len(media) == 0 {
		return 0
	}

	var total int64
	for _, item := range media {
		post, ok := item.(map[string]any)
		if !ok {
			n.logger.Warn("Skipping malformed Instagram media entry")
			continue
		}
		total += Int64At(post, "like_count", "likes")
		total += Int64At(post, "comments_count", "comments")
	}

	avgInteractions := float64(total) / float64(len(media))
	rate := avgInteractions / float64(followers) * 100
	if rate != rate || rate < 0 {
		n.logger.Warn("Instagram engagement computed out of range, using 0",
			zap.Int64("followers", followers),
			zap.Int("media", len(media)))
		return 0
	}
	return rate
}

func instagramAvgLikes(media []any) float64 {
	if len(media) == 0 {
		return 0
	}
	var likes int64
	for _, item := range media {
		if post, ok := item.(map[string]any); ok {
			likes += Int64At(post, "like_count", "likes")
		}
	}
	return float64(likes) / float64(len(media))
}

func instagramMedia(payload domain.RawPayload) []any {
	return ListAt(payload, "media", "media.data", "user_data.media")
}
