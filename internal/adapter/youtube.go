package adapter

import (
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/util"
)

// adaptYouTube maps a YouTube Data API channel payload onto the canonical
// profile. The payload may arrive wrapped in a channels.list response
// (items[0]) or already unwrapped to the channel resource.
func (n *Normalizer) adaptYouTube(payload domain.RawPayload, base domain.InfluencerProfile) domain.InfluencerProfile {
	channel := unwrapYouTubeChannel(payload)
	out := base

	out.ID = StringAt(channel, "id", "snippet.channelId")
	out.Username = youtubeHandle(channel)
	out.DisplayName = StringAt(channel, "snippet.title", "title")
	if out.DisplayName == "" {
		out.DisplayName = out.Username
	}
	out.ThumbnailURL = StringAt(channel,
		"snippet.thumbnails.high.url",
		"snippet.thumbnails.medium.url",
		"snippet.thumbnails.default.url")

	out.Followers = Int64At(channel, "statistics.subscriberCount", "subscriberCount")
	out.Metrics.Videos = Int64At(channel, "statistics.videoCount", "videoCount")
	out.Metrics.Views = Int64At(channel, "statistics.viewCount", "viewCount")
	out.Metrics.TotalViews = out.Metrics.Views
	out.Metrics.Engagement = n.youtubeEngagement(channel)

	out.Categories = extractYouTubeCategories(channel)

	if audience := MapAt(channel, "audience"); audience != nil {
		out.Audience = audience
	}

	out.TrustScore = payloadTrustScore(channel, domain.PlatformYouTube)
	return out
}

// youtubeEngagement approximates audience interaction as average views per
// video relative to subscribers. The formula intentionally has no upper
// clamp; only the trust score is clamped.
func (n *Normalizer) youtubeEngagement(channel domain.RawPayload) float64 {
	views := util.ToFloat(StringAt(channel, "statistics.viewCount", "viewCount"))
	videos := util.ToFloat(StringAt(channel, "statistics.videoCount", "videoCount"))
	subscribers := util.ToFloat(StringAt(channel, "statistics.subscriberCount", "subscriberCount"))

	if views > 0 && videos > 0 && subscribers > 0 {
		return (views / videos) / subscribers * 100
	}

	if v, ok := NestedValue(channel, []string{"statistics.engagement", "engagement"}, nil); ok {
		return util.ToFloat(v)
	}
	return 0
}

// youtubeHandle prefers the channel's custom URL handle, stripping the
// leading "@".
func youtubeHandle(channel domain.RawPayload) string {
	handle := StringAt(channel, "snippet.customUrl", "customUrl")
	if len(handle) > 0 && handle[0] == '@' {
		handle = handle[1:]
	}
	if handle == "" {
		handle = StringAt(channel, "snippet.title", "title")
	}
	return handle
}

// unwrapYouTubeChannel peels off the channels.list envelope when present.
func unwrapYouTubeChannel(payload domain.RawPayload) domain.RawPayload {
	items, ok := payload["items"].([]any)
	if !ok || len(items) == 0 {
		return payload
	}
	if first, ok := items[0].(map[string]any); ok {
		return first
	}
	return payload
}
