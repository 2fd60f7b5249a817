package adapter

import (
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/util"
)

// linkedInDefaultEngagement is the flat rate used when the payload carries no
// explicit engagement field; LinkedIn exposes no public engagement API.
const linkedInDefaultEngagement = 2.0

// adaptLinkedIn maps a LinkedIn profile payload (API-shaped or scraped) onto
// the canonical profile.
func (n *Normalizer) adaptLinkedIn(payload domain.RawPayload, base domain.InfluencerProfile) domain.InfluencerProfile {
	out := base

	out.ID = StringAt(payload, "id", "publicIdentifier", "public_identifier")
	out.Username = StringAt(payload, "vanityName", "publicIdentifier", "public_identifier", "username")
	out.DisplayName = StringAt(payload,
		"fullName",
		"localizedFirstName,localizedLastName",
		"firstName,lastName")
	if out.DisplayName == "" {
		out.DisplayName = out.Username
	}
	out.ThumbnailURL = StringAt(payload,
		"profilePicture.displayImage", "pictureUrl", "profile_pic_url")

	out.Followers = Int64At(payload, "followersCount", "followers_count", "followers")
	out.Metrics.Connections = Int64At(payload, "numConnections", "connections")
	if out.Followers == 0 {
		out.Followers = out.Metrics.Connections
	}
	out.Metrics.Posts = Int64At(payload, "postsCount", "posts_count")

	out.Metrics.Engagement = linkedInDefaultEngagement
	if v, ok := NestedValue(payload, []string{"engagement_rate", "engagement"}, nil); ok {
		out.Metrics.Engagement = util.ToFloat(v)
	}

	out.Categories = extractLinkedInCategories(payload)

	if audience := MapAt(payload, "audience"); audience != nil {
		out.Audience = audience
	}

	out.TrustScore = payloadTrustScore(payload, domain.PlatformLinkedIn)
	return out
}
