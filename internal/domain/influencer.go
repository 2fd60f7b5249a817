package domain

import "time"

// RawPayload is the loosely-typed JSON body a platform API (or scraper)
// returns. Shapes differ per platform and per endpoint, so access always goes
// through the adapter layer.
type RawPayload = map[string]any

// Metrics aggregates the per-platform activity numbers of a profile.
// Zero values mean "not available on this platform".
type Metrics struct {
	Engagement  float64 `json:"engagement"`
	Posts       int64   `json:"posts,omitempty"`
	Videos      int64   `json:"videos,omitempty"`
	Views       int64   `json:"views,omitempty"`
	AvgLikes    float64 `json:"avgLikes,omitempty"`
	TotalViews  int64   `json:"totalViews,omitempty"`
	Connections int64   `json:"connections,omitempty"`
}

// InfluencerProfile is the canonical, platform-agnostic shape every consumer
// of the panel works with. Built fresh on each normalization pass, never
// mutated afterwards.
type InfluencerProfile struct {
	ID                 string         `json:"id"`
	Username           string         `json:"username"`
	DisplayName        string         `json:"displayName"`
	ThumbnailURL       string         `json:"thumbnailUrl"`
	Followers          int64          `json:"followers"`
	FollowersFormatted string         `json:"followersFormatted"`
	Platform           Platform       `json:"platform"`
	Metrics            Metrics        `json:"metrics"`
	Categories         []string       `json:"categories"`
	TrustScore         *int           `json:"trustScore"`
	AnalysisDate       time.Time      `json:"analysisDate"`
	Audience           map[string]any `json:"audience,omitempty"`
}

// SetTrustScore stores a score value, replacing any previous one.
func (p *InfluencerProfile) SetTrustScore(score int) {
	p.TrustScore = &score
}
