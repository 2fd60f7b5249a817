package domain

import "time"

// ReportStatus tracks the lifecycle of a generated report.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusCompleted ReportStatus = "completed"
	ReportStatusFailed    ReportStatus = "failed"
)

// Report is a saved analysis snapshot for one influencer, optionally carrying
// an AI-generated narrative summary.
type Report struct {
	ID           string       `json:"id"`
	InfluencerID string       `json:"influencerId"`
	Title        string       `json:"title"`
	Platform     Platform     `json:"platform"`
	Status       ReportStatus `json:"status"`
	Summary      string       `json:"summary,omitempty"`
	Payload      RawPayload   `json:"payload,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}
