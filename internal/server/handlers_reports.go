package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	apperrors "github.com/vinizanotti89/influencer-panel-go/pkg/errors"
	"go.uber.org/zap"
)

type createReportRequest struct {
	InfluencerID    string `json:"influencerId" binding:"required"`
	Title           string `json:"title"`
	GenerateSummary bool   `json:"generateSummary"`
}

func (s *Server) handleListReports(c *gin.Context) {
	page, limit := parsePagination(c)

	reports, total, err := s.reports.GetAll(c.Request.Context(), page, limit)
	if err != nil {
		s.logger.Error("Failed to list reports", zap.Error(err))
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": reports,
		"meta": listMeta{Page: page, Limit: limit, Total: total},
	})
}

func (s *Server) handleGetReport(c *gin.Context) {
	id := c.Param("id")

	report, err := s.reports.GetByID(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("Failed to get report", zap.String("id", id), zap.Error(err))
		respondError(c, err, "")
		return
	}
	if report == nil {
		respondError(c, apperrors.NewNotFoundError("report", id), "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

// handleCreateReport snapshots an influencer into a report. With
// generateSummary set and an analyzer configured, a model-written summary is
// attached; summary failures downgrade the report instead of failing the
// request.
func (s *Server) handleCreateReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request body", "body", err.Error()), "")
		return
	}

	ctx := c.Request.Context()

	profile, err := s.influencers.GetByID(ctx, req.InfluencerID)
	if err != nil {
		s.logger.Error("Failed to load influencer for report",
			zap.String("influencerId", req.InfluencerID),
			zap.Error(err))
		respondError(c, err, "")
		return
	}
	if profile == nil {
		respondError(c, apperrors.NewNotFoundError("influencer", req.InfluencerID), "")
		return
	}

	title := req.Title
	if title == "" {
		title = profile.DisplayName + " analysis"
	}

	report := &domain.Report{
		InfluencerID: profile.ID,
		Title:        title,
		Platform:     profile.Platform,
		Status:       domain.ReportStatusCompleted,
		Payload:      profileSnapshot(profile),
	}

	if req.GenerateSummary {
		if s.analyzer == nil {
			report.Status = domain.ReportStatusFailed
			s.logger.Warn("Summary requested but no analyzer configured",
				zap.String("influencerId", profile.ID))
		} else if summary, err := s.analyzer.GenerateReportSummary(ctx, profile); err != nil {
			report.Status = domain.ReportStatusFailed
			s.logger.Warn("Report summary generation failed",
				zap.String("influencerId", profile.ID),
				zap.Error(err))
		} else {
			report.Summary = summary
		}
	}

	created, err := s.reports.Create(ctx, report)
	if err != nil {
		s.logger.Error("Failed to create report",
			zap.String("influencerId", profile.ID),
			zap.Error(err))
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func profileSnapshot(profile *domain.InfluencerProfile) domain.RawPayload {
	snapshot := domain.RawPayload{
		"username":           profile.Username,
		"displayName":        profile.DisplayName,
		"followers":          profile.Followers,
		"followersFormatted": profile.FollowersFormatted,
		"engagement":         profile.Metrics.Engagement,
		"categories":         profile.Categories,
	}
	if profile.TrustScore != nil {
		snapshot["trustScore"] = *profile.TrustScore
	}
	return snapshot
}
