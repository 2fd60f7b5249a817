package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vinizanotti89/influencer-panel-go/internal/adapter"
	"github.com/vinizanotti89/influencer-panel-go/internal/constants"
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	apperrors "github.com/vinizanotti89/influencer-panel-go/pkg/errors"
	"go.uber.org/zap"
)

type listMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.PaginationConfig.DefaultLimit)))
	if limit < 1 {
		limit = constants.PaginationConfig.DefaultLimit
	}
	if limit > constants.PaginationConfig.MaxLimit {
		limit = constants.PaginationConfig.MaxLimit
	}

	return page, limit
}

func (s *Server) handleListInfluencers(c *gin.Context) {
	page, limit := parsePagination(c)

	profiles, total, err := s.influencers.GetAll(c.Request.Context(), page, limit)
	if err != nil {
		s.logger.Error("Failed to list influencers", zap.Error(err))
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": profiles,
		"meta": listMeta{Page: page, Limit: limit, Total: total},
	})
}

func (s *Server) handleGetInfluencer(c *gin.Context) {
	id := c.Param("id")

	profile, err := s.influencers.GetByID(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("Failed to get influencer", zap.String("id", id), zap.Error(err))
		respondError(c, err, "")
		return
	}
	if profile == nil {
		respondError(c, apperrors.NewNotFoundError("influencer", id), "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

func (s *Server) handleGetInfluencerByUsername(c *gin.Context) {
	username := c.Param("username")

	var platform domain.Platform
	if name := c.Query("platform"); name != "" {
		parsed, ok := domain.ParsePlatform(name)
		if !ok {
			respondError(c, apperrors.NewValidationError("unknown platform", "platform", name), "")
			return
		}
		platform = parsed
	}

	profile, err := s.influencers.FindByUsername(c.Request.Context(), username, platform)
	if err != nil {
		s.logger.Error("Failed to find influencer",
			zap.String("username", username),
			zap.Error(err))
		respondError(c, err, "")
		return
	}
	if profile == nil {
		respondError(c, apperrors.NewNotFoundError("influencer", username), "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

func (s *Server) handleCreateInfluencer(c *gin.Context) {
	var profile domain.InfluencerProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request body", "body", err.Error()), "")
		return
	}

	if profile.Username == "" {
		respondError(c, apperrors.NewValidationError("username is required", "username", ""), "")
		return
	}
	if _, ok := domain.ParsePlatform(profile.Platform.String()); !ok {
		respondError(c, apperrors.NewValidationError("unknown platform", "platform", profile.Platform), "")
		return
	}
	adapter.Sanitize(&profile)

	created, err := s.influencers.Create(c.Request.Context(), &profile)
	if err != nil {
		s.logger.Error("Failed to create influencer",
			zap.String("username", profile.Username),
			zap.Error(err))
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": created})
}

func (s *Server) handleUpdateInfluencer(c *gin.Context) {
	id := c.Param("id")

	var profile domain.InfluencerProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respondError(c, apperrors.NewValidationError("invalid request body", "body", err.Error()), "")
		return
	}
	profile.ID = id
	adapter.Sanitize(&profile)

	updated, err := s.influencers.Update(c.Request.Context(), &profile)
	if err != nil {
		s.logger.Error("Failed to update influencer", zap.String("id", id), zap.Error(err))
		respondError(c, err, "")
		return
	}
	if updated == nil {
		respondError(c, apperrors.NewNotFoundError("influencer", id), "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func (s *Server) handleDeleteInfluencer(c *gin.Context) {
	id := c.Param("id")

	deleted, err := s.influencers.Delete(c.Request.Context(), id)
	if err != nil {
		s.logger.Error("Failed to delete influencer", zap.String("id", id), zap.Error(err))
		respondError(c, err, "")
		return
	}
	if !deleted {
		respondError(c, apperrors.NewNotFoundError("influencer", id), "")
		return
	}

	c.Status(http.StatusNoContent)
}
