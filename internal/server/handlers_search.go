package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	apperrors "github.com/vinizanotti89/influencer-panel-go/pkg/errors"
	"go.uber.org/zap"
)

// handleSearch fans a term out to the requested platforms. The response keeps
// one entry per platform so the client can show partial results.
func (s *Server) handleSearch(c *gin.Context) {
	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		respondError(c, apperrors.NewValidationError("query parameter q is required", "q", term), "")
		return
	}

	var platforms []domain.Platform
	if raw := c.Query("platforms"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			platform, ok := domain.ParsePlatform(name)
			if !ok {
				respondError(c, apperrors.NewValidationError("unknown platform", "platforms", name), "")
				return
			}
			platforms = append(platforms, platform)
		}
	}

	results, err := s.searcher.Search(c.Request.Context(), term, platforms)
	if err != nil {
		s.logger.Warn("Search failed on all platforms",
			zap.String("term", term),
			zap.Error(err))
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"term":    term,
			"results": results,
		},
	})
}
