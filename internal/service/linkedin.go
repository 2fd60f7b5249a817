package service

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vinizanotti89/influencer-panel-go/internal/constants"
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/service/cache"
	"github.com/vinizanotti89/influencer-panel-go/internal/util"
	"github.com/vinizanotti89/influencer-panel-go/pkg/errors"
	"go.uber.org/zap"
)

// LinkedInService scrapes public profile pages. LinkedIn has no public API
// for member profiles, so this parses the meta tags the page exposes for
// link previews and falls back gracefully when the markup changes.
type LinkedInService struct {
	httpClient *http.Client
	baseURL    string
	cache      *cache.CacheService
	logger     *zap.Logger
}

var followerCountPattern = regexp.MustCompile(`([\d.,]+[KMB]?)\s+followers`)

func NewLinkedInService(baseURL string, cacheSvc *cache.CacheService, logger *zap.Logger) *LinkedInService {
	return &LinkedInService{
		httpClient: &http.Client{Timeout: constants.HTTPConfig.RequestTimeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		cache:      cacheSvc,
		logger:     logger,
	}
}

// Platform implements search.PlatformClient.
func (s *LinkedInService) Platform() domain.Platform {
	return domain.PlatformLinkedIn
}

// Fetch implements search.PlatformClient.
func (s *LinkedInService) Fetch(ctx context.Context, term string) (domain.RawPayload, error) {
	return s.GetProfileByPublicID(ctx, term)
}

// GetProfileByPublicID fetches a public profile page and extracts the fields
// the normalization layer needs.
func (s *LinkedInService) GetProfileByPublicID(ctx context.Context, publicID string) (domain.RawPayload, error) {
	if publicID == "" {
		return nil, errors.NewValidationError("public identifier is required", "publicIdentifier", publicID)
	}

	if cached := s.cache.GetRaw(ctx, domain.PlatformLinkedIn, publicID); cached != nil {
		s.logger.Debug("LinkedIn cache hit", zap.String("publicIdentifier", publicID))
		return cached, nil
	}

	profileURL := s.baseURL + "/" + publicID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constants.HTTPConfig.UserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewServiceError("LinkedIn request failed", "linkedin", "get_profile", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return nil, errors.NewNotFoundError("linkedin profile", publicID)
	}
	if resp.StatusCode == 429 || resp.StatusCode == 999 {
		return nil, errors.NewAPIError("LinkedIn rate limited", resp.StatusCode, map[string]any{
			"publicIdentifier": publicID,
		})
	}
	if resp.StatusCode != 200 {
		return nil, errors.NewAPIError(fmt.Sprintf("unexpected LinkedIn status: %d", resp.StatusCode), resp.StatusCode, nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.NewServiceError("LinkedIn HTML parse failed", "linkedin", "parse", err)
	}

	payload, err := s.parseProfileDocument(doc, publicID)
	if err != nil {
		return nil, err
	}

	s.cache.SetRaw(ctx, domain.PlatformLinkedIn, publicID, payload, constants.CacheTTL.RawLinkedIn)
	return payload, nil
}

func (s *LinkedInService) parseProfileDocument(doc *goquery.Document, publicID string) (domain.RawPayload, error) {
	fullName := metaContent(doc, "og:title")
	// Titles carry a suffix like "Jane Doe - Staff Engineer | LinkedIn".
	fullName = strings.TrimSuffix(fullName, " | LinkedIn")
	var headline string
	if idx := strings.Index(fullName, " - "); idx != -1 {
		headline = strings.TrimSpace(fullName[idx+3:])
		fullName = strings.TrimSpace(fullName[:idx])
	}

	description := metaContent(doc, "og:description")
	if headline == "" {
		headline = util.TruncateString(description, 120)
	}

	if fullName == "" {
		return nil, &StructureChangedError{
			Message: "profile name not found, page structure may have changed",
		}
	}

	payload := domain.RawPayload{
		"publicIdentifier": publicID,
		"fullName":         fullName,
		"headline":         headline,
		"summary":          description,
		"profilePicture":   metaContent(doc, "og:image"),
	}

	if followers, ok := extractFollowerCount(description); ok {
		payload["followers"] = followers
	}

	doc.Find("section[data-section='experience'] li").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		experience, _ := payload["experience"].([]any)
		if entry := util.CollapseWhitespace(sel.Text()); entry != "" {
			payload["experience"] = append(experience, util.TruncateString(entry, 200))
		}
		return i < 4
	})

	s.logger.Debug("LinkedIn profile scraped",
		zap.String("publicIdentifier", publicID),
		zap.String("fullName", fullName))

	return payload, nil
}

func metaContent(doc *goquery.Document, property string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[property=%q]`, property)).Attr("content")
	return strings.TrimSpace(content)
}

// extractFollowerCount pulls a follower count out of preview text such as
// "Jane Doe ... 12,345 followers ...". Suffixed counts like "1.2K" are
// expanded to full numbers.
func extractFollowerCount(text string) (int64, bool) {
	match := followerCountPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}

	raw := strings.ReplaceAll(match[1], ",", "")
	multiplier := 1.0
	switch {
	case strings.HasSuffix(raw, "K"):
		multiplier = 1e3
		raw = strings.TrimSuffix(raw, "K")
	case strings.HasSuffix(raw, "M"):
		multiplier = 1e6
		raw = strings.TrimSuffix(raw, "M")
	case strings.HasSuffix(raw, "B"):
		multiplier = 1e9
		raw = strings.TrimSuffix(raw, "B")
	}

	value := util.ToFloat(raw)
	if value <= 0 {
		return 0, false
	}
	return int64(value * multiplier), true
}

// StructureChangedError signals that the scraped page no longer matches the
// selectors this service expects.
type StructureChangedError struct {
	Message string
}

func (e *StructureChangedError) Error() string {
	return e.Message
}

func IsStructureError(err error) bool {
	_, ok := err.(*StructureChangedError)
	return ok
}
