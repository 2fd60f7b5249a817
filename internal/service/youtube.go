package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vinizanotti89/influencer-panel-go/internal/constants"
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/service/cache"
	"github.com/vinizanotti89/influencer-panel-go/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubeService fetches channel data through the YouTube Data API v3.
// Every call is quota-accounted against the daily limit so a burst of
// searches cannot burn the whole allowance.
type YouTubeService struct {
	service    *youtube.Service
	cache      *cache.CacheService
	logger     *zap.Logger
	quotaUsed  int
	quotaMu    sync.Mutex
	quotaReset time.Time
}

const (
	// YouTube Data API costs (units per day / per call)
	dailyQuotaLimit   = 10000
	channelsQuotaCost = 1 // channels.list cost
	searchQuotaCost   = 100

	quotaSafetyMargin = 2000 // keep headroom for interactive requests
)

// NewYouTubeService creates a YouTube client. When an OAuth access token is
// provided it takes precedence over the API key.
func NewYouTubeService(ctx context.Context, apiKey, accessToken string, cacheSvc *cache.CacheService, logger *zap.Logger) (*YouTubeService, error) {
	if apiKey == "" && accessToken == "" {
		return nil, fmt.Errorf("a YouTube API key or access token is required")
	}

	var opts []option.ClientOption
	if accessToken != "" {
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
		opts = append(opts, option.WithTokenSource(tokenSource))
	} else {
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	ys := &YouTubeService{
		service:    service,
		cache:      cacheSvc,
		logger:     logger,
		quotaReset: getNextQuotaReset(),
	}

	logger.Info("YouTube service initialized",
		zap.Bool("oauth", accessToken != ""),
		zap.Time("quotaReset", ys.quotaReset))

	return ys, nil
}

// Platform implements search.PlatformClient.
func (ys *YouTubeService) Platform() domain.Platform {
	return domain.PlatformYouTube
}

// Fetch implements search.PlatformClient.
func (ys *YouTubeService) Fetch(ctx context.Context, term string) (domain.RawPayload, error) {
	return ys.GetChannelByIdentifier(ctx, term)
}

// getNextQuotaReset calculates next quota reset time (midnight Pacific Time)
func getNextQuotaReset() time.Time {
	pt, _ := time.LoadLocation("America/Los_Angeles")
	now := time.Now().In(pt)
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, pt)
}

// checkQuota verifies if we have enough quota for the operation
func (ys *YouTubeService) checkQuota(cost int) error {
	ys.quotaMu.Lock()
	defer ys.quotaMu.Unlock()

	now := time.Now()
	if now.After(ys.quotaReset) {
		ys.quotaUsed = 0
		ys.quotaReset = getNextQuotaReset()
		ys.logger.Info("YouTube API quota auto-reset",
			zap.Time("nextReset", ys.quotaReset))
	}

	if ys.quotaUsed+cost > (dailyQuotaLimit - quotaSafetyMargin) {
		return &QuotaExceededError{
			Used:      ys.quotaUsed,
			Limit:     dailyQuotaLimit,
			Requested: cost,
			ResetTime: ys.quotaReset,
		}
	}

	return nil
}

// consumeQuota marks quota as used after a successful API call
func (ys *YouTubeService) consumeQuota(cost int) {
	ys.quotaMu.Lock()
	defer ys.quotaMu.Unlock()

	ys.quotaUsed += cost
	remaining := dailyQuotaLimit - ys.quotaUsed

	ys.logger.Debug("YouTube API quota consumed",
		zap.Int("cost", cost),
		zap.Int("used", ys.quotaUsed),
		zap.Int("remaining", remaining))

	if remaining < quotaSafetyMargin {
		ys.logger.Warn("YouTube API quota running low",
			zap.Int("remaining", remaining),
			zap.Time("resetTime", ys.quotaReset))
	}
}

// GetChannelByIdentifier resolves a channel by ID or handle and returns the
// raw statistics payload. Channel IDs look like "UC" followed by 22 chars;
// anything else is treated as a handle.
func (ys *YouTubeService) GetChannelByIdentifier(ctx context.Context, identifier string) (domain.RawPayload, error) {
	if identifier == "" {
		return nil, errors.NewValidationError("channel identifier is required", "identifier", identifier)
	}

	if cached := ys.cache.GetRaw(ctx, domain.PlatformYouTube, identifier); cached != nil {
		ys.logger.Debug("YouTube cache hit", zap.String("identifier", identifier))
		return cached, nil
	}

	if err := ys.checkQuota(channelsQuotaCost); err != nil {
		return nil, err
	}

	call := ys.service.Channels.List([]string{"snippet", "statistics"})
	if isChannelID(identifier) {
		call = call.Id(identifier)
	} else {
		call = call.ForHandle(strings.TrimPrefix(identifier, "@"))
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		if apiErr, ok := err.(*googleapi.Error); ok && apiErr.Code == 403 {
			ys.quotaMu.Lock()
			quotaErr := &QuotaExceededError{
				Used:      ys.quotaUsed,
				Limit:     dailyQuotaLimit,
				Requested: channelsQuotaCost,
				ResetTime: ys.quotaReset,
			}
			ys.quotaMu.Unlock()
			return nil, quotaErr
		}
		return nil, errors.NewServiceError("YouTube API error", "youtube", "channels_list", err)
	}

	ys.consumeQuota(channelsQuotaCost)

	if len(response.Items) == 0 {
		return nil, errors.NewNotFoundError("youtube channel", identifier)
	}

	payload, err := channelToPayload(response.Items[0])
	if err != nil {
		return nil, err
	}

	ys.cache.SetRaw(ctx, domain.PlatformYouTube, identifier, payload, constants.CacheTTL.RawYouTube)
	return payload, nil
}

// SearchChannels finds channels matching a query (100 units per call).
func (ys *YouTubeService) SearchChannels(ctx context.Context, query string, maxResults int64) ([]string, error) {
	if err := ys.checkQuota(searchQuotaCost); err != nil {
		return nil, err
	}

	call := ys.service.Search.List([]string{"id"}).
		Q(query).
		Type("channel").
		MaxResults(maxResults)

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, errors.NewServiceError("YouTube search error", "youtube", "search_list", err)
	}

	ys.consumeQuota(searchQuotaCost)

	channelIDs := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id != nil && item.Id.ChannelId != "" {
			channelIDs = append(channelIDs, item.Id.ChannelId)
		}
	}

	return channelIDs, nil
}

// GetQuotaStatus returns current quota usage information
func (ys *YouTubeService) GetQuotaStatus() (used int, remaining int, resetTime time.Time) {
	ys.quotaMu.Lock()
	defer ys.quotaMu.Unlock()

	if time.Now().After(ys.quotaReset) {
		return 0, dailyQuotaLimit, getNextQuotaReset()
	}

	return ys.quotaUsed, dailyQuotaLimit - ys.quotaUsed, ys.quotaReset
}

// channelToPayload flattens the API response into the raw form the
// normalization layer consumes, preserving the channel wrapper shape.
func channelToPayload(channel *youtube.Channel) (domain.RawPayload, error) {
	encoded, err := json.Marshal(channel)
	if err != nil {
		return nil, errors.NewServiceError("failed to encode channel", "youtube", "encode", err)
	}

	var payload domain.RawPayload
	if err := json.Unmarshal(encoded, &payload); err != nil {
		return nil, errors.NewServiceError("failed to decode channel", "youtube", "decode", err)
	}

	return payload, nil
}

// isChannelID reports whether an identifier is a canonical channel ID.
func isChannelID(identifier string) bool {
	return len(identifier) == 24 && strings.HasPrefix(identifier, "UC")
}

// QuotaExceededError represents a quota limit error
type QuotaExceededError struct {
	Used      int
	Limit     int
	Requested int
	ResetTime time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("YouTube API quota exceeded: used %d/%d (requested %d more), resets at %s",
		e.Used, e.Limit, e.Requested, e.ResetTime.Format(time.RFC3339))
}
