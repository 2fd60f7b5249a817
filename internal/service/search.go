package service

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/vinizanotti89/influencer-panel-go/internal/adapter"
	"github.com/vinizanotti89/influencer-panel-go/internal/constants"
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/service/cache"
	"github.com/vinizanotti89/influencer-panel-go/pkg/errors"
	"go.uber.org/zap"
)

// PlatformClient is the contract each platform integration fulfils for the
// cross-platform search fan-out.
type PlatformClient interface {
	Platform() domain.Platform
	Fetch(ctx context.Context, term string) (domain.RawPayload, error)
}

// PlatformResult is the per-platform outcome of a search. Either Profile or
// Err is set, never both.
type PlatformResult struct {
	Platform domain.Platform           `json:"platform"`
	Profile  *domain.InfluencerProfile `json:"profile,omitempty"`
	Err      error                     `json:"-"`
	Error    string                    `json:"error,omitempty"`
	Duration time.Duration             `json:"-"`
}

// SearchEvent is published while a search runs so clients can render
// per-platform progress.
type SearchEvent struct {
	Type     string          `json:"type"`
	Term     string          `json:"term"`
	Platform domain.Platform `json:"platform,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// ProgressPublisher receives search progress events. Implementations must
// not block; publishing is on the request path.
type ProgressPublisher interface {
	Publish(event SearchEvent)
}

// SearchService fans a search term out to every configured platform
// concurrently and normalizes whatever comes back. A search succeeds as long
// as at least one platform resolves; it fails only when all of them do.
type SearchService struct {
	clients     map[domain.Platform]PlatformClient
	normalizer  *adapter.Normalizer
	cache       *cache.CacheService
	publisher   ProgressPublisher
	concurrency int
	logger      *zap.Logger
}

func NewSearchService(
	clients []PlatformClient,
	normalizer *adapter.Normalizer,
	cacheSvc *cache.CacheService,
	publisher ProgressPublisher,
	concurrency int,
	logger *zap.Logger,
) *SearchService {
	clientMap := make(map[domain.Platform]PlatformClient, len(clients))
	for _, client := range clients {
		clientMap[client.Platform()] = client
	}

	if concurrency <= 0 {
		concurrency = len(clientMap)
	}

	return &SearchService{
		clients:     clientMap,
		normalizer:  normalizer,
		cache:       cacheSvc,
		publisher:   publisher,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Platforms returns the platforms with a configured client.
func (ss *SearchService) Platforms() []domain.Platform {
	platforms := make([]domain.Platform, 0, len(ss.clients))
	for _, platform := range domain.AllPlatforms {
		if _, ok := ss.clients[platform]; ok {
			platforms = append(platforms, platform)
		}
	}
	return platforms
}

// Search resolves a term on the requested platforms. An empty platform list
// means every configured platform. The returned slice always has one entry
// per requested platform, in a stable order.
func (ss *SearchService) Search(ctx context.Context, term string, platforms []domain.Platform) ([]*PlatformResult, error) {
	if term == "" {
		return nil, errors.NewValidationError("search term is required", "q", term)
	}

	targets := ss.resolveTargets(platforms)
	if len(targets) == 0 {
		return nil, errors.NewServiceError("no platform clients configured", "search", "search", nil)
	}

	ss.publish(SearchEvent{Type: "search_started", Term: term})

	p := pool.New().WithMaxGoroutines(ss.concurrency)

	results := make([]*PlatformResult, len(targets))
	resultsMu := sync.Mutex{}

	for idx, platform := range targets {
		idx, platform := idx, platform
		p.Go(func() {
			result := ss.searchPlatform(ctx, term, platform)
			resultsMu.Lock()
			results[idx] = result
			resultsMu.Unlock()
		})
	}

	p.Wait()

	successes := 0
	var firstErr error
	for _, result := range results {
		if result.Err != nil {
			if firstErr == nil {
				firstErr = result.Err
			}
			continue
		}
		successes++
	}

	ss.publish(SearchEvent{Type: "search_completed", Term: term})

	ss.logger.Info("Search completed",
		zap.String("term", term),
		zap.Int("platforms", len(targets)),
		zap.Int("successes", successes),
	)

	if successes == 0 {
		return results, errors.NewServiceError("search failed on every platform", "search", "search", firstErr)
	}

	return results, nil
}

func (ss *SearchService) searchPlatform(ctx context.Context, term string, platform domain.Platform) *PlatformResult {
	started := time.Now()
	result := &PlatformResult{Platform: platform}

	defer func() {
		result.Duration = time.Since(started)
		if result.Err != nil {
			result.Error = errors.Normalize(result.Err, platform.String()).Message
			ss.publish(SearchEvent{Type: "platform_failed", Term: term, Platform: platform, Error: result.Error})
		} else {
			ss.publish(SearchEvent{Type: "platform_resolved", Term: term, Platform: platform})
		}
	}()

	if cached := ss.cache.GetProfile(ctx, platform, term); cached != nil {
		ss.logger.Debug("Search profile cache hit",
			zap.String("platform", platform.String()),
			zap.String("term", term))
		result.Profile = cached
		return result
	}

	client, ok := ss.clients[platform]
	if !ok {
		result.Err = errors.NewServiceError("platform not configured", platform.Key(), "search", nil)
		return result
	}

	payload, err := client.Fetch(ctx, term)
	if err != nil {
		ss.logger.Warn("Platform fetch failed",
			zap.String("platform", platform.String()),
			zap.String("term", term),
			zap.Error(err))
		result.Err = err
		return result
	}

	profile := ss.normalizer.Adapt(payload, platform.String())
	adapter.EnsureTrustScore(&profile, nil)

	ss.cache.SetProfile(ctx, &profile, constants.CacheTTL.Profile)

	result.Profile = &profile
	return result
}

func (ss *SearchService) resolveTargets(platforms []domain.Platform) []domain.Platform {
	if len(platforms) == 0 {
		return ss.Platforms()
	}

	seen := make(map[domain.Platform]bool, len(platforms))
	targets := make([]domain.Platform, 0, len(platforms))
	for _, platform := range domain.AllPlatforms {
		for _, requested := range platforms {
			if platform == requested && !seen[platform] {
				seen[platform] = true
				targets = append(targets, platform)
			}
		}
	}
	return targets
}

func (ss *SearchService) publish(event SearchEvent) {
	if ss.publisher == nil {
		return
	}
	ss.publisher.Publish(event)
}
