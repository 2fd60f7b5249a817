package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/vinizanotti89/influencer-panel-go/internal/constants"
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/service/cache"
	"github.com/vinizanotti89/influencer-panel-go/internal/util"
	"github.com/vinizanotti89/influencer-panel-go/pkg/errors"
	"go.uber.org/zap"
)

// InstagramService fetches raw profile payloads through the Graph-style API.
// Multiple access tokens rotate on rate limits; repeated upstream failures
// open a circuit breaker shared by every caller.
type InstagramService struct {
	httpClient      *http.Client
	baseURL         string
	tokens          []string
	currentTokenIdx int
	tokenMu         sync.Mutex
	cache           *cache.CacheService
	breaker         *util.CircuitBreaker
	logger          *zap.Logger
}

func NewInstagramService(baseURL string, tokens []string, cacheSvc *cache.CacheService, logger *zap.Logger) (*InstagramService, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("at least one Instagram access token is required")
	}

	return &InstagramService{
		httpClient: &http.Client{Timeout: constants.HTTPConfig.RequestTimeout},
		baseURL:    baseURL,
		tokens:     tokens,
		cache:      cacheSvc,
		breaker: util.NewCircuitBreaker(
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			constants.CircuitBreakerConfig.HealthCheckInterval,
			nil,
			logger,
		),
		logger: logger,
	}, nil
}

// Platform implements search.PlatformClient.
func (s *InstagramService) Platform() domain.Platform {
	return domain.PlatformInstagram
}

// Fetch implements search.PlatformClient.
func (s *InstagramService) Fetch(ctx context.Context, term string) (domain.RawPayload, error) {
	return s.GetProfileByUsername(ctx, term)
}

// GetProfileByUsername returns the raw Instagram payload for a username,
// consulting the cache first.
func (s *InstagramService) GetProfileByUsername(ctx context.Context, username string) (domain.RawPayload, error) {
	if username == "" {
		return nil, errors.NewValidationError("username is required", "username", username)
	}

	if cached := s.cache.GetRaw(ctx, domain.PlatformInstagram, username); cached != nil {
		s.logger.Debug("Instagram cache hit", zap.String("username", username))
		return cached, nil
	}

	params := url.Values{}
	params.Set("username", username)
	params.Set("fields", "id,username,full_name,biography,followers_count,media_count,is_verified,is_business_account,external_url,profile_pic_url,media{like_count,comments_count,caption}")

	body, err := s.doRequest(ctx, "/v1/users/profile", params)
	if err != nil {
		return nil, err
	}

	var payload domain.RawPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.NewServiceError("invalid Instagram response", "instagram", "get_profile", err)
	}

	// Some endpoints wrap the profile under a data envelope.
	if data, ok := payload["data"].(map[string]any); ok {
		payload = data
	}

	s.cache.SetRaw(ctx, domain.PlatformInstagram, username, payload, constants.CacheTTL.RawInstagram)
	return payload, nil
}

func (s *InstagramService) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if !s.breaker.CanExecute() {
		status := s.breaker.GetStatus()
		s.logger.Warn("Instagram circuit breaker is open",
			zap.Int("failure_count", status.FailureCount))
		return nil, errors.NewAPIError("Instagram temporarily unavailable", 503, map[string]any{
			"circuit_state": status.State.String(),
		})
	}

	maxAttempts := util.Min(len(s.tokens)*2, 10)
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		token := s.nextToken()

		reqParams := url.Values{}
		for key, values := range params {
			reqParams[key] = values
		}
		reqParams.Set("access_token", token)

		reqURL := s.baseURL + path + "?" + reqParams.Encode()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
			s.breaker.RecordFailure(0)

			if attempt < maxAttempts-1 {
				delay := computeRetryDelay(attempt)
				s.logger.Warn("Instagram request failed, retrying",
					zap.Error(err),
					zap.Int("attempt", attempt+1),
					zap.Duration("delay", delay),
				)
				time.Sleep(delay)
				continue
			}
			break
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == 429 || resp.StatusCode == 403 {
			s.logger.Warn("Instagram rate limited, rotating token",
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			if attempt < maxAttempts-1 {
				continue
			}
			s.breaker.RecordFailure(constants.CircuitBreakerConfig.RateLimitTimeout)
			return nil, errors.NewKeyRotationError("All Instagram tokens rate limited", resp.StatusCode, map[string]any{
				"path": path,
			})
		}

		if resp.StatusCode >= 500 {
			s.breaker.RecordFailure(0)
			if attempt < maxAttempts-1 {
				time.Sleep(computeRetryDelay(attempt))
				continue
			}
			return nil, errors.NewAPIError(fmt.Sprintf("Instagram server error: %d", resp.StatusCode), resp.StatusCode, nil)
		}

		if resp.StatusCode == 404 {
			return nil, errors.NewNotFoundError("instagram profile", params.Get("username"))
		}

		if resp.StatusCode >= 400 {
			return nil, errors.NewAPIError(fmt.Sprintf("Instagram client error: %d", resp.StatusCode), resp.StatusCode, map[string]any{
				"path": path,
				"body": util.TruncateString(string(body), 300),
			})
		}

		s.breaker.RecordSuccess()
		return body, nil
	}

	if lastErr != nil {
		return nil, errors.NewServiceError("Instagram request failed", "instagram", "do_request", lastErr)
	}
	return nil, errors.NewServiceError("Instagram request failed", "instagram", "do_request", nil)
}

func (s *InstagramService) nextToken() string {
	s.tokenMu.Lock()
	defer s.tokenMu.Unlock()

	token := s.tokens[s.currentTokenIdx]
	s.currentTokenIdx = (s.currentTokenIdx + 1) % len(s.tokens)
	return token
}

func computeRetryDelay(attempt int) time.Duration {
	base := constants.RetryConfig.BaseDelay * time.Duration(math.Pow(2, float64(attempt)))
	jitter := time.Duration(rand.Float64() * float64(constants.RetryConfig.Jitter))
	return base + jitter
}
