package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/pkg/errors"
	"go.uber.org/zap"
)

// CacheService wraps Redis for normalized profiles and raw platform payloads.
type CacheService struct {
	client *redis.Client
	logger *zap.Logger
}

type CacheConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &CacheService{
		client: client,
		logger: logger,
	}, nil
}

func (c *CacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil // Key doesn't exist - not an error
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return false, errors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			c.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
			return false, errors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}

	return true, nil
}

func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("marshal failed", "set", key, err)
	}

	if err := c.client.Set(ctx, key, jsonData, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return errors.NewCacheError("set failed", "set", key, err)
	}

	return nil
}

func (c *CacheService) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Error("Cache delete failed", zap.Strings("keys", keys), zap.Error(err))
		return errors.NewCacheError("delete failed", "del", keys[0], err)
	}
	return nil
}

// ProfileKey builds the cache key for a normalized profile.
func ProfileKey(platform domain.Platform, username string) string {
	return fmt.Sprintf("influencer:%s:%s", platform.Key(), username)
}

// RawKey builds the cache key for a raw platform payload.
func RawKey(platform domain.Platform, identifier string) string {
	return fmt.Sprintf("raw:%s:%s", platform.Key(), identifier)
}

// GetProfile returns a cached normalized profile, or nil on a miss. Cache
// failures degrade to a miss; the caller re-fetches from the platform.
// A nil service always misses, so callers can run without Redis.
func (c *CacheService) GetProfile(ctx context.Context, platform domain.Platform, username string) *domain.InfluencerProfile {
	if c == nil {
		return nil
	}
	var profile domain.InfluencerProfile
	found, err := c.Get(ctx, ProfileKey(platform, username), &profile)
	if err != nil || !found {
		return nil
	}
	return &profile
}

// SetProfile stores a normalized profile. Failures are logged, not returned:
// caching is best-effort.
func (c *CacheService) SetProfile(ctx context.Context, profile *domain.InfluencerProfile, ttl time.Duration) {
	if c == nil || profile == nil || profile.Username == "" {
		return
	}
	if err := c.Set(ctx, ProfileKey(profile.Platform, profile.Username), profile, ttl); err != nil {
		c.logger.Warn("Failed to cache profile",
			zap.String("username", profile.Username),
			zap.Error(err))
	}
}

// GetRaw returns a cached raw payload, or nil on a miss.
func (c *CacheService) GetRaw(ctx context.Context, platform domain.Platform, identifier string) domain.RawPayload {
	if c == nil {
		return nil
	}
	var payload domain.RawPayload
	found, err := c.Get(ctx, RawKey(platform, identifier), &payload)
	if err != nil || !found {
		return nil
	}
	return payload
}

// SetRaw stores a raw payload, best-effort.
func (c *CacheService) SetRaw(ctx context.Context, platform domain.Platform, identifier string, payload domain.RawPayload, ttl time.Duration) {
	if c == nil || payload == nil {
		return
	}
	if err := c.Set(ctx, RawKey(platform, identifier), payload, ttl); err != nil {
		c.logger.Warn("Failed to cache raw payload",
			zap.String("platform", platform.Key()),
			zap.String("identifier", identifier),
			zap.Error(err))
	}
}

func (c *CacheService) Close() error {
	return c.client.Close()
}

func (c *CacheService) IsConnected(ctx context.Context) bool {
	return c.client.Ping(ctx).Err() == nil
}
