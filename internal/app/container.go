package app

import (
	"context"
	"fmt"

	"github.com/vinizanotti89/influencer-panel-go/internal/adapter"
	"github.com/vinizanotti89/influencer-panel-go/internal/config"
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/server"
	"github.com/vinizanotti89/influencer-panel-go/internal/service"
	"github.com/vinizanotti89/influencer-panel-go/internal/service/cache"
	"github.com/vinizanotti89/influencer-panel-go/internal/service/database"
	"go.uber.org/zap"
)

// Container bundles the assembled services behind the HTTP server.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Cache    *cache.CacheService
	Postgres *database.PostgresService
	Search   *service.SearchService
	Insights *service.InsightsService
	Hub      *server.Hub
	Server   *server.Server

	closers []func()
}

// Close releases resources in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles all infrastructure services. Heavy initialization (DB,
// cache, model clients) happens here so main stays focused on lifecycle.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// Cache and database
	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, func() {
		_ = cacheSvc.Close()
	})

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		Database:        cfg.Postgres.Database,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})

	influencerRepo := service.NewInfluencerRepository(postgresSvc, logger)
	reportRepo := service.NewReportRepository(postgresSvc, logger)

	// Platform clients, each conditional on its credentials and on the
	// SEARCH_PLATFORMS allow list
	enabled := make(map[domain.Platform]bool, len(cfg.Search.DefaultPlatforms))
	for _, name := range cfg.Search.DefaultPlatforms {
		if platform, ok := domain.ParsePlatform(name); ok {
			enabled[platform] = true
		} else {
			logger.Warn("Ignoring unknown platform in SEARCH_PLATFORMS", zap.String("platform", name))
		}
	}

	var clients []service.PlatformClient

	if enabled[domain.PlatformInstagram] && len(cfg.Instagram.AccessTokens) > 0 {
		instagramSvc, igErr := service.NewInstagramService(cfg.Instagram.BaseURL, cfg.Instagram.AccessTokens, cacheSvc, logger)
		if igErr != nil {
			return nil, fmt.Errorf("failed to create Instagram service: %w", igErr)
		}
		clients = append(clients, instagramSvc)
		logger.Info("Instagram client enabled",
			zap.Int("tokens", len(cfg.Instagram.AccessTokens)))
	}

	if enabled[domain.PlatformYouTube] && (cfg.YouTube.APIKey != "" || cfg.YouTube.AccessToken != "") {
		youtubeSvc, ytErr := service.NewYouTubeService(ctx, cfg.YouTube.APIKey, cfg.YouTube.AccessToken, cacheSvc, logger)
		if ytErr != nil {
			return nil, fmt.Errorf("failed to create YouTube service: %w", ytErr)
		}
		clients = append(clients, youtubeSvc)
	}

	if enabled[domain.PlatformLinkedIn] {
		linkedInSvc := service.NewLinkedInService(cfg.LinkedIn.BaseURL, cacheSvc, logger)
		clients = append(clients, linkedInSvc)
	}

	// Search fan-out with live progress over websocket
	hub := server.NewHub(logger)
	normalizer := adapter.NewNormalizer(logger)
	searchSvc := service.NewSearchService(clients, normalizer, cacheSvc, hub, cfg.Search.Concurrency, logger)

	// Insights are optional; without a Gemini key reports skip summaries
	var insightsSvc *service.InsightsService
	if cfg.HasInsights() {
		insightsSvc, err = service.NewInsightsService(ctx, service.InsightsConfig{
			GeminiAPIKey:   cfg.Gemini.APIKey,
			OpenAIAPIKey:   cfg.OpenAI.APIKey,
			EnableFallback: cfg.OpenAI.EnableFallback,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create insights service: %w", err)
		}
	} else {
		logger.Info("Insights disabled (no Gemini API key)")
	}

	serverOpts := server.Options{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		Influencers: influencerRepo,
		Reports:     reportRepo,
		Searcher:    searchSvc,
		DB:          postgresSvc,
		Hub:         hub,
		Logger:      logger,
	}
	if insightsSvc != nil {
		serverOpts.Analyzer = insightsSvc
	}

	httpServer := server.New(serverOpts)

	return &Container{
		Config:   cfg,
		Logger:   logger,
		Cache:    cacheSvc,
		Postgres: postgresSvc,
		Search:   searchSvc,
		Insights: insightsSvc,
		Hub:      hub,
		Server:   httpServer,
		closers:  closers,
	}, nil
}
