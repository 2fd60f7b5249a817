package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vinizanotti89/influencer-panel-go/internal/constants"
	"github.com/vinizanotti89/influencer-panel-go/internal/domain"
	"github.com/vinizanotti89/influencer-panel-go/internal/service"
	"go.uber.org/zap"
)

// InfluencerStore is the persistence surface the handlers need.
type InfluencerStore interface {
	GetAll(ctx context.Context, page, limit int) ([]*domain.InfluencerProfile, int, error)
	GetByID(ctx context.Context, id string) (*domain.InfluencerProfile, error)
	FindByUsername(ctx context.Context, username string, platform domain.Platform) (*domain.InfluencerProfile, error)
	Create(ctx context.Context, profile *domain.InfluencerProfile) (*domain.InfluencerProfile, error)
	Update(ctx context.Context, profile *domain.InfluencerProfile) (*domain.InfluencerProfile, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ReportStore is the persistence surface for analysis reports.
type ReportStore interface {
	GetAll(ctx context.Context, page, limit int) ([]*domain.Report, int, error)
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	Create(ctx context.Context, report *domain.Report) (*domain.Report, error)
}

// Searcher runs the cross-platform fan-out.
type Searcher interface {
	Search(ctx context.Context, term string, platforms []domain.Platform) ([]*service.PlatformResult, error)
	Platforms() []domain.Platform
}

// Analyzer produces report summaries. Optional; nil disables summaries.
type Analyzer interface {
	GenerateReportSummary(ctx context.Context, profile *domain.InfluencerProfile) (string, error)
}

// HealthChecker reports dependency liveness for the health endpoint.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	engine      *gin.Engine
	httpServer  *http.Server
	influencers InfluencerStore
	reports     ReportStore
	searcher    Searcher
	analyzer    Analyzer
	db          HealthChecker
	hub         *Hub
	logger      *zap.Logger
}

type Options struct {
	Host        string
	Port        int
	Influencers InfluencerStore
	Reports     ReportStore
	Searcher    Searcher
	Analyzer    Analyzer
	DB          HealthChecker
	Hub         *Hub
	Logger      *zap.Logger
}

func New(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	s := &Server{
		engine:      engine,
		influencers: opts.Influencers,
		reports:     opts.Reports,
		searcher:    opts.Searcher,
		analyzer:    opts.Analyzer,
		db:          opts.DB,
		hub:         opts.Hub,
		logger:      opts.Logger,
	}

	engine.Use(RequestLogger(opts.Logger))
	engine.Use(Recovery(opts.Logger))
	engine.Use(CORS())

	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler: engine,
	}

	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	api.GET("/health", s.handleHealth)
	api.GET("/search", s.handleSearch)

	influencers := api.Group("/influencers")
	influencers.GET("", s.handleListInfluencers)
	influencers.POST("", s.handleCreateInfluencer)
	influencers.GET("/username/:username", s.handleGetInfluencerByUsername)
	influencers.GET("/:id", s.handleGetInfluencer)
	influencers.PUT("/:id", s.handleUpdateInfluencer)
	influencers.DELETE("/:id", s.handleDeleteInfluencer)

	reports := api.Group("/reports")
	reports.GET("", s.handleListReports)
	reports.GET("/:id", s.handleGetReport)
	reports.POST("", s.handleCreateReport)

	if s.hub != nil {
		api.GET("/ws", s.hub.ServeWS)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.HTTPConfig.ShutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	status := gin.H{
		"status": "ok",
	}

	httpStatus := http.StatusOK
	if s.db != nil {
		if err := s.db.Ping(c.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			httpStatus = http.StatusServiceUnavailable
		} else {
			status["database"] = "ok"
		}
	}

	if s.searcher != nil {
		platforms := s.searcher.Platforms()
		keys := make([]string, 0, len(platforms))
		for _, platform := range platforms {
			keys = append(keys, platform.Key())
		}
		status["platforms"] = keys
	}

	c.JSON(httpStatus, status)
}
