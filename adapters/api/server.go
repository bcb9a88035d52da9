package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"carestats/domain/core"
	"carestats/domain/dataset"
	"carestats/domain/stats"
	"carestats/internal"
	"carestats/ports"
)

// ReportRunner is the application surface the HTTP adapter serves
type ReportRunner interface {
	Run(ctx context.Context, ds *dataset.Dataset, plan stats.Plan) (*stats.Report, error)
	Get(ctx context.Context, id core.ReportID) (*stats.Report, error)
	List(ctx context.Context, limit int) ([]ports.ReportSummary, error)
}

// Options configures the HTTP adapter
type Options struct {
	// DefaultPlan applies when a request carries no plan
	DefaultPlan stats.Plan
	// PlanSource, when set, supplies the default plan per request instead
	PlanSource func() stats.Plan
	// Gatherer backs GET /metrics; nil disables the route
	Gatherer     prometheus.Gatherer
	MaxBodyBytes int64
	Logger       *internal.Logger
}

const defaultMaxBodyBytes = 32 << 20

// Server exposes the analysis service over HTTP
type Server struct {
	router  *gin.Engine
	runner  ReportRunner
	opts    Options
	logger  *internal.Logger
	started time.Time
	httpSrv *http.Server
}

// NewServer builds the router. gin's mode must be set by the caller.
func NewServer(runner ReportRunner, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.Logger == nil {
		opts.Logger = internal.DefaultLogger
	}

	s := &Server{
		router:  gin.New(),
		runner:  runner,
		opts:    opts,
		logger:  opts.Logger,
		started: time.Now(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	if s.opts.Gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.router.Group("/api/v1")
	v1.POST("/analyze", s.handleAnalyze)
	v1.GET("/reports", s.handleListReports)
	v1.GET("/reports/:id", s.handleGetReport)
}

// Handler returns the router, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until Shutdown
func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting carestats API on http://%s", addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
