// Package ui serves the dashboards over HTTP: full pages on first load and
// HTMX fragments for every selector change.
package ui

import (
	"context"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dashviz/app"
	"dashviz/internal"
	"dashviz/internal/errors"
	"dashviz/internal/observability"
	"dashviz/internal/profiling"
	"dashviz/ports"
)

//go:embed templates/*.html static content/*.md
var embeddedFiles embed.FS

// WildfireDashboard is the wildfire update function and its selector data
type WildfireDashboard interface {
	Report(ctx context.Context, q app.WildfireQuery) (*app.WildfireReport, error)
	Regions() []app.Option
	Years() []int
	DefaultQuery() app.WildfireQuery
	Profile() ([]profiling.ColumnProfile, error)
}

// AutoSalesDashboard is the automobile sales update function and its
// selector data
type AutoSalesDashboard interface {
	Report(ctx context.Context, q app.AutoSalesQuery) (*app.AutoSalesReport, error)
	Statistics() []app.Option
	Years() []int
	Profile() ([]profiling.ColumnProfile, error)
}

// Deps are the collaborators a Server is built from. A nil dashboard is
// not served; nil Metrics disables instrumentation and /metrics.
type Deps struct {
	Wildfire  WildfireDashboard
	AutoSales AutoSalesDashboard
	Renderer  ports.ChartRendererPort
	Exporter  ports.SummaryExporterPort
	Metrics   *observability.Metrics
	// Gatherer backs /metrics; defaults to the global Prometheus registry
	Gatherer prometheus.Gatherer
	Logger   *internal.Logger
}

// Server hosts the dashboards
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	templates  *template.Template
	deps       Deps
	logger     *internal.Logger
}

// NewServer parses the embedded templates and registers every route
func NewServer(addr string, deps Deps) (*Server, error) {
	if deps.Wildfire == nil && deps.AutoSales == nil {
		return nil, errors.ConfigInvalid("no dashboard to serve")
	}
	if deps.Renderer == nil {
		return nil, errors.ConfigInvalid("chart renderer is required")
	}
	if deps.Logger == nil {
		deps.Logger = internal.DefaultLogger
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}

	s := &Server{
		router:    gin.New(),
		templates: templates,
		deps:      deps,
		logger:    deps.Logger.With("Server"),
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures Gin middleware and static assets
func (s *Server) setupMiddleware() error {
	s.router.Use(RequestID(), Recovery(s.logger), RequestLogger(s.logger))

	staticFS, err := fs.Sub(embeddedFiles, "static")
	if err != nil {
		return errors.Wrap(err, "failed to create static filesystem")
	}
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	if s.deps.Wildfire != nil {
		s.router.GET("/wildfire", s.handleWildfirePage)
		s.router.GET("/wildfire/update", s.handleWildfireUpdate)
	}
	if s.deps.AutoSales != nil {
		s.router.GET("/autosales", s.handleAutoSalesPage)
		s.router.GET("/autosales/year-control", s.handleYearControl)
		s.router.GET("/autosales/update", s.handleAutoSalesUpdate)
	}

	api := s.router.Group("/api")
	api.GET("/:dashboard/report", s.handleReportJSON)
	api.GET("/:dashboard/export.xlsx", s.handleExport)
	api.GET("/:dashboard/profile", s.handleProfile)

	if s.deps.Metrics != nil {
		gatherer := s.deps.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("dashboard server listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains connections within the given context deadline
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the router, useful for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(c *gin.Context) {
	dashboards := []string{}
	if s.deps.Wildfire != nil {
		dashboards = append(dashboards, "wildfire")
	}
	if s.deps.AutoSales != nil {
		dashboards = append(dashboards, "autosales")
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "dashboards": dashboards})
}
