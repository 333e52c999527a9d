package container

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"dashviz/adapters/db"
	"dashviz/adapters/excel"
	"dashviz/adapters/svg"
	"dashviz/app"
	"dashviz/domain/frame"
	"dashviz/internal"
	"dashviz/internal/config"
	"dashviz/internal/errors"
	"dashviz/internal/observability"
	"dashviz/ports"
	"dashviz/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Dataset sources, keyed by dashboard name
	Sources map[string]ports.DatasetSourcePort

	// Dashboards; nil when not enabled
	Wildfire  *app.WildfireService
	AutoSales *app.AutoSalesService

	Renderer ports.ChartRendererPort
	Exporter ports.SummaryExporterPort
	Metrics  *observability.Metrics

	Server *ui.Server
}

// New creates a container with a dataset source for every enabled dashboard.
// Nothing is fetched until Init.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger.With("Container"),
		Sources:  make(map[string]ports.DatasetSourcePort),
		Renderer: svg.NewRenderer(cfg.Charts.Width, cfg.Charts.Height),
		Exporter: excel.NewExporter(),
	}
	for name, location := range map[string]string{
		config.DashboardWildfire:  cfg.Data.WildfireSource,
		config.DashboardAutoSales: cfg.Data.AutoSalesSource,
	} {
		if !cfg.Enabled(name) {
			continue
		}
		source, err := newSource(location, cfg.Data.FetchTimeout)
		if err != nil {
			return nil, errors.Wrapf(err, "%s dataset source", name)
		}
		c.Sources[name] = source
	}
	if cfg.Metrics.Enabled {
		c.Metrics = observability.NewMetrics()
	}
	return c, nil
}

// newSource picks a SQL table reader for postgres:// and sqlite:// URLs and
// the CSV/XLSX reader for everything else
func newSource(location string, timeout time.Duration) (ports.DatasetSourcePort, error) {
	if db.IsTableLocation(location) {
		return db.NewTableReader(location, timeout)
	}
	sourceConfig := excel.DefaultSourceConfig(location)
	sourceConfig.Timeout = timeout
	return excel.NewDataReader(sourceConfig), nil
}

// Init loads every dataset in parallel, builds the dashboard services and
// the HTTP server. Any load failure aborts startup.
func (c *Container) Init(ctx context.Context) error {
	frames, err := c.loadDatasets(ctx)
	if err != nil {
		return err
	}

	if f, ok := frames[config.DashboardWildfire]; ok {
		if c.Wildfire, err = app.NewWildfireService(f); err != nil {
			return errors.Wrap(err, "failed to build wildfire dashboard")
		}
	}
	if f, ok := frames[config.DashboardAutoSales]; ok {
		if c.AutoSales, err = app.NewAutoSalesService(f); err != nil {
			return errors.Wrap(err, "failed to build automobile sales dashboard")
		}
	}

	deps := ui.Deps{
		Renderer: c.Renderer,
		Exporter: c.Exporter,
		Metrics:  c.Metrics,
		Logger:   c.Logger,
	}
	// typed nils must not reach the interface fields
	if c.Wildfire != nil {
		deps.Wildfire = c.Wildfire
	}
	if c.AutoSales != nil {
		deps.AutoSales = c.AutoSales
	}
	if c.Server, err = ui.NewServer(c.Config.Addr(), deps); err != nil {
		return errors.Wrap(err, "failed to create server")
	}

	c.Logger.Info("container initialized with dashboards %v", c.Config.Data.Dashboards)
	return nil
}

func (c *Container) loadDatasets(ctx context.Context) (map[string]*frame.Frame, error) {
	names := make([]string, 0, len(c.Sources))
	for name := range c.Sources {
		names = append(names, name)
	}
	results := make([]*frame.Frame, len(names))

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		source := c.Sources[name]
		g.Go(func() error {
			start := time.Now()
			c.Logger.Info("loading %s dataset from %s", name, source.Location())

			f, err := source.Load(gctx)
			if c.Metrics != nil {
				c.Metrics.DatasetLoadDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
			}
			if err != nil {
				if c.Metrics != nil {
					c.Metrics.DatasetLoadErrors.WithLabelValues(name).Inc()
				}
				return errors.Wrapf(err, "failed to load %s dataset", name)
			}
			if c.Metrics != nil {
				c.Metrics.DatasetRows.WithLabelValues(name).Set(float64(f.Len()))
			}
			c.Logger.Info("loaded %s dataset: %d rows, %d columns in %s", name, f.Len(), len(f.Columns()), time.Since(start).Round(time.Millisecond))
			results[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	frames := make(map[string]*frame.Frame, len(names))
	for i, name := range names {
		frames[name] = results[i]
	}
	return frames, nil
}

// Shutdown stops the HTTP server
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Server == nil {
		return nil
	}
	if err := c.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Run builds the container, serves until ctx is cancelled and then shuts
// the server down within the configured timeout.
func Run(ctx context.Context, cfg *config.Config, logger *internal.Logger) error {
	c, err := New(cfg, logger)
	if err != nil {
		return err
	}
	if err := c.Init(ctx); err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := c.Server.Start(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Wrap(err, "http server error")
		}
		return nil
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := c.Shutdown(shutdownCtx); err != nil {
		return err
	}
	c.Logger.Info("shutdown complete")
	return nil
}
