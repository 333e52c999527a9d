package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Update outcomes recorded on UpdatesTotal
const (
	OutcomeRendered = "rendered"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
)

// Metrics holds the Prometheus collectors for dataset loading and
// dashboard updates.
type Metrics struct {
	DatasetRows         *prometheus.GaugeVec     // labels: dashboard
	DatasetLoadDuration *prometheus.HistogramVec // labels: dashboard
	DatasetLoadErrors   *prometheus.CounterVec   // labels: dashboard

	UpdatesTotal   *prometheus.CounterVec   // labels: dashboard, outcome={rendered,empty,error}
	UpdateDuration *prometheus.HistogramVec // labels: dashboard
	ChartsRendered *prometheus.CounterVec   // labels: kind
}

func newMetrics() *Metrics {
	return &Metrics{
		DatasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "dashviz",
			Name:      "dataset_rows",
			Help:      "Rows held in memory per dashboard dataset.",
		}, []string{"dashboard"}),
		DatasetLoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dashviz",
			Name:      "dataset_load_duration_seconds",
			Help:      "Time to fetch and parse a dashboard dataset at startup.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"dashboard"}),
		DatasetLoadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashviz",
			Name:      "dataset_load_errors_total",
			Help:      "Dataset loads that failed.",
		}, []string{"dashboard"}),
		UpdatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashviz",
			Name:      "updates_total",
			Help:      "Dashboard update round-trips by outcome.",
		}, []string{"dashboard", "outcome"}),
		UpdateDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "dashviz",
			Name:      "update_duration_seconds",
			Help:      "Time to filter, aggregate and render one dashboard update.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"dashboard"}),
		ChartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashviz",
			Name:      "charts_rendered_total",
			Help:      "Charts drawn, by chart kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.DatasetRows,
		m.DatasetLoadDuration,
		m.DatasetLoadErrors,
		m.UpdatesTotal,
		m.UpdateDuration,
		m.ChartsRendered,
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered on a fresh registry to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	m := newMetrics()
	reg.MustRegister(m.collectors()...)
	return m, reg
}
