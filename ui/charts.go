package ui

import (
	"bytes"
	"html/template"
	"time"

	"dashviz/app"
	"dashviz/internal/errors"
	"dashviz/internal/observability"
)

// chartView is one rendered panel handed to the templates
type chartView struct {
	ID    string
	Title string
	Kind  string
	SVG   template.HTML
	Empty bool
}

// renderPanels draws every panel of a report. Empty charts keep their slot
// so the grid layout stays stable.
func (s *Server) renderPanels(panels []app.Panel) ([]chartView, error) {
	views := make([]chartView, 0, len(panels))
	for _, p := range panels {
		view := chartView{ID: p.Chart.ID, Title: p.Chart.Title, Kind: string(p.Chart.Kind), Empty: p.Chart.Empty()}
		if !view.Empty {
			var buf bytes.Buffer
			if err := s.deps.Renderer.Render(p.Chart, &buf); err != nil {
				return nil, errors.Wrapf(err, "render chart %s", p.Chart.ID)
			}
			// SVG is produced by the renderer from aggregated data, never from request input
			view.SVG = template.HTML(buf.String())
			if s.deps.Metrics != nil {
				s.deps.Metrics.ChartsRendered.WithLabelValues(view.Kind).Inc()
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// observeUpdate records the outcome and latency of one dashboard update
func (s *Server) observeUpdate(dashboard string, start time.Time, empty bool, err error) {
	m := s.deps.Metrics
	if m == nil {
		return
	}
	outcome := observability.OutcomeRendered
	switch {
	case err != nil:
		outcome = observability.OutcomeError
	case empty:
		outcome = observability.OutcomeEmpty
	}
	m.UpdatesTotal.WithLabelValues(dashboard, outcome).Inc()
	m.UpdateDuration.WithLabelValues(dashboard).Observe(time.Since(start).Seconds())
}
