// Package svg draws chart specs with go-chart.
package svg

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"

	"dashviz/domain/chart"
	"dashviz/internal/errors"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var palette = []drawing.Color{
	drawing.ColorFromHex("636EFA"),
	drawing.ColorFromHex("EF553B"),
	drawing.ColorFromHex("00CC96"),
	drawing.ColorFromHex("AB63FA"),
	drawing.ColorFromHex("FFA15A"),
	drawing.ColorFromHex("19D3F3"),
	drawing.ColorFromHex("FF6692"),
	drawing.ColorFromHex("B6E880"),
}

func color(i int) drawing.Color {
	return palette[i%len(palette)]
}

// Renderer draws chart specs as SVG
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer creates a renderer producing charts of the given size
func NewRenderer(width, height int) *Renderer {
	return &Renderer{Width: width, Height: height}
}

// ContentType of the rendered output
func (r *Renderer) ContentType() string {
	return "image/svg+xml"
}

// Render writes the chart as SVG. An empty spec writes nothing.
func (r *Renderer) Render(spec chart.Spec, w io.Writer) error {
	if spec.Empty() {
		return nil
	}
	var err error
	switch spec.Kind {
	case chart.KindLine:
		err = r.xy(spec).Render(gochart.SVG, w)
	case chart.KindStackedBar:
		stacked := r.stacked(spec)
		if len(stacked.Bars) == 0 {
			return nil
		}
		err = stacked.Render(gochart.SVG, w)
	case chart.KindBar:
		err = r.bar(spec).Render(gochart.SVG, w)
	case chart.KindPie:
		err = r.pie(spec).Render(gochart.SVG, w)
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown chart kind %q", spec.Kind))
	}
	if err != nil {
		return errors.Wrapf(err, "render %s chart %s", spec.Kind, spec.ID)
	}
	return nil
}

// RenderString renders to a string, for inlining into HTML
func (r *Renderer) RenderString(spec chart.Spec) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(spec, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) xy(spec chart.Spec) *gochart.Chart {
	graph := &gochart.Chart{
		Title:      spec.Title,
		Width:      r.Width,
		Height:     r.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      gochart.XAxis{Name: spec.XLabel},
		YAxis:      gochart.YAxis{Name: spec.YLabel, ValueFormatter: formatValue},
	}

	var xs, ys []float64
	for i, s := range spec.Series {
		style := gochart.Style{
			StrokeColor: color(i),
			StrokeWidth: 2,
			DotColor:    color(i),
			DotWidth:    3,
		}
		series := gochart.ContinuousSeries{Name: s.Name, Style: style}
		for _, p := range s.Points {
			series.XValues = append(series.XValues, p.X)
			series.YValues = append(series.YValues, p.Y)
		}
		xs = append(xs, series.XValues...)
		ys = append(ys, series.YValues...)
		graph.Series = append(graph.Series, series)
	}

	if spec.Categorical {
		// go-chart takes the x range from the ticks, so blank ticks half a
		// slot outside the first and last label keep a lone label drawable
		labels := spec.Labels()
		graph.XAxis.Ticks = append(graph.XAxis.Ticks, gochart.Tick{Value: -0.5})
		for i, label := range labels {
			graph.XAxis.Ticks = append(graph.XAxis.Ticks, gochart.Tick{Value: float64(i), Label: label})
		}
		graph.XAxis.Ticks = append(graph.XAxis.Ticks, gochart.Tick{Value: float64(len(labels)) - 0.5})
		graph.XAxis.Range = &gochart.ContinuousRange{Min: -0.5, Max: float64(len(labels)) - 0.5}
	} else {
		lo, hi := paddedRange(xs, false)
		if len(xs) > 0 && allEqual(xs) {
			lo, hi = xs[0]-1, xs[0]+1
		}
		graph.XAxis.Range = &gochart.ContinuousRange{Min: lo, Max: hi}
		graph.XAxis.ValueFormatter = formatValue
	}
	lo, hi := paddedRange(ys, false)
	graph.YAxis.Range = &gochart.ContinuousRange{Min: lo, Max: hi}

	if len(spec.Series) > 1 {
		graph.Elements = []gochart.Renderable{gochart.Legend(graph)}
	}
	return graph
}

func (r *Renderer) bar(spec chart.Spec) *gochart.BarChart {
	points := spec.Series[0].Points
	bars := make([]gochart.Value, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		bars = append(bars, gochart.Value{
			Label: p.Label,
			Value: p.Y,
			Style: gochart.Style{FillColor: color(0), StrokeColor: color(0)},
		})
		ys = append(ys, p.Y)
	}

	barWidth := 40
	if n := len(bars); n > 0 {
		if w := (r.Width - 120) / n * 2 / 3; w < barWidth {
			barWidth = w
		}
	}
	if barWidth < 4 {
		barWidth = 4
	}

	lo, hi := paddedRange(ys, true)
	return &gochart.BarChart{
		Title:      spec.Title,
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   barWidth,
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		YAxis: gochart.YAxis{
			Name:           spec.YLabel,
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: formatValue,
		},
		Bars: bars,
	}
}

// stacked draws one bar per x value with a segment per series. go-chart
// scales every bar to its own total, so bars show each series' share.
// Bars without a positive total are left out.
func (r *Renderer) stacked(spec chart.Spec) *gochart.StackedBarChart {
	type slot struct {
		x     float64
		label string
		parts []gochart.Value
		total float64
	}
	slots := make(map[string]*slot)
	for i, s := range spec.Series {
		for _, p := range s.Points {
			if p.Y <= 0 {
				continue
			}
			sl, ok := slots[p.Label]
			if !ok {
				sl = &slot{x: p.X, label: p.Label}
				slots[p.Label] = sl
			}
			sl.parts = append(sl.parts, gochart.Value{
				Label: s.Name,
				Value: p.Y,
				Style: gochart.Style{FillColor: color(i), StrokeColor: color(i)},
			})
			sl.total += p.Y
		}
	}
	ordered := make([]*slot, 0, len(slots))
	for _, sl := range slots {
		ordered = append(ordered, sl)
	}
	sort.Slice(ordered, func(a, b int) bool { return ordered[a].x < ordered[b].x })

	const legendWidth = 160
	barWidth, spacing := 40, 16
	if n := len(ordered); n > 0 {
		slotWidth := (r.Width - legendWidth - 40) / n
		if slotWidth < barWidth+spacing {
			barWidth = slotWidth * 2 / 3
			spacing = slotWidth - barWidth
		}
	}
	if barWidth < 2 {
		barWidth = 2
	}
	if spacing < 1 {
		spacing = 1
	}

	graph := &gochart.StackedBarChart{
		Title:      spec.Title,
		Width:      r.Width,
		Height:     r.Height,
		BarSpacing: spacing,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: legendWidth, Bottom: 16}},
	}
	for _, sl := range ordered {
		if sl.total <= 0 {
			continue
		}
		graph.Bars = append(graph.Bars, gochart.StackedBar{Name: sl.label, Width: barWidth, Values: sl.parts})
	}

	names := make([]string, len(spec.Series))
	for i, s := range spec.Series {
		names[i] = s.Name
	}
	graph.Elements = []gochart.Renderable{legend(names)}
	return graph
}

// legend lists series names with their colours to the right of the plot
func legend(names []string) gochart.Renderable {
	return func(r gochart.Renderer, box gochart.Box, defaults gochart.Style) {
		text := gochart.Style{
			FontSize:  9,
			FontColor: drawing.ColorFromHex("444444"),
		}.InheritFrom(defaults)
		x := box.Right + 48
		y := box.Top
		for i, name := range names {
			gochart.Draw.Box(r, gochart.Box{Top: y, Left: x, Right: x + 10, Bottom: y + 10}, gochart.Style{
				FillColor:   color(i),
				StrokeColor: color(i),
				StrokeWidth: 1,
			})
			gochart.Draw.Text(r, name, x+16, y+9, text)
			y += 16
		}
	}
}

func (r *Renderer) pie(spec chart.Spec) *gochart.PieChart {
	points := spec.Series[0].Points
	values := make([]gochart.Value, 0, len(points))
	for i, p := range points {
		values = append(values, gochart.Value{
			Label: p.Label,
			Value: p.Y,
			Style: gochart.Style{FillColor: color(i)},
		})
	}
	return &gochart.PieChart{
		Title:  spec.Title,
		Width:  r.Width,
		Height: r.Height,
		Values: values,
	}
}

// paddedRange returns an axis range covering vs with a 5% margin. With
// fromZero the range always includes 0. A single distinct value still
// yields a non-zero range.
func paddedRange(vs []float64, fromZero bool) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vs {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	if fromZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	if hi == lo {
		pad := math.Abs(hi) * 0.1
		if pad == 0 {
			pad = 1
		}
		return lo - pad, hi + pad
	}
	pad := (hi - lo) * 0.05
	if fromZero && lo == 0 {
		return 0, hi + pad
	}
	return lo - pad, hi + pad
}

func allEqual(vs []float64) bool {
	for _, v := range vs[1:] {
		if v != vs[0] {
			return false
		}
	}
	return true
}

func formatValue(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	switch {
	case math.Abs(f) >= 1e6:
		return fmt.Sprintf("%.1fM", f/1e6)
	case math.Abs(f) >= 1e4:
		return fmt.Sprintf("%.0fk", f/1e3)
	case f == math.Trunc(f):
		return fmt.Sprintf("%.0f", f)
	default:
		return fmt.Sprintf("%.2f", f)
	}
}
