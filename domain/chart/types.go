// Package chart describes charts as plain data so the update functions stay
// independent of how a chart is drawn.
package chart

import (
	"math"
	"strconv"

	"dashviz/domain/frame"
)

// Kind is the chart type
type Kind string

const (
	KindLine       Kind = "line"
	KindBar        Kind = "bar"
	KindPie        Kind = "pie"
	KindStackedBar Kind = "stacked_bar"
)

// Point is a single datum. X is the numeric position; for categorical
// axes it is the index of Label.
type Point struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Series is a named run of points
type Series struct {
	Name   string  `json:"name"`
	Points []Point `json:"points"`
}

// Spec is a renderer-independent chart description
type Spec struct {
	ID          string   `json:"id"`
	Kind        Kind     `json:"kind"`
	Title       string   `json:"title"`
	XLabel      string   `json:"x_label"`
	YLabel      string   `json:"y_label"`
	Categorical bool     `json:"categorical"`
	Series      []Series `json:"series"`
}

// Empty reports whether the spec has nothing to draw
func (s Spec) Empty() bool {
	for _, series := range s.Series {
		if len(series.Points) > 0 {
			return false
		}
	}
	return true
}

// Labels returns the category labels of the first series
func (s Spec) Labels() []string {
	if len(s.Series) == 0 {
		return nil
	}
	out := make([]string, len(s.Series[0].Points))
	for i, p := range s.Series[0].Points {
		out[i] = p.Label
	}
	return out
}

// Options names a chart built from a frame.Summary
type Options struct {
	ID     string
	Title  string
	XLabel string
	YLabel string
}

func (o Options) spec(kind Kind, sum *frame.Summary) Spec {
	s := Spec{ID: o.ID, Kind: kind, Title: o.Title, XLabel: o.XLabel, YLabel: o.YLabel}
	if s.XLabel == "" && sum != nil && len(sum.Keys) > 0 {
		s.XLabel = sum.Keys[0]
	}
	if s.YLabel == "" && sum != nil {
		s.YLabel = sum.Column
	}
	return s
}

// Line builds a single-series line chart from a summary. Numeric keys
// (years) are plotted at their value; other keys are categorical and keep
// the summary's row order.
func Line(o Options, sum *frame.Summary) Spec {
	s := o.spec(KindLine, sum)
	s.Series = []Series{{Name: s.YLabel, Points: points(sum, &s.Categorical)}}
	return s
}

// Bar builds a single-series bar chart; bars are always categorical
func Bar(o Options, sum *frame.Summary) Spec {
	s := o.spec(KindBar, sum)
	var numeric bool
	pts := points(sum, &numeric)
	for i := range pts {
		pts[i].X = float64(i)
	}
	s.Categorical = true
	s.Series = []Series{{Name: s.YLabel, Points: pts}}
	return s
}

// Pie builds a pie chart; slices with a non-positive value are left out
func Pie(o Options, sum *frame.Summary) Spec {
	s := o.spec(KindPie, sum)
	var categorical bool
	var pts []Point
	for _, p := range points(sum, &categorical) {
		if p.Y > 0 {
			p.X = float64(len(pts))
			pts = append(pts, p)
		}
	}
	s.Categorical = true
	s.Series = []Series{{Name: s.YLabel, Points: pts}}
	return s
}

// Grouped builds one series per value of the first key, stacked over the
// second key on the x axis. It expects a summary grouped by two keys with
// a numeric second key.
func Grouped(o Options, sum *frame.Summary) Spec {
	s := o.spec(KindStackedBar, sum)
	if sum == nil {
		return s
	}
	if len(sum.Keys) > 1 && o.XLabel == "" {
		s.XLabel = sum.Keys[1]
	}
	index := make(map[string]int)
	for _, row := range sum.Rows {
		if len(row.Key) < 2 || math.IsNaN(row.Value) {
			continue
		}
		x, err := strconv.ParseFloat(row.Key[1], 64)
		if err != nil {
			continue
		}
		i, ok := index[row.Key[0]]
		if !ok {
			i = len(s.Series)
			index[row.Key[0]] = i
			s.Series = append(s.Series, Series{Name: row.Key[0]})
		}
		s.Series[i].Points = append(s.Series[i].Points, Point{Label: row.Key[1], X: x, Y: row.Value})
	}
	return s
}

// points converts summary rows, dropping NaN values. categorical is set
// when any key is not a number.
func points(sum *frame.Summary, categorical *bool) []Point {
	if sum == nil {
		return nil
	}
	pts := make([]Point, 0, sum.Len())
	xs := make([]float64, 0, sum.Len())
	*categorical = false
	for _, row := range sum.Rows {
		if math.IsNaN(row.Value) {
			continue
		}
		label := row.Label()
		x, err := strconv.ParseFloat(label, 64)
		if err != nil {
			*categorical = true
		}
		xs = append(xs, x)
		pts = append(pts, Point{Label: label, Y: row.Value})
	}
	for i := range pts {
		if *categorical {
			pts[i].X = float64(i)
		} else {
			pts[i].X = xs[i]
		}
	}
	return pts
}
