package app

import (
	"strconv"
	"strings"

	"dashviz/domain/chart"
	"dashviz/domain/frame"
	"dashviz/ports"
)

// Panel is one chart of a report together with the aggregated table it
// was built from.
type Panel struct {
	Chart chart.Spec     `json:"chart"`
	Table *frame.Summary `json:"-"`
}

// Sheets converts panels to export sheets named after their chart IDs
func Sheets(panels []Panel) []ports.SummarySheet {
	out := make([]ports.SummarySheet, 0, len(panels))
	for _, p := range panels {
		out = append(out, ports.SummarySheet{Name: p.Chart.ID, Title: p.Chart.Title, Summary: p.Table})
	}
	return out
}

// Option is a selector choice
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ParseYear reads an optional year selector value. Absent or malformed
// input yields 0, which every service treats as "no year chosen".
func ParseYear(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 && f == float64(int(f)) {
		return int(f)
	}
	return 0
}

func panel(spec chart.Spec, table *frame.Summary) Panel {
	return Panel{Chart: spec, Table: table}
}

func yearsOf(f *frame.Frame) ([]int, error) {
	keys, err := f.Unique("Year")
	if err != nil {
		return nil, err
	}
	years := make([]int, 0, len(keys))
	for _, k := range keys {
		if y := ParseYear(k); y > 0 {
			years = append(years, y)
		}
	}
	return years, nil
}
