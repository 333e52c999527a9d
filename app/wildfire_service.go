package app

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"dashviz/domain/chart"
	"dashviz/domain/frame"
	"dashviz/internal/errors"
	"dashviz/internal/profiling"
)

// Wildfire dataset columns
const (
	ColRegion     = "Region"
	ColDate       = "Date"
	ColFireArea   = "Estimated_fire_area"
	ColBrightness = "Mean_estimated_fire_brightness"
	ColPixelCount = "Count"
	ColMonth      = "Month"
	ColYear       = "Year"
)

// Selector defaults shown on first load
const (
	DefaultRegion = "NSW"
	DefaultYear   = 2005
)

// Regions are the Australian regions in the wildfire dataset
var Regions = []Option{
	{Label: "New South Wales", Value: "NSW"},
	{Label: "Northern Territory", Value: "NT"},
	{Label: "Queensland", Value: "QL"},
	{Label: "South Australia", Value: "SA"},
	{Label: "Tasmania", Value: "TA"},
	{Label: "Victoria", Value: "VI"},
	{Label: "Western Australia", Value: "WA"},
}

// WildfireQuery is the selector state of the wildfire dashboard. Year 0
// means no year was chosen.
type WildfireQuery struct {
	Region string `json:"region"`
	Year   int    `json:"year"`
}

// WildfireSummary is the statistics block for one region and year
type WildfireSummary struct {
	Region          string  `json:"region"`
	Year            int     `json:"year"`
	Records         int     `json:"records"`
	TotalFireArea   float64 `json:"total_fire_area"`
	TotalPixelCount float64 `json:"total_pixel_count"`
	AvgBrightness   float64 `json:"avg_brightness"`
}

// HasBrightness is false when no record carried a brightness value
func (s *WildfireSummary) HasBrightness() bool {
	return s.Records > 0 && !math.IsNaN(s.AvgBrightness)
}

// MarshalJSON writes a missing average brightness as null
func (s WildfireSummary) MarshalJSON() ([]byte, error) {
	type plain WildfireSummary
	out := struct {
		plain
		AvgBrightness *float64 `json:"avg_brightness"`
	}{plain: plain(s)}
	if s.HasBrightness() {
		out.AvgBrightness = &s.AvgBrightness
	}
	return json.Marshal(out)
}

// WildfireReport is the output of one wildfire update. A report with no
// summary is empty and renders nothing.
type WildfireReport struct {
	Query   WildfireQuery    `json:"query"`
	Summary *WildfireSummary `json:"summary,omitempty"`
	Panels  []Panel          `json:"panels"`
}

// Empty reports whether there is nothing to render
func (r *WildfireReport) Empty() bool {
	return r.Summary == nil
}

// WildfireService computes the wildfire dashboard from the loaded dataset
type WildfireService struct {
	data  *frame.Frame
	years []int
}

// NewWildfireService derives Month and Year from Date and validates the
// columns the dashboard reads. The frame is not modified afterwards.
func NewWildfireService(raw *frame.Frame) (*WildfireService, error) {
	if raw == nil {
		return nil, errors.DatasetInvalid("wildfire dataset is nil")
	}
	if err := raw.Require(ColRegion, ColDate, ColFireArea, ColBrightness, ColPixelCount); err != nil {
		return nil, errors.Wrap(err, "wildfire dataset")
	}
	data, err := frame.DeriveCalendar(raw, ColDate)
	if err != nil {
		return nil, errors.Wrap(err, "wildfire dataset")
	}
	for _, col := range []string{ColFireArea, ColBrightness, ColPixelCount} {
		if _, err := data.Floats(col); err != nil {
			return nil, errors.Wrap(errors.DatasetInvalid(err.Error()), "wildfire dataset")
		}
	}
	years, err := yearsOf(data)
	if err != nil {
		return nil, errors.Wrap(err, "wildfire dataset")
	}
	return &WildfireService{data: data, years: years}, nil
}

// Rows returns the number of records held
func (s *WildfireService) Rows() int {
	return s.data.Len()
}

// Profile describes the numeric columns of the loaded dataset
func (s *WildfireService) Profile() ([]profiling.ColumnProfile, error) {
	return profiling.Describe(s.data)
}

// Regions returns the region radio options
func (s *WildfireService) Regions() []Option {
	return Regions
}

// Years returns the years present in the dataset, ascending
func (s *WildfireService) Years() []int {
	return append([]int(nil), s.years...)
}

// DefaultQuery is the selection shown on first load
func (s *WildfireService) DefaultQuery() WildfireQuery {
	q := WildfireQuery{Region: DefaultRegion, Year: DefaultYear}
	if len(s.years) > 0 && !containsInt(s.years, DefaultYear) {
		q.Year = s.years[0]
	}
	return q
}

// Report filters the records of one region and year and aggregates them
// by calendar month. Missing selectors yield an empty report.
func (s *WildfireService) Report(ctx context.Context, q WildfireQuery) (*WildfireReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report := &WildfireReport{Query: q}
	if q.Region == "" || q.Year <= 0 {
		return report, nil
	}

	rows, err := s.data.Filter(ctx, frame.Eq(ColRegion, q.Region), frame.Eq(ColYear, strconv.Itoa(q.Year)))
	if err != nil {
		return nil, errors.Wrap(err, "select region and year")
	}

	summary, err := summarize(rows, q)
	if err != nil {
		return nil, err
	}
	report.Summary = summary

	area, err := rows.GroupBy(ColMonth).Agg(ColFireArea, frame.Mean)
	if err != nil {
		return nil, errors.Wrap(err, "monthly fire area")
	}
	area = area.OrderBy(frame.MonthOrder)

	pixels, err := rows.GroupBy(ColMonth).Agg(ColPixelCount, frame.Mean)
	if err != nil {
		return nil, errors.Wrap(err, "monthly pixel count")
	}
	pixels = pixels.OrderBy(frame.MonthOrder)

	report.Panels = []Panel{
		panel(chart.Line(chart.Options{
			ID:    "monthly-fire-area",
			Title: fmt.Sprintf("%s : Monthly Average Estimated Fire Area in year %d", q.Region, q.Year),
		}, area), area),
		panel(chart.Bar(chart.Options{
			ID:    "monthly-pixel-count",
			Title: fmt.Sprintf("%s : Average Count of Pixels for Presumed Vegetation Fires in year %d", q.Region, q.Year),
		}, pixels), pixels),
	}
	return report, nil
}

func summarize(rows *frame.Frame, q WildfireQuery) (*WildfireSummary, error) {
	area, err := rows.Floats(ColFireArea)
	if err != nil {
		return nil, err
	}
	count, err := rows.Floats(ColPixelCount)
	if err != nil {
		return nil, err
	}
	brightness, err := rows.Floats(ColBrightness)
	if err != nil {
		return nil, err
	}

	summary := &WildfireSummary{
		Region:          q.Region,
		Year:            q.Year,
		Records:         rows.Len(),
		TotalFireArea:   floats.Sum(dropNaN(area)),
		TotalPixelCount: floats.Sum(dropNaN(count)),
		AvgBrightness:   math.NaN(),
	}
	if b := dropNaN(brightness); len(b) > 0 {
		summary.AvgBrightness = stat.Mean(b, nil)
	}
	return summary, nil
}

func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
