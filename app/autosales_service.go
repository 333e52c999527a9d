package app

import (
	"context"
	"fmt"
	"strconv"

	"dashviz/domain/chart"
	"dashviz/domain/frame"
	"dashviz/internal/errors"
	"dashviz/internal/profiling"
)

// Report types offered by the automobile sales dashboard
const (
	StatisticsYearly    = "Yearly Statistics"
	StatisticsRecession = "Recession Period Statistics"
)

// Automobile sales dataset columns
const (
	ColRecession        = "Recession"
	ColSales            = "Automobile_Sales"
	ColVehicleType      = "Vehicle_Type"
	ColAdvertising      = "Advertising_Expenditure"
	ColUnemploymentRate = "unemployment_rate"
)

// Year dropdown bounds
const (
	FirstSalesYear = 1980
	LastSalesYear  = 2023
)

// StatisticsOptions are the report-type dropdown choices
var StatisticsOptions = []Option{
	{Label: StatisticsYearly, Value: StatisticsYearly},
	{Label: StatisticsRecession, Value: StatisticsRecession},
}

// AutoSalesQuery is the selector state of the automobile sales dashboard
type AutoSalesQuery struct {
	Statistics string `json:"statistics"`
	Year       int    `json:"year"`
}

// AutoSalesReport holds the four charts of one update; no panels means
// an empty output area.
type AutoSalesReport struct {
	Query  AutoSalesQuery `json:"query"`
	Panels []Panel        `json:"panels"`
}

// Empty reports whether there is nothing to render
func (r *AutoSalesReport) Empty() bool {
	return len(r.Panels) == 0
}

// YearSelectorDisabled is true unless the yearly report is selected
func YearSelectorDisabled(statistics string) bool {
	return statistics != StatisticsYearly
}

// AutoSalesService computes the automobile sales dashboard
type AutoSalesService struct {
	data      *frame.Frame
	recession *frame.Frame
}

// NewAutoSalesService validates the dataset and normalises Month to full
// month names. Recession rows are selected once since they never change.
func NewAutoSalesService(raw *frame.Frame) (*AutoSalesService, error) {
	if raw == nil {
		return nil, errors.DatasetInvalid("automobile sales dataset is nil")
	}
	if err := raw.Require(ColDate, ColRecession, ColSales, ColVehicleType, ColAdvertising, ColUnemploymentRate); err != nil {
		return nil, errors.Wrap(err, "automobile sales dataset")
	}
	data, err := frame.DeriveCalendar(raw, ColDate)
	if err != nil {
		return nil, errors.Wrap(err, "automobile sales dataset")
	}
	for _, col := range []string{ColRecession, ColSales, ColAdvertising, ColUnemploymentRate} {
		if _, err := data.Floats(col); err != nil {
			return nil, errors.Wrap(errors.DatasetInvalid(err.Error()), "automobile sales dataset")
		}
	}
	recession, err := data.Filter(context.Background(), frame.EqFloat(ColRecession, 1))
	if err != nil {
		return nil, errors.Wrap(err, "automobile sales dataset")
	}
	return &AutoSalesService{data: data, recession: recession}, nil
}

// Rows returns the number of records held
func (s *AutoSalesService) Rows() int {
	return s.data.Len()
}

// Profile describes the numeric columns of the loaded dataset
func (s *AutoSalesService) Profile() ([]profiling.ColumnProfile, error) {
	return profiling.Describe(s.data)
}

// Statistics returns the report-type options
func (s *AutoSalesService) Statistics() []Option {
	return StatisticsOptions
}

// Years returns the fixed year dropdown range
func (s *AutoSalesService) Years() []int {
	years := make([]int, 0, LastSalesYear-FirstSalesYear+1)
	for y := FirstSalesYear; y <= LastSalesYear; y++ {
		years = append(years, y)
	}
	return years
}

// Report builds the charts for the selected report type. Combinations
// with nothing to show return an empty report and no error.
func (s *AutoSalesService) Report(ctx context.Context, q AutoSalesQuery) (*AutoSalesReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report := &AutoSalesReport{Query: q}

	var (
		panels []Panel
		err    error
	)
	switch {
	case q.Statistics == StatisticsRecession:
		panels, err = s.recessionPanels()
	case q.Statistics == StatisticsYearly && q.Year > 0:
		panels, err = s.yearlyPanels(ctx, q.Year)
	default:
		return report, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s report", q.Statistics)
	}
	report.Panels = panels
	return report, nil
}

func (s *AutoSalesService) recessionPanels() ([]Panel, error) {
	rec := s.recession

	yearly, err := rec.GroupBy(ColYear).Agg(ColSales, frame.Mean)
	if err != nil {
		return nil, err
	}
	byType, err := rec.GroupBy(ColVehicleType).Agg(ColSales, frame.Mean)
	if err != nil {
		return nil, err
	}
	spend, err := rec.GroupBy(ColVehicleType).Agg(ColAdvertising, frame.Sum)
	if err != nil {
		return nil, err
	}
	unemployment, err := rec.GroupBy(ColVehicleType, ColUnemploymentRate).Agg(ColSales, frame.Mean)
	if err != nil {
		return nil, err
	}

	return []Panel{
		panel(chart.Line(chart.Options{
			ID:    "recession-yearly-sales",
			Title: "Average Automobile Sales Fluctuation Over Recession Period",
		}, yearly), yearly),
		panel(chart.Bar(chart.Options{
			ID:    "recession-sales-by-type",
			Title: "Average Number of Vehicles Sold by Vehicle Type",
		}, byType), byType),
		panel(chart.Pie(chart.Options{
			ID:    "recession-ad-spend",
			Title: "Total Expenditure Share by Vehicle Type During Recessions",
		}, spend), spend),
		panel(chart.Grouped(chart.Options{
			ID:     "recession-unemployment",
			Title:  "Effect of Unemployment Rate on Vehicle Type and Sales",
			XLabel: "Unemployment Rate",
			YLabel: "Average Automobile Sales",
		}, unemployment), unemployment),
	}, nil
}

func (s *AutoSalesService) yearlyPanels(ctx context.Context, year int) ([]Panel, error) {
	inYear, err := s.data.Filter(ctx, frame.Eq(ColYear, strconv.Itoa(year)))
	if err != nil {
		return nil, err
	}

	yearly, err := s.data.GroupBy(ColYear).Agg(ColSales, frame.Mean)
	if err != nil {
		return nil, err
	}
	monthly, err := inYear.GroupBy(ColMonth).Agg(ColSales, frame.Sum)
	if err != nil {
		return nil, err
	}
	monthly = monthly.OrderBy(frame.MonthOrder)
	byType, err := inYear.GroupBy(ColVehicleType).Agg(ColSales, frame.Mean)
	if err != nil {
		return nil, err
	}
	spend, err := inYear.GroupBy(ColVehicleType).Agg(ColAdvertising, frame.Sum)
	if err != nil {
		return nil, err
	}

	return []Panel{
		panel(chart.Line(chart.Options{
			ID:    "yearly-sales",
			Title: "Yearly Automobile Sales",
		}, yearly), yearly),
		panel(chart.Line(chart.Options{
			ID:    "monthly-sales",
			Title: fmt.Sprintf("Total Monthly Automobile Sales in %d", year),
		}, monthly), monthly),
		panel(chart.Bar(chart.Options{
			ID:    "sales-by-type",
			Title: fmt.Sprintf("Average Vehicles Sold by Vehicle Type in %d", year),
		}, byType), byType),
		panel(chart.Pie(chart.Options{
			ID:    "ad-spend",
			Title: fmt.Sprintf("Total Advertisement Expenditure for Each Vehicle in %d", year),
		}, spend), spend),
	}, nil
}
