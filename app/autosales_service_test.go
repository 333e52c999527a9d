package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashviz/domain/chart"
	"dashviz/domain/frame"
)

func fixtureAutoSales(t *testing.T) *AutoSalesService {
	t.Helper()
	f, err := frame.New(
		[]string{"Date", "Year", "Month", "Recession", "Automobile_Sales", "Vehicle_Type", "Advertising_Expenditure", "unemployment_rate"},
		[][]string{
			{"3/31/1980", "1980", "Mar", "1", "100", "Supperminicar", "1000", "5.5"},
			{"1/31/1980", "1980", "Jan", "1", "300", "Sports", "3000", "5.5"},
			{"2/29/1980", "1980", "Feb", "1", "200", "Supperminicar", "2000", "6.1"},
			{"1/31/1981", "1981", "Jan", "0", "400", "Sports", "500", "3.2"},
			{"12/31/1981", "1981", "Dec", "0", "600", "Mediumfamilycar", "700", "3.0"},
			{"11/30/1981", "1981", "Nov", "0", "200", "Sports", "0", "3.0"},
		})
	require.NoError(t, err)
	svc, err := NewAutoSalesService(f)
	require.NoError(t, err)
	return svc
}

func TestYearSelectorDisabled(t *testing.T) {
	assert.False(t, YearSelectorDisabled(StatisticsYearly))
	assert.True(t, YearSelectorDisabled(StatisticsRecession))
	assert.True(t, YearSelectorDisabled(""))
	assert.True(t, YearSelectorDisabled("Monthly Statistics"))
}

func TestAutoSalesYears(t *testing.T) {
	years := fixtureAutoSales(t).Years()
	require.Len(t, years, 44)
	assert.Equal(t, 1980, years[0])
	assert.Equal(t, 2023, years[len(years)-1])
}

func TestRecessionReport(t *testing.T) {
	svc := fixtureAutoSales(t)

	report, err := svc.Report(context.Background(), AutoSalesQuery{Statistics: StatisticsRecession})
	require.NoError(t, err)
	require.Len(t, report.Panels, 4)

	yearly := report.Panels[0].Chart
	assert.Equal(t, "Average Automobile Sales Fluctuation Over Recession Period", yearly.Title)
	assert.Equal(t, chart.KindLine, yearly.Kind)
	assert.Equal(t, []chart.Point{{Label: "1980", X: 1980, Y: 200}}, yearly.Series[0].Points)

	byType := report.Panels[1].Chart
	assert.Equal(t, "Average Number of Vehicles Sold by Vehicle Type", byType.Title)
	assert.Equal(t, []string{"Sports", "Supperminicar"}, byType.Labels())
	assert.Equal(t, 300.0, byType.Series[0].Points[0].Y)
	assert.Equal(t, 150.0, byType.Series[0].Points[1].Y)

	spend := report.Panels[2].Chart
	assert.Equal(t, chart.KindPie, spend.Kind)
	assert.Equal(t, "Total Expenditure Share by Vehicle Type During Recessions", spend.Title)
	assert.Equal(t, 3000.0, spend.Series[0].Points[0].Y)
	assert.Equal(t, 3000.0, spend.Series[0].Points[1].Y)

	unemployment := report.Panels[3].Chart
	assert.Equal(t, "Effect of Unemployment Rate on Vehicle Type and Sales", unemployment.Title)
	assert.Equal(t, "Unemployment Rate", unemployment.XLabel)
	assert.Equal(t, "Average Automobile Sales", unemployment.YLabel)
	require.Len(t, unemployment.Series, 2)
	assert.Equal(t, "Sports", unemployment.Series[0].Name)
	assert.Equal(t, "Supperminicar", unemployment.Series[1].Name)
	assert.Len(t, unemployment.Series[1].Points, 2)
}

func TestRecessionReportIgnoresYear(t *testing.T) {
	svc := fixtureAutoSales(t)

	without, err := svc.Report(context.Background(), AutoSalesQuery{Statistics: StatisticsRecession})
	require.NoError(t, err)
	with, err := svc.Report(context.Background(), AutoSalesQuery{Statistics: StatisticsRecession, Year: 1981})
	require.NoError(t, err)

	assert.Equal(t, without.Panels, with.Panels)
}

func TestYearlyReport(t *testing.T) {
	svc := fixtureAutoSales(t)

	report, err := svc.Report(context.Background(), AutoSalesQuery{Statistics: StatisticsYearly, Year: 1981})
	require.NoError(t, err)
	require.Len(t, report.Panels, 4)

	yearly := report.Panels[0].Chart
	assert.Equal(t, "Yearly Automobile Sales", yearly.Title)
	assert.Equal(t, []string{"1980", "1981"}, yearly.Labels(), "whole table, not just the selected year")

	monthly := report.Panels[1].Chart
	assert.Equal(t, "Total Monthly Automobile Sales in 1981", monthly.Title)
	assert.Equal(t, chart.KindLine, monthly.Kind)
	assert.Equal(t, []string{"January", "November", "December"}, monthly.Labels())

	byType := report.Panels[2].Chart
	assert.Equal(t, "Average Vehicles Sold by Vehicle Type in 1981", byType.Title)
	assert.Equal(t, []string{"Mediumfamilycar", "Sports"}, byType.Labels())
	assert.Equal(t, 300.0, byType.Series[0].Points[1].Y)

	spend := report.Panels[3].Chart
	assert.Equal(t, "Total Advertisement Expenditure for Each Vehicle in 1981", spend.Title)
	assert.Equal(t, []string{"Mediumfamilycar", "Sports"}, spend.Labels())
}

func TestMonthlySalesFollowCalendarRegardlessOfRowOrder(t *testing.T) {
	svc := fixtureAutoSales(t)

	report, err := svc.Report(context.Background(), AutoSalesQuery{Statistics: StatisticsYearly, Year: 1980})
	require.NoError(t, err)

	monthly := report.Panels[1].Chart
	assert.Equal(t, []string{"January", "February", "March"}, monthly.Labels())
	assert.Equal(t, 300.0, monthly.Series[0].Points[0].Y)
}

func TestAutoSalesUnsupportedCombinationsAreEmpty(t *testing.T) {
	svc := fixtureAutoSales(t)

	for _, q := range []AutoSalesQuery{
		{},
		{Year: 1980},
		{Statistics: StatisticsYearly},
		{Statistics: "Monthly Statistics", Year: 1980},
	} {
		report, err := svc.Report(context.Background(), q)
		require.NoError(t, err)
		assert.True(t, report.Empty(), "query %+v", q)
	}
}

func TestAutoSalesYearWithoutData(t *testing.T) {
	svc := fixtureAutoSales(t)

	report, err := svc.Report(context.Background(), AutoSalesQuery{Statistics: StatisticsYearly, Year: 2023})
	require.NoError(t, err)
	require.Len(t, report.Panels, 4)
	assert.False(t, report.Panels[0].Chart.Empty())
	for _, p := range report.Panels[1:] {
		assert.True(t, p.Chart.Empty())
	}
}

func TestNewAutoSalesServiceRejectsMissingColumns(t *testing.T) {
	f, err := frame.New([]string{"Date", "Year"}, [][]string{{"1/31/1980", "1980"}})
	require.NoError(t, err)

	_, err = NewAutoSalesService(f)
	assert.Error(t, err)
}
