package chart

import (
	"testing"

	"dashviz/domain/frame"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summary(t *testing.T, keys []string, value string, r frame.Reducer, headers []string, rows [][]string) *frame.Summary {
	t.Helper()
	f, err := frame.New(headers, rows)
	require.NoError(t, err)
	s, err := f.GroupBy(keys...).Agg(value, r)
	require.NoError(t, err)
	return s
}

func TestLineNumericKeys(t *testing.T) {
	s := summary(t, []string{"Year"}, "Sales", frame.Mean,
		[]string{"Year", "Sales"},
		[][]string{{"1981", "4"}, {"1980", "2"}, {"1980", "4"}})

	spec := Line(Options{ID: "yearly", Title: "Yearly"}, s)

	assert.Equal(t, KindLine, spec.Kind)
	assert.False(t, spec.Categorical)
	assert.Equal(t, "Year", spec.XLabel)
	assert.Equal(t, "Sales", spec.YLabel)
	require.Len(t, spec.Series, 1)
	assert.Equal(t, []Point{{Label: "1980", X: 1980, Y: 3}, {Label: "1981", X: 1981, Y: 4}}, spec.Series[0].Points)
	assert.False(t, spec.Empty())
}

func TestLineCategoricalKeepsSummaryOrder(t *testing.T) {
	s := summary(t, []string{"Month"}, "Area", frame.Mean,
		[]string{"Month", "Area"},
		[][]string{{"March", "3"}, {"January", "1"}, {"February", ""}}).OrderBy(frame.MonthOrder)

	spec := Line(Options{ID: "area"}, s)

	assert.True(t, spec.Categorical)
	assert.Equal(t, []string{"January", "March"}, spec.Labels(), "NaN mean is dropped")
	assert.Equal(t, 0.0, spec.Series[0].Points[0].X)
	assert.Equal(t, 1.0, spec.Series[0].Points[1].X)
}

func TestBarIsAlwaysCategorical(t *testing.T) {
	s := summary(t, []string{"Year"}, "Sales", frame.Sum,
		[]string{"Year", "Sales"},
		[][]string{{"1990", "1"}, {"1991", "2"}})

	spec := Bar(Options{XLabel: "Year of sale"}, s)
	assert.True(t, spec.Categorical)
	assert.Equal(t, "Year of sale", spec.XLabel)
	assert.Equal(t, 1.0, spec.Series[0].Points[1].X)
}

func TestPieDropsNonPositive(t *testing.T) {
	s := summary(t, []string{"Type"}, "Spend", frame.Sum,
		[]string{"Type", "Spend"},
		[][]string{{"SUV", "10"}, {"Mediumfamilycar", "0"}, {"Sports", "-1"}, {"Superminicar", "5"}})

	spec := Pie(Options{}, s)
	assert.Equal(t, []string{"SUV", "Superminicar"}, spec.Labels())
	assert.Equal(t, 1.0, spec.Series[0].Points[1].X)
}

func TestGroupedSplitsSeriesByFirstKey(t *testing.T) {
	s := summary(t, []string{"Type", "Rate"}, "Sales", frame.Mean,
		[]string{"Type", "Rate", "Sales"},
		[][]string{
			{"SUV", "5.5", "10"},
			{"Sports", "2.1", "3"},
			{"SUV", "2.1", "20"},
			{"SUV", "2.1", "40"},
		})

	spec := Grouped(Options{ID: "unemployment"}, s)

	assert.Equal(t, KindStackedBar, spec.Kind)
	assert.Equal(t, "Rate", spec.XLabel)
	require.Len(t, spec.Series, 2)
	assert.Equal(t, "SUV", spec.Series[0].Name)
	assert.Equal(t, []Point{{Label: "2.1", X: 2.1, Y: 30}, {Label: "5.5", X: 5.5, Y: 10}}, spec.Series[0].Points)
	assert.Equal(t, "Sports", spec.Series[1].Name)
}

func TestEmpty(t *testing.T) {
	assert.True(t, Spec{}.Empty())
	assert.True(t, Line(Options{}, nil).Empty())
	assert.True(t, Grouped(Options{}, nil).Empty())
	assert.True(t, Spec{Series: []Series{{Name: "x"}}}.Empty())
}
