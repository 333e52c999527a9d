package frame

import (
	"context"
	"math"
	"testing"

	"dashviz/internal/errors"

	"github.com/rocketlaunchr/dataframe-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fires(t *testing.T) *Frame {
	t.Helper()
	f, err := New(
		[]string{"Region", "Date", "Estimated_fire_area", "Count"},
		[][]string{
			{"NSW", "2005-03-04", "10", "4"},
			{"NSW", "2005-01-04", "2", "1"},
			{"VI", "2005-01-05", "7", "3"},
			{"NSW", "2005-01-09", "4", ""},
			{"NSW", "2006-01-01", "100", "9"},
			{" NSW ", "2005-12-30", "1.5", "2"},
		},
	)
	require.NoError(t, err)
	return f
}

func TestNewDetectsNumericColumns(t *testing.T) {
	f := fires(t)

	assert.Equal(t, 6, f.Len())
	assert.Equal(t, []string{"Region", "Date", "Estimated_fire_area", "Count"}, f.Columns())

	counts, err := f.Floats("Count")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(counts[3]), "empty cell becomes NaN")

	_, err = f.Floats("Region")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = f.Strings("Missing")
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))

	assert.Equal(t, "NSW", f.Value(5, "Region"), "cells are trimmed")
	assert.Equal(t, "", f.Value(99, "Region"))
}

func TestNewRejectsBadHeaders(t *testing.T) {
	_, err := New(nil, nil)
	assert.Equal(t, errors.CodeDatasetInvalid, errors.GetCode(err))

	_, err = New([]string{"a", "a"}, nil)
	assert.Equal(t, errors.CodeDatasetInvalid, errors.GetCode(err))

	f, err := New([]string{"", "b"}, [][]string{{"1"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"column_0", "b"}, f.Columns())
	assert.Equal(t, "", f.Value(0, "b"), "short rows are padded")
}

func filter(t *testing.T, f *Frame, preds ...Predicate) *Frame {
	t.Helper()
	out, err := f.Filter(context.Background(), preds...)
	require.NoError(t, err)
	return out
}

func TestFilterDoesNotMutate(t *testing.T) {
	f := fires(t)

	nsw := filter(t, f, Eq("Region", "NSW"))
	assert.Equal(t, 5, nsw.Len())
	assert.Equal(t, 6, f.Len())

	none := filter(t, f, Eq("Region", "WA"))
	assert.Equal(t, 0, none.Len())

	both := filter(t, f, Eq("Region", "NSW"), EqFloat("Count", 1))
	assert.Equal(t, 1, both.Len())
	assert.Equal(t, "2005-01-04", both.Value(0, "Date"))

	either := filter(t, f, In("Region", "VI", "WA"))
	assert.Equal(t, 1, either.Len())

	assert.Equal(t, 0, filter(t, f, Eq("Nope", "x")).Len())
	assert.Equal(t, 0, filter(t, f, EqFloat("Region", 1)).Len(), "text column never equals a number")
}

func TestFilterHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fires(t).Filter(ctx, Eq("Region", "NSW"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFrameIsBackedByTypedSeries(t *testing.T) {
	f := fires(t)

	area, err := f.series("Estimated_fire_area")
	require.NoError(t, err)
	assert.IsType(t, &dataframe.SeriesFloat64{}, area)

	region, err := f.series("Region")
	require.NoError(t, err)
	assert.IsType(t, &dataframe.SeriesString{}, region)

	nsw := filter(t, f, Eq("Region", "NSW"))
	kept, err := nsw.series("Count")
	require.NoError(t, err)
	assert.IsType(t, &dataframe.SeriesFloat64{}, kept, "filtering keeps column types")
	assert.Equal(t, f.Columns(), nsw.Columns())
}

func TestEqComparesNumbersNumerically(t *testing.T) {
	f, err := New([]string{"Year"}, [][]string{{"2005.0"}, {"2005"}, {"2006"}})
	require.NoError(t, err)

	assert.Equal(t, 2, filter(t, f, Eq("Year", "2005")).Len())
	assert.Equal(t, "2005", f.Value(0, "Year"))

	years, err := f.Unique("Year")
	require.NoError(t, err)
	assert.Equal(t, []string{"2005", "2006"}, years)
}

func TestWithColumn(t *testing.T) {
	f := fires(t)

	_, err := f.WithColumn("X", []string{"1"})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	g, err := f.WithColumn("Flag", []string{"1", "0", "1", "0", "1", "0"})
	require.NoError(t, err)
	assert.True(t, g.Has("Flag"))
	assert.False(t, f.Has("Flag"))

	h, err := g.WithColumn("Region", []string{"a", "b", "c", "d", "e", "f"})
	require.NoError(t, err)
	assert.Equal(t, g.Columns(), h.Columns(), "replacing keeps column position")
	assert.Equal(t, "NSW", g.Value(0, "Region"))
	assert.Equal(t, "a", h.Value(0, "Region"))
}

func TestUniqueNaturalOrder(t *testing.T) {
	f, err := New([]string{"k"}, [][]string{{"10"}, {"9"}, {"b"}, {"a"}, {""}, {"9"}})
	require.NoError(t, err)

	got, err := f.Unique("k")
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "10", "a", "b"}, got)
}

func TestRequire(t *testing.T) {
	f := fires(t)
	assert.NoError(t, f.Require("Region", "Date"))
	err := f.Require("Region", "Brightness")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Brightness")
}
