package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2005-01-04", "1/4/2005", "2005-01-04 00:00:00", "2005-01-04T00:00:00Z", "2005/01/04"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, 2005, got.Year(), in)
		assert.Equal(t, time.January, got.Month(), in)
		assert.Equal(t, 4, got.Day(), in)
	}

	_, err := ParseDate("yesterday")
	assert.Error(t, err)
}

func TestNormalizeMonth(t *testing.T) {
	cases := map[string]string{
		"Jan":       "January",
		"jan":       "January",
		"SEPT":      "September",
		"September": "September",
		"12":        "December",
		" May ":     "May",
	}
	for in, want := range cases {
		got, ok := NormalizeMonth(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "Ju", "13", "0", "Smarch"} {
		_, ok := NormalizeMonth(in)
		assert.False(t, ok, in)
	}
}

func TestDeriveCalendarFromDate(t *testing.T) {
	f, err := New([]string{"Date", "Count"}, [][]string{
		{"2005-01-04", "1"},
		{"2011-07-30", "2"},
		{"not a date", "3"},
	})
	require.NoError(t, err)

	out, err := DeriveCalendar(f, "Date")
	require.NoError(t, err)

	months, _ := out.Strings("Month")
	years, _ := out.Strings("Year")
	assert.Equal(t, []string{"January", "July", ""}, months)
	assert.Equal(t, []string{"2005", "2011", ""}, years)
	assert.False(t, f.Has("Month"), "input frame is not mutated")

	yearNums, err := out.Floats("Year")
	require.NoError(t, err)
	assert.Equal(t, 2011.0, yearNums[1])
}

func TestDeriveCalendarNormalisesExistingMonth(t *testing.T) {
	f, err := New([]string{"Date", "Year", "Month"}, [][]string{
		{"1/31/1980", "1980", "Jan"},
		{"2/29/1980", "1980", "???"},
	})
	require.NoError(t, err)

	out, err := DeriveCalendar(f, "Date")
	require.NoError(t, err)

	months, _ := out.Strings("Month")
	assert.Equal(t, []string{"January", "February"}, months)
	assert.Equal(t, f.Columns(), out.Columns())
}

func TestDeriveCalendarMissingColumn(t *testing.T) {
	f, err := New([]string{"a"}, nil)
	require.NoError(t, err)
	_, err = DeriveCalendar(f, "Date")
	assert.Error(t, err)
}
