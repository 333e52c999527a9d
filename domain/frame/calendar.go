package frame

import (
	"strconv"
	"strings"
	"time"

	"dashviz/internal/errors"
)

// MonthOrder is the calendar order used for every month-keyed series
var MonthOrder = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2-Jan-06",
}

// ParseDate parses the date formats seen in the dashboard datasets
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.InvalidInput("unrecognised date " + strconv.Quote(s))
}

// MonthName returns the full English month name of t
func MonthName(t time.Time) string {
	return t.Month().String()
}

// NormalizeMonth maps "Jan", "jan", "January" or "1" to "January"
func NormalizeMonth(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return MonthOrder[n-1], true
		}
		return "", false
	}
	if len(s) < 3 {
		return "", false
	}
	lower := strings.ToLower(s)
	for _, m := range MonthOrder {
		full := strings.ToLower(m)
		if lower == full || (len(lower) <= len(full) && strings.HasPrefix(full, lower)) {
			return m, true
		}
	}
	return "", false
}

// DeriveCalendar adds Month (full name) and Year columns computed from
// dateCol. An existing Month column is normalised to full names, falling
// back to the date when a value is not recognised; an existing Year column
// is kept as is.
func DeriveCalendar(f *Frame, dateCol string) (*Frame, error) {
	dates, err := f.Strings(dateCol)
	if err != nil {
		return nil, errors.Wrapf(err, "derive calendar columns")
	}

	months := make([]string, f.Len())
	years := make([]string, f.Len())
	var existing []string
	if f.Has("Month") {
		existing, _ = f.Strings("Month")
	}

	for i, raw := range dates {
		t, parseErr := ParseDate(raw)
		if parseErr == nil {
			months[i] = MonthName(t)
			years[i] = strconv.Itoa(t.Year())
		}
		if existing != nil {
			if m, ok := NormalizeMonth(existing[i]); ok {
				months[i] = m
			}
		}
	}

	out, err := f.WithColumn("Month", months)
	if err != nil {
		return nil, err
	}
	if !f.Has("Year") {
		out, err = out.WithColumn("Year", years)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
