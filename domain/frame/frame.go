// Package frame holds the in-memory tabular dataset behind a dashboard and
// the filter/group/reduce operations the dashboards run on it.
//
// A Frame wraps a dataframe-go DataFrame and is immutable once built:
// Filter and WithColumn return new frames. Numeric columns are held as
// float64 series, everything else as string series.
package frame

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rocketlaunchr/dataframe-go"

	"dashviz/internal/errors"
)

// Frame is an immutable, column-oriented table
type Frame struct {
	df    *dataframe.DataFrame
	index map[string]int
}

func wrap(df *dataframe.DataFrame) *Frame {
	f := &Frame{df: df, index: make(map[string]int, len(df.Series))}
	for i, s := range df.Series {
		f.index[s.Name()] = i
	}
	return f
}

// newSeries stores a column as float64 when every non-empty cell parses as
// a number and at least one does; empty cells become missing values.
func newSeries(name string, values []string) dataframe.Series {
	vals := make([]interface{}, len(values))
	numeric, seen := true, false
	for i, v := range values {
		if v == "" {
			continue
		}
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			numeric = false
			break
		}
		vals[i] = x
		seen = true
	}
	if numeric && seen {
		return dataframe.NewSeriesFloat64(name, nil, vals...)
	}

	for i, v := range values {
		if v == "" {
			vals[i] = nil
		} else {
			vals[i] = v
		}
	}
	return dataframe.NewSeriesString(name, nil, vals...)
}

// cell returns the canonical text of row i. Numeric cells are normalised
// so "2005" and "2005.0" read the same; missing cells are "".
func cell(s dataframe.Series, i int) string {
	switch s := s.(type) {
	case *dataframe.SeriesFloat64:
		v := s.Values[i]
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *dataframe.SeriesString:
		if p, ok := s.Value(i).(string); ok {
			return p
		}
	}
	return ""
}

// New builds a frame from a header row and data rows. Short rows are
// padded with empty cells and extra cells are ignored. Blank header names
// become column_<n>.
func New(headers []string, rows [][]string) (*Frame, error) {
	if len(headers) == 0 {
		return nil, errors.DatasetInvalid("dataset has no columns")
	}

	names := make([]string, len(headers))
	seen := make(map[string]bool, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i)
		}
		if seen[name] {
			return nil, errors.DatasetInvalid(fmt.Sprintf("duplicate column %q", name))
		}
		seen[name] = true
		names[i] = name
	}

	raw := make([][]string, len(names))
	for j := range raw {
		raw[j] = make([]string, len(rows))
	}
	for i, row := range rows {
		for j := range names {
			if j < len(row) {
				raw[j][i] = strings.TrimSpace(row[j])
			}
		}
	}

	series := make([]dataframe.Series, len(names))
	for j, name := range names {
		series[j] = newSeries(name, raw[j])
	}
	return wrap(dataframe.NewDataFrame(series...)), nil
}

// Len returns the number of rows
func (f *Frame) Len() int {
	return f.df.NRows()
}

// Columns returns the column names in header order
func (f *Frame) Columns() []string {
	out := make([]string, len(f.df.Series))
	for i, s := range f.df.Series {
		out[i] = s.Name()
	}
	return out
}

// Has reports whether the frame has the named column
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Require returns a DATASET_INVALID error naming the first missing column
func (f *Frame) Require(names ...string) error {
	for _, name := range names {
		if !f.Has(name) {
			return errors.DatasetInvalid(fmt.Sprintf("missing column %q", name))
		}
	}
	return nil
}

func (f *Frame) series(name string) (dataframe.Series, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("column %q", name))
	}
	return f.df.Series[i], nil
}

// numbers returns the float64 storage of a numeric column without copying
func (f *Frame) numbers(name string) ([]float64, error) {
	s, err := f.series(name)
	if err != nil {
		return nil, err
	}
	fs, ok := s.(*dataframe.SeriesFloat64)
	if !ok {
		return nil, errors.InvalidInput(fmt.Sprintf("column %q is not numeric", name))
	}
	return fs.Values, nil
}

// Strings returns the cell text of a column
func (f *Frame) Strings(name string) ([]string, error) {
	s, err := f.series(name)
	if err != nil {
		return nil, err
	}
	n := s.NRows()
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = cell(s, i)
	}
	return out, nil
}

// Floats returns a copy of a numeric column; empty cells are NaN
func (f *Frame) Floats(name string) ([]float64, error) {
	values, err := f.numbers(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out, nil
}

// Value returns the cell at row i, or "" when out of range
func (f *Frame) Value(i int, name string) string {
	s, err := f.series(name)
	if err != nil || i < 0 || i >= s.NRows() {
		return ""
	}
	return cell(s, i)
}

// Unique returns the distinct non-empty keys of a column in natural order
func (f *Frame) Unique(name string) ([]string, error) {
	values, err := f.Strings(name)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	var out []string
	for _, k := range values {
		if k == "" || set[k] {
			continue
		}
		set[k] = true
		out = append(out, k)
	}
	sort.SliceStable(out, func(a, b int) bool { return naturalLess(out[a], out[b]) })
	return out, nil
}

// WithColumn returns a new frame with the column added, or replaced in
// place when the name already exists. Other columns are shared.
func (f *Frame) WithColumn(name string, values []string) (*Frame, error) {
	if n := f.Len(); len(values) != n {
		return nil, errors.InvalidInput(fmt.Sprintf("column %q has %d values, frame has %d rows", name, len(values), n))
	}

	added := newSeries(name, values)
	series := make([]dataframe.Series, 0, len(f.df.Series)+1)
	for _, s := range f.df.Series {
		if s.Name() == name {
			series = append(series, added)
			added = nil
			continue
		}
		series = append(series, s)
	}
	if added != nil {
		series = append(series, added)
	}
	return wrap(dataframe.NewDataFrame(series...)), nil
}

// Predicate selects rows for Filter. It is bound to a frame once, before
// any row is tested.
type Predicate func(f *Frame) func(row int) bool

func none(int) bool { return false }

// Eq matches rows whose cell equals value. On numeric columns a numeric
// value compares as a number, so Eq("Year", "2005") matches "2005.0".
func Eq(name, value string) Predicate {
	want, numErr := strconv.ParseFloat(strings.TrimSpace(value), 64)
	return func(f *Frame) func(int) bool {
		s, err := f.series(name)
		if err != nil {
			return none
		}
		if fs, ok := s.(*dataframe.SeriesFloat64); ok && numErr == nil {
			return func(row int) bool { return fs.Values[row] == want }
		}
		return func(row int) bool { return cell(s, row) == value }
	}
}

// EqFloat matches rows whose numeric cell equals v
func EqFloat(name string, v float64) Predicate {
	return func(f *Frame) func(int) bool {
		values, err := f.numbers(name)
		if err != nil {
			return none
		}
		return func(row int) bool { return values[row] == v }
	}
}

// In matches rows whose cell equals any of values
func In(name string, values ...string) Predicate {
	return func(f *Frame) func(int) bool {
		tests := make([]func(int) bool, len(values))
		for i, v := range values {
			tests[i] = Eq(name, v)(f)
		}
		return func(row int) bool {
			for _, t := range tests {
				if t(row) {
					return true
				}
			}
			return false
		}
	}
}

// Filter returns a new frame holding the rows that satisfy every predicate
func (f *Frame) Filter(ctx context.Context, preds ...Predicate) (*Frame, error) {
	tests := make([]func(int) bool, len(preds))
	for i, p := range preds {
		tests[i] = p(f)
	}

	keep := dataframe.FilterDataFrameFn(func(_ map[interface{}]interface{}, row, _ int) (dataframe.FilterAction, error) {
		for _, t := range tests {
			if !t(row) {
				return dataframe.DROP, nil
			}
		}
		return dataframe.KEEP, nil
	})
	out, err := dataframe.Filter(ctx, f.df, keep)
	if err != nil {
		return nil, errors.Wrap(err, "filter rows")
	}
	return wrap(out.(*dataframe.DataFrame)), nil
}

// naturalLess orders numbers numerically and everything else lexically;
// numbers sort before text.
func naturalLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return fa < fb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
