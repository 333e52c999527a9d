package frame

import (
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/rocketlaunchr/dataframe-go"

	"dashviz/internal/errors"
)

// Reducer collapses the numeric values of one group to a single number.
// NaN cells are dropped before the reducer runs.
type Reducer struct {
	Name   string
	reduce func(stats.Float64Data) (float64, error)
}

var (
	// Mean of the group; NaN for a group with no numeric values
	Mean = Reducer{Name: "mean", reduce: func(d stats.Float64Data) (float64, error) {
		if len(d) == 0 {
			return math.NaN(), nil
		}
		return stats.Mean(d)
	}}

	// Sum of the group; 0 for a group with no numeric values
	Sum = Reducer{Name: "sum", reduce: func(d stats.Float64Data) (float64, error) {
		if len(d) == 0 {
			return 0, nil
		}
		return stats.Sum(d)
	}}

	// Count of non-empty numeric values in the group
	Count = Reducer{Name: "count", reduce: func(d stats.Float64Data) (float64, error) {
		return float64(d.Len()), nil
	}}
)

// Grouping is a pending group-by over one or more key columns
type Grouping struct {
	frame *Frame
	keys  []string
}

// GroupBy starts a group-by over the named key columns
func (f *Frame) GroupBy(keys ...string) *Grouping {
	return &Grouping{frame: f, keys: keys}
}

// SummaryRow is one group of a Summary
type SummaryRow struct {
	Key   []string `json:"key"`
	Value float64  `json:"value"`
	N     int      `json:"n"`
}

// Label joins the key parts with " / "
func (r SummaryRow) Label() string {
	return strings.Join(r.Key, " / ")
}

// Summary is the small per-group table produced by Agg. Rows are sorted by
// key unless OrderBy imposed another order.
type Summary struct {
	Keys    []string     `json:"keys"`
	Column  string       `json:"column"`
	Reducer string       `json:"reducer"`
	Rows    []SummaryRow `json:"rows"`
}

// Agg reduces valueCol within every group. Rows with an empty key are
// dropped, so no empty group is ever produced.
func (g *Grouping) Agg(valueCol string, r Reducer) (*Summary, error) {
	if len(g.keys) == 0 {
		return nil, errors.InvalidInput("group-by needs at least one key column")
	}
	keyCols := make([]dataframe.Series, len(g.keys))
	for i, k := range g.keys {
		col, err := g.frame.series(k)
		if err != nil {
			return nil, err
		}
		keyCols[i] = col
	}
	if _, err := g.frame.series(valueCol); err != nil {
		return nil, err
	}
	// a frame built with no rows has no numeric columns
	n := g.frame.Len()
	var values []float64
	if n > 0 {
		nums, err := g.frame.numbers(valueCol)
		if err != nil {
			return nil, err
		}
		values = nums
	}

	type bucket struct {
		key    []string
		values stats.Float64Data
		n      int
	}
	buckets := make(map[string]*bucket)
	var order []*bucket

rows:
	for i := 0; i < n; i++ {
		key := make([]string, len(keyCols))
		for j, col := range keyCols {
			key[j] = cell(col, i)
			if key[j] == "" {
				continue rows
			}
		}
		id := strings.Join(key, "\x00")
		b, ok := buckets[id]
		if !ok {
			b = &bucket{key: key}
			buckets[id] = b
			order = append(order, b)
		}
		b.n++
		if v := values[i]; !math.IsNaN(v) {
			b.values = append(b.values, v)
		}
	}

	out := &Summary{Keys: append([]string(nil), g.keys...), Column: valueCol, Reducer: r.Name}
	for _, b := range order {
		v, err := r.reduce(b.values)
		if err != nil {
			return nil, errors.Wrapf(err, "%s of %q", r.Name, valueCol)
		}
		out.Rows = append(out.Rows, SummaryRow{Key: b.key, Value: v, N: b.n})
	}
	sort.SliceStable(out.Rows, func(a, b int) bool {
		return keyLess(out.Rows[a].Key, out.Rows[b].Key)
	})
	return out, nil
}

func keyLess(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] == b[i] {
			continue
		}
		return naturalLess(a[i], b[i])
	}
	return len(a) < len(b)
}

// Len returns the number of groups
func (s *Summary) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

// Labels returns the joined key of every group
func (s *Summary) Labels() []string {
	out := make([]string, s.Len())
	for i, r := range s.Rows {
		out[i] = r.Label()
	}
	return out
}

// Values returns the reduced value of every group
func (s *Summary) Values() []float64 {
	out := make([]float64, s.Len())
	for i, r := range s.Rows {
		out[i] = r.Value
	}
	return out
}

// OrderBy returns a copy whose rows follow the given order of first-key
// values. Keys missing from categories keep their relative order and go last.
func (s *Summary) OrderBy(categories []string) *Summary {
	pos := make(map[string]int, len(categories))
	for i, c := range categories {
		pos[c] = i
	}
	rank := func(r SummaryRow) int {
		if p, ok := pos[r.Key[0]]; ok {
			return p
		}
		return len(categories)
	}

	out := *s
	out.Rows = append([]SummaryRow(nil), s.Rows...)
	sort.SliceStable(out.Rows, func(a, b int) bool {
		return rank(out.Rows[a]) < rank(out.Rows[b])
	})
	return &out
}
