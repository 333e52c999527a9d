// Package profiling describes the numeric columns of a loaded dataset.
package profiling

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"dashviz/domain/frame"
)

// ColumnProfile holds summary statistics for one numeric column. Statistics
// are computed over non-empty cells only.
type ColumnProfile struct {
	Column   string  `json:"column"`
	Count    int     `json:"count"`
	Missing  int     `json:"missing"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Q25      float64 `json:"q25"`
	Median   float64 `json:"median"`
	Q75      float64 `json:"q75"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
	Outliers int     `json:"outliers"`
}

// Describe profiles every numeric column of f in header order. Columns
// whose cells are all empty are skipped.
func Describe(f *frame.Frame) ([]ColumnProfile, error) {
	var out []ColumnProfile
	for _, name := range f.Columns() {
		values, err := f.Floats(name)
		if err != nil {
			continue // not numeric
		}
		data := make([]float64, 0, len(values))
		for _, v := range values {
			if !math.IsNaN(v) {
				data = append(data, v)
			}
		}
		if len(data) == 0 {
			continue
		}
		p, err := analyze(data)
		if err != nil {
			return nil, err
		}
		p.Column = name
		p.Missing = len(values) - len(data)
		out = append(out, p)
	}
	return out, nil
}

func analyze(data []float64) (ColumnProfile, error) {
	p := ColumnProfile{Count: len(data)}
	var err error

	if p.Mean, err = stats.Mean(data); err != nil {
		return p, err
	}
	if p.StdDev, err = stats.StandardDeviationSample(data); err != nil {
		return p, err
	}
	if p.Min, err = stats.Min(data); err != nil {
		return p, err
	}
	if p.Max, err = stats.Max(data); err != nil {
		return p, err
	}
	if p.Median, err = stats.Median(data); err != nil {
		return p, err
	}

	// quartiles use the same linear interpolation as pandas describe()
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	p.Q25 = quantile(sorted, 0.25)
	p.Q75 = quantile(sorted, 0.75)

	if len(data) >= 3 {
		p.Skewness = calculateSkewness(data, p.StdDev)
	}
	p.Outliers = detectOutliers(data, p.Q25, p.Q75)
	if math.IsNaN(p.StdDev) {
		p.StdDev = 0
	}
	return p, nil
}

// quantile interpolates linearly between the closest ranks of sorted
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// calculateSkewness computes the bias-corrected sample skewness. Constant
// columns have zero skew.
func calculateSkewness(data []float64, stdDev float64) float64 {
	if stdDev == 0 || math.IsNaN(stdDev) {
		return 0
	}
	skew := stat.Skew(data, nil)
	if math.IsNaN(skew) || math.IsInf(skew, 0) {
		return 0
	}
	return skew
}

// detectOutliers counts values outside 1.5 IQR of the quartiles
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}
