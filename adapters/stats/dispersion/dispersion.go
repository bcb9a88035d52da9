package dispersion

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"carestats/domain/core"
	"carestats/domain/dataset"
	domainstats "carestats/domain/stats"
)

// PercentileMethod names the quantile rule used for quartiles and percentiles
const PercentileMethod = "linear (Hyndman-Fan type 7)"

// Options controls which extra percentiles are reported
type Options struct {
	Percentiles []float64
}

// DispersionEngine computes central tendency and spread
type DispersionEngine struct{}

// NewDispersionEngine creates a dispersion engine
func NewDispersionEngine() *DispersionEngine {
	return &DispersionEngine{}
}

// Summarize describes the non-missing values of a numeric column.
// Sorting dominates: O(N log N).
func (e *DispersionEngine) Summarize(col dataset.Column, opts Options) (domainstats.DispersionSummary, error) {
	if !col.IsNumeric() {
		return domainstats.DispersionSummary{}, core.NewTypeMismatchError(col.Name(), string(dataset.StorageNumeric), string(col.Storage()))
	}
	data := col.Floats()
	if len(data) == 0 {
		return domainstats.DispersionSummary{}, core.NewEmptyColumnError(col.Name())
	}

	s, err := Describe(data, opts.Percentiles)
	if err != nil {
		return domainstats.DispersionSummary{}, fmt.Errorf("column %q: %w", col.Name(), err)
	}
	s.Column = col.Name()
	s.Missing = col.MissingCount()
	return s, nil
}

// Describe summarizes a non-empty sample. data is not modified.
func Describe(data []float64, percentiles []float64) (domainstats.DispersionSummary, error) {
	if len(data) == 0 {
		return domainstats.DispersionSummary{}, core.ErrEmptyColumn
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	sum, _ := stats.Sum(sorted)
	mean, _ := stats.Mean(sorted)
	median, _ := stats.Median(sorted)

	variance := 0.0
	if len(sorted) > 1 {
		v, err := stats.SampleVariance(sorted)
		if err != nil {
			return domainstats.DispersionSummary{}, err
		}
		variance = v
	}

	lo, hi := sorted[0], sorted[len(sorted)-1]
	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)

	s := domainstats.DispersionSummary{
		N:        len(sorted),
		Sum:      sum,
		Mean:     mean,
		Median:   median,
		Mode:     Mode(data),
		StdDev:   math.Sqrt(variance),
		Variance: variance,
		Min:      lo,
		Max:      hi,
		Range:    hi - lo,
		Q1:       q1,
		Q3:       q3,
		IQR:      q3 - q1,
		Method:   PercentileMethod,
	}
	for _, p := range percentiles {
		if p < 0 || p > 100 {
			return domainstats.DispersionSummary{}, core.NewInvalidInputError("percentiles", fmt.Sprintf("%g is outside [0, 100]", p))
		}
		s.Percentiles = append(s.Percentiles, domainstats.Percentile{P: p, Value: Quantile(sorted, p/100)})
	}
	return s, nil
}

// Quantile interpolates linearly between order statistics at
// h = (n-1)p. sorted must be ascending and non-empty; p in [0, 1].
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// Mode returns the most frequent value, breaking ties by first
// occurrence. It returns nil when no value repeats.
func Mode(data []float64) *float64 {
	counts := make(map[float64]int, len(data))
	top := 0
	for _, v := range data {
		counts[v]++
		if counts[v] > top {
			top = counts[v]
		}
	}
	if top < 2 {
		return nil
	}
	for _, v := range data {
		if counts[v] == top {
			return &v
		}
	}
	return nil
}
