package dispersion

import (
	"errors"
	"math"
	"testing"

	"carestats/domain/core"
	"carestats/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeLengthOfStay(t *testing.T) {
	e := NewDispersionEngine()
	col := dataset.NewNumericColumn("length_of_stay", []float64{1, 2, 2, 3, 4, 100, math.NaN()})

	s, err := e.Summarize(col, Options{Percentiles: []float64{90, 95}})
	require.NoError(t, err)

	assert.Equal(t, 6, s.N)
	assert.Equal(t, 1, s.Missing)
	assert.InDelta(t, 112, s.Sum, 1e-9)
	assert.InDelta(t, 18.666666666666668, s.Mean, 1e-9)
	assert.InDelta(t, 2.5, s.Median, 1e-9)
	require.True(t, s.HasMode())
	assert.Equal(t, 2.0, *s.Mode)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 100.0, s.Max)
	assert.Equal(t, 99.0, s.Range)
	assert.InDelta(t, 2.0, s.Q1, 1e-9)
	assert.InDelta(t, 3.75, s.Q3, 1e-9)
	assert.InDelta(t, 1.75, s.IQR, 1e-9)
	assert.InDelta(t, 1588.6666666666667, s.Variance, 1e-6)
	assert.InDelta(t, 39.85808157283372, s.StdDev, 1e-9)
	assert.Equal(t, PercentileMethod, s.Method)

	require.Len(t, s.Percentiles, 2)
	assert.InDelta(t, 52, s.Percentiles[0].Value, 1e-9)
	assert.InDelta(t, 76, s.Percentiles[1].Value, 1e-9)
}

func TestSummarizeConsistency(t *testing.T) {
	samples := map[string][]float64{
		"single":   {7},
		"constant": {3, 3, 3, 3},
		"negative": {-5, -1, 0, 2, 9, 9, 11},
		"unsorted": {10, 1, 7, 3, 3, 8, 2, 6},
	}

	for name, data := range samples {
		t.Run(name, func(t *testing.T) {
			s, err := Describe(data, []float64{0, 100})
			require.NoError(t, err)

			assert.LessOrEqual(t, s.Q1, s.Median)
			assert.LessOrEqual(t, s.Median, s.Q3)
			assert.GreaterOrEqual(t, s.Range, 0.0)
			assert.GreaterOrEqual(t, s.Variance, 0.0)
			assert.InDelta(t, s.Variance, s.StdDev*s.StdDev, 1e-9)
			assert.Equal(t, s.Min, s.Percentiles[0].Value)
			assert.Equal(t, s.Max, s.Percentiles[1].Value)
		})
	}
}

func TestSingleValueHasZeroSpread(t *testing.T) {
	s, err := Describe([]float64{42}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.Variance)
	assert.Equal(t, 0.0, s.StdDev)
	assert.Equal(t, 42.0, s.Median)
	assert.Nil(t, s.Mode)
}

func TestMode(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want *float64
	}{
		{"all unique", []float64{1, 2, 3}, nil},
		{"clear winner", []float64{5, 1, 5, 2}, ptr(5)},
		{"tie keeps first seen", []float64{3, 2, 2, 3}, ptr(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mode(tt.data))
		})
	}
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	assert.Equal(t, 1.0, Quantile(sorted, 0))
	assert.Equal(t, 4.0, Quantile(sorted, 1))
	assert.InDelta(t, 2.5, Quantile(sorted, 0.5), 1e-12)
	assert.InDelta(t, 1.75, Quantile(sorted, 0.25), 1e-12)
}

func TestSummarizeErrors(t *testing.T) {
	e := NewDispersionEngine()

	_, err := e.Summarize(dataset.NewTextColumn("gender", []string{"F"}), Options{})
	assert.True(t, errors.Is(err, core.ErrColumnTypeMismatch))

	_, err = e.Summarize(dataset.NewNumericColumn("total_charges", []float64{math.NaN()}), Options{})
	assert.True(t, errors.Is(err, core.ErrEmptyColumn))

	_, err = e.Summarize(dataset.NewNumericColumn("age", []float64{1, 2}), Options{Percentiles: []float64{101}})
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func ptr(v float64) *float64 { return &v }
