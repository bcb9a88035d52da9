package rates

import (
	"errors"
	"math"
	"testing"

	"carestats/domain/core"
	"carestats/domain/dataset"
	domainstats "carestats/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRate(t *testing.T) {
	e := NewRateEngine()

	tests := []struct {
		name     string
		num, den float64
		want     float64
		wantErr  error
	}{
		{"readmission", 15, 100, 15, nil},
		{"zero numerator", 0, 40, 0, nil},
		{"fraction", 1, 3, 100.0 / 3.0, nil},
		{"zero denominator", 5, 0, 0, core.ErrDivisionByZero},
		{"negative numerator", -1, 10, 0, core.ErrInvalidInput},
		{"negative denominator", 1, -10, 0, core.ErrInvalidInput},
		{"nan", math.NaN(), 10, 0, core.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Rate("readmission_rate", "30-day readmission", tt.num, tt.den)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got.Percentage, 1e-9)
			assert.Equal(t, "30-day readmission", got.Label)
		})
	}
}

func dischargeSample(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.NewDataset(
		dataset.NewNumericColumn("readmission_30d", []float64{1, 0, 0, 1, math.NaN()}),
		dataset.NewTextColumn("discharge_disposition", []string{"Home", "Death", "Home", "SNF", "Home"}),
		dataset.NewNumericColumn("length_of_stay", []float64{3, 5, 2, 10, 4}),
		dataset.NewTextColumn("gender", []string{"F", "M", "F", "F", "M"}),
	)
	require.NoError(t, err)
	return ds
}

func TestEvaluate(t *testing.T) {
	e := NewRateEngine()
	ds := dischargeSample(t)
	bedDays := 2.0 * 10

	tests := []struct {
		name string
		spec domainstats.RateSpec
		want float64
	}{
		{"indicator", domainstats.RateSpec{Name: "readmission_rate", Column: "readmission_30d", Kind: domainstats.NumeratorIndicator}, 40},
		{"equals", domainstats.RateSpec{Name: "mortality_rate", Column: "discharge_disposition", Kind: domainstats.NumeratorEquals, Equals: "Death"}, 20},
		{"sum over explicit denominator", domainstats.RateSpec{Name: "occupancy_rate", Column: "length_of_stay", Kind: domainstats.NumeratorSum, Denominator: &bedDays}, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(ds, tt.spec)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got.Percentage, 1e-9)
			assert.Equal(t, tt.spec.Name, got.Label, "label falls back to name")
		})
	}

	_, err := e.Evaluate(ds, domainstats.RateSpec{Name: "x", Column: "nope", Kind: domainstats.NumeratorIndicator})
	assert.True(t, errors.Is(err, core.ErrColumnNotFound))

	_, err = e.Evaluate(ds, domainstats.RateSpec{Name: "x", Column: "length_of_stay", Kind: domainstats.NumeratorIndicator})
	assert.True(t, errors.Is(err, core.ErrColumnTypeMismatch), "non 0/1 values are not an indicator")

	zero := 0.0
	_, err = e.Evaluate(ds, domainstats.RateSpec{Name: "x", Column: "readmission_30d", Kind: domainstats.NumeratorIndicator, Denominator: &zero})
	assert.True(t, errors.Is(err, core.ErrDivisionByZero))
}

func TestRatio(t *testing.T) {
	e := NewRateEngine()
	table := domainstats.FrequencyTable{
		Column: "gender",
		Total:  5,
		Rows: []domainstats.FrequencyRow{
			{Label: "F", Count: 3, Relative: 0.6},
			{Label: "M", Count: 2, Relative: 0.4},
		},
	}

	r, err := e.Ratio(domainstats.RatioSpec{Name: "female_to_male", Column: "gender", Numerator: "F", Denominator: "M"}, table)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, r.Value, 1e-12)
	assert.Equal(t, 3, r.NumCount)
	assert.Equal(t, 2, r.DenCount)

	_, err = e.Ratio(domainstats.RatioSpec{Name: "f_to_x", Column: "gender", Numerator: "F", Denominator: "X"}, table)
	assert.True(t, errors.Is(err, core.ErrDivisionByZero))
}

func TestCaseMix(t *testing.T) {
	e := NewRateEngine()
	table := domainstats.FrequencyTable{
		Column: "primary_diagnosis",
		Total:  4,
		Rows: []domainstats.FrequencyRow{
			{Label: "Pneumonia", Count: 1, Relative: 0.25},
			{Label: "Stroke", Count: 3, Relative: 0.75},
		},
	}

	mix := e.CaseMix(table)
	require.Len(t, mix, 2)
	assert.Equal(t, domainstats.CaseMixEntry{Label: "Pneumonia", Count: 1, Percentage: 25}, mix[0])
	assert.Equal(t, 75.0, mix[1].Percentage)
}

func TestSum(t *testing.T) {
	got, err := Sum(dataset.NewNumericColumn("length_of_stay", []float64{math.NaN()}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	_, err = Sum(dataset.NewTextColumn("gender", []string{"F"}))
	assert.True(t, errors.Is(err, core.ErrColumnTypeMismatch))
}
