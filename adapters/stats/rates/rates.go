package rates

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"carestats/domain/core"
	"carestats/domain/dataset"
	domainstats "carestats/domain/stats"
)

// RateEngine turns counts and sums into percentages, ratios and case mixes
type RateEngine struct{}

// NewRateEngine creates a rate engine
func NewRateEngine() *RateEngine {
	return &RateEngine{}
}

// Rate expresses numerator as a percentage of denominator.
func (e *RateEngine) Rate(name, label string, numerator, denominator float64) (domainstats.RateMetric, error) {
	if math.IsNaN(numerator) || math.IsNaN(denominator) || math.IsInf(numerator, 0) || math.IsInf(denominator, 0) {
		return domainstats.RateMetric{}, core.NewInvalidInputError(name, "numerator and denominator must be finite")
	}
	if numerator < 0 || denominator < 0 {
		return domainstats.RateMetric{}, core.NewInvalidInputError(name,
			fmt.Sprintf("negative input (numerator %g, denominator %g)", numerator, denominator))
	}
	if denominator == 0 {
		return domainstats.RateMetric{}, core.NewDivisionByZeroError(name)
	}
	return domainstats.RateMetric{
		Name:        name,
		Label:       label,
		Numerator:   numerator,
		Denominator: denominator,
		Percentage:  100 * numerator / denominator,
	}, nil
}

// Evaluate resolves spec's numerator against ds and computes the rate.
// Without an explicit denominator the dataset row count is used.
func (e *RateEngine) Evaluate(ds *dataset.Dataset, spec domainstats.RateSpec) (domainstats.RateMetric, error) {
	col, err := ds.Column(spec.Column)
	if err != nil {
		return domainstats.RateMetric{}, err
	}

	var num float64
	switch spec.Kind {
	case domainstats.NumeratorIndicator:
		n, err := CountIndicator(col)
		if err != nil {
			return domainstats.RateMetric{}, err
		}
		num = float64(n)
	case domainstats.NumeratorEquals:
		num = float64(CountEqual(col, spec.Equals))
	case domainstats.NumeratorSum:
		if num, err = Sum(col); err != nil {
			return domainstats.RateMetric{}, err
		}
	default:
		return domainstats.RateMetric{}, core.NewInvalidInputError(spec.Name, fmt.Sprintf("unknown numerator kind %q", spec.Kind))
	}

	den := float64(ds.Rows())
	if spec.Denominator != nil {
		den = *spec.Denominator
	}
	label := spec.Label
	if label == "" {
		label = spec.Name
	}
	return e.Rate(spec.Name, label, num, den)
}

// CountIndicator counts rows equal to 1 in a 0/1 column. Missing cells
// are skipped.
func CountIndicator(col dataset.Column) (int, error) {
	if !col.IsNumeric() {
		return 0, core.NewTypeMismatchError(col.Name(), string(dataset.TypeBinary), string(col.Storage()))
	}
	n := 0
	for i := 0; i < col.Len(); i++ {
		v := col.At(i)
		if !v.Valid {
			continue
		}
		switch v.Num {
		case 1:
			n++
		case 0:
		default:
			return 0, core.NewTypeMismatchError(col.Name(), string(dataset.TypeBinary),
				fmt.Sprintf("value %s", dataset.FormatNumber(v.Num)))
		}
	}
	return n, nil
}

// CountEqual counts rows whose label equals label
func CountEqual(col dataset.Column, label string) int {
	n := 0
	for i := 0; i < col.Len(); i++ {
		if col.At(i).Valid && col.Label(i) == label {
			n++
		}
	}
	return n
}

// Sum adds the non-missing values of a numeric column
func Sum(col dataset.Column) (float64, error) {
	if !col.IsNumeric() {
		return 0, core.NewTypeMismatchError(col.Name(), string(dataset.StorageNumeric), string(col.Storage()))
	}
	data := col.Floats()
	if len(data) == 0 {
		return 0, nil
	}
	return stats.Sum(data)
}

// Ratio divides the count of one label by the count of another in the
// same frequency table.
func (e *RateEngine) Ratio(spec domainstats.RatioSpec, table domainstats.FrequencyTable) (domainstats.Ratio, error) {
	num := table.Count(spec.Numerator)
	den := table.Count(spec.Denominator)
	r := domainstats.Ratio{
		Name:        spec.Name,
		Column:      table.Column,
		Numerator:   spec.Numerator,
		Denominator: spec.Denominator,
		NumCount:    num,
		DenCount:    den,
	}
	if den == 0 {
		return r, core.NewDivisionByZeroError(spec.Name)
	}
	r.Value = float64(num) / float64(den)
	return r, nil
}

// CaseMix re-expresses a frequency table as percentages of its total
func (e *RateEngine) CaseMix(table domainstats.FrequencyTable) []domainstats.CaseMixEntry {
	entries := make([]domainstats.CaseMixEntry, len(table.Rows))
	for i, r := range table.Rows {
		entries[i] = domainstats.CaseMixEntry{
			Label:      r.Label,
			Count:      r.Count,
			Percentage: 100 * r.Relative,
		}
	}
	return entries
}
