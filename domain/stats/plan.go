package stats

import (
	"fmt"

	"carestats/domain/core"
	"carestats/domain/dataset"
)

const (
	// DefaultSampleCap bounds the normality test sample. Shapiro-Wilk's
	// p-value approximation is calibrated for 3 <= n <= 5000.
	DefaultSampleCap   = 5000
	MaxSampleCap       = 5000
	MinNormalitySample = 3

	DefaultAlpha                = 0.05
	DefaultAmbiguousDistinctMax = 5
)

// DefaultPercentiles are reported for every continuous column unless overridden
var DefaultPercentiles = []float64{25, 50, 75, 90, 95}

// NumeratorKind selects how a rate numerator is counted
type NumeratorKind string

const (
	NumeratorIndicator NumeratorKind = "indicator" // rows equal to 1
	NumeratorEquals    NumeratorKind = "equals"    // rows matching a label
	NumeratorSum       NumeratorKind = "sum"       // sum of a numeric column
)

// BinPlan derives a categorical column from a continuous one
type BinPlan struct {
	Column  string `json:"column" yaml:"column"`
	Name    string `json:"name" yaml:"name"`
	BinSpec `yaml:",inline"`
}

// CrossTabSpec requests a two-way table
type CrossTabSpec struct {
	Rows      string        `json:"rows" yaml:"rows"`
	Columns   string        `json:"columns" yaml:"columns"`
	Normalize Normalization `json:"normalize,omitempty" yaml:"normalize,omitempty"`
}

// RateSpec requests a rate metric. A nil Denominator means the dataset row count.
type RateSpec struct {
	Name        string        `json:"name" yaml:"name"`
	Label       string        `json:"label" yaml:"label"`
	Column      string        `json:"column" yaml:"column"`
	Kind        NumeratorKind `json:"kind" yaml:"kind"`
	Equals      string        `json:"equals,omitempty" yaml:"equals,omitempty"`
	Denominator *float64      `json:"denominator,omitempty" yaml:"denominator,omitempty"`
}

// RatioSpec requests count(Numerator) / count(Denominator) over one column
type RatioSpec struct {
	Name        string `json:"name" yaml:"name"`
	Column      string `json:"column" yaml:"column"`
	Numerator   string `json:"numerator" yaml:"numerator"`
	Denominator string `json:"denominator" yaml:"denominator"`
}

// Plan is the explicit configuration of one analysis run.
type Plan struct {
	Columns              []string                           `json:"columns,omitempty" yaml:"columns,omitempty"`
	Hints                map[string]dataset.StatisticalType `json:"hints,omitempty" yaml:"hints,omitempty"`
	Bins                 []BinPlan                          `json:"bins,omitempty" yaml:"bins,omitempty"`
	CrossTabs            []CrossTabSpec                     `json:"cross_tabs,omitempty" yaml:"cross_tabs,omitempty"`
	Percentiles          []float64                          `json:"percentiles,omitempty" yaml:"percentiles,omitempty"`
	SampleCap            int                                `json:"sample_cap,omitempty" yaml:"sample_cap,omitempty"`
	Alpha                float64                            `json:"alpha,omitempty" yaml:"alpha,omitempty"`
	DropMissing          bool                               `json:"drop_missing,omitempty" yaml:"drop_missing,omitempty"`
	BiasAdjusted         bool                               `json:"bias_adjusted,omitempty" yaml:"bias_adjusted,omitempty"`
	AmbiguousDistinctMax int                                `json:"ambiguous_distinct_max,omitempty" yaml:"ambiguous_distinct_max,omitempty"`
	Rates                []RateSpec                         `json:"rates,omitempty" yaml:"rates,omitempty"`
	Ratios               []RatioSpec                        `json:"ratios,omitempty" yaml:"ratios,omitempty"`
	CaseMix              []string                           `json:"case_mix,omitempty" yaml:"case_mix,omitempty"`
}

// WithDefaults fills zero-valued tunables
func (p Plan) WithDefaults() Plan {
	if len(p.Percentiles) == 0 {
		p.Percentiles = append([]float64(nil), DefaultPercentiles...)
	}
	if p.SampleCap == 0 {
		p.SampleCap = DefaultSampleCap
	}
	if p.Alpha == 0 {
		p.Alpha = DefaultAlpha
	}
	if p.AmbiguousDistinctMax == 0 {
		p.AmbiguousDistinctMax = DefaultAmbiguousDistinctMax
	}
	for i := range p.CrossTabs {
		if p.CrossTabs[i].Normalize == "" {
			p.CrossTabs[i].Normalize = NormalizeNone
		}
	}
	return p
}

// Validate checks the plan's structure. Column existence and bin
// boundaries are checked per task during analysis so that one bad entry
// cannot block the rest of the report.
func (p Plan) Validate() error {
	if p.SampleCap < MinNormalitySample || p.SampleCap > MaxSampleCap {
		return core.NewInvalidInputError("sample_cap", fmt.Sprintf("must be in [%d, %d], got %d", MinNormalitySample, MaxSampleCap, p.SampleCap))
	}
	if p.Alpha <= 0 || p.Alpha >= 1 {
		return core.NewInvalidInputError("alpha", fmt.Sprintf("must be in (0, 1), got %g", p.Alpha))
	}
	if p.AmbiguousDistinctMax < 0 {
		return core.NewInvalidInputError("ambiguous_distinct_max", "must not be negative")
	}
	for _, pct := range p.Percentiles {
		if pct < 0 || pct > 100 {
			return core.NewInvalidInputError("percentiles", fmt.Sprintf("%g is outside [0, 100]", pct))
		}
	}
	for col, hint := range p.Hints {
		if _, err := dataset.ParseStatisticalType(string(hint)); err != nil {
			return core.NewInvalidInputError("hints."+col, err.Error())
		}
	}

	derived := make(map[string]bool)
	for i, b := range p.Bins {
		if b.Column == "" || b.Name == "" {
			return core.NewInvalidInputError(fmt.Sprintf("bins[%d]", i), "column and name are required")
		}
		if derived[b.Name] {
			return core.NewInvalidInputError(fmt.Sprintf("bins[%d]", i), fmt.Sprintf("duplicate name %q", b.Name))
		}
		derived[b.Name] = true
	}
	for i, ct := range p.CrossTabs {
		if ct.Rows == "" || ct.Columns == "" {
			return core.NewInvalidInputError(fmt.Sprintf("cross_tabs[%d]", i), "rows and columns are required")
		}
		switch ct.Normalize {
		case "", NormalizeNone, NormalizeRow, NormalizeColumn:
		default:
			return core.NewInvalidInputError(fmt.Sprintf("cross_tabs[%d].normalize", i), fmt.Sprintf("unknown mode %q", ct.Normalize))
		}
	}

	names := make(map[string]bool)
	for i, r := range p.Rates {
		field := fmt.Sprintf("rates[%d]", i)
		if r.Name == "" || r.Column == "" {
			return core.NewInvalidInputError(field, "name and column are required")
		}
		if names[r.Name] {
			return core.NewInvalidInputError(field, fmt.Sprintf("duplicate name %q", r.Name))
		}
		names[r.Name] = true
		switch r.Kind {
		case NumeratorIndicator, NumeratorSum:
		case NumeratorEquals:
			if r.Equals == "" {
				return core.NewInvalidInputError(field, "equals kind needs a label")
			}
		default:
			return core.NewInvalidInputError(field, fmt.Sprintf("unknown kind %q", r.Kind))
		}
	}
	for i, r := range p.Ratios {
		if r.Name == "" || r.Column == "" || r.Numerator == "" || r.Denominator == "" {
			return core.NewInvalidInputError(fmt.Sprintf("ratios[%d]", i), "name, column, numerator and denominator are required")
		}
	}
	return nil
}
