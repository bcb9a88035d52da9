package stats

import (
	"time"

	"carestats/domain/core"
	"carestats/domain/dataset"
)

// Failure records one component's error on one target without aborting
// the rest of the analysis.
type Failure struct {
	Component string `json:"component"`
	Target    string `json:"target"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
}

// NewFailure derives Kind from the wrapped domain sentinel
func NewFailure(component, target string, err error) Failure {
	return Failure{
		Component: component,
		Target:    target,
		Kind:      core.ErrorKind(err),
		Message:   err.Error(),
	}
}

// MetricStatus marks whether a derived metric could be computed
type MetricStatus string

const (
	StatusOK        MetricStatus = "ok"
	StatusUndefined MetricStatus = "undefined"
)

// RateEntry is a rate as reported. Percentage is null when undefined.
type RateEntry struct {
	Name        string       `json:"name"`
	Label       string       `json:"label"`
	Status      MetricStatus `json:"status"`
	Numerator   float64      `json:"numerator"`
	Denominator float64      `json:"denominator"`
	Percentage  *float64     `json:"percentage"`
	Reason      string       `json:"reason,omitempty"`
}

// RatioEntry is a ratio as reported. Value is null when undefined.
type RatioEntry struct {
	Name        string       `json:"name"`
	Column      string       `json:"column"`
	Numerator   string       `json:"numerator"`
	Denominator string       `json:"denominator"`
	Status      MetricStatus `json:"status"`
	NumCount    int          `json:"numerator_count"`
	DenCount    int          `json:"denominator_count"`
	Value       *float64     `json:"value"`
	Reason      string       `json:"reason,omitempty"`
}

// CaseMix is the percentage breakdown of one categorical column
type CaseMix struct {
	Column  string         `json:"column"`
	Entries []CaseMixEntry `json:"entries"`
}

// Report aggregates every result of one analysis run. All slices follow
// plan order, so two runs over the same inputs compare equal.
type Report struct {
	ID                 core.ReportID    `json:"id,omitempty"`
	GeneratedAt        time.Time        `json:"generated_at"`
	DatasetFingerprint core.DatasetHash `json:"dataset_fingerprint"`
	Rows               int              `json:"rows"`

	Classifications []ColumnClassification   `json:"classifications"`
	Missing         []dataset.MissingSummary `json:"missing"`
	Frequencies     []FrequencyTable         `json:"frequencies"`
	Binned          []FrequencyTable         `json:"binned"`
	CrossTabs       []CrossTabulation        `json:"cross_tabs"`
	Dispersion      []DispersionSummary      `json:"dispersion"`
	Shape           []ShapeSummary           `json:"shape"`
	Rates           []RateEntry              `json:"rates"`
	Ratios          []RatioEntry             `json:"ratios"`
	CaseMix         []CaseMix                `json:"case_mix"`

	Warnings []Failure `json:"warnings"`
	Failures []Failure `json:"failures"`
}

// ContentHash hashes everything except the run identity, so equal inputs
// yield equal hashes.
func (r *Report) ContentHash() (core.ResultHash, error) {
	c := *r
	c.ID = ""
	c.GeneratedAt = time.Time{}
	return core.ComputeResultHash(c)
}

// Frequency returns the frequency table for column
func (r *Report) Frequency(column string) (FrequencyTable, bool) {
	return findFrequency(r.Frequencies, column)
}

// BinnedFrequency returns the frequency table of a derived binned column
func (r *Report) BinnedFrequency(name string) (FrequencyTable, bool) {
	return findFrequency(r.Binned, name)
}

func findFrequency(tables []FrequencyTable, column string) (FrequencyTable, bool) {
	for _, t := range tables {
		if t.Column == column {
			return t, true
		}
	}
	return FrequencyTable{}, false
}

// DispersionFor returns the dispersion summary for column
func (r *Report) DispersionFor(column string) (DispersionSummary, bool) {
	for _, d := range r.Dispersion {
		if d.Column == column {
			return d, true
		}
	}
	return DispersionSummary{}, false
}

// ShapeFor returns the shape summary for column
func (r *Report) ShapeFor(column string) (ShapeSummary, bool) {
	for _, s := range r.Shape {
		if s.Column == column {
			return s, true
		}
	}
	return ShapeSummary{}, false
}

// Rate returns the rate entry called name
func (r *Report) Rate(name string) (RateEntry, bool) {
	for _, e := range r.Rates {
		if e.Name == name {
			return e, true
		}
	}
	return RateEntry{}, false
}

// Ratio returns the ratio entry called name
func (r *Report) Ratio(name string) (RatioEntry, bool) {
	for _, e := range r.Ratios {
		if e.Name == name {
			return e, true
		}
	}
	return RatioEntry{}, false
}

// FailuresFor returns every failure recorded against target
func (r *Report) FailuresFor(target string) []Failure {
	var out []Failure
	for _, f := range r.Failures {
		if f.Target == target {
			out = append(out, f)
		}
	}
	return out
}
