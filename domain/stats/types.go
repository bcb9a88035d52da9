package stats

import (
	"math"

	"carestats/domain/dataset"
)

// ============================================================================
// FREQUENCY
// ============================================================================

// FrequencyRow is one label of a frequency distribution
type FrequencyRow struct {
	Label              string  `json:"label"`
	Count              int     `json:"count"`
	Relative           float64 `json:"relative"`
	Cumulative         int     `json:"cumulative"`
	CumulativeRelative float64 `json:"cumulative_relative"`
}

// FrequencyTable is the distribution of one categorical or binary column.
// INVARIANTS:
// - Rows are in a deterministic order (numeric or lexical, "missing" last)
// - Relative values sum to 1 and the last CumulativeRelative is exactly 1
type FrequencyTable struct {
	Column         string         `json:"column"`
	Total          int            `json:"total"`
	Missing        int            `json:"missing"`
	MissingDropped bool           `json:"missing_dropped"`
	Rows           []FrequencyRow `json:"rows"`
}

// Lookup returns the row for label
func (t FrequencyTable) Lookup(label string) (FrequencyRow, bool) {
	for _, r := range t.Rows {
		if r.Label == label {
			return r, true
		}
	}
	return FrequencyRow{}, false
}

// Count returns the count for label, 0 when absent
func (t FrequencyTable) Count(label string) int {
	r, _ := t.Lookup(label)
	return r.Count
}

// Normalization selects the proportional view of a cross-tabulation
type Normalization string

const (
	NormalizeNone   Normalization = "none"
	NormalizeRow    Normalization = "row"
	NormalizeColumn Normalization = "column"
)

// CrossTabulation is the joint count of two categorical columns.
// Counts[i][j] is indexed by RowLabels[i] and ColumnLabels[j].
type CrossTabulation struct {
	RowColumn     string        `json:"row_column"`
	ColumnColumn  string        `json:"column_column"`
	RowLabels     []string      `json:"row_labels"`
	ColumnLabels  []string      `json:"column_labels"`
	Counts        [][]int       `json:"counts"`
	RowTotals     []int         `json:"row_totals"`
	ColumnTotals  []int         `json:"column_totals"`
	GrandTotal    int           `json:"grand_total"`
	Normalization Normalization `json:"normalization"`
	Proportions   [][]float64   `json:"proportions,omitempty"`
}

// Cell returns the count at (rowLabel, colLabel)
func (c CrossTabulation) Cell(rowLabel, colLabel string) int {
	for i, r := range c.RowLabels {
		if r != rowLabel {
			continue
		}
		for j, col := range c.ColumnLabels {
			if col == colLabel {
				return c.Counts[i][j]
			}
		}
	}
	return 0
}

// ============================================================================
// BINNING
// ============================================================================

// UnbinnedLabel marks values outside the configured bin range.
const UnbinnedLabel = "unbinned"

// BinSpec partitions a numeric range into labelled intervals
// [Boundaries[i], Boundaries[i+1]); the last interval also includes its
// upper boundary.
type BinSpec struct {
	Boundaries []float64 `json:"boundaries" yaml:"boundaries"`
	Labels     []string  `json:"labels" yaml:"labels"`
}

// ============================================================================
// DISPERSION
// ============================================================================

// Percentile is one requested quantile, P in [0, 100]
type Percentile struct {
	P     float64 `json:"p"`
	Value float64 `json:"value"`
}

// DispersionSummary describes the centre and spread of a continuous column.
// INVARIANTS:
// - Q1 <= Median <= Q3
// - Range = Max - Min >= 0
// - Variance = StdDev^2 >= 0
type DispersionSummary struct {
	Column      string       `json:"column"`
	N           int          `json:"n"`
	Missing     int          `json:"missing"`
	Sum         float64      `json:"sum"`
	Mean        float64      `json:"mean"`
	Median      float64      `json:"median"`
	Mode        *float64     `json:"mode"` // nil when every value is unique
	StdDev      float64      `json:"std_dev"`
	Variance    float64      `json:"variance"`
	Min         float64      `json:"min"`
	Max         float64      `json:"max"`
	Range       float64      `json:"range"`
	Q1          float64      `json:"q1"`
	Q3          float64      `json:"q3"`
	IQR         float64      `json:"iqr"`
	Percentiles []Percentile `json:"percentiles,omitempty"`
	Method      string       `json:"percentile_method"`
}

// HasMode reports whether a repeated value exists
func (d DispersionSummary) HasMode() bool { return d.Mode != nil }

// ============================================================================
// SHAPE
// ============================================================================

// SkewLabel classifies asymmetry
type SkewLabel string

const (
	SkewSymmetric SkewLabel = "symmetric"
	SkewRight     SkewLabel = "right-skewed"
	SkewLeft      SkewLabel = "left-skewed"
)

// KurtosisLabel classifies tail weight relative to a normal distribution
type KurtosisLabel string

const (
	Mesokurtic  KurtosisLabel = "mesokurtic"
	Leptokurtic KurtosisLabel = "leptokurtic"
	Platykurtic KurtosisLabel = "platykurtic"
)

// ShapeThreshold is the |value| below which skewness and excess kurtosis
// count as normal-like.
const ShapeThreshold = 0.5

// ClassifySkew labels a skewness value
func ClassifySkew(skew float64) SkewLabel {
	switch {
	case math.Abs(skew) < ShapeThreshold:
		return SkewSymmetric
	case skew > 0:
		return SkewRight
	default:
		return SkewLeft
	}
}

// ClassifyKurtosis labels an excess kurtosis value
func ClassifyKurtosis(kurt float64) KurtosisLabel {
	switch {
	case math.Abs(kurt) < ShapeThreshold:
		return Mesokurtic
	case kurt > 0:
		return Leptokurtic
	default:
		return Platykurtic
	}
}

// NormalityTest is the outcome of a normality test on a sample
type NormalityTest struct {
	Method     string  `json:"method"`
	SampleSize int     `json:"sample_size"`
	Statistic  float64 `json:"statistic"`
	PValue     float64 `json:"p_value"`
	Alpha      float64 `json:"alpha"`
	Normal     bool    `json:"normal"`
}

// ShapeSummary describes distribution shape for a continuous column
type ShapeSummary struct {
	Column        string        `json:"column"`
	N             int           `json:"n"`
	Skewness      float64       `json:"skewness"`
	Kurtosis      float64       `json:"excess_kurtosis"`
	SkewLabel     SkewLabel     `json:"skew_label"`
	KurtosisLabel KurtosisLabel `json:"kurtosis_label"`
	MomentMethod  string        `json:"moment_method"`
	Normality     NormalityTest `json:"normality"`
}

// ============================================================================
// RATES
// ============================================================================

// RateMetric is a numerator expressed as a percentage of a denominator
type RateMetric struct {
	Name        string  `json:"name"`
	Label       string  `json:"label"`
	Numerator   float64 `json:"numerator"`
	Denominator float64 `json:"denominator"`
	Percentage  float64 `json:"percentage"`
}

// Ratio compares the counts of two labels of one column
type Ratio struct {
	Name        string  `json:"name"`
	Column      string  `json:"column"`
	Numerator   string  `json:"numerator"`
	Denominator string  `json:"denominator"`
	NumCount    int     `json:"numerator_count"`
	DenCount    int     `json:"denominator_count"`
	Value       float64 `json:"value"`
}

// CaseMixEntry is one category's share of a cohort
type CaseMixEntry struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ============================================================================
// CLASSIFICATION
// ============================================================================

// ColumnClassification is the statistical type chosen for a column
type ColumnClassification struct {
	Column   string                  `json:"column"`
	Type     dataset.StatisticalType `json:"type"`
	Inferred bool                    `json:"inferred"`
	Distinct int                     `json:"distinct"`
	Warning  string                  `json:"warning,omitempty"`
}
