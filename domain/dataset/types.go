package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StatisticalType defines how a column is analysed
type StatisticalType string

const (
	TypeCategorical StatisticalType = "categorical"
	TypeBinary      StatisticalType = "binary"
	TypeContinuous  StatisticalType = "continuous"
)

// ParseStatisticalType parses a type hint. Matching is case-insensitive.
func ParseStatisticalType(s string) (StatisticalType, error) {
	switch StatisticalType(strings.ToLower(strings.TrimSpace(s))) {
	case TypeCategorical:
		return TypeCategorical, nil
	case TypeBinary:
		return TypeBinary, nil
	case TypeContinuous:
		return TypeContinuous, nil
	}
	return "", fmt.Errorf("unknown statistical type %q", s)
}

// Storage is the physical representation of a column's cells
type Storage string

const (
	StorageText    Storage = "text"
	StorageNumeric Storage = "numeric"
)

// MissingLabel is the frequency label used for absent cells.
const MissingLabel = "missing"

// Value is a single cell. Exactly one of Num or Text is meaningful,
// depending on the owning column's Storage; Valid is false for missing cells.
type Value struct {
	Num   float64
	Text  string
	Valid bool
}

// Numeric returns a present numeric cell. NaN and infinities are missing.
func Numeric(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Missing()
	}
	return Value{Num: v, Valid: true}
}

// Text returns a present text cell. The empty string is missing.
func Text(s string) Value {
	if s == "" {
		return Missing()
	}
	return Value{Text: s, Valid: true}
}

// Missing returns an absent cell
func Missing() Value {
	return Value{}
}

// FormatNumber renders a numeric label the way frequency tables show it
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MissingSummary reports absent cells for one column
type MissingSummary struct {
	Column     string  `json:"column"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}
