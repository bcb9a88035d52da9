package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Classification errors
	ErrAmbiguousColumnType = errors.New("ambiguous column type")
	ErrColumnTypeMismatch  = errors.New("column type mismatch")
	ErrColumnNotFound      = errors.New("column not found")

	// Computation errors
	ErrInvalidBinSpec     = errors.New("invalid bin specification")
	ErrEmptyColumn        = errors.New("no non-missing values")
	ErrInsufficientSample = errors.New("insufficient sample")
	ErrDivisionByZero     = errors.New("division by zero")

	// Input errors
	ErrInvalidInput = errors.New("invalid input")

	// Lookup errors
	ErrReportNotFound = errors.New("report not found")
)

// Kind names as they appear in reports
const (
	KindAmbiguousColumnType = "AmbiguousColumnType"
	KindColumnTypeMismatch  = "ColumnTypeMismatch"
	KindColumnNotFound      = "ColumnNotFound"
	KindInvalidBinSpec      = "InvalidBinSpec"
	KindEmptyColumn         = "EmptyColumn"
	KindInsufficientSample  = "InsufficientSample"
	KindDivisionByZero      = "DivisionByZero"
	KindInvalidInput        = "InvalidInput"
	KindReportNotFound      = "ReportNotFound"
	KindInternal            = "Internal"
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrAmbiguousColumnType, KindAmbiguousColumnType},
	{ErrColumnTypeMismatch, KindColumnTypeMismatch},
	{ErrColumnNotFound, KindColumnNotFound},
	{ErrInvalidBinSpec, KindInvalidBinSpec},
	{ErrEmptyColumn, KindEmptyColumn},
	{ErrInsufficientSample, KindInsufficientSample},
	{ErrDivisionByZero, KindDivisionByZero},
	{ErrInvalidInput, KindInvalidInput},
	{ErrReportNotFound, KindReportNotFound},
}

// ErrorKind returns the report kind for err, or KindInternal for errors
// that do not wrap a domain sentinel.
func ErrorKind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return KindInternal
}

// Error constructors with context
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, column)
}

func NewTypeMismatchError(column, want, got string) error {
	return fmt.Errorf("%w: column %q is %s, need %s", ErrColumnTypeMismatch, column, got, want)
}

func NewEmptyColumnError(column string) error {
	return fmt.Errorf("%w: column %q", ErrEmptyColumn, column)
}

func NewInsufficientSampleError(column string, n, need int) error {
	return fmt.Errorf("%w: column %q has %d values, need at least %d", ErrInsufficientSample, column, n, need)
}

func NewDivisionByZeroError(metric string) error {
	return fmt.Errorf("%w: %s has a zero denominator", ErrDivisionByZero, metric)
}

func NewBinSpecError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidBinSpec, reason)
}

func NewReportNotFoundError(id ReportID) error {
	return fmt.Errorf("%w: %s", ErrReportNotFound, id)
}

func NewInvalidInputError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, reason)
}

// Error checking helpers
func IsUndefinedMetric(err error) bool {
	return errors.Is(err, ErrDivisionByZero)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidBinSpec) ||
		errors.Is(err, ErrColumnNotFound) ||
		errors.Is(err, ErrColumnTypeMismatch)
}

func IsDataError(err error) bool {
	return errors.Is(err, ErrEmptyColumn) ||
		errors.Is(err, ErrInsufficientSample) ||
		errors.Is(err, ErrDivisionByZero) ||
		errors.Is(err, ErrAmbiguousColumnType)
}
