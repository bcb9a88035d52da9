package classifier

import (
	"fmt"

	"carestats/domain/core"
	"carestats/domain/dataset"
	"carestats/domain/stats"
)

// Options tunes type inference
type Options struct {
	// AmbiguousDistinctMax is the largest distinct-value count at which a
	// numeric, non-0/1 column is treated as categorical with a warning.
	AmbiguousDistinctMax int
}

// DefaultOptions returns the inference thresholds used by default plans
func DefaultOptions() Options {
	return Options{AmbiguousDistinctMax: stats.DefaultAmbiguousDistinctMax}
}

// ColumnClassifier tags columns as categorical, binary or continuous
type ColumnClassifier struct {
	opts Options
}

// NewColumnClassifier creates a classifier
func NewColumnClassifier(opts Options) *ColumnClassifier {
	return &ColumnClassifier{opts: opts}
}

// Result pairs a classification with its error. Err wrapping
// core.ErrAmbiguousColumnType is a warning: Classification is still usable.
type Result struct {
	Classification stats.ColumnClassification
	Err            error
}

// Usable reports whether downstream engines can rely on the classification
func (r Result) Usable() bool {
	return IsWarning(r.Err) || r.Err == nil
}

// IsWarning reports whether err is an ambiguity warning rather than a failure
func IsWarning(err error) bool {
	return err != nil && core.ErrorKind(err) == core.KindAmbiguousColumnType
}

// Classify determines the statistical type of col. An empty hint means infer.
func (c *ColumnClassifier) Classify(col dataset.Column, hint dataset.StatisticalType) (stats.ColumnClassification, error) {
	out := stats.ColumnClassification{Column: col.Name()}

	numeric, labels := distinctValues(col)
	if col.IsNumeric() {
		out.Distinct = len(numeric)
	} else {
		out.Distinct = len(labels)
	}

	if hint != "" {
		if err := checkHint(col, hint, numeric); err != nil {
			return out, err
		}
		out.Type = hint
		return out, nil
	}

	out.Inferred = true
	switch {
	case !col.IsNumeric():
		out.Type = dataset.TypeCategorical
	case out.Distinct > 0 && isIndicator(numeric):
		out.Type = dataset.TypeBinary
	case out.Distinct <= c.opts.AmbiguousDistinctMax:
		out.Type = dataset.TypeCategorical
		err := fmt.Errorf("%w: column %q has %d distinct numeric values, treating as categorical",
			core.ErrAmbiguousColumnType, col.Name(), out.Distinct)
		out.Warning = err.Error()
		return out, err
	default:
		out.Type = dataset.TypeContinuous
	}
	return out, nil
}

// ClassifyAll classifies the named columns of ds in order. Unknown columns
// yield a ColumnNotFound result rather than aborting.
func (c *ColumnClassifier) ClassifyAll(ds *dataset.Dataset, columns []string, hints map[string]dataset.StatisticalType) []Result {
	if len(columns) == 0 {
		columns = ds.Names()
	}

	results := make([]Result, len(columns))
	for i, name := range columns {
		col, err := ds.Column(name)
		if err != nil {
			results[i] = Result{Classification: stats.ColumnClassification{Column: name}, Err: err}
			continue
		}
		cls, err := c.Classify(col, hints[name])
		results[i] = Result{Classification: cls, Err: err}
	}
	return results
}

func checkHint(col dataset.Column, hint dataset.StatisticalType, numeric map[float64]struct{}) error {
	switch hint {
	case dataset.TypeCategorical:
		return nil
	case dataset.TypeContinuous:
		if !col.IsNumeric() {
			return core.NewTypeMismatchError(col.Name(), "numeric storage", string(col.Storage()))
		}
		return nil
	case dataset.TypeBinary:
		if !col.IsNumeric() {
			return core.NewTypeMismatchError(col.Name(), "numeric storage", string(col.Storage()))
		}
		if !isIndicator(numeric) {
			return core.NewTypeMismatchError(col.Name(), "0/1 values", "other values")
		}
		return nil
	}
	return core.NewInvalidInputError("hint", fmt.Sprintf("unknown type %q for column %q", hint, col.Name()))
}

func isIndicator(values map[float64]struct{}) bool {
	if len(values) > 2 {
		return false
	}
	for v := range values {
		if v != 0 && v != 1 {
			return false
		}
	}
	return true
}

func distinctValues(col dataset.Column) (map[float64]struct{}, map[string]struct{}) {
	numeric := make(map[float64]struct{})
	labels := make(map[string]struct{})
	for i := 0; i < col.Len(); i++ {
		v := col.At(i)
		if !v.Valid {
			continue
		}
		if col.IsNumeric() {
			numeric[v.Num] = struct{}{}
		} else {
			labels[v.Text] = struct{}{}
		}
	}
	return numeric, labels
}
