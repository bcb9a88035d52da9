package binning

import (
	"fmt"
	"math"
	"sort"

	"carestats/domain/core"
	"carestats/domain/dataset"
	"carestats/domain/stats"
)

// BinningEngine maps continuous values onto labelled intervals
type BinningEngine struct{}

// NewBinningEngine creates a binning engine
func NewBinningEngine() *BinningEngine {
	return &BinningEngine{}
}

// Validate checks that boundaries are finite and strictly increasing and
// that there is exactly one label per interval.
func Validate(spec stats.BinSpec) error {
	if len(spec.Boundaries) < 2 {
		return core.NewBinSpecError(fmt.Sprintf("need at least 2 boundaries, got %d", len(spec.Boundaries)))
	}
	if len(spec.Labels) != len(spec.Boundaries)-1 {
		return core.NewBinSpecError(fmt.Sprintf("%d boundaries need %d labels, got %d",
			len(spec.Boundaries), len(spec.Boundaries)-1, len(spec.Labels)))
	}
	for i, b := range spec.Boundaries {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return core.NewBinSpecError(fmt.Sprintf("boundary %d is not finite", i))
		}
		if i > 0 && b <= spec.Boundaries[i-1] {
			return core.NewBinSpecError(fmt.Sprintf("boundaries must be strictly increasing at index %d (%g <= %g)",
				i, b, spec.Boundaries[i-1]))
		}
	}
	seen := make(map[string]bool, len(spec.Labels))
	for _, l := range spec.Labels {
		switch {
		case l == "":
			return core.NewBinSpecError("labels cannot be empty")
		case l == stats.UnbinnedLabel || l == dataset.MissingLabel:
			return core.NewBinSpecError(fmt.Sprintf("label %q is reserved", l))
		case seen[l]:
			return core.NewBinSpecError(fmt.Sprintf("duplicate label %q", l))
		}
		seen[l] = true
	}
	return nil
}

// Assign returns the label of the interval containing v, or "unbinned"
// when v lies outside [first, last] boundary.
func Assign(spec stats.BinSpec, v float64) string {
	b := spec.Boundaries
	last := len(b) - 1
	if v < b[0] || v > b[last] {
		return stats.UnbinnedLabel
	}
	if v == b[last] {
		return spec.Labels[last-1]
	}
	// first boundary strictly greater than v closes the interval
	i := sort.Search(len(b), func(i int) bool { return b[i] > v })
	return spec.Labels[i-1]
}

// Bin derives a categorical text column named name from col, ordered by
// band with "unbinned" after the last band. Missing cells stay missing. Runs in O(N log B).
func (e *BinningEngine) Bin(col dataset.Column, spec stats.BinSpec, name string) (dataset.Column, error) {
	if !col.IsNumeric() {
		return dataset.Column{}, core.NewTypeMismatchError(col.Name(), string(dataset.StorageNumeric), string(col.Storage()))
	}
	if err := Validate(spec); err != nil {
		return dataset.Column{}, err
	}
	if name == "" {
		name = col.Name() + "_binned"
	}

	cells := make([]dataset.Value, col.Len())
	for i := range cells {
		v := col.At(i)
		if !v.Valid {
			cells[i] = dataset.Missing()
			continue
		}
		cells[i] = dataset.Text(Assign(spec, v.Num))
	}
	binned, err := dataset.NewColumn(name, dataset.StorageText, cells)
	if err != nil {
		return dataset.Column{}, err
	}
	return binned.WithLevels(append(append([]string(nil), spec.Labels...), stats.UnbinnedLabel)), nil
}
