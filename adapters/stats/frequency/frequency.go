package frequency

import (
	"fmt"

	"carestats/domain/core"
	"carestats/domain/dataset"
	"carestats/domain/stats"
)

// Options controls missing-value handling
type Options struct {
	// DropMissing excludes missing cells from counts and the denominator.
	// By default they form a "missing" bucket.
	DropMissing bool
}

// CrossTabOptions controls a two-way table
type CrossTabOptions struct {
	Normalize   stats.Normalization
	DropMissing bool
}

// FrequencyEngine computes one- and two-way frequency distributions
type FrequencyEngine struct{}

// NewFrequencyEngine creates a frequency engine
func NewFrequencyEngine() *FrequencyEngine {
	return &FrequencyEngine{}
}

// Frequency builds the frequency table of col in a single pass.
func (e *FrequencyEngine) Frequency(col dataset.Column, opts Options) (stats.FrequencyTable, error) {
	set := newLabelSet(col)
	for i := 0; i < col.Len(); i++ {
		set.observe(col, i)
	}

	labels := set.orderedWithMissing(opts.DropMissing)
	total := 0
	for _, l := range labels {
		total += countOf(set, l)
	}
	if total == 0 {
		return stats.FrequencyTable{}, core.NewEmptyColumnError(col.Name())
	}

	table := stats.FrequencyTable{
		Column:         col.Name(),
		Total:          total,
		Missing:        set.missing,
		MissingDropped: opts.DropMissing,
		Rows:           make([]stats.FrequencyRow, len(labels)),
	}

	cumulative := 0
	for i, l := range labels {
		n := countOf(set, l)
		cumulative += n
		table.Rows[i] = stats.FrequencyRow{
			Label:              l,
			Count:              n,
			Relative:           float64(n) / float64(total),
			Cumulative:         cumulative,
			CumulativeRelative: float64(cumulative) / float64(total),
		}
	}
	return table, nil
}

// CrossTabulate counts rows by (a label, b label). Complexity is
// O(N + |A|*|B|).
func (e *FrequencyEngine) CrossTabulate(a, b dataset.Column, opts CrossTabOptions) (stats.CrossTabulation, error) {
	if a.Len() != b.Len() {
		return stats.CrossTabulation{}, core.NewInvalidInputError("cross_tab",
			fmt.Sprintf("columns %q and %q differ in length", a.Name(), b.Name()))
	}

	norm := opts.Normalize
	if norm == "" {
		norm = stats.NormalizeNone
	}

	rows, cols := newLabelSet(a), newLabelSet(b)
	type cellKey struct{ row, col string }
	cells := make(map[cellKey]int)

	for i := 0; i < a.Len(); i++ {
		if opts.DropMissing && (!a.At(i).Valid || !b.At(i).Valid) {
			continue
		}
		r := rows.observe(a, i)
		c := cols.observe(b, i)
		cells[cellKey{r, c}]++
	}

	rowLabels := rows.orderedWithMissing(opts.DropMissing)
	colLabels := cols.orderedWithMissing(opts.DropMissing)

	ct := stats.CrossTabulation{
		RowColumn:     a.Name(),
		ColumnColumn:  b.Name(),
		RowLabels:     rowLabels,
		ColumnLabels:  colLabels,
		Counts:        make([][]int, len(rowLabels)),
		RowTotals:     make([]int, len(rowLabels)),
		ColumnTotals:  make([]int, len(colLabels)),
		Normalization: norm,
	}
	for i, r := range rowLabels {
		ct.Counts[i] = make([]int, len(colLabels))
		for j, c := range colLabels {
			n := cells[cellKey{r, c}]
			ct.Counts[i][j] = n
			ct.RowTotals[i] += n
			ct.ColumnTotals[j] += n
			ct.GrandTotal += n
		}
	}
	if ct.GrandTotal == 0 {
		return stats.CrossTabulation{}, core.NewEmptyColumnError(a.Name() + " x " + b.Name())
	}

	switch norm {
	case stats.NormalizeNone:
	case stats.NormalizeRow:
		ct.Proportions = normalize(ct.Counts, func(i, _ int) int { return ct.RowTotals[i] })
	case stats.NormalizeColumn:
		ct.Proportions = normalize(ct.Counts, func(_, j int) int { return ct.ColumnTotals[j] })
	default:
		return stats.CrossTabulation{}, core.NewInvalidInputError("normalize", fmt.Sprintf("unknown mode %q", norm))
	}
	return ct, nil
}

// normalize divides each cell by its margin; an empty margin yields 0.
func normalize(counts [][]int, margin func(i, j int) int) [][]float64 {
	out := make([][]float64, len(counts))
	for i, row := range counts {
		out[i] = make([]float64, len(row))
		for j, n := range row {
			if d := margin(i, j); d > 0 {
				out[i][j] = float64(n) / float64(d)
			}
		}
	}
	return out
}

func countOf(set *labelSet, label string) int {
	if label == dataset.MissingLabel {
		return set.missing
	}
	return set.counts[label]
}
