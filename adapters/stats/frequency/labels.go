package frequency

import (
	"sort"

	"carestats/domain/dataset"
)

// labelSet tracks the labels seen in one column and orders them: declared
// levels first, then numeric ascending for numeric columns or lexical for
// text, missing last.
type labelSet struct {
	numeric bool
	levels  []string
	values  map[string]float64
	counts  map[string]int
	missing int
}

func newLabelSet(col dataset.Column) *labelSet {
	return &labelSet{
		numeric: col.IsNumeric(),
		levels:  col.Levels(),
		values:  make(map[string]float64),
		counts:  make(map[string]int),
	}
}

// observe records row i of col and returns its label. A text cell that
// reads "missing" shares the missing bucket.
func (s *labelSet) observe(col dataset.Column, i int) string {
	v := col.At(i)
	label := col.Label(i)
	if !v.Valid || label == dataset.MissingLabel {
		s.missing++
		return dataset.MissingLabel
	}
	if s.numeric {
		s.values[label] = v.Num
	}
	s.counts[label]++
	return label
}

// ordered returns present labels in deterministic order, excluding missing
func (s *labelSet) ordered() []string {
	labels := make([]string, 0, len(s.counts))
	declared := make(map[string]bool, len(s.levels))
	for _, l := range s.levels {
		if s.counts[l] > 0 && !declared[l] {
			labels = append(labels, l)
		}
		declared[l] = true
	}
	head := len(labels)
	for l := range s.counts {
		if !declared[l] {
			labels = append(labels, l)
		}
	}
	rest := labels[head:]
	if s.numeric {
		sort.Slice(rest, func(i, j int) bool { return s.values[rest[i]] < s.values[rest[j]] })
	} else {
		sort.Strings(rest)
	}
	return labels
}

// orderedWithMissing appends the missing bucket when any cell was missing
func (s *labelSet) orderedWithMissing(dropMissing bool) []string {
	labels := s.ordered()
	if !dropMissing && s.missing > 0 {
		labels = append(labels, dataset.MissingLabel)
	}
	return labels
}
