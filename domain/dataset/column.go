package dataset

import (
	"fmt"
	"math"
)

// Column is an immutable named sequence of cells with a fixed storage type.
type Column struct {
	name    string
	storage Storage
	values  []Value
	levels  []string
}

// NewNumericColumn builds a numeric column; NaN marks a missing cell.
func NewNumericColumn(name string, values []float64) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		cells[i] = Numeric(v)
	}
	return Column{name: name, storage: StorageNumeric, values: cells}
}

// NewTextColumn builds a text column; the empty string marks a missing cell.
func NewTextColumn(name string, values []string) Column {
	cells := make([]Value, len(values))
	for i, v := range values {
		cells[i] = Text(v)
	}
	return Column{name: name, storage: StorageText, values: cells}
}

// NewColumn builds a column from explicit cells, copying them.
func NewColumn(name string, storage Storage, values []Value) (Column, error) {
	if name == "" {
		return Column{}, fmt.Errorf("column name cannot be empty")
	}
	if storage != StorageText && storage != StorageNumeric {
		return Column{}, fmt.Errorf("column %q: unknown storage %q", name, storage)
	}

	cells := make([]Value, len(values))
	for i, v := range values {
		if !v.Valid {
			cells[i] = Missing()
			continue
		}
		if storage == StorageNumeric {
			if math.IsNaN(v.Num) || math.IsInf(v.Num, 0) {
				cells[i] = Missing()
				continue
			}
			cells[i] = Value{Num: v.Num, Valid: true}
		} else {
			cells[i] = Value{Text: v.Text, Valid: true}
		}
	}
	return Column{name: name, storage: storage, values: cells}, nil
}

// WithLevels returns a copy of c whose labels have a fixed order, e.g. the
// bands of a binned column. Labels not listed sort after the levels.
func (c Column) WithLevels(levels []string) Column {
	c.levels = append([]string(nil), levels...)
	return c
}

// Levels returns the declared label order, nil when labels are unordered
func (c Column) Levels() []string {
	if c.levels == nil {
		return nil
	}
	return append([]string(nil), c.levels...)
}

// Name returns the column name
func (c Column) Name() string { return c.name }

// Storage returns the physical cell type
func (c Column) Storage() Storage { return c.storage }

// Len returns the row count
func (c Column) Len() int { return len(c.values) }

// At returns the cell at row i
func (c Column) At(i int) Value { return c.values[i] }

// IsNumeric reports whether cells hold numbers
func (c Column) IsNumeric() bool { return c.storage == StorageNumeric }

// MissingCount counts absent cells
func (c Column) MissingCount() int {
	n := 0
	for _, v := range c.values {
		if !v.Valid {
			n++
		}
	}
	return n
}

// Floats returns the non-missing numeric values in row order.
func (c Column) Floats() []float64 {
	if c.storage != StorageNumeric {
		return nil
	}
	out := make([]float64, 0, len(c.values))
	for _, v := range c.values {
		if v.Valid {
			out = append(out, v.Num)
		}
	}
	return out
}

// Label renders the cell at row i as a frequency label
func (c Column) Label(i int) string {
	v := c.values[i]
	if !v.Valid {
		return MissingLabel
	}
	if c.storage == StorageNumeric {
		return FormatNumber(v.Num)
	}
	return v.Text
}
