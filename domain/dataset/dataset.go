package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"carestats/domain/core"
)

// Dataset is an ordered set of equal-length columns. It is never mutated
// after construction and may be shared across goroutines.
type Dataset struct {
	columns []Column
	index   map[string]int
	rows    int
}

// NewDataset validates that column names are unique and lengths agree.
func NewDataset(columns ...Column) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, core.NewInvalidInputError("dataset", "no columns")
	}

	ds := &Dataset{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
		rows:    columns[0].Len(),
	}
	for i, col := range columns {
		if col.Name() == "" {
			return nil, core.NewInvalidInputError("dataset", fmt.Sprintf("column %d has no name", i))
		}
		if _, dup := ds.index[col.Name()]; dup {
			return nil, core.NewInvalidInputError("dataset", fmt.Sprintf("duplicate column %q", col.Name()))
		}
		if col.Len() != ds.rows {
			return nil, core.NewInvalidInputError("dataset",
				fmt.Sprintf("column %q has %d rows, expected %d", col.Name(), col.Len(), ds.rows))
		}
		ds.index[col.Name()] = i
		ds.columns[i] = col
	}
	return ds, nil
}

// Rows returns N
func (d *Dataset) Rows() int { return d.rows }

// Columns returns the columns in declaration order
func (d *Dataset) Columns() []Column {
	out := make([]Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// Names returns column names in declaration order
func (d *Dataset) Names() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name()
	}
	return names
}

// Column looks up a column by name
func (d *Dataset) Column(name string) (Column, error) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, core.NewColumnNotFoundError(name)
	}
	return d.columns[i], nil
}

// MissingSummary reports absent cells for every column, in declaration order.
func (d *Dataset) MissingSummary() []MissingSummary {
	out := make([]MissingSummary, len(d.columns))
	for i, c := range d.columns {
		m := c.MissingCount()
		pct := 0.0
		if d.rows > 0 {
			pct = 100 * float64(m) / float64(d.rows)
		}
		out[i] = MissingSummary{Column: c.Name(), Count: m, Percentage: pct}
	}
	return out
}

// Fingerprint hashes names, storage and every cell.
func (d *Dataset) Fingerprint() core.DatasetHash {
	var b strings.Builder
	for _, c := range d.columns {
		b.WriteString(c.Name())
		b.WriteByte(0)
		b.WriteString(string(c.Storage()))
		b.WriteByte(0)
		for i := 0; i < c.Len(); i++ {
			v := c.At(i)
			switch {
			case !v.Valid:
				b.WriteString("\x01")
			case c.IsNumeric():
				b.WriteString(strconv.FormatFloat(v.Num, 'g', -1, 64))
			default:
				b.WriteString(strconv.Quote(v.Text))
			}
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	return core.DatasetHash(core.NewHash([]byte(b.String())))
}
