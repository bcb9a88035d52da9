package dataset

import (
	"encoding/json"
	"fmt"

	"carestats/domain/core"
)

type columnJSON struct {
	Name    string        `json:"name"`
	Storage Storage       `json:"storage,omitempty"`
	Values  []interface{} `json:"values"`
}

type datasetJSON struct {
	Columns []Column `json:"columns"`
}

// MarshalJSON encodes missing cells as null
func (c Column) MarshalJSON() ([]byte, error) {
	out := columnJSON{Name: c.name, Storage: c.storage, Values: make([]interface{}, len(c.values))}
	for i, v := range c.values {
		switch {
		case !v.Valid:
			out.Values[i] = nil
		case c.storage == StorageNumeric:
			out.Values[i] = v.Num
		default:
			out.Values[i] = v.Text
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON infers storage from the first non-null value unless
// "storage" is given. Mixed numbers and strings are rejected.
func (c *Column) UnmarshalJSON(data []byte) error {
	var in columnJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	storage := in.Storage
	if storage == "" {
		storage = StorageNumeric
		for _, raw := range in.Values {
			if raw == nil {
				continue
			}
			if _, ok := raw.(string); ok {
				storage = StorageText
			}
			break
		}
	}

	cells := make([]Value, len(in.Values))
	for i, raw := range in.Values {
		switch v := raw.(type) {
		case nil:
			cells[i] = Missing()
		case float64:
			if storage != StorageNumeric {
				return core.NewInvalidInputError(in.Name, fmt.Sprintf("row %d: number in a text column", i))
			}
			cells[i] = Numeric(v)
		case string:
			if storage != StorageText {
				return core.NewInvalidInputError(in.Name, fmt.Sprintf("row %d: string in a numeric column", i))
			}
			cells[i] = Text(v)
		default:
			return core.NewInvalidInputError(in.Name, fmt.Sprintf("row %d: unsupported value %v", i, raw))
		}
	}

	col, err := NewColumn(in.Name, storage, cells)
	if err != nil {
		return core.NewInvalidInputError("column", err.Error())
	}
	*c = col
	return nil
}

// MarshalJSON encodes the dataset as {"columns":[...]}
func (d *Dataset) MarshalJSON() ([]byte, error) {
	return json.Marshal(datasetJSON{Columns: d.columns})
}

// UnmarshalJSON decodes and validates a dataset
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var in datasetJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	ds, err := NewDataset(in.Columns...)
	if err != nil {
		return err
	}
	*d = *ds
	return nil
}
