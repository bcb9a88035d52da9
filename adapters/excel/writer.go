package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"carestats/domain/dataset"
)

// DefaultSheet is the sheet WriteWorkbook fills
const DefaultSheet = "Sheet1"

// WriteWorkbook saves ds to an .xlsx file, one column per dataset column.
// Missing cells are left empty so ReadDataset reads them back as missing.
func WriteWorkbook(ds *dataset.Dataset, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	columns := ds.Columns()
	header := make([]interface{}, len(columns))
	for j, col := range columns {
		header[j] = col.Name()
	}
	if err := f.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]interface{}, len(columns))
	for i := 0; i < ds.Rows(); i++ {
		for j, col := range columns {
			v := col.At(i)
			switch {
			case !v.Valid:
				row[j] = nil
			case col.IsNumeric():
				row[j] = v.Num
			default:
				row[j] = v.Text
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DefaultSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
