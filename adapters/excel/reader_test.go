package excel

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"carestats/domain/core"
	"carestats/domain/dataset"
	"carestats/internal/testkit"
)

func TestReadCSVInfersColumnTypes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "discharges.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"age,gender,total_charges\n"+
			"65,F,1200.5\n"+
			"40,M,\n"+
			"71,,980\n"), 0o644))

	ds, err := NewDataReader(path).ReadDataset()
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Rows())

	age, err := ds.Column("age")
	require.NoError(t, err)
	assert.True(t, age.IsNumeric())
	assert.Equal(t, []float64{65, 40, 71}, age.Floats())

	gender, err := ds.Column("gender")
	require.NoError(t, err)
	assert.Equal(t, dataset.StorageText, gender.Storage())
	assert.Equal(t, 1, gender.MissingCount())

	charges, err := ds.Column("total_charges")
	require.NoError(t, err)
	assert.Equal(t, 1, charges.MissingCount())
}

func TestReadWorkbookPadsShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "discharges.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"length_of_stay", "primary_diagnosis"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{3, "Pneumonia"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{7}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	ds, err := NewDataReader(path).ReadDataset()
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Rows())

	diagnosis, err := ds.Column("primary_diagnosis")
	require.NoError(t, err)
	assert.Equal(t, "Pneumonia", diagnosis.Label(0))
	assert.Equal(t, dataset.MissingLabel, diagnosis.Label(1))
}

func TestWorkbookRoundTrip(t *testing.T) {
	ds := testkit.DischargeCohort(t, 60, 11)
	path := filepath.Join(t.TempDir(), "cohort.xlsx")
	require.NoError(t, WriteWorkbook(ds, path))

	again, err := NewDataReader(path).ReadDataset()
	require.NoError(t, err)
	assert.Equal(t, ds.Names(), again.Names())
	assert.Equal(t, ds.Rows(), again.Rows())

	for _, name := range ds.Names() {
		want, err := ds.Column(name)
		require.NoError(t, err)
		got, err := again.Column(name)
		require.NoError(t, err)
		assert.Equal(t, want.Storage(), got.Storage(), name)
		assert.Equal(t, want.MissingCount(), got.MissingCount(), name)
		if want.IsNumeric() {
			assert.InDeltaSlice(t, want.Floats(), got.Floats(), 1e-9, name)
		}
	}
}

func TestReadRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	_, err := NewDataReader(filepath.Join(dir, "absent.xlsx")).ReadDataset()
	assert.True(t, errors.Is(err, core.ErrInvalidInput))

	headerOnly := filepath.Join(dir, "header.csv")
	require.NoError(t, os.WriteFile(headerOnly, []byte("age,gender\n"), 0o644))
	_, err = NewDataReader(headerOnly).ReadDataset()
	assert.True(t, errors.Is(err, core.ErrInvalidInput))

	unnamed := filepath.Join(dir, "unnamed.csv")
	require.NoError(t, os.WriteFile(unnamed, []byte("age,\n1,2\n"), 0o644))
	_, err = NewDataReader(unnamed).ReadDataset()
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.XLSX"))
	assert.True(t, Supported("a.csv"))
	assert.False(t, Supported("a.json"))
}
