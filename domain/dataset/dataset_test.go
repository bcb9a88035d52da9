package dataset

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"carestats/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatasetValidation(t *testing.T) {
	age := NewNumericColumn("age", []float64{40, 50, 60})
	gender := NewTextColumn("gender", []string{"F", "M", "F"})

	ds, err := NewDataset(age, gender)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, []string{"age", "gender"}, ds.Names())

	_, err = NewDataset(age, NewTextColumn("short", []string{"a"}))
	assert.True(t, errors.Is(err, core.ErrInvalidInput), "unequal lengths must be rejected")

	_, err = NewDataset(age, age)
	assert.True(t, errors.Is(err, core.ErrInvalidInput), "duplicate names must be rejected")

	_, err = NewDataset()
	assert.Error(t, err)

	_, err = ds.Column("nope")
	assert.True(t, errors.Is(err, core.ErrColumnNotFound))
}

func TestMissingCells(t *testing.T) {
	charges := NewNumericColumn("total_charges", []float64{1000, math.NaN(), 2500, math.Inf(1)})
	assert.Equal(t, 2, charges.MissingCount())
	assert.Equal(t, []float64{1000, 2500}, charges.Floats())
	assert.Equal(t, MissingLabel, charges.Label(1))
	assert.Equal(t, "2500", charges.Label(2))

	labels := NewTextColumn("gender", []string{"F", "", "M"})
	assert.Equal(t, 1, labels.MissingCount())
	assert.Nil(t, labels.Floats())
}

func TestMissingSummary(t *testing.T) {
	ds, err := NewDataset(
		NewNumericColumn("total_charges", []float64{1, math.NaN(), 3, 4}),
		NewTextColumn("gender", []string{"F", "M", "F", "M"}),
	)
	require.NoError(t, err)

	summary := ds.MissingSummary()
	require.Len(t, summary, 2)
	assert.Equal(t, MissingSummary{Column: "total_charges", Count: 1, Percentage: 25}, summary[0])
	assert.Equal(t, 0, summary[1].Count)
}

func TestDatasetJSONRoundTrip(t *testing.T) {
	payload := `{"columns":[
		{"name":"age","values":[65,null,40]},
		{"name":"gender","values":["F","M",null]}
	]}`

	var ds Dataset
	require.NoError(t, json.Unmarshal([]byte(payload), &ds))
	assert.Equal(t, 3, ds.Rows())

	age, err := ds.Column("age")
	require.NoError(t, err)
	assert.True(t, age.IsNumeric())
	assert.Equal(t, 1, age.MissingCount())

	gender, err := ds.Column("gender")
	require.NoError(t, err)
	assert.Equal(t, StorageText, gender.Storage())

	encoded, err := json.Marshal(&ds)
	require.NoError(t, err)

	var again Dataset
	require.NoError(t, json.Unmarshal(encoded, &again))
	assert.Equal(t, ds.Fingerprint(), again.Fingerprint())
}

func TestDatasetJSONRejectsMixedColumns(t *testing.T) {
	var ds Dataset
	err := json.Unmarshal([]byte(`{"columns":[{"name":"x","values":[1,"a"]}]}`), &ds)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
}

func TestFingerprintDistinguishesMissing(t *testing.T) {
	a, err := NewDataset(NewNumericColumn("x", []float64{1, math.NaN()}))
	require.NoError(t, err)
	b, err := NewDataset(NewNumericColumn("x", []float64{1, 0}))
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestParseStatisticalType(t *testing.T) {
	got, err := ParseStatisticalType(" Continuous ")
	require.NoError(t, err)
	assert.Equal(t, TypeContinuous, got)

	_, err = ParseStatisticalType("ordinal")
	assert.Error(t, err)
}

func TestColumnLevels(t *testing.T) {
	col := NewTextColumn("band", []string{"b", "a"})
	assert.Nil(t, col.Levels())

	levels := []string{"b", "a"}
	ordered := col.WithLevels(levels)
	levels[0] = "z"
	assert.Equal(t, []string{"b", "a"}, ordered.Levels(), "levels are copied")
	assert.Nil(t, col.Levels(), "WithLevels leaves the receiver alone")
	assert.Equal(t, col.Label(0), ordered.Label(0))
}
