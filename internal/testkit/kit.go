package testkit

import (
	"testing"

	"carestats/domain/dataset"
)

// DischargeCohort generates a seeded cohort of n patients, failing the
// test on error.
func DischargeCohort(t testing.TB, n int, seed int64) *dataset.Dataset {
	t.Helper()
	cfg := DefaultDischargeConfig()
	cfg.Patients = n
	cfg.Seed = seed
	ds, err := NewDischargeDataGenerator(cfg).Generate()
	if err != nil {
		t.Fatalf("generate discharge cohort: %v", err)
	}
	return ds
}

// MustDataset builds a dataset from columns, failing the test on error.
func MustDataset(t testing.TB, columns ...dataset.Column) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.NewDataset(columns...)
	if err != nil {
		t.Fatalf("build dataset: %v", err)
	}
	return ds
}
