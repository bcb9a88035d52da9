package classifier

import (
	"errors"
	"math"
	"testing"

	"carestats/domain/core"
	"carestats/domain/dataset"
)

func TestTypeInference(t *testing.T) {
	c := NewColumnClassifier(DefaultOptions())

	tests := []struct {
		name       string
		column     dataset.Column
		expected   dataset.StatisticalType
		expectWarn bool
	}{
		{
			name:     "text labels are categorical",
			column:   dataset.NewTextColumn("gender", []string{"F", "M", "F", "M"}),
			expected: dataset.TypeCategorical,
		},
		{
			name:     "zero/one indicator is binary",
			column:   dataset.NewNumericColumn("readmission_30d", []float64{0, 1, 0, 0, 1, math.NaN()}),
			expected: dataset.TypeBinary,
		},
		{
			name:     "constant indicator is still binary",
			column:   dataset.NewNumericColumn("infection_acquired", []float64{0, 0, 0}),
			expected: dataset.TypeBinary,
		},
		{
			name:       "few distinct numbers are ambiguous",
			column:     dataset.NewNumericColumn("severity", []float64{1, 2, 3, 2, 1, 3, 2}),
			expected:   dataset.TypeCategorical,
			expectWarn: true,
		},
		{
			name:     "many distinct numbers are continuous",
			column:   dataset.NewNumericColumn("age", []float64{18, 25, 33, 47, 52, 61, 70, 88}),
			expected: dataset.TypeContinuous,
		},
		{
			name:       "all-missing numeric column is ambiguous",
			column:     dataset.NewNumericColumn("empty", []float64{math.NaN(), math.NaN()}),
			expected:   dataset.TypeCategorical,
			expectWarn: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, err := c.Classify(tt.column, "")
			if cls.Type != tt.expected {
				t.Errorf("Expected type %s, got %s", tt.expected, cls.Type)
			}
			if !cls.Inferred {
				t.Error("Expected Inferred to be set without a hint")
			}
			if tt.expectWarn {
				if !errors.Is(err, core.ErrAmbiguousColumnType) {
					t.Fatalf("Expected ambiguity warning, got %v", err)
				}
				if !IsWarning(err) || cls.Warning == "" {
					t.Error("Expected warning to be recorded on the classification")
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestHintsOverrideInference(t *testing.T) {
	c := NewColumnClassifier(DefaultOptions())
	values := dataset.NewNumericColumn("los", []float64{1, 2, 2, 3})

	cls, err := c.Classify(values, dataset.TypeContinuous)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cls.Type != dataset.TypeContinuous || cls.Inferred {
		t.Errorf("Expected hinted continuous type, got %+v", cls)
	}

	_, err = c.Classify(dataset.NewTextColumn("gender", []string{"F"}), dataset.TypeContinuous)
	if !errors.Is(err, core.ErrColumnTypeMismatch) {
		t.Errorf("Expected type mismatch for continuous hint on text, got %v", err)
	}

	_, err = c.Classify(values, dataset.TypeBinary)
	if !errors.Is(err, core.ErrColumnTypeMismatch) {
		t.Errorf("Expected type mismatch for binary hint on non-indicator, got %v", err)
	}
}

func TestClassifyAllKeepsGoingOnMissingColumns(t *testing.T) {
	ds, err := dataset.NewDataset(
		dataset.NewTextColumn("gender", []string{"F", "M"}),
		dataset.NewNumericColumn("surgery_performed", []float64{1, 0}),
	)
	if err != nil {
		t.Fatal(err)
	}

	c := NewColumnClassifier(DefaultOptions())
	results := c.ClassifyAll(ds, []string{"gender", "ghost", "surgery_performed"}, nil)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if !errors.Is(results[1].Err, core.ErrColumnNotFound) || results[1].Usable() {
		t.Errorf("Expected unusable ColumnNotFound result, got %v", results[1].Err)
	}
	if results[2].Classification.Type != dataset.TypeBinary {
		t.Errorf("Expected binary surgery indicator, got %s", results[2].Classification.Type)
	}

	all := c.ClassifyAll(ds, nil, nil)
	if len(all) != 2 {
		t.Errorf("Expected every column when none named, got %d", len(all))
	}
}
