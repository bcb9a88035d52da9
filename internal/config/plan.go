package config

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"carestats/domain/dataset"
	"carestats/domain/stats"
	"carestats/internal/errors"
)

// Reference cohort columns used by the default plan
const (
	colAge          = "age"
	colGender       = "gender"
	colLengthOfStay = "length_of_stay"
	colTotalCharges = "total_charges"
	colDisposition  = "discharge_disposition"
	colDiagnosis    = "primary_diagnosis"
	colReadmission  = "readmission_30d"
	colSurgery      = "surgery_performed"
	colInfection    = "infection_acquired"
)

// Bed capacity behind the default occupancy rate: a 100-bed facility
// over one year.
const (
	DefaultBeds        = 100
	DefaultPeriodDays  = 365
	defaultBedDaysOpen = DefaultBeds * DefaultPeriodDays
)

// DefaultDischargePlan returns the standard hospital discharge analysis
func DefaultDischargePlan() stats.Plan {
	bedDays := float64(defaultBedDaysOpen)
	return stats.Plan{
		Columns: []string{
			colAge, colGender, colLengthOfStay, colTotalCharges, colDisposition,
			colDiagnosis, colReadmission, colSurgery, colInfection,
		},
		Hints: map[string]dataset.StatisticalType{
			colReadmission: dataset.TypeBinary,
			colSurgery:     dataset.TypeBinary,
			colInfection:   dataset.TypeBinary,
		},
		Bins: []stats.BinPlan{{
			Column: colAge,
			Name:   "age_group",
			BinSpec: stats.BinSpec{
				Boundaries: []float64{18, 35, 50, 65, 80, 95},
				Labels:     []string{"18-34", "35-49", "50-64", "65-79", "80+"},
			},
		}},
		CrossTabs: []stats.CrossTabSpec{
			{Rows: colGender, Columns: colDisposition, Normalize: stats.NormalizeRow},
			{Rows: "age_group", Columns: colDiagnosis, Normalize: stats.NormalizeRow},
		},
		Percentiles:          append([]float64(nil), stats.DefaultPercentiles...),
		SampleCap:            stats.DefaultSampleCap,
		Alpha:                stats.DefaultAlpha,
		AmbiguousDistinctMax: stats.DefaultAmbiguousDistinctMax,
		Rates: []stats.RateSpec{
			{Name: "readmission_rate", Label: "30-day readmission rate", Column: colReadmission, Kind: stats.NumeratorIndicator},
			{Name: "mortality_rate", Label: "In-hospital mortality rate", Column: colDisposition, Kind: stats.NumeratorEquals, Equals: "Death"},
			{Name: "surgery_rate", Label: "Surgical procedure rate", Column: colSurgery, Kind: stats.NumeratorIndicator},
			{Name: "infection_rate", Label: "Hospital-acquired infection rate", Column: colInfection, Kind: stats.NumeratorIndicator},
			{Name: "occupancy_rate", Label: "Bed occupancy rate", Column: colLengthOfStay, Kind: stats.NumeratorSum, Denominator: &bedDays},
		},
		Ratios: []stats.RatioSpec{
			{Name: "female_to_male", Column: colGender, Numerator: "F", Denominator: "M"},
			{Name: "male_to_female", Column: colGender, Numerator: "M", Denominator: "F"},
		},
		CaseMix: []string{colDiagnosis, colDisposition},
	}
}

// ParsePlan decodes a YAML plan, rejecting unknown fields, and applies
// defaults. An empty document is the empty plan: every column, inferred.
func ParsePlan(data []byte) (stats.Plan, error) {
	var plan stats.Plan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil && err != io.EOF {
		return stats.Plan{}, errors.Wrap(errors.PlanInvalid(err.Error()), "failed to decode plan")
	}

	plan = plan.WithDefaults()
	if err := plan.Validate(); err != nil {
		return stats.Plan{}, errors.WithCode(errors.CodePlanInvalid, err)
	}
	return plan, nil
}

// LoadPlan reads a YAML plan file. An empty path yields the default plan.
func LoadPlan(path string) (stats.Plan, error) {
	if path == "" {
		return DefaultDischargePlan(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return stats.Plan{}, errors.Wrapf(errors.WithCode(errors.CodeConfigInvalid, err), "failed to read plan %s", path)
	}
	return ParsePlan(data)
}

// MarshalPlan encodes a plan as YAML, e.g. to seed a plan file
func MarshalPlan(plan stats.Plan) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(plan); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
