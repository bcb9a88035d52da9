package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"carestats/domain/dataset"
)

// Column names of the synthetic discharge cohort
const (
	ColPatientID    = "patient_id"
	ColAge          = "age"
	ColGender       = "gender"
	ColLengthOfStay = "length_of_stay"
	ColTotalCharges = "total_charges"
	ColDisposition  = "discharge_disposition"
	ColDiagnosis    = "primary_diagnosis"
	ColReadmission  = "readmission_30d"
	ColSurgery      = "surgery_performed"
	ColInfection    = "infection_acquired"
)

// Weighted is one outcome of a categorical draw
type Weighted struct {
	Label  string  `json:"label"`
	Weight float64 `json:"weight"`
}

// DischargeGeneratorConfig configures the synthetic cohort
type DischargeGeneratorConfig struct {
	Patients int   `json:"patients"`
	Seed     int64 `json:"seed"`

	AgeMean, AgeStd     float64
	AgeMin, AgeMax      float64
	FemaleShare         float64
	LOSMu, LOSSigma     float64 // log-scale parameters
	LOSMin, LOSMax      float64
	ChargeMu, ChargeSig float64
	ChargeMin           float64
	ChargeMax           float64
	ChargeMissingShare  float64

	Dispositions []Weighted
	Diagnoses    []Weighted

	ReadmissionRate float64
	SurgeryRate     float64
	InfectionRate   float64
}

// DefaultDischargeConfig mirrors a 1,000-patient acute care cohort
func DefaultDischargeConfig() DischargeGeneratorConfig {
	return DischargeGeneratorConfig{
		Patients:           1000,
		Seed:               42,
		AgeMean:            65,
		AgeStd:             15,
		AgeMin:             18,
		AgeMax:             95,
		FemaleShare:        0.54,
		LOSMu:              1.2,
		LOSSigma:           0.8,
		LOSMin:             1,
		LOSMax:             30,
		ChargeMu:           9,
		ChargeSig:          1.2,
		ChargeMin:          1000,
		ChargeMax:          500000,
		ChargeMissingShare: 0.05,
		Dispositions: []Weighted{
			{"Home", 0.65}, {"SNF", 0.15}, {"Rehab", 0.10}, {"Transfer", 0.08}, {"Death", 0.02},
		},
		Diagnoses: []Weighted{
			{"Heart Disease", 0.25}, {"Pneumonia", 0.20}, {"Diabetes", 0.20}, {"Stroke", 0.15}, {"Cancer", 0.20},
		},
		ReadmissionRate: 0.15,
		SurgeryRate:     0.30,
		InfectionRate:   0.05,
	}
}

// DischargeDataGenerator produces reproducible discharge datasets
type DischargeDataGenerator struct {
	config DischargeGeneratorConfig
	rng    *rand.Rand
}

// NewDischargeDataGenerator creates a generator seeded from config
func NewDischargeDataGenerator(config DischargeGeneratorConfig) *DischargeDataGenerator {
	return &DischargeDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate draws one cohort. The same seed always yields the same dataset.
func (g *DischargeDataGenerator) Generate() (*dataset.Dataset, error) {
	c := g.config
	if c.Patients <= 0 {
		return nil, fmt.Errorf("patients must be positive, got %d", c.Patients)
	}
	n := c.Patients

	ids := make([]float64, n)
	ages := make([]float64, n)
	genders := make([]string, n)
	los := make([]float64, n)
	charges := make([]float64, n)
	dispositions := make([]string, n)
	diagnoses := make([]string, n)
	readmit := make([]float64, n)
	surgery := make([]float64, n)
	infection := make([]float64, n)

	for i := 0; i < n; i++ {
		ids[i] = float64(i + 1)
		ages[i] = math.Trunc(clip(c.AgeMean+c.AgeStd*g.rng.NormFloat64(), c.AgeMin, c.AgeMax))
		genders[i] = "M"
		if g.rng.Float64() < c.FemaleShare {
			genders[i] = "F"
		}
		los[i] = math.Trunc(clip(g.lognormal(c.LOSMu, c.LOSSigma), c.LOSMin, c.LOSMax))
		charges[i] = clip(g.lognormal(c.ChargeMu, c.ChargeSig), c.ChargeMin, c.ChargeMax)
		dispositions[i] = g.choose(c.Dispositions)
		diagnoses[i] = g.choose(c.Diagnoses)
		readmit[i] = g.bernoulli(c.ReadmissionRate)
		surgery[i] = g.bernoulli(c.SurgeryRate)
		infection[i] = g.bernoulli(c.InfectionRate)
	}

	missing := int(float64(n) * c.ChargeMissingShare)
	for _, idx := range g.rng.Perm(n)[:missing] {
		charges[idx] = math.NaN()
	}

	return dataset.NewDataset(
		dataset.NewNumericColumn(ColPatientID, ids),
		dataset.NewNumericColumn(ColAge, ages),
		dataset.NewTextColumn(ColGender, genders),
		dataset.NewNumericColumn(ColLengthOfStay, los),
		dataset.NewNumericColumn(ColTotalCharges, charges),
		dataset.NewTextColumn(ColDisposition, dispositions),
		dataset.NewTextColumn(ColDiagnosis, diagnoses),
		dataset.NewNumericColumn(ColReadmission, readmit),
		dataset.NewNumericColumn(ColSurgery, surgery),
		dataset.NewNumericColumn(ColInfection, infection),
	)
}

func (g *DischargeDataGenerator) lognormal(mu, sigma float64) float64 {
	return math.Exp(mu + sigma*g.rng.NormFloat64())
}

func (g *DischargeDataGenerator) bernoulli(p float64) float64 {
	if g.rng.Float64() < p {
		return 1
	}
	return 0
}

// choose draws a label with probability proportional to its weight
func (g *DischargeDataGenerator) choose(options []Weighted) string {
	total := 0.0
	for _, o := range options {
		total += o.Weight
	}
	r := g.rng.Float64() * total
	for _, o := range options {
		if r < o.Weight {
			return o.Label
		}
		r -= o.Weight
	}
	return options[len(options)-1].Label
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
