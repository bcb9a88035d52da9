package shape

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"carestats/domain/core"
	"carestats/domain/dataset"
	domainstats "carestats/domain/stats"
)

const (
	// MomentsPopulation reports g1 and g2 from population central moments
	MomentsPopulation = "population"
	// MomentsAdjusted reports the bias-adjusted sample estimators G1 and G2
	MomentsAdjusted = "bias-adjusted"
)

// Options configures the shape engine
type Options struct {
	SampleCap    int
	Alpha        float64
	BiasAdjusted bool
}

// DefaultOptions returns the standard shape settings
func DefaultOptions() Options {
	return Options{
		SampleCap: domainstats.DefaultSampleCap,
		Alpha:     domainstats.DefaultAlpha,
	}
}

// ShapeEngine computes skewness, kurtosis and normality
type ShapeEngine struct {
	opts Options
}

// NewShapeEngine creates a shape engine; zero options take defaults.
func NewShapeEngine(opts Options) *ShapeEngine {
	def := DefaultOptions()
	if opts.SampleCap == 0 {
		opts.SampleCap = def.SampleCap
	}
	if opts.Alpha == 0 {
		opts.Alpha = def.Alpha
	}
	return &ShapeEngine{opts: opts}
}

// Describe computes shape statistics for a numeric column. Moments use
// every non-missing value; the normality test runs on the first
// SampleCap of them in row order, so results are reproducible.
func (e *ShapeEngine) Describe(col dataset.Column) (domainstats.ShapeSummary, error) {
	if !col.IsNumeric() {
		return domainstats.ShapeSummary{}, core.NewTypeMismatchError(col.Name(), string(dataset.StorageNumeric), string(col.Storage()))
	}
	if e.opts.SampleCap < domainstats.MinNormalitySample || e.opts.SampleCap > domainstats.MaxSampleCap {
		return domainstats.ShapeSummary{}, core.NewInvalidInputError("sample_cap", "must be in [3, 5000]")
	}

	data := col.Floats()
	need := domainstats.MinNormalitySample
	if e.opts.BiasAdjusted {
		need = 4
	}
	if len(data) < need {
		return domainstats.ShapeSummary{}, core.NewInsufficientSampleError(col.Name(), len(data), need)
	}

	skew, kurt, method, err := e.moments(data)
	if err != nil {
		return domainstats.ShapeSummary{}, core.NewInsufficientSampleError(col.Name()+" (zero variance)", len(data), need)
	}

	sample := data
	if len(sample) > e.opts.SampleCap {
		sample = sample[:e.opts.SampleCap]
	}
	w, p, err := ShapiroWilk(sample)
	if err != nil {
		return domainstats.ShapeSummary{}, core.NewInsufficientSampleError(col.Name()+" (normality sample has zero range)", len(sample), 3)
	}

	return domainstats.ShapeSummary{
		Column:        col.Name(),
		N:             len(data),
		Skewness:      skew,
		Kurtosis:      kurt,
		SkewLabel:     domainstats.ClassifySkew(skew),
		KurtosisLabel: domainstats.ClassifyKurtosis(kurt),
		MomentMethod:  method,
		Normality: domainstats.NormalityTest{
			Method:     NormalityMethod,
			SampleSize: len(sample),
			Statistic:  w,
			PValue:     p,
			Alpha:      e.opts.Alpha,
			Normal:     p > e.opts.Alpha,
		},
	}, nil
}

func (e *ShapeEngine) moments(data []float64) (skew, kurt float64, method string, err error) {
	m2 := stat.Moment(2, data, nil)
	if m2 == 0 || math.IsNaN(m2) {
		return 0, 0, "", core.ErrInsufficientSample
	}
	if e.opts.BiasAdjusted {
		return stat.Skew(data, nil), stat.ExKurtosis(data, nil), MomentsAdjusted, nil
	}
	skew, kurt = Moments(data)
	return skew, kurt, MomentsPopulation, nil
}

// Moments returns population skewness m3/m2^1.5 and excess kurtosis
// m4/m2^2 - 3. The result is NaN when data has zero variance.
func Moments(data []float64) (skew, kurt float64) {
	m2 := stat.Moment(2, data, nil)
	m3 := stat.Moment(3, data, nil)
	m4 := stat.Moment(4, data, nil)
	return m3 / math.Pow(m2, 1.5), m4/(m2*m2) - 3
}
