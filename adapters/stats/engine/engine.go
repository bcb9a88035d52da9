package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"carestats/adapters/stats/binning"
	"carestats/adapters/stats/dispersion"
	"carestats/adapters/stats/frequency"
	"carestats/adapters/stats/rates"
	"carestats/adapters/stats/shape"
	"carestats/domain/core"
	"carestats/domain/dataset"
	"carestats/domain/stats"
)

// Component names used in report failures
const (
	ComponentClassifier = "classifier"
	ComponentFrequency  = "frequency"
	ComponentBinning    = "binning"
	ComponentCrossTab   = "cross_tab"
	ComponentDispersion = "dispersion"
	ComponentShape      = "shape"
	ComponentRates      = "rates"
	ComponentRatios     = "ratios"
	ComponentCaseMix    = "case_mix"
)

// AnalysisEngine executes a plan against a dataset and collects every
// result and failure into one report.
type AnalysisEngine struct {
	workers    int
	frequency  *frequency.FrequencyEngine
	binning    *binning.BinningEngine
	dispersion *dispersion.DispersionEngine
	rates      *rates.RateEngine
}

// NewAnalysisEngine creates an engine running at most workers column
// tasks at once. workers <= 0 means GOMAXPROCS.
func NewAnalysisEngine(workers int) *AnalysisEngine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &AnalysisEngine{
		workers:    workers,
		frequency:  frequency.NewFrequencyEngine(),
		binning:    binning.NewBinningEngine(),
		dispersion: dispersion.NewDispersionEngine(),
		rates:      rates.NewRateEngine(),
	}
}

// Workers returns the task concurrency limit
func (e *AnalysisEngine) Workers() int { return e.workers }

// outcome is the pre-allocated result slot of one task
type outcome[T any] struct {
	target string
	value  T
	err    error
}

// Analyze runs plan over ds. A structurally invalid plan fails the whole
// run; per-column problems are recorded as failures and never abort
// unrelated work. Only context cancellation interrupts a run.
func (e *AnalysisEngine) Analyze(ctx context.Context, ds *dataset.Dataset, plan stats.Plan) (*stats.Report, error) {
	if ds == nil {
		return nil, core.NewInvalidInputError("dataset", "is required")
	}
	plan = plan.WithDefaults()
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	report := newReport(ds)
	columns := e.classify(ds, plan, report)
	derived := e.deriveBins(ds, plan, report)

	resolve := func(name string) (dataset.Column, error) {
		if col, ok := derived[name]; ok {
			return col, nil
		}
		return ds.Column(name)
	}

	freqOpts := frequency.Options{DropMissing: plan.DropMissing}
	shapeEngine := shape.NewShapeEngine(shape.Options{
		SampleCap:    plan.SampleCap,
		Alpha:        plan.Alpha,
		BiasAdjusted: plan.BiasAdjusted,
	})

	freqs := make([]outcome[stats.FrequencyTable], len(columns.categorical))
	binned := make([]outcome[stats.FrequencyTable], len(plan.Bins))
	crossTabs := make([]outcome[stats.CrossTabulation], len(plan.CrossTabs))
	disps := make([]outcome[stats.DispersionSummary], len(columns.continuous))
	shapes := make([]outcome[stats.ShapeSummary], len(columns.continuous))
	caseMixes := make([]outcome[stats.CaseMix], len(plan.CaseMix))
	ratios := make([]outcome[stats.Ratio], len(plan.Ratios))
	rateSlots := make([]outcome[stats.RateMetric], len(plan.Rates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	run := func(task func()) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			task()
			return nil
		})
	}

	for i, col := range columns.categorical {
		i, col := i, col
		run(func() {
			freqs[i].target = col.Name()
			freqs[i].value, freqs[i].err = e.frequency.Frequency(col, freqOpts)
		})
	}
	for i, col := range columns.continuous {
		i, col := i, col
		run(func() {
			disps[i].target = col.Name()
			disps[i].value, disps[i].err = e.dispersion.Summarize(col, dispersion.Options{Percentiles: plan.Percentiles})
		})
		run(func() {
			shapes[i].target = col.Name()
			shapes[i].value, shapes[i].err = shapeEngine.Describe(col)
		})
	}
	for i, b := range plan.Bins {
		i, b := i, b
		run(func() {
			binned[i].target = b.Name
			col, ok := derived[b.Name]
			if !ok {
				binned[i].err = errSkipped
				return
			}
			binned[i].value, binned[i].err = e.frequency.Frequency(col, freqOpts)
		})
	}
	for i, spec := range plan.CrossTabs {
		i, spec := i, spec
		run(func() {
			crossTabs[i].target = spec.Rows + " x " + spec.Columns
			crossTabs[i].value, crossTabs[i].err = e.crossTab(resolve, spec, plan.DropMissing)
		})
	}
	for i, name := range plan.CaseMix {
		i, name := i, name
		run(func() {
			caseMixes[i].target = name
			caseMixes[i].value, caseMixes[i].err = e.caseMix(resolve, name, plan.DropMissing)
		})
	}
	for i, spec := range plan.Ratios {
		i, spec := i, spec
		run(func() {
			ratios[i].target = spec.Name
			ratios[i].value, ratios[i].err = e.ratio(resolve, spec)
		})
	}
	for i, spec := range plan.Rates {
		i, spec := i, spec
		run(func() {
			rateSlots[i].target = spec.Name
			rateSlots[i].value, rateSlots[i].err = e.rates.Evaluate(ds, spec)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Frequencies = collect(report, ComponentFrequency, freqs)
	report.Binned = collect(report, ComponentBinning, binned)
	report.CrossTabs = collect(report, ComponentCrossTab, crossTabs)
	report.Dispersion = collect(report, ComponentDispersion, disps)
	report.Shape = collect(report, ComponentShape, shapes)
	report.CaseMix = collect(report, ComponentCaseMix, caseMixes)
	report.Rates = rateEntries(report, plan.Rates, rateSlots)
	report.Ratios = ratioEntries(report, plan.Ratios, ratios)
	return report, nil
}

func newReport(ds *dataset.Dataset) *stats.Report {
	return &stats.Report{
		DatasetFingerprint: ds.Fingerprint(),
		Rows:               ds.Rows(),
		Classifications:    []stats.ColumnClassification{},
		Missing:            ds.MissingSummary(),
		Warnings:           []stats.Failure{},
		Failures:           []stats.Failure{},
	}
}

// collect keeps successful values in slot order and records the rest as
// failures. Skipped slots already have a failure upstream.
func collect[T any](report *stats.Report, component string, slots []outcome[T]) []T {
	out := make([]T, 0, len(slots))
	for _, s := range slots {
		switch {
		case s.err == errSkipped:
		case s.err != nil:
			report.Failures = append(report.Failures, stats.NewFailure(component, s.target, s.err))
		default:
			out = append(out, s.value)
		}
	}
	return out
}
