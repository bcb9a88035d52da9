package engine

import (
	"errors"

	"carestats/adapters/stats/classifier"
	"carestats/adapters/stats/frequency"
	"carestats/domain/core"
	"carestats/domain/dataset"
	"carestats/domain/stats"
)

// errSkipped marks a slot whose failure was already reported by an
// earlier phase.
var errSkipped = errors.New("skipped")

type columnSet struct {
	categorical []dataset.Column // categorical and binary
	continuous  []dataset.Column
}

// classify tags the plan's columns and routes them to engines. Ambiguity
// warnings keep the column; other errors drop it from analysis.
func (e *AnalysisEngine) classify(ds *dataset.Dataset, plan stats.Plan, report *stats.Report) columnSet {
	c := classifier.NewColumnClassifier(classifier.Options{AmbiguousDistinctMax: plan.AmbiguousDistinctMax})

	var set columnSet
	for _, res := range c.ClassifyAll(ds, plan.Columns, plan.Hints) {
		name := res.Classification.Column
		if !res.Usable() {
			report.Failures = append(report.Failures, stats.NewFailure(ComponentClassifier, name, res.Err))
			continue
		}
		if res.Err != nil {
			report.Warnings = append(report.Warnings, stats.NewFailure(ComponentClassifier, name, res.Err))
		}
		report.Classifications = append(report.Classifications, res.Classification)

		col, err := ds.Column(name)
		if err != nil {
			continue
		}
		switch res.Classification.Type {
		case dataset.TypeContinuous:
			set.continuous = append(set.continuous, col)
		default:
			set.categorical = append(set.categorical, col)
		}
	}
	return set
}

// deriveBins materializes every binned column before the parallel phase
// so cross-tabs and case mixes can refer to them by name.
func (e *AnalysisEngine) deriveBins(ds *dataset.Dataset, plan stats.Plan, report *stats.Report) map[string]dataset.Column {
	derived := make(map[string]dataset.Column, len(plan.Bins))
	for _, b := range plan.Bins {
		if _, err := ds.Column(b.Name); err == nil {
			report.Failures = append(report.Failures, stats.NewFailure(ComponentBinning, b.Name,
				core.NewInvalidInputError("bins", "derived name "+b.Name+" shadows a dataset column")))
			continue
		}
		src, err := ds.Column(b.Column)
		if err != nil {
			report.Failures = append(report.Failures, stats.NewFailure(ComponentBinning, b.Name, err))
			continue
		}
		col, err := e.binning.Bin(src, b.BinSpec, b.Name)
		if err != nil {
			report.Failures = append(report.Failures, stats.NewFailure(ComponentBinning, b.Name, err))
			continue
		}
		derived[b.Name] = col
	}
	return derived
}

type resolver func(name string) (dataset.Column, error)

func (e *AnalysisEngine) crossTab(resolve resolver, spec stats.CrossTabSpec, dropMissing bool) (stats.CrossTabulation, error) {
	rows, err := resolve(spec.Rows)
	if err != nil {
		return stats.CrossTabulation{}, err
	}
	cols, err := resolve(spec.Columns)
	if err != nil {
		return stats.CrossTabulation{}, err
	}
	return e.frequency.CrossTabulate(rows, cols, frequency.CrossTabOptions{Normalize: spec.Normalize, DropMissing: dropMissing})
}

func (e *AnalysisEngine) caseMix(resolve resolver, name string, dropMissing bool) (stats.CaseMix, error) {
	col, err := resolve(name)
	if err != nil {
		return stats.CaseMix{}, err
	}
	table, err := e.frequency.Frequency(col, frequency.Options{DropMissing: dropMissing})
	if err != nil {
		return stats.CaseMix{}, err
	}
	return stats.CaseMix{Column: name, Entries: e.rates.CaseMix(table)}, nil
}

// ratio counts labels over non-missing rows only
func (e *AnalysisEngine) ratio(resolve resolver, spec stats.RatioSpec) (stats.Ratio, error) {
	col, err := resolve(spec.Column)
	if err != nil {
		return stats.Ratio{Name: spec.Name, Column: spec.Column}, err
	}
	table, err := e.frequency.Frequency(col, frequency.Options{DropMissing: true})
	if err != nil {
		return stats.Ratio{Name: spec.Name, Column: spec.Column}, err
	}
	return e.rates.Ratio(spec, table)
}

// rateEntries reports every requested rate in plan order. Undefined rates
// keep their slot with a null percentage; lookup errors also count as
// failures.
func rateEntries(report *stats.Report, specs []stats.RateSpec, slots []outcome[stats.RateMetric]) []stats.RateEntry {
	out := make([]stats.RateEntry, len(slots))
	for i, s := range slots {
		label := specs[i].Label
		if label == "" {
			label = specs[i].Name
		}
		if s.err != nil {
			out[i] = stats.RateEntry{
				Name:   specs[i].Name,
				Label:  label,
				Status: stats.StatusUndefined,
				Reason: s.err.Error(),
			}
			if !core.IsUndefinedMetric(s.err) {
				report.Failures = append(report.Failures, stats.NewFailure(ComponentRates, s.target, s.err))
			}
			continue
		}
		pct := s.value.Percentage
		out[i] = stats.RateEntry{
			Name:        s.value.Name,
			Label:       s.value.Label,
			Status:      stats.StatusOK,
			Numerator:   s.value.Numerator,
			Denominator: s.value.Denominator,
			Percentage:  &pct,
		}
	}
	return out
}

func ratioEntries(report *stats.Report, specs []stats.RatioSpec, slots []outcome[stats.Ratio]) []stats.RatioEntry {
	out := make([]stats.RatioEntry, len(slots))
	for i, s := range slots {
		entry := stats.RatioEntry{
			Name:        specs[i].Name,
			Column:      specs[i].Column,
			Numerator:   specs[i].Numerator,
			Denominator: specs[i].Denominator,
			Status:      stats.StatusOK,
			NumCount:    s.value.NumCount,
			DenCount:    s.value.DenCount,
		}
		if s.err != nil {
			entry.Status = stats.StatusUndefined
			entry.Reason = s.err.Error()
			if !core.IsUndefinedMetric(s.err) {
				report.Failures = append(report.Failures, stats.NewFailure(ComponentRatios, s.target, s.err))
			}
		} else {
			v := s.value.Value
			entry.Value = &v
		}
		out[i] = entry
	}
	return out
}
