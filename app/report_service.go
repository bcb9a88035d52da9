package app

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"carestats/domain/core"
	"carestats/domain/dataset"
	"carestats/domain/stats"
	"carestats/internal"
	"carestats/internal/errors"
	"carestats/ports"
)

// ReportService runs analyses and keeps their reports
type ReportService struct {
	analyzer ports.ReportAnalyzer
	repo     ports.ReportRepository
	logger   *internal.Logger
	metrics  *Metrics
	now      func() time.Time
}

// NewReportService wires the service. repo may be nil to skip storage;
// registerer may be nil to skip metric registration.
func NewReportService(analyzer ports.ReportAnalyzer, repo ports.ReportRepository, logger *internal.Logger, registerer prometheus.Registerer) *ReportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ReportService{
		analyzer: analyzer,
		repo:     repo,
		logger:   logger,
		metrics:  NewMetrics(registerer),
		now:      time.Now,
	}
}

// Run analyses ds under plan and stamps the report with an ID and time.
// Per-column failures are part of a successful report; only an invalid
// plan, a missing dataset or cancellation fail the run.
func (s *ReportService) Run(ctx context.Context, ds *dataset.Dataset, plan stats.Plan) (*stats.Report, error) {
	start := time.Now()

	report, err := s.analyzer.Analyze(ctx, ds, plan)
	elapsed := time.Since(start)
	s.metrics.duration.Observe(elapsed.Seconds())
	if err != nil {
		s.metrics.runs.WithLabelValues("error").Inc()
		s.logger.Error("analysis failed after %s: %v", elapsed, err)
		return nil, errors.Wrap(err, "analysis failed")
	}

	report.ID = core.NewReportID()
	report.GeneratedAt = s.now().UTC()

	s.metrics.runs.WithLabelValues("ok").Inc()
	s.metrics.rows.Observe(float64(report.Rows))
	log := s.logger.With("report_id", report.ID.String())
	for _, w := range report.Warnings {
		log.Warn("%s %s: %s", w.Component, w.Target, w.Message)
	}
	for _, f := range report.Failures {
		s.metrics.failures.WithLabelValues(f.Component, f.Kind).Inc()
		log.Warn("%s %s failed (%s): %s", f.Component, f.Target, f.Kind, f.Message)
	}
	log.Info("analysed %d rows in %s: %d frequency tables, %d dispersion summaries, %d failures",
		report.Rows, elapsed, len(report.Frequencies), len(report.Dispersion), len(report.Failures))

	if s.repo != nil {
		if err := s.repo.Save(ctx, report); err != nil {
			return nil, errors.Wrap(err, "failed to store report")
		}
	}
	return report, nil
}

// Get returns a stored report
func (s *ReportService) Get(ctx context.Context, id core.ReportID) (*stats.Report, error) {
	if s.repo == nil {
		return nil, errors.Wrap(core.NewReportNotFoundError(id), "report storage is disabled")
	}
	report, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load report")
	}
	return report, nil
}

// List returns stored report summaries, newest first
func (s *ReportService) List(ctx context.Context, limit int) ([]ports.ReportSummary, error) {
	if s.repo == nil {
		return []ports.ReportSummary{}, nil
	}
	return s.repo.List(ctx, limit)
}
