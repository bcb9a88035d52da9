package ports

import (
	"context"

	"carestats/domain/dataset"
	"carestats/domain/stats"
)

// ReportAnalyzer computes a descriptive statistics report for a dataset
type ReportAnalyzer interface {
	Analyze(ctx context.Context, ds *dataset.Dataset, plan stats.Plan) (*stats.Report, error)
}
