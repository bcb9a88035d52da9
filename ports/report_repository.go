package ports

import (
	"context"
	"time"

	"carestats/domain/core"
	"carestats/domain/stats"
)

// ReportRepository keeps finished reports for later retrieval
type ReportRepository interface {
	Save(ctx context.Context, report *stats.Report) error
	Get(ctx context.Context, id core.ReportID) (*stats.Report, error)
	// List returns summaries, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]ReportSummary, error)
}

// ReportSummary is the listing view of a stored report
type ReportSummary struct {
	ID                 core.ReportID    `json:"id"`
	GeneratedAt        time.Time        `json:"generated_at"`
	DatasetFingerprint core.DatasetHash `json:"dataset_fingerprint"`
	Rows               int              `json:"rows"`
	Failures           int              `json:"failures"`
	Warnings           int              `json:"warnings"`
}
