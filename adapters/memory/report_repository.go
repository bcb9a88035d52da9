package memory

import (
	"context"
	"sort"
	"sync"

	"carestats/domain/core"
	"carestats/domain/stats"
	"carestats/ports"
)

// ReportRepository is an in-process ReportRepository. It keeps at most
// capacity reports, evicting the oldest.
type ReportRepository struct {
	mu       sync.RWMutex
	reports  map[core.ReportID]*stats.Report
	order    []core.ReportID
	capacity int
}

// NewReportRepository creates a store; capacity <= 0 means unbounded
func NewReportRepository(capacity int) *ReportRepository {
	return &ReportRepository{
		reports:  make(map[core.ReportID]*stats.Report),
		capacity: capacity,
	}
}

var _ ports.ReportRepository = (*ReportRepository)(nil)

func (r *ReportRepository) Save(ctx context.Context, report *stats.Report) error {
	if report == nil || report.ID.IsEmpty() {
		return core.NewInvalidInputError("report", "an identified report is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reports[report.ID]; !exists {
		r.order = append(r.order, report.ID)
	}
	r.reports[report.ID] = report

	for r.capacity > 0 && len(r.order) > r.capacity {
		delete(r.reports, r.order[0])
		r.order = r.order[1:]
	}
	return nil
}

func (r *ReportRepository) Get(ctx context.Context, id core.ReportID) (*stats.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	report, ok := r.reports[id]
	if !ok {
		return nil, core.NewReportNotFoundError(id)
	}
	return report, nil
}

func (r *ReportRepository) List(ctx context.Context, limit int) ([]ports.ReportSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ports.ReportSummary, 0, len(r.order))
	for _, id := range r.order {
		rep := r.reports[id]
		out = append(out, ports.ReportSummary{
			ID:                 rep.ID,
			GeneratedAt:        rep.GeneratedAt,
			DatasetFingerprint: rep.DatasetFingerprint,
			Rows:               rep.Rows,
			Failures:           len(rep.Failures),
			Warnings:           len(rep.Warnings),
		})
	}
	// insertion order breaks ties between equal timestamps
	sort.SliceStable(out, func(i, j int) bool { return out[i].GeneratedAt.After(out[j].GeneratedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
