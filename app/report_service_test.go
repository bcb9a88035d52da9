package app

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carestats/adapters/memory"
	"carestats/adapters/stats/engine"
	"carestats/domain/core"
	"carestats/domain/stats"
	"carestats/internal"
	"carestats/internal/config"
	apperrors "carestats/internal/errors"
	"carestats/internal/testkit"
)

func newTestService(t *testing.T) (*ReportService, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	svc := NewReportService(
		engine.NewAnalysisEngine(4),
		memory.NewReportRepository(0),
		internal.NewLoggerTo(&logs, internal.LogLevelDebug),
		prometheus.NewRegistry(),
	)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, &logs
}

func TestReportServiceRunDischargePlan(t *testing.T) {
	svc, logs := newTestService(t)
	ds := testkit.DischargeCohort(t, 1000, 42)

	report, err := svc.Run(context.Background(), ds, config.DefaultDischargePlan())
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), report.GeneratedAt)
	assert.Equal(t, 1000, report.Rows)
	assert.Empty(t, report.Failures)

	charges, ok := report.DispersionFor("total_charges")
	require.True(t, ok)
	assert.Equal(t, 950, charges.N)
	assert.Equal(t, 50, charges.Missing)

	ageGroups, ok := report.BinnedFrequency("age_group")
	require.True(t, ok)
	assert.Equal(t, 1000, ageGroups.Total)

	for _, name := range []string{"readmission_rate", "mortality_rate", "surgery_rate", "infection_rate", "occupancy_rate"} {
		rate, ok := report.Rate(name)
		require.True(t, ok, name)
		assert.Equal(t, stats.StatusOK, rate.Status, name)
		require.NotNil(t, rate.Percentage, name)
		assert.GreaterOrEqual(t, *rate.Percentage, 0.0, name)
	}

	f2m, _ := report.Ratio("female_to_male")
	m2f, _ := report.Ratio("male_to_female")
	assert.InDelta(t, 1.0, *f2m.Value**m2f.Value, 1e-9)

	stored, err := svc.Get(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Same(t, report, stored)

	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.runs.WithLabelValues("ok")))
	assert.Contains(t, logs.String(), "analysed 1000 rows")
}

func TestReportServiceRecordsFailures(t *testing.T) {
	svc, logs := newTestService(t)
	ds := testkit.DischargeCohort(t, 50, 3)
	plan := stats.Plan{Columns: []string{"age", "ward"}}

	report, err := svc.Run(context.Background(), ds, plan)
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.failures.WithLabelValues("classifier", core.KindColumnNotFound)))
	assert.Contains(t, logs.String(), "ward")
}

func TestReportServiceInvalidPlan(t *testing.T) {
	svc, _ := newTestService(t)
	ds := testkit.DischargeCohort(t, 20, 1)

	_, err := svc.Run(context.Background(), ds, stats.Plan{Alpha: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidInput))
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.runs.WithLabelValues("error")))
}

func TestReportServiceListAndMissing(t *testing.T) {
	svc, _ := newTestService(t)
	ds := testkit.DischargeCohort(t, 30, 9)

	for i := 0; i < 3; i++ {
		_, err := svc.Run(context.Background(), ds, stats.Plan{Columns: []string{"gender"}})
		require.NoError(t, err)
	}
	list, err := svc.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.Get(context.Background(), "nope")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}

func TestReportServiceWithoutRepository(t *testing.T) {
	svc := NewReportService(engine.NewAnalysisEngine(1), nil, internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelError), nil)

	list, err := svc.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Get(context.Background(), "x")
	assert.True(t, errors.Is(err, core.ErrReportNotFound))
}
