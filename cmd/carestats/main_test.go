package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carestats/domain/dataset"
	"carestats/domain/stats"
	"carestats/internal/config"
	"carestats/internal/testkit"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeSyntheticCohort(t *testing.T) {
	out, err := execute(t, "analyze", "--patients", "300", "--seed", "7", "--workers", "2", "--log-level", "ERROR")
	require.NoError(t, err)

	var report stats.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 300, report.Rows)
	assert.NotEmpty(t, report.ID)
	assert.NotEmpty(t, report.Rates)
}

func TestAnalyzeDataFileWithPlan(t *testing.T) {
	dir := t.TempDir()

	ds := testkit.MustDataset(t,
		dataset.NewTextColumn("gender", []string{"F", "M", "F", "F"}),
		dataset.NewNumericColumn("readmission_30d", []float64{1, 0, 0, 0}),
	)
	data, err := json.Marshal(ds)
	require.NoError(t, err)
	dataPath := filepath.Join(dir, "cohort.json")
	require.NoError(t, os.WriteFile(dataPath, data, 0o644))

	planPath := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(planPath, []byte(`
columns: [gender]
rates:
  - name: readmission
    kind: indicator
    column: readmission_30d
`), 0o644))

	out, err := execute(t, "analyze", "--data", dataPath, "--plan", planPath, "--compact", "--log-level", "ERROR")
	require.NoError(t, err)

	var report stats.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 4, report.Rows)
	require.Len(t, report.Rates, 1)
	require.NotNil(t, report.Rates[0].Percentage)
	assert.InDelta(t, 25.0, *report.Rates[0].Percentage, 1e-9)
}

func TestGenerateWorkbookThenAnalyze(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cohort.xlsx")
	_, err := execute(t, "generate", "--patients", "120", "--seed", "5", "--out", path)
	require.NoError(t, err)

	out, err := execute(t, "analyze", "--data", path, "--compact", "--log-level", "ERROR")
	require.NoError(t, err)

	var report stats.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 120, report.Rows)
	assert.Equal(t, testkit.DischargeCohort(t, 120, 5).Fingerprint(), report.DatasetFingerprint)
}

func TestAnalyzeRejectsMissingDataFile(t *testing.T) {
	_, err := execute(t, "analyze", "--data", filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestPlanPrintsDefault(t *testing.T) {
	out, err := execute(t, "plan")
	require.NoError(t, err)

	plan, err := config.ParsePlan([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDischargePlan(), plan)
}

func TestGenerateEmitsDataset(t *testing.T) {
	out, err := execute(t, "generate", "--patients", "25", "--seed", "3")
	require.NoError(t, err)

	var ds dataset.Dataset
	require.NoError(t, json.Unmarshal([]byte(out), &ds))
	assert.Equal(t, 25, ds.Rows())
	assert.Contains(t, ds.Names(), testkit.ColAge)

	_, err = execute(t, "generate", "--patients", "0")
	assert.Error(t, err)
}
