package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"carestats/adapters/excel"
	"carestats/adapters/stats/engine"
	"carestats/app"
	"carestats/domain/dataset"
	"carestats/internal/config"
	"carestats/internal/errors"
	"carestats/internal/testkit"
	"carestats/ports"
)

func newAnalyzeCmd(logLevel *string) *cobra.Command {
	var (
		dataFile string
		sheet    string
		planFile string
		patients int
		seed     int64
		workers  int
		compact  bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run an analysis plan and print the JSON report",
		Long: `Run an analysis plan over a discharge dataset and print the report as JSON.

Without --data a synthetic cohort is generated from --patients and --seed.
CSV and Excel files need a header row; empty cells are missing.
Without --plan the default discharge plan is used.

Example: carestats analyze --patients 1000 --seed 42 --plan plan.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(dataFile, sheet, patients, seed)
			if err != nil {
				return err
			}
			plan, err := config.LoadPlan(planFile)
			if err != nil {
				return err
			}

			logger := commandLogger(cmd, *logLevel)
			svc := app.NewReportService(engine.NewAnalysisEngine(workers), nil, logger, nil)
			report, err := svc.Run(cmd.Context(), ds, plan)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report, !compact)
		},
	}

	cmd.Flags().StringVar(&dataFile, "data", "", "Dataset file: .json ({\"columns\":[...]}), .csv or .xlsx; synthetic cohort when empty")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Workbook sheet for .xlsx data (default: first sheet)")
	cmd.Flags().StringVar(&planFile, "plan", "", "YAML analysis plan; default discharge plan when empty")
	cmd.Flags().IntVar(&patients, "patients", 1000, "Synthetic cohort size")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for the synthetic cohort")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent analysis workers (0 = GOMAXPROCS)")
	cmd.Flags().BoolVar(&compact, "compact", false, "Print single-line JSON")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		patients int
		seed     int64
		out      string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a synthetic discharge cohort as JSON",
		Long: `Generate a seeded synthetic discharge cohort in the dataset JSON format
accepted by "analyze --data" and POST /api/v1/analyze. With --out the cohort
is saved as an Excel workbook instead.

Example: carestats generate --patients 500 --seed 7 > cohort.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := synthetic(patients, seed)
			if err != nil {
				return err
			}
			if out != "" {
				return excel.WriteWorkbook(ds, out)
			}
			return writeJSON(cmd.OutOrStdout(), ds, false)
		},
	}

	cmd.Flags().IntVar(&patients, "patients", 1000, "Cohort size")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	cmd.Flags().StringVar(&out, "out", "", "Write an .xlsx workbook to this path")
	return cmd
}

func loadDataset(path, sheet string, patients int, seed int64) (*dataset.Dataset, error) {
	if path == "" {
		return synthetic(patients, seed)
	}
	if excel.Supported(path) {
		var reader ports.DatasetReader = excel.NewDataReader(path).WithSheet(sheet)
		return reader.ReadDataset()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("read dataset %s: %v", path, err))
	}
	var ds dataset.Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, errors.Wrapf(errors.WithCode(errors.CodeInvalidInput, err), "decode dataset %s", path)
	}
	return &ds, nil
}

func synthetic(patients int, seed int64) (*dataset.Dataset, error) {
	cfg := testkit.DefaultDischargeConfig()
	cfg.Patients = patients
	cfg.Seed = seed
	return testkit.NewDischargeDataGenerator(cfg).Generate()
}

func writeJSON(w io.Writer, v interface{}, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
