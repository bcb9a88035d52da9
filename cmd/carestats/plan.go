package main

import (
	"github.com/spf13/cobra"

	"carestats/internal/config"
)

func newPlanCmd() *cobra.Command {
	var planFile string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the effective analysis plan as YAML",
		Long: `Print the analysis plan with defaults applied. With --plan the file is
parsed and validated first, so this doubles as a plan linter.

Example: carestats plan > plan.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := config.LoadPlan(planFile)
			if err != nil {
				return err
			}
			out, err := config.MarshalPlan(plan)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&planFile, "plan", "", "YAML analysis plan to validate")
	return cmd
}
