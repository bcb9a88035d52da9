package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"carestats/internal"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "carestats",
		Short:         "Descriptive statistics for hospital discharge cohorts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: ERROR|WARN|INFO|DEBUG|TRACE (default from LOG_LEVEL)")

	rootCmd.AddCommand(
		newAnalyzeCmd(&logLevel),
		newGenerateCmd(),
		newPlanCmd(),
		newServeCmd(&logLevel),
	)
	return rootCmd
}

// commandLogger writes to the command's stderr so stdout stays parseable
func commandLogger(cmd *cobra.Command, level string) *internal.Logger {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	return internal.NewLoggerTo(cmd.ErrOrStderr(), internal.ParseLogLevel(level))
}
