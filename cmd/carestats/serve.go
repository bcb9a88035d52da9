package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"carestats/adapters/api"
	"carestats/adapters/memory"
	"carestats/adapters/stats/engine"
	"carestats/app"
	"carestats/internal"
	"carestats/internal/config"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(logLevel *string) *cobra.Command {
	var (
		port           string
		reportCapacity int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Start the HTTP API. Settings come from the environment (and an optional
.env file): PORT, GIN_MODE, METRICS_ENABLED, CARESTATS_WORKERS,
CARESTATS_PLAN, LOG_LEVEL.

Example: PORT=9090 carestats serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			if *logLevel != "" {
				cfg.LogLevel = *logLevel
			}
			return runServe(cmd.Context(), cfg, reportCapacity)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (overrides PORT)")
	cmd.Flags().IntVar(&reportCapacity, "report-capacity", 256, "Reports kept in memory before the oldest is evicted")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, reportCapacity int) error {
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	gin.SetMode(cfg.Server.GinMode)

	plan, err := config.LoadPlan(cfg.Analysis.PlanFile)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	analyzer := engine.NewAnalysisEngine(cfg.Analysis.Workers)
	svc := app.NewReportService(analyzer, memory.NewReportRepository(reportCapacity), logger, registry)

	holder := config.NewPlanHolder(plan)
	opts := api.Options{PlanSource: holder.Current, Logger: logger}
	if cfg.Server.Metrics {
		opts.Gatherer = registry
	}
	server := api.NewServer(svc, opts)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Analysis.PlanFile != "" {
		go func() {
			if err := config.WatchPlan(ctx, cfg.Analysis.PlanFile, logger, holder.Set); err != nil {
				logger.Warn("plan hot reload disabled: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(":" + cfg.Server.Port)
	}()
	logger.Info("analysis engine ready with %d workers", analyzer.Workers())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
