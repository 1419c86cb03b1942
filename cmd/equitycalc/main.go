package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/peter-kozarec/equitycalc/internal/config"
	"github.com/peter-kozarec/equitycalc/internal/dbg"
	"github.com/peter-kozarec/equitycalc/pkg/equity"
	"github.com/peter-kozarec/equitycalc/pkg/tools/metrics"
)

func main() {
	configPath := flag.String("config", DefaultConfigPath, "path to the YAML configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to load config: %v\n", err)
		os.Exit(2)
	}

	logger, err := dbg.NewLogger(cfg.Log.Dev, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unable to build logger: %v\n", err)
		os.Exit(2)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	logger.Info(fmt.Sprintf("equitycalc %s", Version))
	defer logger.Info("done")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, cfg); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Error("error during simulation", zap.Error(err))
		}
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *zap.Logger, cfg *config.Config) error {
	engine, err := equity.NewEngine(cfg.EngineOptions()...)
	if err != nil {
		return err
	}

	jobs, err := loadJobs(ctx, logger, cfg.Source)
	if err != nil {
		return err
	}
	logger.Info("series loaded", zap.String("source", cfg.Source.Kind), zap.Int("symbols", len(jobs)))

	results, err := equity.NewBatch(logger, engine, cfg.Batch.Workers).Run(ctx, jobs)
	if err != nil {
		return err
	}

	for _, result := range results {
		report, err := metrics.NewReport(result.Cash, cfg.Engine.InitialCash, cfg.Report.PeriodsPerYear)
		if err != nil {
			return fmt.Errorf("symbol %s: %w", result.Symbol, err)
		}
		report.Log(logger.With(zap.Stringer("run_id", result.RunID)), result.Symbol)
	}
	return nil
}
