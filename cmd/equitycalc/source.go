package main

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/peter-kozarec/equitycalc/internal/config"
	"github.com/peter-kozarec/equitycalc/pkg/data/mapper"
	"github.com/peter-kozarec/equitycalc/pkg/data/sqlsource"
	"github.com/peter-kozarec/equitycalc/pkg/equity"
)

func loadJobs(ctx context.Context, logger *zap.Logger, src config.SourceConfig) ([]equity.Job, error) {
	switch src.Kind {
	case config.SourceBinary:
		return loadBinaryJobs(src)
	case config.SourceDuckDB, config.SourceClickHouse:
		return loadSQLJobs(ctx, logger, src)
	}
	return nil, fmt.Errorf("unsupported source kind %q", src.Kind)
}

func loadBinaryJobs(src config.SourceConfig) ([]equity.Job, error) {
	symbols := src.Symbols
	if len(symbols) == 0 {
		for symbol := range src.Files {
			symbols = append(symbols, symbol)
		}
		sort.Strings(symbols)
	}

	jobs := make([]equity.Job, 0, len(symbols))
	for _, symbol := range symbols {
		path, ok := src.Files[symbol]
		if !ok {
			return nil, fmt.Errorf("no file configured for symbol %s", symbol)
		}
		series, err := mapper.LoadSeries(path, src.Rollover)
		if err != nil {
			return nil, fmt.Errorf("symbol %s: %w", symbol, err)
		}
		jobs = append(jobs, equity.Job{Symbol: symbol, Series: series})
	}
	return jobs, nil
}

func loadSQLJobs(ctx context.Context, logger *zap.Logger, src config.SourceConfig) ([]equity.Job, error) {
	reader := sqlsource.NewReader(logger, src.Kind, src.DSN)
	if err := reader.Connect(ctx); err != nil {
		return nil, err
	}
	defer reader.Close()

	symbols := src.Symbols
	if len(symbols) == 0 {
		var err error
		if symbols, err = reader.Symbols(ctx, src.Table); err != nil {
			return nil, err
		}
	}

	jobs := make([]equity.Job, 0, len(symbols))
	for _, symbol := range symbols {
		series, err := reader.LoadSeries(ctx, src.Table, symbol, src.Rollover)
		if err != nil {
			return nil, fmt.Errorf("symbol %s: %w", symbol, err)
		}
		jobs = append(jobs, equity.Job{Symbol: symbol, Series: series})
	}
	return jobs, nil
}
