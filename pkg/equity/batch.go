package equity

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/peter-kozarec/equitycalc/pkg/utility"
)

type Job struct {
	Symbol string
	Series Series
}

type Result struct {
	Symbol      string
	ExecutionID utility.ExecutionID
	RunID       utility.RunID
	Cash        []float64
	Elapsed     time.Duration
}

// Batch runs independent instruments with the same parameters. Every job
// gets its own State, so jobs never share mutable data.
type Batch struct {
	logger  *zap.Logger
	engine  *Engine
	workers int
}

func NewBatch(logger *zap.Logger, engine *Engine, workers int) *Batch {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Batch{
		logger:  logger,
		engine:  engine,
		workers: workers,
	}
}

// Run returns results in job order. The first failing job cancels the rest.
func (b *Batch) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	executionID := utility.GetExecutionID()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for idx := range jobs {
		idx := idx
		job := jobs[idx]
		g.Go(func() error {
			runID := utility.NewRunID()
			start := time.Now()

			cash, err := b.engine.Run(ctx, job.Series)
			if err != nil {
				b.logger.Warn("simulation failed",
					zap.String("symbol", job.Symbol),
					zap.Stringer("run_id", runID),
					zap.Error(err))
				return fmt.Errorf("symbol %s: %w", job.Symbol, err)
			}

			results[idx] = Result{
				Symbol:      job.Symbol,
				ExecutionID: executionID,
				RunID:       runID,
				Cash:        cash,
				Elapsed:     time.Since(start),
			}
			b.logger.Debug("simulation done",
				zap.String("symbol", job.Symbol),
				zap.Stringer("run_id", runID),
				zap.Int("steps", len(cash)),
				zap.Duration("elapsed", results[idx].Elapsed))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
