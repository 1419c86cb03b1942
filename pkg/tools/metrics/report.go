package metrics

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/peter-kozarec/equitycalc/pkg/utility/fixed"
)

type Report struct {
	Steps                int
	InitialEquity        fixed.Point
	FinalEquity          fixed.Point
	PeakEquity           fixed.Point
	TotalProfit          fixed.Point
	MaxDrawdown          fixed.Point
	BlowupIndex          int
	SharpeRatio          fixed.Point
	SortinoRatio         fixed.Point
	AnnualizedVolatility fixed.Point
}

// NewReport summarizes a simulated cash series. Percentages are scaled by
// 100. Per-step ratios are annualized when periodsPerYear is positive. Steps
// after the account first reaches zero do not contribute returns.
func NewReport(cash []float64, initialCash int64, periodsPerYear int) (Report, error) {
	report := Report{
		Steps:         len(cash),
		InitialEquity: fixed.FromInt64(initialCash, 0),
		BlowupIndex:   -1,
	}
	report.FinalEquity = report.InitialEquity
	report.PeakEquity = report.InitialEquity

	equities := make([]fixed.Point, 0, len(cash))
	for idx, v := range cash {
		p, err := fixed.New(v)
		if err != nil {
			return Report{}, fmt.Errorf("cash at index %d: %w", idx, err)
		}
		equities = append(equities, p)
		if report.BlowupIndex < 0 && !p.Gt(fixed.Zero) {
			report.BlowupIndex = idx
		}
	}

	if len(equities) > 0 {
		report.FinalEquity = equities[len(equities)-1]
	}
	if report.InitialEquity.Gt(fixed.Zero) {
		ratio, err := report.FinalEquity.QuoChecked(report.InitialEquity)
		if err != nil {
			return Report{}, fmt.Errorf("total profit: %w", err)
		}
		profit, err := ratio.Sub(fixed.One).MulChecked(fixed.Hundred)
		if err != nil {
			return Report{}, fmt.Errorf("total profit: %w", err)
		}
		report.TotalProfit = profit.Rescale(2)
	}

	maxDrawdown := fixed.Zero
	for _, eq := range equities {
		if eq.Gt(report.PeakEquity) {
			report.PeakEquity = eq
		}
		if !report.PeakEquity.Gt(fixed.Zero) {
			continue
		}
		drawdown, err := report.PeakEquity.Sub(eq).QuoChecked(report.PeakEquity)
		if err != nil {
			return Report{}, fmt.Errorf("drawdown: %w", err)
		}
		if drawdown.Gt(maxDrawdown) {
			maxDrawdown = drawdown
		}
	}
	maxDrawdown, err := maxDrawdown.MulChecked(fixed.Hundred)
	if err != nil {
		return Report{}, fmt.Errorf("drawdown: %w", err)
	}
	report.MaxDrawdown = maxDrawdown.Rescale(2)

	returns, err := stepReturns(report.InitialEquity, equities)
	if err != nil {
		return Report{}, err
	}
	if err := report.riskMetrics(returns, periodsPerYear); err != nil {
		return Report{}, err
	}

	return report, nil
}

func stepReturns(initial fixed.Point, equities []fixed.Point) ([]fixed.Point, error) {
	returns := make([]fixed.Point, 0, len(equities))
	prev := initial
	for idx, eq := range equities {
		if !prev.Gt(fixed.Zero) {
			break
		}
		ratio, err := eq.QuoChecked(prev)
		if err != nil {
			return nil, fmt.Errorf("return at index %d: %w", idx, err)
		}
		returns = append(returns, ratio.Sub(fixed.One))
		prev = eq
	}
	return returns, nil
}

// riskMetrics fills the volatility based ratios. The fixed statistics panic
// on overflow, which only extreme return series reach; that is reported as
// an error.
func (r *Report) riskMetrics(returns []fixed.Point, periodsPerYear int) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("risk metrics out of range: %v", rec)
		}
	}()

	volatility := fixed.StdDev(returns, fixed.Mean(returns))
	if volatility.IsZero() {
		return nil
	}
	scale := fixed.One
	if periodsPerYear > 0 {
		scale = fixed.FromInt64(int64(periodsPerYear), 0).Sqrt()
	}
	r.AnnualizedVolatility = volatility.Mul(scale).Mul(fixed.Hundred).Rescale(2)
	r.SharpeRatio = fixed.SharpeRatio(returns, fixed.Zero).Mul(scale).Rescale(5)
	r.SortinoRatio = fixed.SortinoRatio(returns, fixed.Zero).Mul(scale).Rescale(5)
	return nil
}

func (r Report) Log(logger *zap.Logger, symbol string) {
	logger.Info("equity report",
		zap.String("symbol", symbol),
		zap.Int("steps", r.Steps),
		zap.Stringer("initial_equity", r.InitialEquity),
		zap.Stringer("final_equity", r.FinalEquity),
		zap.Stringer("peak_equity", r.PeakEquity),
		zap.String("total_profit", fmt.Sprintf("%s%%", r.TotalProfit)),
		zap.String("max_drawdown", fmt.Sprintf("%s%%", r.MaxDrawdown)),
		zap.Int("blowup_index", r.BlowupIndex))

	logger.Info("risk metrics",
		zap.String("symbol", symbol),
		zap.Stringer("sharpe_ratio", r.SharpeRatio),
		zap.Stringer("sortino_ratio", r.SortinoRatio),
		zap.String("annualized_volatility", fmt.Sprintf("%s%%", r.AnnualizedVolatility)))
}
