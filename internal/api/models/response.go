package models

import (
	"github.com/peter-kozarec/equitycalc/pkg/utility"
	"github.com/peter-kozarec/equitycalc/pkg/utility/fixed"
)

type SimulateResponse struct {
	Symbol  string          `json:"symbol,omitempty"`
	RunID   utility.RunID   `json:"run_id"`
	Cash    []float64       `json:"cash"`
	Summary SimulateSummary `json:"summary"`
}

type SimulateSummary struct {
	Steps                int         `json:"steps"`
	InitialEquity        fixed.Point `json:"initial_equity"`
	FinalEquity          fixed.Point `json:"final_equity"`
	TotalProfit          fixed.Point `json:"total_profit_pct"`
	MaxDrawdown          fixed.Point `json:"max_drawdown_pct"`
	BlowupIndex          int         `json:"blowup_index"`
	SharpeRatio          fixed.Point `json:"sharpe_ratio"`
	SortinoRatio         fixed.Point `json:"sortino_ratio"`
	AnnualizedVolatility fixed.Point `json:"annualized_volatility_pct"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
