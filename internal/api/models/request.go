package models

import "github.com/peter-kozarec/equitycalc/pkg/equity"

// SimulateRequest is the body of POST /api/v1/simulate. Parameters left out
// of the body keep their engine defaults.
type SimulateRequest struct {
	Symbol         string            `json:"symbol"`
	Parameters     equity.Parameters `json:"parameters"`
	Series         equity.Series     `json:"series"`
	PeriodsPerYear int               `json:"periods_per_year"`
}

func NewSimulateRequest() SimulateRequest {
	return SimulateRequest{Parameters: equity.DefaultParameters()}
}
