package models

import "github.com/peter-kozarec/equitycalc/pkg/equity"

// StreamStart is the first message of a /api/v1/stream session. Every
// following client message is a single equity.Bar.
type StreamStart struct {
	Symbol     string            `json:"symbol"`
	Parameters equity.Parameters `json:"parameters"`
}

func NewStreamStart() StreamStart {
	return StreamStart{Parameters: equity.DefaultParameters()}
}

type StreamStep struct {
	Index int     `json:"index"`
	Cash  float64 `json:"cash"`
}
