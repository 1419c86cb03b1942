package equity

import "fmt"

// Series holds the aligned inputs of a single instrument. A nil Rollover
// selects the variant without rollover suppression.
type Series struct {
	Position    []float64 `json:"position"`
	OpeningCost []float64 `json:"opening_cost"`
	ClosingCost []float64 `json:"closing_cost"`
	Rollover    []bool    `json:"rollover,omitempty"`
}

// Bar is one time step of a Series.
type Bar struct {
	Position    float64 `json:"position"`
	OpeningCost float64 `json:"opening_cost"`
	ClosingCost float64 `json:"closing_cost"`
	Rollover    bool    `json:"rollover,omitempty"`
}

func (s Series) Len() int { return len(s.Position) }

func (s Series) Validate() error {
	n := len(s.Position)
	if len(s.OpeningCost) != n {
		return &ConfigError{Field: "opening_cost", Reason: fmt.Sprintf("length %d does not match position length %d", len(s.OpeningCost), n)}
	}
	if len(s.ClosingCost) != n {
		return &ConfigError{Field: "closing_cost", Reason: fmt.Sprintf("length %d does not match position length %d", len(s.ClosingCost), n)}
	}
	if s.Rollover != nil && len(s.Rollover) != n {
		return &ConfigError{Field: "rollover", Reason: fmt.Sprintf("length %d does not match position length %d", len(s.Rollover), n)}
	}
	return nil
}

func (s Series) Bar(idx int) Bar {
	bar := Bar{
		Position:    s.Position[idx],
		OpeningCost: s.OpeningCost[idx],
		ClosingCost: s.ClosingCost[idx],
	}
	if s.Rollover != nil {
		bar.Rollover = s.Rollover[idx]
	}
	return bar
}

func (s *Series) Append(bar Bar, withRollover bool) {
	s.Position = append(s.Position, bar.Position)
	s.OpeningCost = append(s.OpeningCost, bar.OpeningCost)
	s.ClosingCost = append(s.ClosingCost, bar.ClosingCost)
	if withRollover {
		s.Rollover = append(s.Rollover, bar.Rollover)
	}
}
