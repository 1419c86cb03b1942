package equity

import (
	"context"
	"math"
)

const cancelCheckInterval = 4096

type Engine struct {
	params     Parameters
	settlement Settlement
}

func NewEngine(options ...Option) (*Engine, error) {
	e := &Engine{
		params:     DefaultParameters(),
		settlement: MarkToMarket,
	}

	for _, option := range options {
		option(e)
	}

	if e.settlement == nil {
		e.settlement = MarkToMarket
	}
	if err := e.params.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) Parameters() Parameters { return e.params }

// NewState seeds a run from its first bar. No lot is held initially and the
// first position is taken as already in effect, so the first step never trades.
func (e *Engine) NewState(first Bar) *State {
	return &State{
		Cash:         float64(e.params.InitialCash),
		LastPosition: first.Position,
		LastClose:    first.ClosingCost,
	}
}

// Step advances the state by one bar and returns the cash to report for it.
func (e *Engine) Step(s *State, bar Bar) (float64, error) {
	idx := s.Index
	s.Index++

	p := e.params
	if s.blownUp(p) {
		return 0, nil
	}

	trade := bar.Position != s.LastPosition
	if trade && !(bar.OpeningCost > 0) {
		return 0, &DomainError{Index: idx, Field: "opening_cost", Value: bar.OpeningCost}
	}

	multiplier := float64(p.ContractMultiplier)

	// Rollover gaps are a contract swap, not P&L.
	if s.LastLotCount != 0 && !bar.Rollover {
		s.Cash += s.LastLotCount * (bar.OpeningCost - s.LastClose) * multiplier * s.direction()
	}

	if trade {
		lotCount := math.Floor((s.Cash * p.Leverage * math.Abs(bar.Position)) / (multiplier * bar.OpeningCost))

		var lotCountChange float64
		if bar.Rollover {
			// Close the old contract and reopen on the new one.
			lotCountChange = math.Abs(s.LastLotCount) * 2
		} else {
			lotCountChange = math.Abs(lotCount*sign(bar.Position) - s.LastLotCount*s.direction())
		}

		s.Cash -= p.CommissionType.fee(lotCountChange, bar.OpeningCost, p)
		s.LastLotCount = lotCount
		s.LastPosition = bar.Position
	}

	if s.LastLotCount != 0 {
		s.Cash += e.settlement(s.LastLotCount, s.direction(), bar.OpeningCost, bar.ClosingCost, p)
	}

	s.LastClose = bar.ClosingCost
	return s.Cash, nil
}

// Run simulates the whole series. On error no output is returned.
func (e *Engine) Run(ctx context.Context, series Series) ([]float64, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	n := series.Len()
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}

	state := e.NewState(series.Bar(0))
	for idx := 0; idx < n; idx++ {
		if idx%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		cash, err := e.Step(state, series.Bar(idx))
		if err != nil {
			return nil, err
		}
		out[idx] = cash
	}

	return out, nil
}

// Simulate is a one-shot Run with a background context.
func Simulate(series Series, options ...Option) ([]float64, error) {
	e, err := NewEngine(options...)
	if err != nil {
		return nil, err
	}
	return e.Run(context.Background(), series)
}
