package equity

import (
	"fmt"
	"math"
)

const (
	DefaultInitialCash        int64   = 1_000_000
	DefaultContractMultiplier int32   = 1
	DefaultLeverage           float64 = 1
	DefaultCommissionRate     float64 = 3e-4
)

// Parameters stay constant for the whole run. Leverage in particular must not
// change between steps: every position change re-derives the lot count from
// the current cash using it.
type Parameters struct {
	InitialCash        int64          `json:"initial_cash" yaml:"initial_cash"`
	ContractMultiplier int32          `json:"contract_multiplier" yaml:"contract_multiplier"`
	Leverage           float64        `json:"leverage" yaml:"leverage"`
	Slippage           float64        `json:"slippage" yaml:"slippage"`
	TickSize           float64        `json:"tick_size" yaml:"tick_size"`
	CommissionRate     float64        `json:"commission_rate" yaml:"commission_rate"`
	CommissionType     CommissionType `json:"commission_type" yaml:"commission_type"`
	Blowup             bool           `json:"blowup" yaml:"blowup"`
}

func DefaultParameters() Parameters {
	return Parameters{
		InitialCash:        DefaultInitialCash,
		ContractMultiplier: DefaultContractMultiplier,
		Leverage:           DefaultLeverage,
		CommissionRate:     DefaultCommissionRate,
		CommissionType:     CommissionPercent,
	}
}

func (p Parameters) Validate() error {
	if p.ContractMultiplier <= 0 {
		return &ConfigError{Field: "contract_multiplier", Reason: fmt.Sprintf("must be positive, got %d", p.ContractMultiplier)}
	}
	if !(p.Leverage > 0) || math.IsInf(p.Leverage, 0) {
		return &ConfigError{Field: "leverage", Reason: fmt.Sprintf("must be positive and finite, got %v", p.Leverage)}
	}
	if !p.CommissionType.valid() {
		return &ConfigError{Field: "commission_type", Reason: fmt.Sprintf("unsupported value %s", p.CommissionType)}
	}
	return nil
}

type Option func(*Engine)

func WithParameters(p Parameters) Option {
	return func(e *Engine) {
		e.params = p
	}
}

func WithInitialCash(cash int64) Option {
	return func(e *Engine) {
		e.params.InitialCash = cash
	}
}

func WithContractMultiplier(multiplier int32) Option {
	return func(e *Engine) {
		e.params.ContractMultiplier = multiplier
	}
}

func WithLeverage(leverage float64) Option {
	return func(e *Engine) {
		e.params.Leverage = leverage
	}
}

func WithSlippage(slippage, tickSize float64) Option {
	return func(e *Engine) {
		e.params.Slippage = slippage
		e.params.TickSize = tickSize
	}
}

func WithCommission(commissionType CommissionType, rate float64) Option {
	return func(e *Engine) {
		e.params.CommissionType = commissionType
		e.params.CommissionRate = rate
	}
}

func WithBlowup(enabled bool) Option {
	return func(e *Engine) {
		e.params.Blowup = enabled
	}
}

func WithSettlement(settlement Settlement) Option {
	return func(e *Engine) {
		e.settlement = settlement
	}
}
