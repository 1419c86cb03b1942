package equity

import (
	"fmt"
	"strings"
)

type CommissionType int

const (
	CommissionPercent CommissionType = iota
	CommissionAbsolute
)

func ParseCommissionType(s string) (CommissionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "percent", "percentage":
		return CommissionPercent, nil
	case "absolute":
		return CommissionAbsolute, nil
	}
	return 0, &ConfigError{
		Field:  "commission_type",
		Reason: fmt.Sprintf("unsupported value %q, must be 'percent' or 'absolute'", s),
	}
}

func (c CommissionType) String() string {
	switch c {
	case CommissionPercent:
		return "percent"
	case CommissionAbsolute:
		return "absolute"
	}
	return fmt.Sprintf("CommissionType(%d)", int(c))
}

func (c CommissionType) valid() bool {
	return c == CommissionPercent || c == CommissionAbsolute
}

func (c CommissionType) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, &ConfigError{Field: "commission_type", Reason: c.String()}
	}
	return []byte(c.String()), nil
}

func (c *CommissionType) UnmarshalText(text []byte) error {
	v, err := ParseCommissionType(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// fee is the cost of trading lotChange lots at openingCost, slippage included.
func (c CommissionType) fee(lotChange, openingCost float64, p Parameters) float64 {
	multiplier := float64(p.ContractMultiplier)
	if c == CommissionPercent {
		return lotChange * multiplier * (openingCost*p.CommissionRate + p.Slippage*p.TickSize)
	}
	return lotChange * (p.CommissionRate + multiplier*p.Slippage*p.TickSize)
}
