package equity

// Settlement returns the intraday profit of holding lots in direction (±1)
// from openingCost to closingCost. It is the only accounting rule that
// differs between payoff variants; everything else in Engine.Step is shared.
type Settlement func(lots, direction, openingCost, closingCost float64, p Parameters) float64

// MarkToMarket settles a linear futures position against the closing price.
func MarkToMarket(lots, direction, openingCost, closingCost float64, p Parameters) float64 {
	return lots * (closingCost - openingCost) * float64(p.ContractMultiplier) * direction
}
