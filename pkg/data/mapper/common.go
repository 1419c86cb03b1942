package mapper

import (
	"github.com/peter-kozarec/equitycalc/pkg/equity"
)

// BinaryStep is one on-disk bar. Layout is fixed (40 bytes, little endian,
// no implicit padding) so the file can be mapped record by record.
type BinaryStep struct {
	TimeStamp   int64
	Position    float64
	OpeningCost float64
	ClosingCost float64
	Rollover    uint8
	_           [7]byte
}

func (b BinaryStep) ToBar(bar *equity.Bar) {
	bar.Position = b.Position
	bar.OpeningCost = b.OpeningCost
	bar.ClosingCost = b.ClosingCost
	bar.Rollover = b.Rollover != 0
}

func FromBar(timeStamp int64, bar equity.Bar) BinaryStep {
	b := BinaryStep{
		TimeStamp:   timeStamp,
		Position:    bar.Position,
		OpeningCost: bar.OpeningCost,
		ClosingCost: bar.ClosingCost,
	}
	if bar.Rollover {
		b.Rollover = 1
	}
	return b
}
