package equity

import "math"

// State is the account carried from one step to the next. It is owned by a
// single run and must not be shared between runs.
type State struct {
	Cash         float64
	LastPosition float64
	LastLotCount float64
	LastClose    float64
	Index        int
}

func (s *State) blownUp(p Parameters) bool {
	return p.Blowup && s.Cash <= 0
}

func (s *State) direction() float64 {
	return sign(s.LastPosition)
}

// sign keeps the sign bit, so +0 maps to 1 and -0 to -1.
func sign(x float64) float64 {
	if math.IsNaN(x) {
		return x
	}
	return math.Copysign(1, x)
}
