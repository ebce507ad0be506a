package fontatlas

import "math"

// gammaEpsilon is the smallest gamma change that rebuilds the table.
const gammaEpsilon = 1e-4

// gammaTable maps coverage to gamma-corrected coverage.
type gammaTable struct {
	valid bool
	gamma float32
	table [256]byte
}

// lookup returns the table for gamma, rebuilding it when gamma moved.
// Non-positive or NaN values are treated as 1.
func (g *gammaTable) lookup(gamma float32) *[256]byte {
	if !(gamma > 0) || math.IsInf(float64(gamma), 0) {
		gamma = 1
	}
	if g.valid && math.Abs(float64(gamma-g.gamma)) < gammaEpsilon {
		return &g.table
	}
	inv := 1 / float64(gamma)
	for i := range g.table {
		v := math.Pow(float64(i)/255, inv) * 255
		g.table[i] = byte(math.Round(min(max(v, 0), 255)))
	}
	g.gamma = gamma
	g.valid = true
	return &g.table
}

// gammaLUT returns the table for the configured gamma.
func (a *Atlas) gammaLUT() *[256]byte {
	return a.gamma.lookup(a.cfg.gamma())
}
