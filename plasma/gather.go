package plasma

import (
	"math"

	"github.com/delaossa/Wake-T/grid"
)

// gatherRow linearly interpolates a guarded radial row at each radius in r.
// Sub-axis evaluation relies on the mirrored guard columns; beyond the
// outer edge the sources fall to the guard values, which are zero.
func gatherRow(row []float64, g *grid.Grid, r, out []float64) {
	for i := range r {
		c := r[i]/g.DR - 0.5
		// The inverted comparison also reroutes non-finite radii to the
		// zeroed outer guards.
		if !(c < float64(g.NR)) {
			c = float64(g.NR)
		}
		l := int(math.Floor(c))
		u := c - float64(l)
		out[i] = (1-u)*row[l+grid.Guard] + u*row[l+grid.Guard+1]
	}
}

// gatherSources interpolates the slice's external sources to the particle
// positions: the laser intensity, its radial gradient and the beam field.
func (ev *sliceEval) gatherSources(a2Row, nablaA2Row, bt0Row []float64, g *grid.Grid) {
	r := ev.r[:ev.n]
	gatherRow(a2Row, g, r, ev.a2)
	gatherRow(nablaA2Row, g, r, ev.nablaA2)
	gatherRow(bt0Row, g, r, ev.bt0)
}
