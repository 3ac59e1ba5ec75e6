/*package plasma computes the quasistatic wakefield response of an
axisymmetric plasma column to relativistic particle bunches and laser
pulses.

The model is the 2D r-xi reduction of Baxevanis and Stupakov
(Phys. Rev. Accel. Beams 21, 071301): the plasma is a set of radial
shells swept once from the head of the box to the tail, with every slice
depending only on the slices ahead of it. All internal math runs in
normalized plasma units (lengths over the skin depth, fields over the
wave-breaking field); SI conversion happens at the solver boundary.*/
package plasma

import (
	"math"
)

// Species is a struct-of-arrays ensemble of plasma macroparticles on one
// transverse slice. Radii and spacing are in normalized units, Pr and Pz in
// m*c of the species, and Q holds the shell weights (r*dr_p worth of charge
// per unit background density).
type Species struct {
	R, Pr, Pz []float64
	Gamma     []float64
	Q         []float64

	// AtRest marks particles frozen by the max-gamma check. They keep
	// contributing to the shell sums and depositions as static charge but
	// are excluded from every later push.
	AtRest []bool

	// DrP is the radial spacing the shells were laid out with.
	DrP float64
}

// NewSpecies lays out a radially uniform column with ppc shells per radial
// cell out to rMaxPlasma, following the density profile
// n(r) = n0*(1 + pc*r^2). Shells start cold: pr = pz = 0, gamma = 1.
func NewSpecies(rMaxPlasma, dr float64, ppc int, pc float64) *Species {
	n := int(math.Round(rMaxPlasma / dr * float64(ppc)))
	drP := dr / float64(ppc)

	s := &Species{
		R:      make([]float64, n),
		Pr:     make([]float64, n),
		Pz:     make([]float64, n),
		Gamma:  make([]float64, n),
		Q:      make([]float64, n),
		AtRest: make([]bool, n),
		DrP:    drP,
	}
	for k := 0; k < n; k++ {
		r := drP/2 + float64(k)*drP
		s.R[k] = r
		s.Q[k] = drP*r + drP*pc*r*r*r
		s.Gamma[k] = 1
	}
	return s
}

// N returns the number of macroparticles.
func (s *Species) N() int { return len(s.R) }

// Frozen returns how many particles the max-gamma check has put at rest.
func (s *Species) Frozen() int {
	n := 0
	for _, rest := range s.AtRest {
		if rest {
			n++
		}
	}
	return n
}
