package wakefield

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// Laser is a static Gaussian laser envelope. The squared normalized vector
// potential is
//
//	a^2(xi, r) = A0^2 exp(-2 r^2/Waist^2) exp(-2 (xi-XiC)^2/Length^2)
//
// with all lengths in meters. Envelope evolution is not modeled: the pulse
// the plasma sees is the pulse given here.
type Laser struct {
	// A0 is the peak normalized vector potential.
	A0 float64
	// Waist is the transverse 1/e^2 intensity radius.
	Waist float64
	// Length is the longitudinal 1/e^2 intensity half-length.
	Length float64
	// XiC is the pulse center.
	XiC float64
}

// A2 evaluates the squared envelope at a point.
func (l *Laser) A2(xi, r float64) float64 {
	ar := math.Exp(-2 * r * r / (l.Waist * l.Waist))
	axi := math.Exp(-2 * (xi - l.XiC) * (xi - l.XiC) / (l.Length * l.Length))
	return l.A0 * l.A0 * ar * axi
}

// SampleGrid evaluates the squared envelope on the solver's cell layout:
// nXi evenly spaced xi nodes spanning [xiMin, xiMax] and nR cell-centered
// radial nodes inside [0, rMax]. All lengths in meters.
func (l *Laser) SampleGrid(
	xiMin, xiMax, rMax float64, nXi, nR int,
) *sparse.DenseArray {
	a2 := sparse.ZerosDense(nXi, nR)
	dxi := (xiMax - xiMin) / float64(nXi-1)
	dr := rMax / float64(nR)
	for i := 0; i < nXi; i++ {
		xi := xiMin + float64(i)*dxi
		for j := 0; j < nR; j++ {
			a2.Set(l.A2(xi, (float64(j)+0.5)*dr), i, j)
		}
	}
	return a2
}

// check reports unusable pulse parameters.
func (l *Laser) check() error {
	if !(l.Waist > 0) || !(l.Length > 0) {
		return fmt.Errorf(
			"laser with waist %g m and length %g m", l.Waist, l.Length)
	}
	return nil
}
