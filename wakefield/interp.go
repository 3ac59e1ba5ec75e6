package wakefield

import (
	"math"

	"github.com/ctessum/sparse"

	"github.com/delaossa/Wake-T/beam"
	"github.com/delaossa/Wake-T/grid"
	"github.com/delaossa/Wake-T/math/interpolate"
	"github.com/delaossa/Wake-T/plasma"
)

// fieldSampler evaluates one solved (xi, r) field grid at particle
// positions. Points outside the solved box see no field; points inside the
// first half cell follow the parity of the field across the axis.
type fieldSampler struct {
	bi           *interpolate.BiLinear
	xiMin, xiMax float64
	r0, rEdge    float64
}

// newFieldSampler wraps an interior (len(xi) x len(r)) field grid with its
// axes in meters. The axes must be uniform.
func newFieldSampler(f *sparse.DenseArray, xi, r []float64) *fieldSampler {
	nXi, nR := len(xi), len(r)
	dxi := (xi[nXi-1] - xi[0]) / float64(nXi-1)
	dr := (r[nR-1] - r[0]) / float64(nR-1)
	bi := interpolate.NewUniformBiLinear(
		r[0], dr, nR, xi[0], dxi, nXi, f.Elements)
	return &fieldSampler{
		bi:    bi,
		xiMin: xi[0], xiMax: xi[nXi-1],
		r0: r[0], rEdge: r[nR-1] + dr/2,
	}
}

// at evaluates a field that is even across the axis.
func (s *fieldSampler) at(xi, r float64) float64 {
	if xi < s.xiMin || xi > s.xiMax || r > s.rEdge {
		return 0
	}
	if r < s.r0 {
		r = s.r0
	}
	return s.bi.Eval(r, xi)
}

// project evaluates a field that is odd across the axis and returns its x
// and y projections. Inside the first half cell the field drops linearly
// to zero on axis, which cancels the 1/r of the projection.
func (s *fieldSampler) project(xi, x, y float64) (fx, fy float64) {
	r := math.Hypot(x, y)
	if r == 0 || xi < s.xiMin || xi > s.xiMax || r > s.rEdge {
		return 0, 0
	}
	rp := math.Max(r, s.r0)
	w := s.bi.Eval(rp, xi) / rp
	return w * x, w * y
}

// gatherMainFields interpolates the cached radial force and accelerating
// field to every bunch particle.
func gatherMainFields(wf *plasma.Wakefields, b *beam.Bunch, wx, wy, ez []float64) {
	wr := newFieldSampler(wf.Wr, wf.Xi, wf.R)
	ezS := newFieldSampler(wf.Ez, wf.Xi, wf.R)
	for i := range b.X {
		wx[i], wy[i] = wr.project(b.Xi[i], b.X[i], b.Y[i])
		ez[i] = ezS.at(b.Xi[i], math.Hypot(b.X[i], b.Y[i]))
	}
}

// derivativeGrid differentiates an interior (nXi x nR) field along one
// axis on the solver's cell layout over the given box, with second order
// accurate ends.
func derivativeGrid(
	f *sparse.DenseArray, xiMin, xiMax, rMax float64, axis grid.Axis,
) (*sparse.DenseArray, error) {
	g, err := grid.New(f.Shape[0], f.Shape[1], xiMin, xiMax, rMax)
	if err != nil {
		return nil, err
	}
	buf := g.NewField()
	g.SetInterior(buf, f)
	return g.Interior(g.Gradient(buf, axis)), nil
}
