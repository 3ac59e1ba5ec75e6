package wakefield

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"

	"github.com/delaossa/Wake-T/beam"
	"github.com/delaossa/Wake-T/units"
)

// External samples caller-supplied field grids, typically imported from a
// full PIC simulation. The grids live on a fixed (xi, r) box that slips
// forward in the co-moving frame according to the driver velocity
// betaDriver; particles outside the box see no field.
type External struct {
	ez, wr, kx, dez *fieldSampler
	betaD           float64
}

// NewExternal wraps the longitudinal field ez (V/m), radial force wr (V/m)
// and focusing gradient kx (T/m) given on the uniform axes xi and r in
// meters. Any grid may be nil, in which case that component vanishes. The
// longitudinal field slope is differenced from ez once, up front. The
// model keeps references to the grids passed in.
func NewExternal(
	xi, r []float64, ez, wr, kx *sparse.DenseArray, betaDriver float64,
) (*External, error) {
	if err := uniformAxis("xi", xi, 3); err != nil {
		return nil, err
	}
	if err := uniformAxis("r", r, 2); err != nil {
		return nil, err
	}
	for _, f := range []struct {
		name string
		grid *sparse.DenseArray
	}{{"ez", ez}, {"wr", wr}, {"kx", kx}} {
		if f.grid == nil {
			continue
		}
		if len(f.grid.Shape) != 2 || f.grid.Shape[0] != len(xi) ||
			f.grid.Shape[1] != len(r) {
			return nil, fmt.Errorf("external %s grid of shape %v, "+
				"want [%d %d]", f.name, f.grid.Shape, len(xi), len(r))
		}
	}

	m := &External{betaD: betaDriver}
	if ez != nil {
		m.ez = newFieldSampler(ez, xi, r)
		m.dez = newFieldSampler(xiSlope(ez, xi), xi, r)
	}
	if wr != nil {
		m.wr = newFieldSampler(wr, xi, r)
	}
	if kx != nil {
		m.kx = newFieldSampler(kx, xi, r)
	}
	return m, nil
}

// uniformAxis checks that xs is an increasing, uniformly spaced axis of at
// least min nodes.
func uniformAxis(name string, xs []float64, min int) error {
	if len(xs) < min {
		return fmt.Errorf("external %s axis of %d nodes needs at least %d",
			name, len(xs), min)
	}
	h := (xs[len(xs)-1] - xs[0]) / float64(len(xs)-1)
	if !(h > 0) {
		return fmt.Errorf("external %s axis is not increasing", name)
	}
	for i := 1; i < len(xs); i++ {
		if math.Abs(xs[i]-xs[i-1]-h) > 1e-9*h {
			return fmt.Errorf("external %s axis is not uniformly spaced",
				name)
		}
	}
	return nil
}

// xiSlope differences an unguarded (nXi, nR) grid along xi with second
// order accurate one-sided ends.
func xiSlope(f *sparse.DenseArray, xi []float64) *sparse.DenseArray {
	nXi, nR := f.Shape[0], f.Shape[1]
	h := (xi[nXi-1] - xi[0]) / float64(nXi-1)
	out := sparse.ZerosDense(nXi, nR)
	v, o := f.Elements, out.Elements

	last := (nXi - 1) * nR
	for j := 0; j < nR; j++ {
		o[j] = (-3*v[j] + 4*v[nR+j] - v[2*nR+j]) / (2 * h)
		o[last+j] = (3*v[last+j] - 4*v[last-nR+j] + v[last-2*nR+j]) / (2 * h)
	}
	for i := 1; i < nXi-1; i++ {
		lo := i * nR
		for j := 0; j < nR; j++ {
			o[lo+j] = (v[lo+nR+j] - v[lo-nR+j]) / (2 * h)
		}
	}
	return out
}

func (m *External) Kind() Kind { return ExternalKind }

// slipped is the grid-frame xi of a bunch particle at time t.
func (m *External) slipped(xi, t float64) float64 {
	return xi + (1-m.betaD)*units.C*t
}

func (m *External) RadialForce(
	c *Cache, b *beam.Bunch, t float64, wx, wy []float64,
) (*Cache, error) {
	checkLen("radial force", len(wx), b.N())
	checkLen("radial force", len(wy), b.N())
	if m.wr == nil {
		zero(wx)
		zero(wy)
		return ensure(c), nil
	}
	for i := range wx {
		wx[i], wy[i] = m.wr.project(m.slipped(b.Xi[i], t), b.X[i], b.Y[i])
	}
	return ensure(c), nil
}

func (m *External) FocusingGradient(
	c *Cache, b *beam.Bunch, t float64, kx []float64,
) (*Cache, error) {
	checkLen("focusing gradient", len(kx), b.N())
	m.sample(m.kx, b, t, kx)
	return ensure(c), nil
}

func (m *External) LongitudinalForce(
	c *Cache, b *beam.Bunch, t float64, ez []float64,
) (*Cache, error) {
	checkLen("longitudinal force", len(ez), b.N())
	m.sample(m.ez, b, t, ez)
	return ensure(c), nil
}

func (m *External) LongitudinalGradient(
	c *Cache, b *beam.Bunch, t float64, dez []float64,
) (*Cache, error) {
	checkLen("longitudinal gradient", len(dez), b.N())
	m.sample(m.dez, b, t, dez)
	return ensure(c), nil
}

func (m *External) sample(s *fieldSampler, b *beam.Bunch, t float64, out []float64) {
	if s == nil {
		zero(out)
		return
	}
	for i := range out {
		out[i] = s.at(m.slipped(b.Xi[i], t),
			math.Hypot(b.X[i], b.Y[i]))
	}
}
