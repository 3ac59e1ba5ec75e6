package wakefield

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"

	"github.com/delaossa/Wake-T/beam"
	"github.com/delaossa/Wake-T/grid"
	"github.com/delaossa/Wake-T/plasma"
	"github.com/delaossa/Wake-T/units"
)

// Quasistatic2D runs the 2d r-xi quasistatic plasma solve and samples the
// resulting field grids at the bunch particles. At each recomputation the
// reference density is looked up at the current bunch center, so the model
// follows longitudinal density profiles as the bunch advances.
type Quasistatic2D struct {
	density  Density
	laser    *Laser
	dzFields float64
	ion      bool
	par      plasma.Params
}

// NewQuasistatic2D builds the electron-only model. par.Density is ignored
// in favor of the density profile. dzFields is the propagation distance
// between field recomputations; 0 recomputes at every new time and
// math.Inf(1) solves once.
func NewQuasistatic2D(
	density Density, laser *Laser, dzFields float64, par *plasma.Params,
) (*Quasistatic2D, error) {
	return newQuasistatic(density, laser, dzFields, par, false)
}

// NewQuasistatic2DIon is Quasistatic2D with mobile ions.
func NewQuasistatic2DIon(
	density Density, laser *Laser, dzFields float64, par *plasma.Params,
) (*Quasistatic2D, error) {
	return newQuasistatic(density, laser, dzFields, par, true)
}

func newQuasistatic(
	density Density, laser *Laser, dzFields float64, par *plasma.Params,
	ion bool,
) (*Quasistatic2D, error) {
	if density == nil {
		return nil, fmt.Errorf("quasistatic model without a density profile")
	}
	if par == nil {
		return nil, fmt.Errorf("quasistatic model without solver parameters")
	}
	if laser != nil {
		if err := laser.check(); err != nil {
			return nil, err
		}
	}
	if err := checkDzFields(dzFields); err != nil {
		return nil, err
	}
	m := &Quasistatic2D{
		density: density, laser: laser, dzFields: dzFields, ion: ion,
		par: *par,
	}
	if ion {
		m.par.IonMotion = true
	}
	return m, nil
}

func (m *Quasistatic2D) Kind() Kind {
	if m.ion {
		return Quasistatic2DIonKind
	}
	return Quasistatic2DKind
}

func (m *Quasistatic2D) update(c *Cache, b *beam.Bunch, t float64) (*Cache, error) {
	c = ensure(c)
	if !c.needsCompute(t, m.dzFields) {
		return c, nil
	}

	zBeam := t * units.C
	if b != nil && b.N() > 0 {
		zBeam += b.MeanXi()
	}
	np, err := densityAt(m.density, zBeam, 0)
	if err != nil {
		return c, err
	}

	par := m.par
	par.Density = np

	var a2 *sparse.DenseArray
	if m.laser != nil {
		a2 = m.laser.SampleGrid(par.XiMin, par.XiMax, par.RMax,
			par.NXi, par.NR)
	}
	var bunches []*beam.Bunch
	if b != nil && b.N() > 0 {
		bunches = []*beam.Bunch{b}
	}

	wf, err := plasma.CalculateWakefields(a2, bunches, &par)
	if err != nil {
		return c, err
	}
	c.Fields = wf
	c.ComputedAt = t
	c.InterpolatedAt = math.NaN()
	return c, nil
}

func (m *Quasistatic2D) RadialForce(
	c *Cache, b *beam.Bunch, t float64, wx, wy []float64,
) (*Cache, error) {
	checkLen("radial force", len(wx), b.N())
	checkLen("radial force", len(wy), b.N())
	c, err := m.update(c, b, t)
	if err != nil {
		return c, err
	}
	c.refresh(b, t)
	copy(wx, c.Wx)
	copy(wy, c.Wy)
	return c, nil
}

func (m *Quasistatic2D) LongitudinalForce(
	c *Cache, b *beam.Bunch, t float64, ez []float64,
) (*Cache, error) {
	checkLen("longitudinal force", len(ez), b.N())
	c, err := m.update(c, b, t)
	if err != nil {
		return c, err
	}
	c.refresh(b, t)
	copy(ez, c.Ez)
	return c, nil
}

func (m *Quasistatic2D) FocusingGradient(
	c *Cache, b *beam.Bunch, t float64, kx []float64,
) (*Cache, error) {
	checkLen("focusing gradient", len(kx), b.N())
	c, err := m.update(c, b, t)
	if err != nil {
		return c, err
	}
	kGrid, err := derivativeGrid(c.Fields.Wr,
		m.par.XiMin, m.par.XiMax, m.par.RMax, grid.AxisR)
	if err != nil {
		return c, err
	}
	floats.Scale(1/units.C, kGrid.Elements)
	s := newFieldSampler(kGrid, c.Fields.Xi, c.Fields.R)
	for i := range kx {
		kx[i] = s.at(b.Xi[i], math.Hypot(b.X[i], b.Y[i]))
	}
	return c, nil
}

func (m *Quasistatic2D) LongitudinalGradient(
	c *Cache, b *beam.Bunch, t float64, dez []float64,
) (*Cache, error) {
	checkLen("longitudinal gradient", len(dez), b.N())
	c, err := m.update(c, b, t)
	if err != nil {
		return c, err
	}
	dGrid, err := derivativeGrid(c.Fields.Ez,
		m.par.XiMin, m.par.XiMax, m.par.RMax, grid.AxisXi)
	if err != nil {
		return c, err
	}
	s := newFieldSampler(dGrid, c.Fields.Xi, c.Fields.R)
	for i := range dez {
		dez[i] = s.at(b.Xi[i], math.Hypot(b.X[i], b.Y[i]))
	}
	return c, nil
}
