package wakefield

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"

	"github.com/delaossa/Wake-T/beam"
	"github.com/delaossa/Wake-T/deposit"
	"github.com/delaossa/Wake-T/grid"
	"github.com/delaossa/Wake-T/plasma"
	"github.com/delaossa/Wake-T/units"
)

// ColdFluid1D solves the nonlinear cold fluid wake equation radius by
// radius: each radial node carries an independent 1d wake driven by the
// on-axis laser intensity and beam density at that radius. It captures
// nonlinear longitudinal dynamics at a fraction of the cost of the 2d
// quasistatic solve, at the price of ignoring radial plasma motion.
type ColdFluid1D struct {
	density  Density
	laser    *Laser
	xiMin    float64
	xiMax    float64
	rMax     float64
	nXi, nR  int
	shape    deposit.Shape
	beamWake bool
	dzFields float64
}

// NewColdFluid1D builds the model on an (nXi, nR) box spanning
// [xiMin, xiMax] by (0, rMax) in meters. laser may be nil. With
// beamWakefields set, tracked bunches are deposited as a source term.
// dzFields is the propagation distance between field recomputations;
// pass 0 to recompute at every new time and math.Inf(1) to solve once.
func NewColdFluid1D(
	density Density, laser *Laser, xiMin, xiMax, rMax float64, nXi, nR int,
	shape deposit.Shape, beamWakefields bool, dzFields float64,
) (*ColdFluid1D, error) {
	if density == nil {
		return nil, fmt.Errorf("cold fluid model without a density profile")
	}
	if nXi < 3 || nR < 3 {
		return nil, fmt.Errorf("cold fluid grid of %d x %d nodes needs "+
			"at least 3 per axis", nXi, nR)
	}
	if rMax <= 0 || xiMax <= xiMin {
		return nil, fmt.Errorf("cold fluid box [%g, %g] x (0, %g] is empty",
			xiMin, xiMax, rMax)
	}
	if laser != nil {
		if err := laser.check(); err != nil {
			return nil, err
		}
	}
	if err := checkDzFields(dzFields); err != nil {
		return nil, err
	}
	return &ColdFluid1D{
		density: density, laser: laser,
		xiMin: xiMin, xiMax: xiMax, rMax: rMax,
		nXi: nXi, nR: nR, shape: shape,
		beamWake: beamWakefields, dzFields: dzFields,
	}, nil
}

func checkDzFields(dz float64) error {
	if math.IsNaN(dz) || dz < 0 {
		return fmt.Errorf("field update distance %g m", dz)
	}
	return nil
}

func (m *ColdFluid1D) Kind() Kind { return ColdFluid1DKind }

// update recomputes the cached field grids if the bunch has advanced far
// enough since the last solve.
func (m *ColdFluid1D) update(c *Cache, b *beam.Bunch, t float64) (*Cache, error) {
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
	u := units.NewPlasma(np)
	sd := u.SkinDepth

	g, err := grid.New(m.nXi, m.nR,
		m.xiMin/sd, m.xiMax/sd, m.rMax/sd)
	if err != nil {
		return c, err
	}

	nb := m.beamDensity(g, b, u)
	u1F := m.march(g, nb, sd)

	ez := g.Interior(g.Gradient(u1F, grid.AxisXi))
	floats.Scale(-u.E0, ez.Elements)
	wr := g.Interior(g.Gradient(u1F, grid.AxisR))
	floats.Scale(-u.E0, wr.Elements)

	c.Fields = &plasma.Wakefields{
		Units: u,
		Xi:    floats.ScaleTo(make([]float64, g.NXi), sd, g.Xi),
		R:     floats.ScaleTo(make([]float64, g.NR), sd, g.R),
		Ez:    ez,
		Wr:    wr,
	}
	c.ComputedAt = t
	c.InterpolatedAt = math.NaN()
	return c, nil
}

// beamDensity deposits the bunch onto the grid and converts the per-cell
// electron counts into a density in units of the reference density. The
// weights keep the charge sign, so electron bunches source a negative
// perturbation.
func (m *ColdFluid1D) beamDensity(
	g *grid.Grid, b *beam.Bunch, u units.Plasma,
) *sparse.DenseArray {
	hist := g.NewField()
	if !m.beamWake || b == nil || b.N() == 0 {
		return hist
	}

	sd := u.SkinDepth
	n := b.N()
	x := make([]float64, n)
	y := make([]float64, n)
	xi := make([]float64, n)
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = b.X[i] / sd
		y[i] = b.Y[i] / sd
		xi[i] = b.Xi[i] / sd
		w[i] = b.Q[i] / units.ElementaryCharge
	}
	deposit.Deposit3D(x, y, xi, w, g, m.shape, hist)

	volUnit := math.Pi * g.DR * g.DR * g.DXi * u.Density * sd * sd * sd
	for i := 0; i < g.NXi; i++ {
		row := g.Row(hist, i)
		for j := 0; j < g.NR; j++ {
			row[grid.Guard+j] /= volUnit * (1 + 2*float64(j))
		}
	}
	return hist
}

// force is the right hand side of the wake equation for the normalized
// potential u1 at laser intensity a2 and beam density nb.
func force(u1, a2, nb float64) float64 {
	return (1+a2)/(2*(1+u1)*(1+u1)) - 0.5 + nb
}

// march integrates the wake equation from the head of the box to the tail
// with RK4 steps, sampling the laser at the start, middle and end of each
// step. The beam density row is held at the source slice over the step.
func (m *ColdFluid1D) march(
	g *grid.Grid, nb *sparse.DenseArray, sd float64,
) *sparse.DenseArray {
	u1F := g.NewField()
	u2F := g.NewField()
	aHi := make([]float64, g.NR)
	aMid := make([]float64, g.NR)
	aLo := make([]float64, g.NR)

	dxi := g.DXi
	for i := g.NXi - 1; i > 0; i-- {
		xiHi := g.Xi[i] * sd
		m.sampleA2(g, xiHi, sd, aHi)
		m.sampleA2(g, xiHi-dxi*sd/2, sd, aMid)
		m.sampleA2(g, xiHi-dxi*sd, sd, aLo)

		hiRow := g.Row(u1F, i)
		hi2Row := g.Row(u2F, i)
		loRow := g.Row(u1F, i-1)
		lo2Row := g.Row(u2F, i-1)
		nbRow := g.Row(nb, i)

		for j := 0; j < g.NR; j++ {
			u1v := hiRow[grid.Guard+j]
			u2v := hi2Row[grid.Guard+j]
			nbj := nbRow[grid.Guard+j]

			a1 := dxi * u2v
			a2 := dxi * force(u1v, aHi[j], nbj)
			b1 := dxi * (u2v + a2/2)
			b2 := dxi * force(u1v+a1/2, aMid[j], nbj)
			c1 := dxi * (u2v + b2/2)
			c2 := dxi * force(u1v+b1/2, aMid[j], nbj)
			d1 := dxi * (u2v + c2)
			d2 := dxi * force(u1v+c1, aLo[j], nbj)

			loRow[grid.Guard+j] = u1v + (a1+2*b1+2*c1+d1)/6
			lo2Row[grid.Guard+j] = u2v + (a2+2*b2+2*c2+d2)/6
		}
	}
	return u1F
}

// sampleA2 fills dst with the laser intensity along the radial axis at the
// SI longitudinal position xiSI.
func (m *ColdFluid1D) sampleA2(g *grid.Grid, xiSI, sd float64, dst []float64) {
	if m.laser == nil {
		zero(dst)
		return
	}
	for j := range dst {
		dst[j] = m.laser.A2(xiSI, g.R[j]*sd)
	}
}

func (m *ColdFluid1D) RadialForce(
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

func (m *ColdFluid1D) LongitudinalForce(
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

func (m *ColdFluid1D) FocusingGradient(
	c *Cache, b *beam.Bunch, t float64, kx []float64,
) (*Cache, error) {
	checkLen("focusing gradient", len(kx), b.N())
	c, err := m.update(c, b, t)
	if err != nil {
		return c, err
	}
	kGrid, err := derivativeGrid(c.Fields.Wr,
		m.xiMin, m.xiMax, m.rMax, grid.AxisR)
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

func (m *ColdFluid1D) LongitudinalGradient(
	c *Cache, b *beam.Bunch, t float64, dez []float64,
) (*Cache, error) {
	checkLen("longitudinal gradient", len(dez), b.N())
	c, err := m.update(c, b, t)
	if err != nil {
		return c, err
	}
	dGrid, err := derivativeGrid(c.Fields.Ez,
		m.xiMin, m.xiMax, m.rMax, grid.AxisXi)
	if err != nil {
		return c, err
	}
	s := newFieldSampler(dGrid, c.Fields.Xi, c.Fields.R)
	for i := range dez {
		dez[i] = s.at(b.Xi[i], math.Hypot(b.X[i], b.Y[i]))
	}
	return c, nil
}
