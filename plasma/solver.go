package plasma

import (
	"errors"
	"fmt"
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"

	"github.com/delaossa/Wake-T/beam"
	"github.com/delaossa/Wake-T/deposit"
	"github.com/delaossa/Wake-T/grid"
	"github.com/delaossa/Wake-T/units"
)

// Params configures a wakefield solve. Lengths are in meters and the
// density in m^-3; everything is normalized internally.
type Params struct {
	// Density is the on-axis reference plasma density.
	Density float64

	RMax, XiMin, XiMax float64
	NR, NXi            int

	// PPC is the number of plasma particles per radial cell.
	PPC int

	// RMaxPlasma bounds the plasma column; zero extends it to RMax.
	RMaxPlasma float64

	// ParabolicCoefficient pc shapes the radial density profile
	// n(r) = Density*(1 + pc*r^2), in m^-2.
	ParabolicCoefficient float64

	Shape  deposit.Shape
	Pusher Pusher

	// MaxGamma is the quasistatic validity bound: plasma particles beyond
	// it are put at rest.
	MaxGamma float64

	IonMotion    bool
	IonMassRatio float64
}

// DefaultParams mirrors the reference configuration: cubic deposition, the
// RK4 pusher, two particles per cell and a gamma limit of 10, with
// hydrogen ions when ion motion is switched on.
func DefaultParams() *Params {
	return &Params{
		PPC:          2,
		Shape:        deposit.Cubic,
		Pusher:       RK4,
		MaxGamma:     10,
		IonMassRatio: units.ProtonElectronMassRatio,
	}
}

// Check reports every configuration problem at once, before anything is
// allocated.
func (p *Params) Check() error {
	var errs []error
	bad := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if !(p.Density > 0) {
		bad("plasma density %g must be positive", p.Density)
	}
	if p.NXi < 3 {
		bad("need at least 3 xi nodes, got %d", p.NXi)
	}
	if p.NR < 3 {
		bad("need at least 3 radial nodes, got %d", p.NR)
	}
	if !(p.RMax > 0) {
		bad("box radius %g must be positive", p.RMax)
	}
	if !(p.XiMax > p.XiMin) {
		bad("inverted xi bounds [%g, %g]", p.XiMin, p.XiMax)
	}
	if p.RMaxPlasma < 0 || p.RMaxPlasma > p.RMax {
		bad("plasma radius %g outside the box radius %g",
			p.RMaxPlasma, p.RMax)
	}
	if p.PPC < 1 {
		bad("need at least 1 particle per cell, got %d", p.PPC)
	}
	if !(p.MaxGamma > 1) {
		bad("gamma limit %g must exceed 1", p.MaxGamma)
	}
	if p.Shape != deposit.Linear && p.Shape != deposit.Cubic {
		bad("unknown deposition shape %d", int(p.Shape))
	}
	if p.Pusher != RK4 && p.Pusher != AB5 {
		bad("unknown plasma pusher %d", int(p.Pusher))
	}
	if p.IonMotion && !(p.IonMassRatio > 0) {
		bad("ion mass ratio %g must be positive", p.IonMassRatio)
	}
	return errors.Join(errs...)
}

// Wakefields is the outcome of one quasistatic solve: interior (NXi, NR)
// field grids in SI units, the axes they live on, and the normalization
// used. Rho is the net plasma charge density with the electron sign taken
// positive and Chi the laser susceptibility, both in units of the
// reference density; an unperturbed column has Rho = 0 and Chi = 1.
type Wakefields struct {
	Units units.Plasma
	Xi, R []float64

	Ez, Er, Wr *sparse.DenseArray // V/m
	BTheta     *sparse.DenseArray // T
	Rho, Chi   *sparse.DenseArray

	// Frozen counts the plasma particles stopped by the gamma limit.
	Frozen int
}

// sweep is the solver state while marching from the head of the box to
// the tail.
type sweep struct {
	g          *grid.Grid
	pusher     Pusher
	shape      deposit.Shape
	maxGamma   float64
	mu         float64
	rMaxPlasma float64
	dxi        float64

	elec *Species
	ions *Species
	bg   shellSums // shell sums of the unperturbed column
	logR []float64

	eLive, eStage sliceEval
	iLive, iStage *sliceEval
	ePush, iPush  *pusherState

	a2Row, nablaA2Row, bt0Row []float64
	wDep                      []float64
	rhoBg                     []float64

	psiOffset float64
	frozen    int
}

func newSweep(g *grid.Grid, p *Params, sd float64) *sweep {
	sw := &sweep{
		g:        g,
		pusher:   p.Pusher,
		shape:    p.Shape,
		maxGamma: p.MaxGamma,
		mu:       p.IonMassRatio,
		dxi:      g.DXi,
	}

	rp := g.RMax
	if p.RMaxPlasma > 0 {
		rp = p.RMaxPlasma / sd
	}
	sw.rMaxPlasma = rp
	pc := p.ParabolicCoefficient * sd * sd

	sw.elec = NewSpecies(rp, g.DR, p.PPC, pc)
	sw.eLive.bindLive(sw.elec)
	sw.eStage.bindStage(sw.elec)
	sw.ePush = newPusherState(sw.elec.N())

	// The unperturbed column doubles as the neutralizing background: its
	// shell sums cancel the electron sums exactly, not just to O(drP^2),
	// so a plasma nobody drives stays perfectly quiet.
	sw.bg.reset(sw.elec.R, sw.elec.Q)

	if p.IonMotion {
		sw.ions = NewSpecies(rp, g.DR, p.PPC, pc)
		sw.iLive = &sliceEval{}
		sw.iLive.bindLive(sw.ions)
		sw.iStage = &sliceEval{}
		sw.iStage.bindStage(sw.ions)
		sw.iPush = newPusherState(sw.ions.N())
	}

	sw.logR = make([]float64, g.NR)
	for j, r := range g.R {
		sw.logR[j] = math.Log(r)
	}
	sw.wDep = make([]float64, sw.elec.N())

	// With immobile ions the charge density needs the static background
	// deposit subtracted; with mobile ions the live ion deposit plays that
	// role.
	sw.rhoBg = make([]float64, g.RowStride())
	if sw.ions == nil {
		deposit.Deposit1D(sw.elec.R, sw.elec.Q, g, p.Shape, sw.rhoBg)
	}
	return sw
}

// solveFields runs the field solve over one coherent evaluation of the
// ensemble: the electron eval against the mobile ions or the static
// background. Shells must already be sorted and paired and the sources
// gathered.
func (sw *sweep) solveFields(e, ion *sliceEval, freeze bool) {
	e.sums.reset(e.rs, e.qs)
	bg := &sw.bg
	if ion != nil {
		ion.sums.reset(ion.rs, ion.qs)
		bg = &ion.sums
	}

	psiParts(e, bg, 1)
	if ion != nil {
		psiParts(ion, &e.sums, -1)
	}
	sw.subtractOffset(e, ion, bg)

	sw.frozen += updateMomenta(e, sw.maxGamma, freeze)
	if ion != nil {
		updateIonMomenta(ion)
	}

	e.buildCurrentSums()
	if ion != nil {
		ion.buildCurrentSums()
	}
	dxiPsiParts(e, bg, 1)
	if ion != nil {
		dxiPsiParts(ion, &e.sums, -1)
	}

	e.sortedFields()
	computeBThetaRegions(e)
	bThetaAtParticles(e)
	if ion != nil {
		bThetaAtRadii(e, ion.rs, ion.order, ion.btBar)
	}
}

// subtractOffset anchors psi to zero outside the plasma: the value just
// beyond the outermost shell is removed from every particle.
func (sw *sweep) subtractOffset(e, ion *sliceEval, bg *shellSums) {
	rFar := sw.rMaxPlasma
	if e.n > 0 {
		if rf := e.rs[e.n-1] + e.drP/2; rf > rFar {
			rFar = rf
		}
	}
	if ion != nil && ion.n > 0 {
		if rf := ion.rs[ion.n-1] + ion.drP/2; rf > rFar {
			rFar = rf
		}
	}

	pe, _ := e.sums.psiAt(rFar)
	pb, _ := bg.psiAt(rFar)
	off := pe - pb
	for i := 0; i < e.n; i++ {
		e.psi[i] -= off
	}
	if ion != nil {
		for i := 0; i < ion.n; i++ {
			ion.psi[i] -= off
		}
	}
	sw.psiOffset = off
}

// Per-slice protocol steps. Each advances the slice context and panics on
// out-of-order use.

func (sw *sweep) sortSlice(sl *slice) {
	sl.advance(sliceStart, sliceSorted, "sort")
	sw.eLive.sortShells()
	if sw.iLive != nil {
		sw.iLive.sortShells()
	}
}

func (sw *sweep) pairSlice(sl *slice) {
	sl.advance(sliceSorted, slicePaired, "pair neighbors")
	sw.eLive.midpoints()
	if sw.iLive != nil {
		sw.iLive.midpoints()
	}
}

func (sw *sweep) sourceSlice(sl *slice, a2, nablaA2, btBeam *sparse.DenseArray) {
	sl.advance(slicePaired, sliceSourced, "gather sources")
	sw.a2Row = sw.g.Row(a2, sl.idx)
	sw.nablaA2Row = sw.g.Row(nablaA2, sl.idx)
	sw.bt0Row = sw.g.Row(btBeam, sl.idx)
	sw.eLive.gatherSources(sw.a2Row, sw.nablaA2Row, sw.bt0Row, sw.g)
	if sw.iLive != nil {
		sw.iLive.gatherSources(sw.a2Row, sw.nablaA2Row, sw.bt0Row, sw.g)
	}
}

func (sw *sweep) fieldSlice(sl *slice) {
	sl.advance(sliceSourced, sliceFieldsComputed, "solve fields")
	sw.solveFields(&sw.eLive, sw.iLive, true)
}

// depositSlice projects psi and the azimuthal field onto the slice's grid
// rows and deposits the charge density and susceptibility.
func (sw *sweep) depositSlice(sl *slice, psiF, btBarF, rhoF, chiF *sparse.DenseArray) {
	sl.advance(sliceFieldsComputed, sliceDeposited, "deposit")
	sw.psiOnGrid(&sw.eLive, sw.iLive, sw.g.Row(psiF, sl.idx))
	bThetaOnGrid(&sw.eLive, sw.g.R, sw.g.Row(btBarF, sl.idx))
	sw.depositDensity(sw.g.Row(rhoF, sl.idx), sw.g.Row(chiF, sl.idx))
}

func (sw *sweep) evolveSlice(sl *slice, last bool) {
	sl.advance(sliceDeposited, sliceEvolved, "evolve")
	if last {
		return
	}
	sw.evolve(sw.dxi)
}

// psiOnGrid writes the slice's pseudopotential onto the interior of a
// guarded row, reusing the cached node logarithms.
func (sw *sweep) psiOnGrid(e, ion *sliceEval, row []float64) {
	bg := &sw.bg
	if ion != nil {
		bg = &ion.sums
	}
	for j := 0; j < sw.g.NR; j++ {
		r := sw.g.R[j]
		row[grid.Guard+j] = e.sums.psiAtLog(r, sw.logR[j]) -
			bg.psiAtLog(r, sw.logR[j]) - sw.psiOffset
	}
}

// depositDensity deposits rho and chi for the slice. Electrons carry
// weight q/(1-pz/gamma) into the net charge density and a further 1/gamma
// into the susceptibility; the ion background enters rho with opposite
// sign, either as the live ion deposit or as the precomputed static
// column, and is too heavy to matter in chi.
func (sw *sweep) depositDensity(rhoRow, chiRow []float64) {
	e := &sw.eLive
	for i := 0; i < e.n; i++ {
		sw.wDep[i] = e.q[i] / (1 - e.pz[i]/e.gamma[i])
	}
	deposit.Deposit1D(e.r, sw.wDep[:e.n], sw.g, sw.shape, rhoRow)
	for i := 0; i < e.n; i++ {
		sw.wDep[i] /= e.gamma[i]
	}
	deposit.Deposit1D(e.r, sw.wDep[:e.n], sw.g, sw.shape, chiRow)

	if ion := sw.iLive; ion != nil {
		for i := 0; i < ion.n; i++ {
			sw.wDep[i] = -ion.q[i]
		}
		deposit.Deposit1D(ion.r, sw.wDep[:ion.n], sw.g, sw.shape, rhoRow)
	} else {
		floats.Sub(rhoRow, sw.rhoBg)
	}

	for j := 0; j < sw.g.NR; j++ {
		f := 1 / (sw.g.R[j] * sw.g.DR)
		rhoRow[grid.Guard+j] *= f
		chiRow[grid.Guard+j] *= f
	}
}

// CalculateWakefields computes the plasma response to the given laser
// intensity grid (nil for none) and drive bunches. laserA2 holds the
// squared envelope on the (NXi, NR) interior nodes.
func CalculateWakefields(
	laserA2 *sparse.DenseArray, bunches []*beam.Bunch, p *Params,
) (*Wakefields, error) {
	if err := p.Check(); err != nil {
		return nil, err
	}

	u := units.NewPlasma(p.Density)
	sd := u.SkinDepth
	g, err := grid.New(p.NXi, p.NR, p.XiMin/sd, p.XiMax/sd, p.RMax/sd)
	if err != nil {
		return nil, err
	}

	// Sources.
	a2 := g.NewField()
	var nablaA2 *sparse.DenseArray
	if laserA2 != nil {
		if len(laserA2.Shape) != 2 || laserA2.Shape[0] != p.NXi ||
			laserA2.Shape[1] != p.NR {
			return nil, fmt.Errorf("laser grid of shape %v, want [%d %d]",
				laserA2.Shape, p.NXi, p.NR)
		}
		g.SetInterior(a2, laserA2)
		nablaA2 = g.RadialGradient(a2)
		g.MirrorEven(a2)
		g.MirrorOdd(nablaA2)
	} else {
		nablaA2 = g.NewField()
	}
	btBeam := g.NewField()
	beam.SourceTerm(bunches, u, g, p.Shape, btBeam)

	// Plasma response.
	psiF := g.NewField()
	btBarF := g.NewField()
	rhoF := g.NewField()
	chiF := g.NewField()

	sw := newSweep(g, p, sd)
	for step := 0; step < g.NXi; step++ {
		sl := &slice{idx: g.NXi - 1 - step}
		sw.sortSlice(sl)
		sw.pairSlice(sl)
		sw.sourceSlice(sl, a2, nablaA2, btBeam)
		sw.fieldSlice(sl)
		sw.depositSlice(sl, psiF, btBarF, rhoF, chiF)
		sw.evolveSlice(sl, sl.idx == 0)
	}

	// Derived fields, converted to SI.
	ez := g.Interior(g.Gradient(psiF, grid.AxisXi))
	floats.Scale(-u.E0, ez.Elements)
	wr := g.Interior(g.Gradient(psiF, grid.AxisR))
	floats.Scale(-u.E0, wr.Elements)

	bt := g.Interior(btBarF)
	floats.Add(bt.Elements, g.Interior(btBeam).Elements)
	floats.Scale(u.E0/units.C, bt.Elements)

	er := sparse.ZerosDense(p.NXi, p.NR)
	copy(er.Elements, wr.Elements)
	floats.AddScaled(er.Elements, units.C, bt.Elements)

	xi := append([]float64(nil), g.Xi...)
	floats.Scale(sd, xi)
	r := append([]float64(nil), g.R...)
	floats.Scale(sd, r)

	return &Wakefields{
		Units:  u,
		Xi:     xi,
		R:      r,
		Ez:     ez,
		Er:     er,
		Wr:     wr,
		BTheta: bt,
		Rho:    g.Interior(rhoF),
		Chi:    g.Interior(chiF),
		Frozen: sw.frozen,
	}, nil
}
