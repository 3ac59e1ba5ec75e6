package wakefield

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/delaossa/Wake-T/beam"
	"github.com/delaossa/Wake-T/deposit"
	"github.com/delaossa/Wake-T/plasma"
	"github.com/delaossa/Wake-T/units"
)

// countingDensity is a uniform profile that records how often the solver
// asked for the density, which is once per field recomputation.
type countingDensity struct {
	n     float64
	calls int
}

func (d *countingDensity) density(z, r float64) float64 {
	d.calls++
	return d.n
}

func solverParams() *plasma.Params {
	p := plasma.DefaultParams()
	p.Density = 1e24 // replaced by the profile on every solve
	p.RMax = 40e-6
	p.XiMin, p.XiMax = -60e-6, 0
	p.NR, p.NXi = 16, 16
	p.Shape = deposit.Linear
	return p
}

func TestNewQuasistaticValidation(t *testing.T) {
	par := solverParams()
	n := UniformDensity(1e24)

	_, err := NewQuasistatic2D(nil, nil, 0, par)
	assert.ErrorContains(t, err, "density profile")

	_, err = NewQuasistatic2D(n, nil, 0, nil)
	assert.ErrorContains(t, err, "solver parameters")

	_, err = NewQuasistatic2D(n, &Laser{A0: 1}, 0, par)
	assert.ErrorContains(t, err, "waist")

	_, err = NewQuasistatic2D(n, nil, -1, par)
	assert.ErrorContains(t, err, "field update")

	// Broken solver parameters surface on the first solve.
	bad := solverParams()
	bad.NR = 0
	m, err := NewQuasistatic2D(n, nil, 0, bad)
	if err != nil {
		t.Fatal(err)
	}
	b := probeBunch(t, []float64{0}, []float64{0}, []float64{-30e-6})
	_, err = m.LongitudinalForce(nil, b, 0, make([]float64, 1))
	assert.ErrorContains(t, err, "radial")
}

func TestQuasistaticQuietSolve(t *testing.T) {
	d := &countingDensity{n: 1e24}
	m, err := NewQuasistatic2D(d.density, nil, 0, solverParams())
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, Quasistatic2DKind, m.Kind())

	// Zero-charge probes sample the plasma without disturbing it.
	b := probeBunch(t,
		[]float64{1e-6, 5e-6},
		[]float64{0, 0},
		[]float64{-20e-6, -40e-6},
		[]float64{0, 0})

	wx := make([]float64, 2)
	wy := make([]float64, 2)
	ez := make([]float64, 2)
	kx := make([]float64, 2)
	dez := make([]float64, 2)

	c, err := m.RadialForce(nil, b, 0, wx, wy)
	if err != nil {
		t.Fatal(err)
	}
	if c, err = m.LongitudinalForce(c, b, 0, ez); err != nil {
		t.Fatal(err)
	}
	if c, err = m.FocusingGradient(c, b, 0, kx); err != nil {
		t.Fatal(err)
	}
	if c, err = m.LongitudinalGradient(c, b, 0, dez); err != nil {
		t.Fatal(err)
	}

	assert.Zero(t, maxAbs(wx))
	assert.Zero(t, maxAbs(wy))
	assert.Zero(t, maxAbs(ez))
	assert.Zero(t, maxAbs(kx))
	assert.Zero(t, maxAbs(dez))

	// One solve served all four queries.
	assert.Equal(t, 1, d.calls)
	assert.Zero(t, c.Fields.Frozen)
}

func TestQuasistaticFieldStride(t *testing.T) {
	d := &countingDensity{n: 1e24}
	dzFields := 1e-3
	m, err := NewQuasistatic2D(d.density, nil, dzFields, solverParams())
	if err != nil {
		t.Fatal(err)
	}
	b := probeBunch(t, []float64{1e-6}, []float64{0}, []float64{-30e-6},
		[]float64{0})
	ez := make([]float64, 1)

	c, err := m.LongitudinalForce(nil, b, 0, ez)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 1, d.calls)

	// The same time reuses both the grids and the interpolation.
	if c, err = m.LongitudinalForce(c, b, 0, ez); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 1, d.calls)

	// A step shorter than the stride reinterpolates the old grids.
	tShort := 0.3 * dzFields / units.C
	if c, err = m.LongitudinalForce(c, b, tShort, ez); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 1, d.calls)
	assert.Equal(t, 0.0, c.ComputedAt)
	assert.Equal(t, tShort, c.InterpolatedAt)

	// A full stride later the fields are solved again.
	tLong := 1.5 * dzFields / units.C
	if c, err = m.LongitudinalForce(c, b, tLong, ez); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 2, d.calls)
	assert.Equal(t, tLong, c.ComputedAt)
}

func TestQuasistaticIonVariant(t *testing.T) {
	par := solverParams()
	assert.False(t, par.IonMotion)

	m, err := NewQuasistatic2DIon(UniformDensity(1e24), nil, 0, par)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, Quasistatic2DIonKind, m.Kind())
	assert.True(t, m.par.IonMotion)

	// The caller's parameter struct is left alone.
	assert.False(t, par.IonMotion)
}

func TestQuasistaticLaserDriven(t *testing.T) {
	par := solverParams()
	par.NXi, par.NR = 48, 16
	laser := &Laser{A0: 0.8, Waist: 20e-6, Length: 8e-6, XiC: -12e-6}

	m, err := NewQuasistatic2D(UniformDensity(1e24), laser, 0, par)
	if err != nil {
		t.Fatal(err)
	}

	// Zero-charge probes along the axis behind the pulse.
	nProbe := 10
	x := make([]float64, nProbe)
	y := make([]float64, nProbe)
	xi := make([]float64, nProbe)
	q := make([]float64, nProbe)
	for i := range xi {
		x[i] = 1e-6
		xi[i] = -25e-6 - 30e-6*float64(i)/float64(nProbe)
	}
	b := probeBunch(t, x, y, xi, q)

	ez := make([]float64, nProbe)
	c, err := m.LongitudinalForce(nil, b, 0, ez)
	if err != nil {
		t.Fatal(err)
	}
	requireAllFinite(t, "E_z", ez)
	if peak := maxAbs(ez); peak < 1e8 {
		t.Fatalf("laser raised no wake: peak |E_z| = %g V/m", peak)
	}

	wx := make([]float64, nProbe)
	wy := make([]float64, nProbe)
	if _, err := m.RadialForce(c, b, 0, wx, wy); err != nil {
		t.Fatal(err)
	}
	requireAllFinite(t, "W_x", wx)
	assert.Greater(t, maxAbs(wx), 0.0)

	kx := make([]float64, nProbe)
	if _, err := m.FocusingGradient(c, b, 0, kx); err != nil {
		t.Fatal(err)
	}
	requireAllFinite(t, "K_x", kx)

	dez := make([]float64, nProbe)
	if _, err := m.LongitudinalGradient(c, b, 0, dez); err != nil {
		t.Fatal(err)
	}
	requireAllFinite(t, "dE_z/dxi", dez)
	assert.Greater(t, maxAbs(dez), 0.0)
}

func TestQuasistaticRampDensity(t *testing.T) {
	// On a ramp the solve picks the density at the bunch center.
	var seen []float64
	profile := func(z, r float64) float64 {
		seen = append(seen, z)
		return 1e24
	}
	m, err := NewQuasistatic2D(profile, nil, 0, solverParams())
	if err != nil {
		t.Fatal(err)
	}
	b := probeBunch(t, []float64{0, 0}, []float64{0, 0},
		[]float64{-20e-6, -40e-6}, []float64{0, 0})

	tNow := 2e-12
	if _, err := m.LongitudinalForce(nil, b, tNow, make([]float64, 2)); err != nil {
		t.Fatal(err)
	}
	if assert.Len(t, seen, 1) {
		assert.InDelta(t, tNow*units.C-30e-6, seen[0], 1e-12)
	}

	// Without a bunch the box is anchored at the current position alone.
	seen = nil
	if _, err := m.update(nil, nil, tNow); err != nil {
		t.Fatal(err)
	}
	if assert.Len(t, seen, 1) {
		assert.InDelta(t, tNow*units.C, seen[0], 1e-12)
	}
}

func BenchmarkQuasistaticSolve(b *testing.B) {
	par := solverParams()
	par.NXi, par.NR = 48, 24
	laser := &Laser{A0: 0.8, Waist: 20e-6, Length: 8e-6, XiC: -12e-6}
	m, err := NewQuasistatic2D(UniformDensity(1e24), laser, 0, par)
	if err != nil {
		b.Fatal(err)
	}
	zero := []float64{0}
	bunch, err := beam.NewBunch("probe", []float64{1e-6}, zero,
		[]float64{-30e-6}, zero, zero, zero, zero)
	if err != nil {
		b.Fatal(err)
	}
	ez := make([]float64, bunch.N())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.LongitudinalForce(nil, bunch, 0, ez); err != nil {
			b.Fatal(err)
		}
	}
}
