package plasma

import (
	"math"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/stretchr/testify/assert"

	"github.com/delaossa/Wake-T/beam"
	"github.com/delaossa/Wake-T/deposit"
	"github.com/delaossa/Wake-T/units"
)

func validParams() *Params {
	p := DefaultParams()
	p.Density = 1e24
	p.RMax = 40e-6
	p.XiMin, p.XiMax = -60e-6, 0
	p.NR, p.NXi = 20, 24
	return p
}

func TestParamsCheck(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Params)
		want string
	}{
		{"valid", func(*Params) {}, ""},
		{"zero density", func(p *Params) { p.Density = 0 }, "density"},
		{"negative density", func(p *Params) { p.Density = -1e24 }, "density"},
		{"one xi node", func(p *Params) { p.NXi = 1 }, "xi nodes"},
		{"no radial nodes", func(p *Params) { p.NR = 0 }, "radial node"},
		{"negative radius", func(p *Params) { p.RMax = -1 }, "box radius"},
		{"inverted xi", func(p *Params) { p.XiMin, p.XiMax = 0, -1e-6 },
			"inverted"},
		{"plasma beyond box", func(p *Params) { p.RMaxPlasma = 1 },
			"outside the box"},
		{"zero ppc", func(p *Params) { p.PPC = 0 }, "particle"},
		{"gamma limit", func(p *Params) { p.MaxGamma = 1 }, "gamma"},
		{"bad shape", func(p *Params) { p.Shape = deposit.Shape(9) },
			"shape"},
		{"bad pusher", func(p *Params) { p.Pusher = Pusher(9) }, "pusher"},
		{"bad ion mass", func(p *Params) {
			p.IonMotion = true
			p.IonMassRatio = 0
		}, "mass ratio"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := validParams()
			test.mod(p)
			err := p.Check()
			if test.want == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, test.want)
			}
		})
	}
}

func TestParamsCheckReportsEverything(t *testing.T) {
	err := new(Params).Check()
	if err == nil {
		t.Fatal("zero-value parameters passed validation")
	}
	for _, want := range []string{
		"density", "xi nodes", "radial node", "box radius", "particle",
		"gamma",
	} {
		assert.ErrorContains(t, err, want)
	}
}

func requireFinite(t *testing.T, name string, xs []float64) {
	t.Helper()
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Fatalf("%s[%d] is not finite: %g", name, i, x)
		}
	}
}

func TestCalculateWakefieldsQuietPlasma(t *testing.T) {
	p := validParams()

	wf, err := CalculateWakefields(nil, nil, p)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	assert.Zero(t, maxAbs(wf.Ez.Elements), "E_z")
	assert.Zero(t, maxAbs(wf.Er.Elements), "E_r")
	assert.Zero(t, maxAbs(wf.Wr.Elements), "W_r")
	assert.Zero(t, maxAbs(wf.BTheta.Elements), "B_theta")
	assert.Zero(t, maxAbs(wf.Rho.Elements), "rho")
	assert.Zero(t, wf.Frozen)

	// The susceptibility of the undisturbed column is the background
	// density itself, away from the axis fold and the edge truncation.
	for i := 0; i < p.NXi; i++ {
		for j := 2; j <= p.NR-4; j++ {
			assert.InDelta(t, 1, wf.Chi.Elements[i*p.NR+j], 0.05,
				"chi at slice %d node %d", i, j)
		}
	}

	// Axes come back in meters.
	assert.Len(t, wf.Xi, p.NXi)
	assert.Len(t, wf.R, p.NR)
	assert.InDelta(t, p.XiMin, wf.Xi[0], 1e-12)
	assert.InDelta(t, p.XiMax, wf.Xi[p.NXi-1], 1e-12)
	assert.Greater(t, wf.R[0], 0.0)
	assert.Less(t, wf.R[p.NR-1], p.RMax)
}

// blockBunch builds a deterministic electron bunch on a lattice with
// compact support, so slices ahead of it stay causally untouched.
func blockBunch(t *testing.T, q, r0, xiLo, xiHi float64, nr, nxi int) *beam.Bunch {
	t.Helper()
	n := nr * nxi
	x := make([]float64, 0, n)
	y := make([]float64, 0, n)
	xi := make([]float64, 0, n)
	zero := make([]float64, n)
	pz := make([]float64, 0, n)
	qs := make([]float64, 0, n)
	for a := 0; a < nxi; a++ {
		xiA := xiLo + (xiHi-xiLo)*(float64(a)+0.5)/float64(nxi)
		for b := 0; b < nr; b++ {
			x = append(x, r0*(float64(b)+0.5)/float64(nr))
			y = append(y, 0)
			xi = append(xi, xiA)
			pz = append(pz, 1000)
			qs = append(qs, q/float64(n))
		}
	}
	bunch, err := beam.NewBunch("driver", x, y, xi, zero, zero, pz, qs)
	if err != nil {
		t.Fatal(err)
	}
	return bunch
}

func TestCalculateWakefieldsBunchDriven(t *testing.T) {
	p := DefaultParams()
	p.Density = 1e24
	p.RMax = 60e-6
	p.XiMin, p.XiMax = -90e-6, 0
	p.NR, p.NXi = 50, 50
	p.Shape = deposit.Linear

	sd := units.SkinDepth(p.Density)
	xiHi := -2 * sd
	xiLo := xiHi - sd
	bunch := blockBunch(t, -50e-12, 0.5*sd, xiLo, xiHi, 6, 8)

	wf, err := CalculateWakefields(nil, []*beam.Bunch{bunch}, p)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	requireFinite(t, "E_z", wf.Ez.Elements)
	requireFinite(t, "E_r", wf.Er.Elements)
	requireFinite(t, "B_theta", wf.BTheta.Elements)
	requireFinite(t, "rho", wf.Rho.Elements)
	requireFinite(t, "chi", wf.Chi.Elements)

	// Ahead of the driver the plasma has seen no source at all, so the
	// response is exactly zero, not merely small.
	dxi := (p.XiMax - p.XiMin) / float64(p.NXi-1)
	quiet := int((xiHi-p.XiMin)/dxi) + 4
	if quiet >= p.NXi {
		t.Fatalf("driver too close to the box head, quiet region starts "+
			"at slice %d of %d", quiet, p.NXi)
	}
	for i := quiet; i < p.NXi; i++ {
		for j := 0; j < p.NR; j++ {
			if v := wf.Ez.Elements[i*p.NR+j]; v != 0 {
				t.Fatalf("E_z ahead of the driver at slice %d node %d: %g",
					i, j, v)
			}
			if v := wf.BTheta.Elements[i*p.NR+j]; v != 0 {
				t.Fatalf("B_theta ahead of the driver at slice %d node "+
					"%d: %g", i, j, v)
			}
		}
	}

	// Behind it the on-axis longitudinal field oscillates at the plasma
	// period.
	axis := make([]float64, p.NXi)
	for i := range axis {
		axis[i] = wf.Ez.Elements[i*p.NR]
	}
	peak := maxAbs(axis)
	if peak == 0 {
		t.Fatal("driver raised no wake")
	}
	assert.Less(t, peak, 10*wf.Units.E0, "wake beyond wave breaking")

	behind := int((xiLo-p.XiMin)/dxi) - 2
	flips := 0
	last := 0.0
	for i := 0; i < behind; i++ {
		v := axis[i]
		if math.Abs(v) < 0.05*peak {
			continue
		}
		if last != 0 && (v > 0) != (last > 0) {
			flips++
		}
		last = v
	}
	assert.GreaterOrEqual(t, flips, 2, "wake oscillations behind the driver")

	// The trailing wake swings as far negative as positive.  A
	// one-signed profile would mean the sweep picked up a spurious DC
	// component.
	hi, lo := 0.0, 0.0
	for i := 0; i < behind; i++ {
		hi = math.Max(hi, axis[i])
		lo = math.Min(lo, axis[i])
	}
	assert.Greater(t, hi, 0.0)
	assert.Less(t, lo, 0.0)
	assert.InDelta(t, hi, -lo, 0.3*peak, "wake lobes out of balance")

	// Identical inputs reproduce the fields bit for bit.
	wf2, err := CalculateWakefields(nil, []*beam.Bunch{bunch}, p)
	if err != nil {
		t.Fatalf("second solve failed: %v", err)
	}
	assert.Equal(t, wf.Ez.Elements, wf2.Ez.Elements, "solve not deterministic")
	assert.Equal(t, wf.Rho.Elements, wf2.Rho.Elements, "solve not deterministic")
}

func TestCalculateWakefieldsMirrorInY(t *testing.T) {
	p := validParams()
	sd := units.SkinDepth(p.Density)

	x := []float64{0.2 * sd, -0.1 * sd, 0}
	y := []float64{0.1 * sd, 0.3 * sd, -0.2 * sd}
	xi := []float64{-2.2 * sd, -2.4 * sd, -2.6 * sd}
	pz := []float64{1000, 1000, 1000}
	q := []float64{-1e-12, -1e-12, -0.5e-12}

	mk := func(ys []float64) *beam.Bunch {
		b, err := beam.NewBunch("driver", x, ys, xi,
			make([]float64, len(ys)), make([]float64, len(ys)), pz, q)
		if err != nil {
			t.Fatalf("bunch: %v", err)
		}
		return b
	}
	flipped := make([]float64, len(y))
	for k, v := range y {
		flipped[k] = -v
	}

	w1, err := CalculateWakefields(nil, []*beam.Bunch{mk(y)}, p)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	w2, err := CalculateWakefields(nil, []*beam.Bunch{mk(flipped)}, p)
	if err != nil {
		t.Fatalf("flipped solve failed: %v", err)
	}

	// The beam enters the axisymmetric solve only through r =
	// hypot(x, y), and hypot is exactly even in y, so the two solves
	// match bit for bit.
	assert.Equal(t, w1.Ez.Elements, w2.Ez.Elements)
	assert.Equal(t, w1.Er.Elements, w2.Er.Elements)
	assert.Equal(t, w1.Wr.Elements, w2.Wr.Elements)
	assert.Equal(t, w1.BTheta.Elements, w2.BTheta.Elements)
	assert.Equal(t, w1.Rho.Elements, w2.Rho.Elements)
	assert.Equal(t, w1.Chi.Elements, w2.Chi.Elements)
	assert.Equal(t, w1.Frozen, w2.Frozen)
}

func TestCalculateWakefieldsFreezesRunaways(t *testing.T) {
	p := DefaultParams()
	p.Density = 1e24
	p.RMax = 50e-6
	p.XiMin, p.XiMax = -80e-6, 0
	p.NR, p.NXi = 30, 36
	p.Shape = deposit.Linear
	p.MaxGamma = 1.000001

	sd := units.SkinDepth(p.Density)
	bunch := blockBunch(t, -200e-12, 0.5*sd, -3.5*sd, -2.5*sd, 6, 8)

	wf, err := CalculateWakefields(nil, []*beam.Bunch{bunch}, p)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}

	// With the validity bound this tight the wake must stop shells, and
	// the solve must still come out finite.
	assert.Greater(t, wf.Frozen, 0, "nothing froze")
	requireFinite(t, "E_z", wf.Ez.Elements)
	requireFinite(t, "E_r", wf.Er.Elements)
	requireFinite(t, "rho", wf.Rho.Elements)
}

func TestCalculateWakefieldsLaserInput(t *testing.T) {
	p := validParams()

	bad := sparse.ZerosDense(p.NXi, p.NR+1)
	_, err := CalculateWakefields(bad, nil, p)
	assert.ErrorContains(t, err, "laser grid")

	// An explicitly zero intensity grid behaves like no laser at all.
	zero := sparse.ZerosDense(p.NXi, p.NR)
	wf, err := CalculateWakefields(zero, nil, p)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	assert.Zero(t, maxAbs(wf.Ez.Elements), "E_z")
	assert.Zero(t, maxAbs(wf.Wr.Elements), "W_r")
}

func TestCalculateWakefieldsLaserDriven(t *testing.T) {
	p := DefaultParams()
	p.Density = 1e24
	p.RMax = 50e-6
	p.XiMin, p.XiMax = -80e-6, 0
	p.NR, p.NXi = 40, 44

	sd := units.SkinDepth(p.Density)
	xiC := -50e-6
	sigXi, sigR := sd, 1.5*sd
	dxi := (p.XiMax - p.XiMin) / float64(p.NXi-1)
	dr := p.RMax / float64(p.NR)

	a2 := sparse.ZerosDense(p.NXi, p.NR)
	for i := 0; i < p.NXi; i++ {
		xi := p.XiMin + float64(i)*dxi
		for j := 0; j < p.NR; j++ {
			r := (float64(j) + 0.5) * dr
			a2.Elements[i*p.NR+j] = 0.25 * math.Exp(
				-(xi-xiC)*(xi-xiC)/(2*sigXi*sigXi)-r*r/(2*sigR*sigR))
		}
	}

	wf, err := CalculateWakefields(a2, nil, p)
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	requireFinite(t, "E_z", wf.Ez.Elements)

	// The ponderomotive force drives a wake trailing the pulse.
	behind := 0.0
	ahead := 0.0
	for i := 0; i < p.NXi; i++ {
		xi := p.XiMin + float64(i)*dxi
		row := wf.Ez.Elements[i*p.NR : (i+1)*p.NR]
		switch {
		case xi < xiC-4*sigXi:
			if m := maxAbs(row); m > behind {
				behind = m
			}
		case xi > xiC+6*sigXi:
			if m := maxAbs(row); m > ahead {
				ahead = m
			}
		}
	}
	assert.Greater(t, behind, 0.0, "no wake behind the pulse")
	assert.Less(t, ahead, 1e-3*behind, "wake running ahead of the pulse")
}

func BenchmarkCalculateWakefields(b *testing.B) {
	p := DefaultParams()
	p.Density = 1e24
	p.RMax = 60e-6
	p.XiMin, p.XiMax = -90e-6, 0
	p.NR, p.NXi = 50, 50
	p.Shape = deposit.Linear

	sd := units.SkinDepth(p.Density)
	bunch := beam.Gaussian("driver", 2000, -50e-12, 0.3*sd, 0.5*sd, -3*sd,
		1000, nil)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		if _, err := CalculateWakefields(nil, []*beam.Bunch{bunch}, p); err != nil {
			b.Fatal(err)
		}
	}
}
