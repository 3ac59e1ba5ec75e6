package deposit

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/delaossa/Wake-T/grid"
)

func TestShapeFromString(t *testing.T) {
	table := []struct {
		str   string
		shape Shape
		ok    bool
	}{
		{"linear", Linear, true},
		{"Linear", Linear, true},
		{"cubic", Cubic, true},
		{" CUBIC ", Cubic, true},
		{"quartic", Linear, false},
		{"", Linear, false},
	}

	for i, test := range table {
		sh, ok := ShapeFromString(test.str)
		if ok != test.ok {
			t.Errorf("%d) ShapeFromString(%q) ok = %v", i, test.str, ok)
		} else if ok && sh != test.shape {
			t.Errorf("%d) ShapeFromString(%q) = %v", i, test.str, sh)
		}
	}

	for sh := Linear; sh <= Cubic; sh++ {
		back, ok := ShapeFromString(sh.String())
		if !ok || back != sh {
			t.Errorf("%v does not round trip", sh)
		}
	}
}

func testGrid(t *testing.T) *grid.Grid {
	g, err := grid.New(17, 16, -4, 4, 8)
	if err != nil {
		t.Fatalf(err.Error())
	}
	return g
}

// Every particle inside the box deposits exactly its weight, wherever it
// sits relative to the axis or the stencil guards.
func TestDepositConservesWeight(t *testing.T) {
	g := testGrid(t)
	rand.Seed(42)

	n := 500
	x, y, xi, w := make([]float64, n), make([]float64, n),
		make([]float64, n), make([]float64, n)
	total := 0.0
	for i := range x {
		r := rand.Float64() * g.RMax * 0.999
		phi := 2 * math.Pi * rand.Float64()
		x[i], y[i] = r*math.Cos(phi), r*math.Sin(phi)
		xi[i] = g.XiMin + rand.Float64()*(g.XiMax-g.XiMin)
		w[i] = rand.Float64()
		total += w[i]
	}

	for _, sh := range []Shape{Linear, Cubic} {
		dst := g.NewField()
		Deposit3D(x, y, xi, w, g, sh, dst)

		sum := 0.0
		for _, v := range dst.Elements {
			sum += v
		}
		assert.InDelta(t, total, sum, 1e-10*total, "shape %v", sh)

		// Sub-axis guard columns are folded back.
		for i := 0; i < dst.Shape[0]; i++ {
			row := dst.Elements[i*g.RowStride() : (i+1)*g.RowStride()]
			if row[0] != 0 || row[1] != 0 {
				t.Errorf("%v: guard charge (%g, %g) left in row %d",
					sh, row[0], row[1], i)
			}
		}
	}
}

// A particle on the axis lands entirely on the innermost radial node.
func TestDepositOnAxis(t *testing.T) {
	g := testGrid(t)

	x, y := []float64{0}, []float64{0}
	xi, w := []float64{g.Xi[5]}, []float64{3.5}

	dst := g.NewField()
	Deposit3D(x, y, xi, w, g, Linear, dst)
	if v := g.Row(dst, 5)[grid.Guard]; v != 3.5 {
		t.Errorf("on-axis particle deposited %g on the first node", v)
	}
}

// Mirroring a bunch in y leaves the deposited grid unchanged: deposition
// sees only the radius.
func TestDepositMirrorSymmetry(t *testing.T) {
	g := testGrid(t)
	rand.Seed(7)

	n := 200
	x, y, xi, w := make([]float64, n), make([]float64, n),
		make([]float64, n), make([]float64, n)
	yNeg := make([]float64, n)
	for i := range x {
		x[i] = rand.NormFloat64()
		y[i] = rand.NormFloat64()
		yNeg[i] = -y[i]
		xi[i] = rand.NormFloat64()
		w[i] = rand.Float64()
	}

	a, b := g.NewField(), g.NewField()
	Deposit3D(x, y, xi, w, g, Cubic, a)
	Deposit3D(x, yNeg, xi, w, g, Cubic, b)
	for i := range a.Elements {
		if a.Elements[i] != b.Elements[i] {
			t.Fatalf("mirrored deposit differs at element %d", i)
		}
	}
}

// Particles outside the box deposit nothing.
func TestDepositDropsOutOfBox(t *testing.T) {
	g := testGrid(t)

	x := []float64{g.RMax * 1.5, 0, 0}
	y := []float64{0, 0, 0}
	xi := []float64{0, g.XiMax + 4, g.XiMin - 4}
	w := []float64{1, 1, 1}

	for _, sh := range []Shape{Linear, Cubic} {
		dst := g.NewField()
		Deposit3D(x, y, xi, w, g, sh, dst)
		for i, v := range dst.Elements {
			if v != 0 {
				t.Fatalf("%v: out-of-box particle deposited %g at %d",
					sh, v, i)
			}
		}
	}
}

// A population distributed like a uniform plasma column deposits a uniform
// density. The linear shape carries the near-axis correction, so even the
// innermost cell stays within a percent.
func TestDepositUniformColumn(t *testing.T) {
	g := testGrid(t)
	ppc := 4
	h := g.DR / float64(ppc)

	n := g.NR * ppc
	r, w := make([]float64, n), make([]float64, n)
	for k := range r {
		r[k] = (float64(k) + 0.5) * h
		w[k] = h * r[k]
	}

	row := make([]float64, g.RowStride())
	Deposit1D(r, w, g, Linear, row)
	for j := 0; j < g.NR-2; j++ {
		rho := row[grid.Guard+j] / (g.R[j] * g.DR)
		assert.InDelta(t, 1, rho, 0.02, "linear, node %d", j)
	}

	row = make([]float64, g.RowStride())
	Deposit1D(r, w, g, Cubic, row)
	for j := 2; j < g.NR-3; j++ {
		rho := row[grid.Guard+j] / (g.R[j] * g.DR)
		assert.InDelta(t, 1, rho, 0.02, "cubic, node %d", j)
	}
}

func BenchmarkDeposit3DCubic(b *testing.B) {
	g, err := grid.New(50, 50, -10, 2, 10)
	if err != nil {
		b.Fatalf(err.Error())
	}

	rand.Seed(1)
	n := 10000
	x, y, xi, w := make([]float64, n), make([]float64, n),
		make([]float64, n), make([]float64, n)
	for i := range x {
		x[i] = rand.NormFloat64()
		y[i] = rand.NormFloat64()
		xi[i] = -4 + rand.NormFloat64()
		w[i] = 1
	}
	dst := g.NewField()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Deposit3D(x, y, xi, w, g, Cubic, dst)
	}
}
