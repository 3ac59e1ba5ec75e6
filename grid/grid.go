/*package grid manages the axisymmetric (xi, r) field grids of the
quasistatic solver.

Field arrays carry two guard cells on every edge so deposition and
interpolation stencils near the box boundaries never need bounds checks. The
radial axis is cell centered: the first node sits half a cell off axis, so
nothing is ever evaluated at r = 0.
*/
package grid

import (
	"fmt"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Guard is the number of guard cells padding each edge of a field array.
const Guard = 2

// Grid describes the solver box in normalized units.
type Grid struct {
	NXi, NR      int
	XiMin, XiMax float64
	RMax         float64
	DXi, DR      float64

	// Node coordinates. Xi[0] = XiMin and Xi[NXi-1] = XiMax;
	// R[j] = (j + 0.5)*DR.
	Xi, R []float64
}

// New creates a grid with nXi longitudinal nodes spanning [xiMin, xiMax] and
// nR cell-centered radial nodes on (0, rMax).
func New(nXi, nR int, xiMin, xiMax, rMax float64) (*Grid, error) {
	if nXi < 2 {
		return nil, fmt.Errorf("grid needs at least 2 xi nodes, got %d", nXi)
	}
	if nR < 1 {
		return nil, fmt.Errorf("grid needs at least 1 radial node, got %d", nR)
	}
	if rMax <= 0 {
		return nil, fmt.Errorf("box radius must be positive, got %g", rMax)
	}
	if xiMax <= xiMin {
		return nil, fmt.Errorf("xi bounds are inverted: [%g, %g]",
			xiMin, xiMax)
	}

	g := &Grid{
		NXi: nXi, NR: nR,
		XiMin: xiMin, XiMax: xiMax, RMax: rMax,
		DXi: (xiMax - xiMin) / float64(nXi-1),
		DR:  rMax / float64(nR),
	}

	g.Xi = make([]float64, nXi)
	floats.Span(g.Xi, xiMin, xiMax)
	g.R = make([]float64, nR)
	for j := range g.R {
		g.R[j] = (float64(j) + 0.5) * g.DR
	}

	return g, nil
}

// NewField allocates a zeroed guarded field array of shape
// (NXi + 2*Guard, NR + 2*Guard).
func (g *Grid) NewField() *sparse.DenseArray {
	return sparse.ZerosDense(g.NXi+2*Guard, g.NR+2*Guard)
}

// RowStride is the element stride between consecutive xi rows of a guarded
// field array.
func (g *Grid) RowStride() int { return g.NR + 2*Guard }

// Row returns the full guarded radial row of interior slice i, including its
// guard columns. Row(f, i)[Guard+j] is the value at (Xi[i], R[j]).
func (g *Grid) Row(f *sparse.DenseArray, i int) []float64 {
	stride := g.RowStride()
	lo := (i + Guard) * stride
	return f.Elements[lo : lo+stride]
}

// Interior copies the physical (NXi, NR) region out of a guarded array.
func (g *Grid) Interior(f *sparse.DenseArray) *sparse.DenseArray {
	out := sparse.ZerosDense(g.NXi, g.NR)
	for i := 0; i < g.NXi; i++ {
		row := g.Row(f, i)
		copy(out.Elements[i*g.NR:(i+1)*g.NR], row[Guard:Guard+g.NR])
	}
	return out
}

// SetInterior copies an unguarded (NXi, NR) array into the interior of a
// guarded field array.
func (g *Grid) SetInterior(dst *sparse.DenseArray, src *sparse.DenseArray) {
	if src.Shape[0] != g.NXi || src.Shape[1] != g.NR {
		panic(fmt.Sprintf("interior shape is (%d, %d), not (%d, %d)",
			g.NXi, g.NR, src.Shape[0], src.Shape[1]))
	}
	for i := 0; i < g.NXi; i++ {
		row := g.Row(dst, i)
		copy(row[Guard:Guard+g.NR], src.Elements[i*g.NR:(i+1)*g.NR])
	}
}

// MirrorEven fills the two sub-axis guard columns of every interior row with
// an even reflection of the innermost interior values. Scalar fields such as
// the laser intensity are even in r.
func (g *Grid) MirrorEven(f *sparse.DenseArray) { g.mirror(f, 1) }

// MirrorOdd fills the sub-axis guard columns with an odd reflection.
// Azimuthal fields and radial derivatives flip sign across the axis.
func (g *Grid) MirrorOdd(f *sparse.DenseArray) { g.mirror(f, -1) }

func (g *Grid) mirror(f *sparse.DenseArray, sign float64) {
	for i := 0; i < g.NXi; i++ {
		row := g.Row(f, i)
		row[1] = sign * row[2]
		row[0] = sign * row[3]
	}
}
