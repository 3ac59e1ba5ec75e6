package grid

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// Axis selects the differencing direction of Gradient.
type Axis int

const (
	AxisXi Axis = iota
	AxisR
)

// Gradient differentiates the interior of a guarded field array along the
// given axis: second order central differences inside, second order
// one-sided stencils on the first and last node, so the result is second
// order accurate everywhere. The guard cells of the result are zero.
func (g *Grid) Gradient(f *sparse.DenseArray, axis Axis) *sparse.DenseArray {
	out := g.NewField()
	switch axis {
	case AxisXi:
		g.gradientXi(f, out)
	case AxisR:
		g.gradientR(f, out)
	default:
		panic(fmt.Sprintf("unknown gradient axis %d", int(axis)))
	}
	return out
}

func (g *Grid) gradientXi(f, out *sparse.DenseArray) {
	if g.NXi < 3 {
		panic("xi gradient needs at least 3 nodes")
	}
	h2 := 2 * g.DXi
	for j := 0; j < g.NR; j++ {
		col := Guard + j
		first := g.Row(f, 0)[col]
		second := g.Row(f, 1)[col]
		third := g.Row(f, 2)[col]
		g.Row(out, 0)[col] = (-3*first + 4*second - third) / h2

		for i := 1; i < g.NXi-1; i++ {
			lo := g.Row(f, i-1)[col]
			hi := g.Row(f, i+1)[col]
			g.Row(out, i)[col] = (hi - lo) / h2
		}

		last := g.Row(f, g.NXi-1)[col]
		prev := g.Row(f, g.NXi-2)[col]
		prev2 := g.Row(f, g.NXi-3)[col]
		g.Row(out, g.NXi-1)[col] = (3*last - 4*prev + prev2) / h2
	}
}

func (g *Grid) gradientR(f, out *sparse.DenseArray) {
	if g.NR < 3 {
		panic("radial gradient needs at least 3 nodes")
	}
	h2 := 2 * g.DR
	for i := 0; i < g.NXi; i++ {
		row := g.Row(f, i)
		dst := g.Row(out, i)

		dst[Guard] = (-3*row[Guard] + 4*row[Guard+1] - row[Guard+2]) / h2
		for j := 1; j < g.NR-1; j++ {
			dst[Guard+j] = (row[Guard+j+1] - row[Guard+j-1]) / h2
		}
		n := Guard + g.NR - 1
		dst[n] = (3*row[n] - 4*row[n-1] + row[n-2]) / h2
	}
}

// RadialGradient differentiates along r with the axis handled by symmetry:
// the stencil at the innermost node sees the even reflection of the field
// across r = 0 instead of a one-sided difference. Used for the radial
// derivative of even fields such as the laser intensity.
func (g *Grid) RadialGradient(f *sparse.DenseArray) *sparse.DenseArray {
	if g.NR < 3 {
		panic("radial gradient needs at least 3 nodes")
	}
	out := g.NewField()
	h2 := 2 * g.DR
	for i := 0; i < g.NXi; i++ {
		row := g.Row(f, i)
		dst := g.Row(out, i)

		// The mirror of node 0 sits at -R[0], holding the node 0 value.
		dst[Guard] = (row[Guard+1] - row[Guard]) / h2
		for j := 1; j < g.NR-1; j++ {
			dst[Guard+j] = (row[Guard+j+1] - row[Guard+j-1]) / h2
		}
		n := Guard + g.NR - 1
		dst[n] = (3*row[n] - 4*row[n-1] + row[n-2]) / h2
	}
	return out
}
