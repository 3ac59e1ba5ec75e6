package deposit

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"

	"github.com/delaossa/Wake-T/grid"
)

// stencil computes the node indices and weights of the shape along one axis.
// c is the coordinate in cell units (node j sits at coordinate j). The
// returned count is 2 for Linear and 4 for Cubic. ruyten applies the
// near-axis volume correction and only makes sense on the radial axis.
func (sh Shape) stencil(
	c float64, ruyten bool, idx *[4]int, wt *[4]float64,
) int {
	l := int(math.Floor(c))
	u := c - float64(l)

	switch sh {
	case Linear:
		w0 := 1 - u
		if ruyten && l >= 0 {
			// Transfers weight outward so a population that is uniform
			// in volume deposits a uniform density near the axis
			// (Ruyten, J. Comp. Phys. 105, 224).
			corr := u * (1 - u) / (4 * float64(l+1))
			w0 -= corr
		}
		idx[0], idx[1] = l, l+1
		wt[0], wt[1] = w0, 1-w0
		return 2
	case Cubic:
		u2, u3 := u*u, u*u*u
		idx[0], idx[1], idx[2], idx[3] = l-1, l, l+1, l+2
		wt[0] = (1 - 3*u + 3*u2 - u3) / 6
		wt[1] = (4 - 6*u2 + 3*u3) / 6
		wt[2] = (1 + 3*u + 3*u2 - 3*u3) / 6
		wt[3] = u3 / 6
		return 4
	}
	panic(fmt.Sprintf("unknown shape %d", int(sh)))
}

// span is the number of nodes the shape reaches above and below the base
// node.
func (sh Shape) span() (below, above int) {
	if sh == Cubic {
		return 1, 2
	}
	return 0, 1
}

// Deposit3D deposits weighted particles at (x, y, xi) onto the guarded grid
// array dst. Coordinates are in normalized units. Particles whose stencil
// would leave the guarded array are dropped; charge landing on the guard
// cells below the axis is folded back onto the mirror cells, so in-box
// weight totals are conserved.
func Deposit3D(
	x, y, xi, w []float64, g *grid.Grid, sh Shape, dst *sparse.DenseArray,
) {
	if len(y) != len(x) || len(xi) != len(x) || len(w) != len(x) {
		panic(fmt.Sprintf("particle arrays of length %d %d %d %d",
			len(x), len(y), len(xi), len(w)))
	}

	below, above := sh.span()
	stride := g.RowStride()
	var (
		rIdx, xiIdx [4]int
		rWt, xiWt   [4]float64
	)

	for p := range x {
		r := math.Hypot(x[p], y[p])
		cR := r/g.DR - 0.5
		cXi := (xi[p] - g.XiMin) / g.DXi

		// Keep the stencil inside the guarded array; particles beyond the
		// radial boundary leave the box. The comparisons also drop NaN
		// coordinates.
		if !(cXi >= float64(below-grid.Guard)) ||
			!(cXi <= float64(g.NXi-1+grid.Guard-above)) {
			continue
		}
		if !(cR <= float64(g.NR)-0.5) {
			continue
		}

		nR := sh.stencil(cR, true, &rIdx, &rWt)
		nXi := sh.stencil(cXi, false, &xiIdx, &xiWt)
		for a := 0; a < nXi; a++ {
			row := (xiIdx[a] + grid.Guard) * stride
			wRow := xiWt[a] * w[p]
			for b := 0; b < nR; b++ {
				dst.Elements[row+rIdx[b]+grid.Guard] += wRow * rWt[b]
			}
		}
	}

	foldAxis3D(g, dst)
}

// Deposit1D deposits weighted particles at radius r onto a single guarded
// radial row (length NR + 2*Guard).
func Deposit1D(r, w []float64, g *grid.Grid, sh Shape, row []float64) {
	if len(w) != len(r) {
		panic(fmt.Sprintf("particle arrays of length %d %d", len(r), len(w)))
	}
	if len(row) != g.RowStride() {
		panic(fmt.Sprintf("row of length %d, not %d", len(row),
			g.RowStride()))
	}

	var (
		rIdx [4]int
		rWt  [4]float64
	)

	for p := range r {
		cR := r[p]/g.DR - 0.5
		if !(cR >= -0.5) || !(cR <= float64(g.NR)-0.5) {
			continue
		}
		n := sh.stencil(cR, true, &rIdx, &rWt)
		for b := 0; b < n; b++ {
			row[rIdx[b]+grid.Guard] += w[p] * rWt[b]
		}
	}

	foldAxisRow(row)
}

func foldAxis3D(g *grid.Grid, dst *sparse.DenseArray) {
	stride := g.RowStride()
	for i := 0; i < dst.Shape[0]; i++ {
		foldAxisRow(dst.Elements[i*stride : (i+1)*stride])
	}
}

// foldAxisRow mirrors sub-axis charge back into the box: the cell at
// -0.5*dr is the reflection of the one at +0.5*dr, and -1.5*dr of +1.5*dr.
func foldAxisRow(row []float64) {
	row[2] += row[1]
	row[1] = 0
	row[3] += row[0]
	row[0] = 0
}
