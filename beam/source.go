package beam

import (
	"math"

	"github.com/ctessum/sparse"

	"github.com/delaossa/Wake-T/deposit"
	"github.com/delaossa/Wake-T/grid"
	"github.com/delaossa/Wake-T/units"
)

// SourceTerm computes the azimuthal magnetic field driven by the bunch
// currents on the guarded grid bTheta, in wave-breaking units (multiply by
// E_0/c for teslas). The bunches are deposited together onto a scratch
// charge grid and the enclosed current is integrated radially once per
// slice. Previous contents of bTheta are overwritten.
func SourceTerm(
	bunches []*Bunch, u units.Plasma, g *grid.Grid, sh deposit.Shape,
	bTheta *sparse.DenseArray,
) {
	for i := range bTheta.Elements {
		bTheta.Elements[i] = 0
	}
	if len(bunches) == 0 {
		return
	}

	charge := g.NewField()
	sd := u.SkinDepth
	wNorm := 1 / (units.ElementaryCharge *
		2 * math.Pi * g.DR * g.DXi * sd * sd * sd * u.Density)

	for _, b := range bunches {
		n := b.N()
		if n == 0 {
			continue
		}
		xn := make([]float64, n)
		yn := make([]float64, n)
		xin := make([]float64, n)
		w := make([]float64, n)
		for i := 0; i < n; i++ {
			xn[i] = b.X[i] / sd
			yn[i] = b.Y[i] / sd
			xin[i] = b.Xi[i] / sd
			w[i] = b.Q[i] * wNorm
		}
		deposit.Deposit3D(xn, yn, xin, w, g, sh, charge)
	}

	// b_theta(r_j) follows from the current enclosed by each ring. The
	// half-cell term is the trapezoidal half of the local cell; the extra
	// quarter on the innermost ring keeps the enclosed current zero on the
	// axis.
	stride := g.RowStride()
	for i := 0; i < g.NXi; i++ {
		row := (i + grid.Guard) * stride
		src := charge.Elements[row+grid.Guard : row+grid.Guard+g.NR]
		dst := bTheta.Elements[row+grid.Guard : row+grid.Guard+g.NR]
		cum := 0.0
		for j, q := range src {
			cum += q
			enc := cum - q/2
			if j == 0 {
				enc -= q / 4
			}
			dst[j] = enc * g.DR / g.R[j]
		}
	}

	g.MirrorOdd(bTheta)
}
