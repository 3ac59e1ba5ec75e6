package plasma

import (
	"github.com/delaossa/Wake-T/grid"
)

// The azimuthal field of the plasma is piecewise a*r + b/r between shells.
// computeBThetaRegions runs the transfer-matrix recursion of Eqs. 26-27
// over the sorted electron shells and leaves the per-region coefficients
// in regionA and regionB: region k spans the gap below shell k, region n
// the open space outside the column, where the field must decay as 1/r.
func computeBThetaRegions(ev *sliceEval) {
	n := ev.n
	ev.regionA = grow(ev.regionA, n+1)
	ev.regionB = grow(ev.regionB, n+1)
	ev.recK = grow(ev.recK, n)
	ev.recU = grow(ev.recU, n)
	ev.recT = grow(ev.recT, n)
	ev.recP = grow(ev.recP, n)

	K, U, T, P := 1.0, 0.0, 0.0, 0.0
	for i := 0; i < n; i++ {
		r, q := ev.rs[i], ev.qs[i]
		a := 1 + ev.psiS[i]
		pr, g := ev.prs[i], ev.gammaS[i]
		drPsi, dxiPsi := ev.drPsiS[i], ev.dxiPsiS[i]

		A := q / (r * a)
		B := q * (-g*drPsi/(r*a*a) +
			pr*pr*drPsi/(r*a*a*a) +
			pr*dxiPsi/(r*a*a) +
			pr*pr/(r*r*a*a) +
			ev.bt0S[i]/(r*a) +
			ev.nablaA2S[i]/(2*r*a*a))
		C := q * (pr*pr/(r*a*a) - (g/a-1)/r)

		l := 1 + A*r/2
		m := A / (2 * r)
		nn := -A * r * r * r / 2
		o := 1 - A*r/2

		K, U, T, P =
			l*K+m*U,
			nn*K+o*U,
			l*T+m*P+(2*B+A*C)/4,
			nn*T+o*P+r*(4*B-A*C*r*r)/4
		ev.recK[i], ev.recU[i] = K, U
		ev.recT[i], ev.recP[i] = T, P
	}

	a0 := 0.0
	if n > 0 && K != 0 {
		a0 = -T / K
	}
	ev.regionA[0], ev.regionB[0] = a0, 0
	for i := 0; i < n; i++ {
		ev.regionA[i+1] = ev.recK[i]*a0 + ev.recT[i]
		ev.regionB[i+1] = ev.recU[i]*a0 + ev.recP[i]
	}
	// The boundary condition already sends the outer linear term to zero;
	// forcing it kills the leftover roundoff.
	ev.regionA[n] = 0
}

// bThetaAtParticles averages the two regions adjoining each shell.
func bThetaAtParticles(ev *sliceEval) {
	for k := 0; k < ev.n; k++ {
		r := ev.rs[k]
		v := (ev.regionA[k] + ev.regionA[k+1]) / 2 * r
		if r > 0 {
			v += (ev.regionB[k] + ev.regionB[k+1]) / 2 / r
		}
		ev.btBar[ev.order[k]] = v
	}
}

// bThetaOnGrid projects the region fields onto the interior of a guarded
// row with a single walk over the sorted shells.
func bThetaOnGrid(ev *sliceEval, gridR, row []float64) {
	cur := 0
	for j, r := range gridR {
		for cur < ev.n && ev.rs[cur] < r {
			cur++
		}
		row[grid.Guard+j] = ev.regionA[cur]*r + ev.regionB[cur]/r
	}
}

// bThetaAtRadii evaluates the region fields at ascending radii, writing
// the results through the given ordering. This is how the mobile ions see
// the electron field.
func bThetaAtRadii(ev *sliceEval, radii []float64, ord []int, out []float64) {
	cur := 0
	for k, r := range radii {
		for cur < ev.n && ev.rs[cur] < r {
			cur++
		}
		v := ev.regionA[cur] * r
		if r > 0 {
			v += ev.regionB[cur] / r
		}
		out[ord[k]] = v
	}
}
