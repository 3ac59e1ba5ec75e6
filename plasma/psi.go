package plasma

import (
	"math"
	"sort"
)

// shellSums holds prefix sums over a radially sorted shell distribution
// (Eqs. 29-32 of the model paper). Prefix arrays have length n+1 with entry
// k covering the innermost k shells, so a sum over "every shell below r" is
// an index lookup.
type shellSums struct {
	r    []float64 // sorted shell radii
	sum1 []float64 // prefix of q
	sum2 []float64 // prefix of q*ln(r)
	sum3 []float64 // prefix of q*pr/(r*(1+psi)); zero until built
}

func (s *shellSums) reset(rs, qs []float64) {
	n := len(rs)
	s.r = append(s.r[:0], rs...)
	s.sum1 = grow(s.sum1, n+1)
	s.sum2 = grow(s.sum2, n+1)
	s.sum3 = grow(s.sum3, n+1)
	s.sum1[0], s.sum2[0] = 0, 0
	for k := 0; k < n; k++ {
		s.sum1[k+1] = s.sum1[k] + qs[k]
		s.sum2[k+1] = s.sum2[k] + qs[k]*math.Log(rs[k])
	}
	for k := range s.sum3 {
		s.sum3[k] = 0
	}
}

// buildSum3 fills the radial-current prefix once psi is known at the
// sorted shells.
func (s *shellSums) buildSum3(qs, prS, psiS []float64) {
	for k := range s.r {
		term := 0.0
		if a := 1 + psiS[k]; a != 0 {
			term = qs[k] * prS[k] / (s.r[k] * a)
		}
		s.sum3[k+1] = s.sum3[k] + term
	}
}

func (s *shellSums) sum3Total() float64 { return s.sum3[len(s.r)] }

// psiPrefix evaluates the bare pseudopotential and its radial derivative
// with the first k shells enclosed. The r <= 0 branch continues the
// logarithm to the axis, where no enclosed charge means no field.
func (s *shellSums) psiPrefix(k int, r float64) (psi, drPsi float64) {
	if k == 0 || r <= 0 {
		return 0, 0
	}
	return s.sum1[k]*math.Log(r) - s.sum2[k], s.sum1[k] / r
}

// psiAt is psiPrefix with the shell count found by binary search: shells
// sitting exactly at r count as outside.
func (s *shellSums) psiAt(r float64) (psi, drPsi float64) {
	return s.psiPrefix(sort.SearchFloat64s(s.r, r), r)
}

// psiAtLog reuses a precomputed log(r) for the grid projection.
func (s *shellSums) psiAtLog(r, logr float64) float64 {
	k := sort.SearchFloat64s(s.r, r)
	if k == 0 || r <= 0 {
		return 0
	}
	return s.sum1[k]*logr - s.sum2[k]
}

func (s *shellSums) sum3At(r float64) float64 {
	return s.sum3[sort.SearchFloat64s(s.r, r)]
}

// psiParts fills psi and drPsi for one species: bare values from its own
// prefix sums minus the background distribution, both taken at the shell
// midpoints and interpolated to the particle position. sign is the species'
// contribution sign to the total pseudopotential (+1 electrons, -1 ions).
// Coincident shells collapse the interval, so the left value is used as is.
func psiParts(ev *sliceEval, bg *shellSums, sign float64) {
	own := &ev.sums
	for k := 0; k < ev.n; k++ {
		rk := ev.rs[k]
		rL, rR := ev.rLeft[k], ev.rRight[k]

		pL, dL := own.psiPrefix(k, rL)
		pR, dR := own.psiPrefix(k+1, rR)
		bpL, bdL := bg.psiAt(rL)
		bpR, bdR := bg.psiAt(rR)
		pL, dL = sign*(pL-bpL), sign*(dL-bdL)
		pR, dR = sign*(pR-bpR), sign*(dR-bdR)

		i := ev.order[k]
		if rR > rL {
			t := (rk - rL) / (rR - rL)
			ev.psi[i] = pL + (pR-pL)*t
			ev.drPsi[i] = dL + (dR-dL)*t
		} else {
			ev.psi[i] = pL
			ev.drPsi[i] = dL
		}
	}
}

// dxiPsiParts fills the longitudinal derivative by the same midpoint
// scheme. The total current sum makes dxi_psi vanish outside the column.
func dxiPsiParts(ev *sliceEval, bg *shellSums, sign float64) {
	own := &ev.sums
	totOwn, totBg := own.sum3Total(), bg.sum3Total()
	for k := 0; k < ev.n; k++ {
		rL, rR := ev.rLeft[k], ev.rRight[k]
		vL := sign * ((totOwn - own.sum3[k]) - (totBg - bg.sum3At(rL)))
		vR := sign * ((totOwn - own.sum3[k+1]) - (totBg - bg.sum3At(rR)))

		i := ev.order[k]
		if rR > rL {
			t := (ev.rs[k] - rL) / (rR - rL)
			ev.dxiPsi[i] = vL + (vR-vL)*t
		} else {
			ev.dxiPsi[i] = vL
		}
	}
}

// updateMomenta refreshes pz and gamma of the electrons from the
// quasistatic constant of motion. With freeze set, particles beyond the
// gamma limit are put at rest for good; the inverted comparison also
// catches the non-finite values a breaking wake produces. Returns the
// number of particles frozen by this call.
func updateMomenta(ev *sliceEval, maxGamma float64, freeze bool) int {
	frozen := 0
	for i := 0; i < ev.n; i++ {
		if ev.atRest[i] {
			continue
		}
		a := 1 + ev.psi[i]
		pz := (1 + ev.pr[i]*ev.pr[i] + ev.a2[i] - a*a) / (2 * a)
		g := 1 + pz + ev.psi[i]
		if freeze && !(g <= maxGamma) {
			ev.gamma[i], ev.pz[i], ev.pr[i] = 1, 0, 0
			ev.atRest[i] = true
			frozen++
			continue
		}
		ev.pz[i], ev.gamma[i] = pz, g
	}
	return frozen
}

// buildCurrentSums rebuilds the radial-current prefix from the freshly
// computed psi. The sorted momentum view is re-gathered first: the freeze
// check may have zeroed momenta after the initial sort.
func (ev *sliceEval) buildCurrentSums() {
	for k, i := range ev.order {
		ev.prs[k] = ev.pr[i]
		ev.psiS[k] = ev.psi[i]
	}
	ev.sums.buildSum3(ev.qs, ev.prs, ev.psiS)
}

// updateIonMomenta keeps the ions non-relativistic in z: gamma follows the
// radial momentum alone and pz stays zero.
func updateIonMomenta(ev *sliceEval) {
	for i := 0; i < ev.n; i++ {
		if ev.atRest[i] {
			continue
		}
		ev.gamma[i] = math.Sqrt(1 + ev.pr[i]*ev.pr[i])
	}
}
