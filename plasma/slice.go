package plasma

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// sliceState is the position of a slice inside the per-slice protocol. The
// sweep panics if a step runs out of order, since every later quantity
// silently depends on the earlier ones.
type sliceState int

const (
	sliceStart sliceState = iota
	sliceSorted
	slicePaired
	sliceSourced
	sliceFieldsComputed
	sliceDeposited
	sliceEvolved
)

func (st sliceState) String() string {
	switch st {
	case sliceStart:
		return "start"
	case sliceSorted:
		return "sorted"
	case slicePaired:
		return "paired"
	case sliceSourced:
		return "sourced"
	case sliceFieldsComputed:
		return "fields-computed"
	case sliceDeposited:
		return "deposited"
	case sliceEvolved:
		return "evolved"
	}
	panic(fmt.Sprintf("unknown slice state %d", int(st)))
}

// slice is the context of one xi step of the sweep.
type slice struct {
	idx   int
	state sliceState
}

func (sl *slice) advance(from, to sliceState, step string) {
	if sl.state != from {
		panic(fmt.Sprintf("slice %d: %s in state %v", sl.idx, step, sl.state))
	}
	sl.state = to
}

// sliceEval is one evaluation of a species during a slice: the particle
// state the field solve sees (the live arrays, or staged positions inside
// an integrator substep) plus every per-particle quantity derived from it.
type sliceEval struct {
	n   int
	drP float64

	r, pr     []float64
	gamma, pz []float64
	q         []float64
	atRest    []bool

	order        []int
	rs, qs, prs  []float64 // sorted copies
	rLeft, rRight []float64 // midpoint radii to the neighboring shells
	sums         shellSums

	// particle-indexed fields
	psi, drPsi, dxiPsi []float64
	a2, nablaA2, bt0   []float64
	btBar              []float64

	// sorted views feeding the azimuthal field recursion
	gammaS, psiS, drPsiS, dxiPsiS, bt0S, nablaA2S []float64

	// azimuthal recursion state and the resulting region coefficients
	recK, recU, recT, recP []float64
	regionA, regionB       []float64
}

// bindLive points the eval at the live arrays of a species.
func (ev *sliceEval) bindLive(s *Species) {
	ev.n, ev.drP = s.N(), s.DrP
	ev.r, ev.pr = s.R, s.Pr
	ev.gamma, ev.pz = s.Gamma, s.Pz
	ev.q, ev.atRest = s.Q, s.AtRest
	ev.alloc()
}

// bindStage gives the eval its own position and momentum buffers while
// sharing the immutable arrays with the species.
func (ev *sliceEval) bindStage(s *Species) {
	ev.n, ev.drP = s.N(), s.DrP
	ev.r = make([]float64, ev.n)
	ev.pr = make([]float64, ev.n)
	ev.gamma = make([]float64, ev.n)
	ev.pz = make([]float64, ev.n)
	ev.q, ev.atRest = s.Q, s.AtRest
	ev.alloc()
}

func (ev *sliceEval) alloc() {
	n := ev.n
	ev.order = growInt(ev.order, n)
	ev.rs, ev.qs, ev.prs = grow(ev.rs, n), grow(ev.qs, n), grow(ev.prs, n)
	ev.rLeft, ev.rRight = grow(ev.rLeft, n), grow(ev.rRight, n)
	ev.psi, ev.drPsi = grow(ev.psi, n), grow(ev.drPsi, n)
	ev.dxiPsi = grow(ev.dxiPsi, n)
	ev.a2, ev.nablaA2 = grow(ev.a2, n), grow(ev.nablaA2, n)
	ev.bt0, ev.btBar = grow(ev.bt0, n), grow(ev.btBar, n)
	ev.gammaS, ev.psiS = grow(ev.gammaS, n), grow(ev.psiS, n)
	ev.drPsiS, ev.dxiPsiS = grow(ev.drPsiS, n), grow(ev.dxiPsiS, n)
	ev.bt0S, ev.nablaA2S = grow(ev.bt0S, n), grow(ev.nablaA2S, n)
}

// sortShells computes the ascending radial ordering of the current
// positions and gathers the sorted radius, weight and momentum views.
func (ev *sliceEval) sortShells() {
	copy(ev.rs, ev.r)
	floats.Argsort(ev.rs, ev.order)
	for k, i := range ev.order {
		ev.qs[k] = ev.q[i]
		ev.prs[k] = ev.pr[i]
	}
}

// midpoints fills the left/right evaluation radii: halfway to each
// neighboring shell, with the axis closing the innermost interval and half
// a shell spacing closing the outermost. Trajectory crossings have already
// been absorbed by the sort; coincident shells produce a degenerate
// interval that the interpolation falls back from.
func (ev *sliceEval) midpoints() {
	n := ev.n
	for k := 0; k < n; k++ {
		if k == 0 {
			ev.rLeft[0] = 0
		} else {
			ev.rLeft[k] = (ev.rs[k-1] + ev.rs[k]) / 2
		}
		if k == n-1 {
			ev.rRight[k] = ev.rs[k] + ev.drP/2
		} else {
			ev.rRight[k] = (ev.rs[k] + ev.rs[k+1]) / 2
		}
	}
}

// sortedFields gathers the particle-indexed field arrays into the sorted
// views the azimuthal recursion walks.
func (ev *sliceEval) sortedFields() {
	for k, i := range ev.order {
		ev.gammaS[k] = ev.gamma[i]
		ev.psiS[k] = ev.psi[i]
		ev.drPsiS[k] = ev.drPsi[i]
		ev.dxiPsiS[k] = ev.dxiPsi[i]
		ev.bt0S[k] = ev.bt0[i]
		ev.nablaA2S[k] = ev.nablaA2[i]
	}
}

func grow(s []float64, n int) []float64 {
	if cap(s) < n {
		return make([]float64, n)
	}
	return s[:n]
}

func growInt(s []int, n int) []int {
	if cap(s) < n {
		return make([]int, n)
	}
	return s[:n]
}
