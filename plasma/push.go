package plasma

import (
	"fmt"
	"strings"
)

// Pusher selects the integrator that advances the plasma between slices.
type Pusher int

const (
	// RK4 is the self-starting fourth-order Runge-Kutta pusher. Every
	// stage re-sorts the trial positions and recomputes the full field
	// solve there.
	RK4 Pusher = iota
	// AB5 is the fifth-order Adams-Bashforth pusher: one field solve per
	// slice against a ring of the last five derivative evaluations, with
	// RK4 steps while the ring fills.
	AB5
)

// PusherFromString parses "rk4" or "ab5", case-insensitively.
func PusherFromString(str string) (p Pusher, ok bool) {
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "rk4":
		return RK4, true
	case "ab5":
		return AB5, true
	}
	return RK4, false
}

func (p Pusher) String() string {
	switch p {
	case RK4:
		return "rk4"
	case AB5:
		return "ab5"
	}
	panic(fmt.Sprintf("unknown pusher %d", int(p)))
}

var ab5Coef = [5]float64{
	1901.0 / 720, -2774.0 / 720, 2616.0 / 720, -1274.0 / 720, 251.0 / 720,
}

// pusherState is the per-species integrator scratch: the four Runge-Kutta
// stage derivatives and the Adams-Bashforth history ring. Ring entry head
// is the newest recorded derivative.
type pusherState struct {
	dR, dPr       [4][]float64
	histR, histPr [5][]float64
	head, fill    int
}

func newPusherState(n int) *pusherState {
	ps := &pusherState{head: -1}
	for s := range ps.dR {
		ps.dR[s] = make([]float64, n)
		ps.dPr[s] = make([]float64, n)
	}
	for s := range ps.histR {
		ps.histR[s] = make([]float64, n)
		ps.histPr[s] = make([]float64, n)
	}
	return ps
}

// record pushes the live-pass derivative into the history ring.
func (ps *pusherState) record() {
	ps.head = (ps.head + 1) % len(ps.histR)
	copy(ps.histR[ps.head], ps.dR[0])
	copy(ps.histPr[ps.head], ps.dPr[0])
	if ps.fill < len(ps.histR) {
		ps.fill++
	}
}

// derivatives fills dR, dPr with the phase-space velocities of one species
// at the given eval. Frozen particles stay put.
func (sw *sweep) derivatives(ev *sliceEval, ion bool, dR, dPr []float64) {
	if !ion {
		for i := 0; i < ev.n; i++ {
			if ev.atRest[i] {
				dR[i], dPr[i] = 0, 0
				continue
			}
			a := 1 + ev.psi[i]
			dR[i] = ev.pr[i] / a
			dPr[i] = ev.gamma[i]*ev.drPsi[i]/a -
				ev.btBar[i] - ev.bt0[i] - ev.nablaA2[i]/(2*a)
		}
		return
	}
	mu := sw.mu
	for i := 0; i < ev.n; i++ {
		if ev.atRest[i] {
			dR[i], dPr[i] = 0, 0
			continue
		}
		g := ev.gamma[i]
		dR[i] = ev.pr[i] / g
		dPr[i] = -(ev.drPsi[i]-ev.btBar[i]-ev.bt0[i])/mu -
			ev.nablaA2[i]/(2*g*mu*mu)
	}
}

// stageFrom writes the trial state live + h*k into the stage eval,
// reflecting trial positions that cross the axis. Frozen particles carry
// their rest state into the stage.
func stageFrom(live, stage *sliceEval, h float64, kR, kPr []float64) {
	for i := 0; i < live.n; i++ {
		if live.atRest[i] {
			stage.r[i], stage.pr[i] = live.r[i], 0
			stage.gamma[i], stage.pz[i] = 1, 0
			continue
		}
		r := live.r[i] + h*kR[i]
		pr := live.pr[i] + h*kPr[i]
		if r < 0 {
			r, pr = -r, -pr
		}
		stage.r[i], stage.pr[i] = r, pr
	}
}

// stageSolve runs the full field pipeline at the staged positions.
func (sw *sweep) stageSolve(stage int, h float64) {
	stageFrom(&sw.eLive, &sw.eStage, h, sw.ePush.dR[stage-1],
		sw.ePush.dPr[stage-1])
	sw.eStage.sortShells()
	sw.eStage.midpoints()
	sw.eStage.gatherSources(sw.a2Row, sw.nablaA2Row, sw.bt0Row, sw.g)

	iStage := sw.iStage
	if iStage != nil {
		stageFrom(sw.iLive, iStage, h, sw.iPush.dR[stage-1],
			sw.iPush.dPr[stage-1])
		iStage.sortShells()
		iStage.midpoints()
		iStage.gatherSources(sw.a2Row, sw.nablaA2Row, sw.bt0Row, sw.g)
	}

	sw.solveFields(&sw.eStage, iStage, false)
	sw.derivatives(&sw.eStage, false, sw.ePush.dR[stage], sw.ePush.dPr[stage])
	if iStage != nil {
		sw.derivatives(iStage, true, sw.iPush.dR[stage], sw.iPush.dPr[stage])
	}
}

// rk4Step advances both species one slice. Stage one is the already
// computed live-pass derivative.
func (sw *sweep) rk4Step(dxi float64) {
	sw.stageSolve(1, dxi/2)
	sw.stageSolve(2, dxi/2)
	sw.stageSolve(3, dxi)

	rk4Combine(&sw.eLive, sw.ePush, dxi)
	if sw.iLive != nil {
		rk4Combine(sw.iLive, sw.iPush, dxi)
	}
}

func rk4Combine(live *sliceEval, ps *pusherState, dxi float64) {
	for i := 0; i < live.n; i++ {
		if live.atRest[i] {
			continue
		}
		kR := ps.dR[0][i] + 2*ps.dR[1][i] + 2*ps.dR[2][i] + ps.dR[3][i]
		kPr := ps.dPr[0][i] + 2*ps.dPr[1][i] + 2*ps.dPr[2][i] + ps.dPr[3][i]
		r := live.r[i] + dxi/6*kR
		pr := live.pr[i] + dxi/6*kPr
		if r < 0 {
			r, pr = -r, -pr
		}
		live.r[i], live.pr[i] = r, pr
	}
}

// ab5Combine advances one species from its derivative ring. When a
// particle reflects off the axis its recorded history is mirrored with it.
func ab5Combine(live *sliceEval, ps *pusherState, dxi float64) {
	n := len(ps.histR)
	for i := 0; i < live.n; i++ {
		if live.atRest[i] {
			continue
		}
		sR, sPr := 0.0, 0.0
		for j := 0; j < n; j++ {
			slot := (ps.head - j + n) % n
			sR += ab5Coef[j] * ps.histR[slot][i]
			sPr += ab5Coef[j] * ps.histPr[slot][i]
		}
		r := live.r[i] + dxi*sR
		pr := live.pr[i] + dxi*sPr
		if r < 0 {
			r, pr = -r, -pr
			for j := 0; j < n; j++ {
				ps.histR[j][i] = -ps.histR[j][i]
				ps.histPr[j][i] = -ps.histPr[j][i]
			}
		}
		live.r[i], live.pr[i] = r, pr
	}
}

// evolve advances the plasma to the next slice with the configured pusher.
// The live-pass fields of the current slice must already be solved.
func (sw *sweep) evolve(dxi float64) {
	sw.derivatives(&sw.eLive, false, sw.ePush.dR[0], sw.ePush.dPr[0])
	if sw.iLive != nil {
		sw.derivatives(sw.iLive, true, sw.iPush.dR[0], sw.iPush.dPr[0])
	}

	if sw.pusher == AB5 {
		sw.ePush.record()
		if sw.iPush != nil {
			sw.iPush.record()
		}
		if sw.ePush.fill == len(sw.ePush.histR) {
			ab5Combine(&sw.eLive, sw.ePush, dxi)
			if sw.iLive != nil {
				ab5Combine(sw.iLive, sw.iPush, dxi)
			}
			return
		}
	}
	sw.rk4Step(dxi)
}
