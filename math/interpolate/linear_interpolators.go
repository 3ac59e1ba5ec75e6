package interpolate

import (
	"fmt"
	"math"
	"sort"
)

// searcher locates the interpolation cell containing a point on an axis
// given either explicitly or as a uniform spacing.
type searcher struct {
	xs     []float64 // nil for uniform axes
	x0, dx float64
	n      int
}

func (s *searcher) init(xs []float64) {
	if len(xs) < 2 {
		panic(fmt.Sprintf("Axis of length %d cannot be interpolated.", len(xs)))
	}
	for i := 0; i < len(xs)-1; i++ {
		if xs[i+1] <= xs[i] {
			panic("Interpolation axis is not strictly increasing.")
		}
	}
	s.xs = xs
	s.x0 = xs[0]
	s.dx = (xs[len(xs)-1] - xs[0]) / float64(len(xs)-1)
	s.n = len(xs)
}

func (s *searcher) unifInit(x0, dx float64, n int) {
	if n < 2 {
		panic(fmt.Sprintf("Axis of length %d cannot be interpolated.", n))
	}
	if dx <= 0 {
		panic(fmt.Sprintf("Axis spacing %g is not positive.", dx))
	}
	s.xs, s.x0, s.dx, s.n = nil, x0, dx, n
}

// search returns the cell index i with val(i) <= x <= val(i+1), clamped so
// that i is always a valid left endpoint.
func (s *searcher) search(x float64) int {
	var i int
	if s.xs == nil {
		i = int(math.Floor((x - s.x0) / s.dx))
	} else {
		i = sort.SearchFloat64s(s.xs, x) - 1
	}
	if i < 0 {
		i = 0
	} else if i > s.n-2 {
		i = s.n - 2
	}
	return i
}

func (s *searcher) val(i int) float64 {
	if s.xs == nil {
		return s.x0 + float64(i)*s.dx
	}
	return s.xs[i]
}

func (s *searcher) clamp(x float64) float64 {
	if lo := s.val(0); x < lo {
		return lo
	}
	if hi := s.val(s.n - 1); x > hi {
		return hi
	}
	return x
}

///////////////////////////
// Linear Implementation //
///////////////////////////

// Linear is a piecewise linear interpolator. Points outside the sampled
// range evaluate to the nearest edge value.
type Linear struct {
	xs   searcher
	vals []float64
}

// NewLinear creates a linear interpolator for a strictly increasing sequence
// of points, xs, which take on the values given by vals.
//
// Lookups will occur in O(log |xs|).
func NewLinear(xs, vals []float64) *Linear {
	if len(xs) != len(vals) {
		panic("Length of input slices are not equal.")
	}
	lin := &Linear{}
	lin.xs.init(xs)
	lin.vals = vals
	return lin
}

// NewUniformLinear creates a linear interpolator where a uniformly spaced
// sequence of x values starting at x0 and separated by dx take on the values
// given by vals.
//
// Lookups will be O(1).
func NewUniformLinear(x0, dx float64, vals []float64) *Linear {
	lin := &Linear{}
	lin.xs.unifInit(x0, dx, len(vals))
	lin.vals = vals
	return lin
}

// Eval returns the interpolated value at x.
func (lin *Linear) Eval(x float64) float64 {
	x = lin.xs.clamp(x)
	i1 := lin.xs.search(x)
	i2 := i1 + 1
	x1, x2 := lin.xs.val(i1), lin.xs.val(i2)
	v1, v2 := lin.vals[i1], lin.vals[i2]

	return ((v2-v1)/(x2-x1))*(x-x1) + v1
}

// EvalAll evaluates the interpolator at all the given x values. If an output
// array is given, the output is written to that array (the array is still
// returned as a convenience).
//
// If more than one output array is provided, only the first is used.
func (lin *Linear) EvalAll(xs []float64, out ...[]float64) []float64 {
	if len(out) == 0 { out = [][]float64{ make([]float64, len(xs)) } }
	for i, x := range xs { out[0][i] = lin.Eval(x) }
	return out[0]
}


/////////////////////////////
// BiLinear Implementation //
/////////////////////////////

// BiLinear is a bi-linear interpolator. Values are stored with y as the slow
// axis: the value at (xs[i], ys[j]) is vals[j*len(xs) + i]. Points outside
// the sampled rectangle evaluate at the nearest edge.
type BiLinear struct {
	xs, ys searcher
	vals   []float64
	nx     int
}

func NewBiLinear(xs, ys, vals []float64) *BiLinear {
	if len(xs)*len(ys) != len(vals) {
		panic(fmt.Sprintf(
			"len(vals) = %d, but len(xs) = %d and len(ys) = %d",
			len(vals), len(xs), len(ys),
		))
	}

	bi := &BiLinear{}
	bi.xs.init(xs)
	bi.ys.init(ys)
	bi.nx = len(xs)
	bi.vals = vals

	return bi
}

func NewUniformBiLinear(
	x0, dx float64, nx int,
	y0, dy float64, ny int,
	vals []float64,
) *BiLinear {
	if nx*ny != len(vals) {
		panic(fmt.Sprintf(
			"len(vals) = %d, but nx = %d and ny = %d",
			len(vals), nx, ny,
		))
	}

	bi := &BiLinear{}
	bi.xs.unifInit(x0, dx, nx)
	bi.ys.unifInit(y0, dy, ny)
	bi.nx = nx
	bi.vals = vals

	return bi
}

func (bi *BiLinear) Eval(x, y float64) float64 {
	x, y = bi.xs.clamp(x), bi.ys.clamp(y)
	ix := bi.xs.search(x)
	iy := bi.ys.search(y)

	x1, x2 := bi.xs.val(ix), bi.xs.val(ix+1)
	y1, y2 := bi.ys.val(iy), bi.ys.val(iy+1)

	i11 := iy*bi.nx + ix
	v11, v21 := bi.vals[i11], bi.vals[i11+1]
	v12, v22 := bi.vals[i11+bi.nx], bi.vals[i11+bi.nx+1]

	tx := (x - x1) / (x2 - x1)
	v1 := v11 + (v21-v11)*tx
	v2 := v12 + (v22-v12)*tx
	return v1 + (v2-v1)*(y-y1)/(y2-y1)
}

func (bi *BiLinear) EvalAll(xs, ys []float64, out ...[]float64) []float64 {
	if len(out) == 0 { out = [][]float64{ make([]float64, len(xs)) } }
	for i := range xs { out[0][i] = bi.Eval(xs[i], ys[i]) }
	return out[0]
}

func (bi *BiLinear) EvalAllX(x float64, ys []float64, out ...[]float64) []float64 {
	if len(out) == 0 { out = [][]float64{ make([]float64, len(ys)) } }
	for i, y := range ys { out[0][i] = bi.Eval(x, y) }
	return out[0]
}

func (bi *BiLinear) EvalAllY(xs []float64, y float64, out ...[]float64) []float64 {
	if len(out) == 0 { out = [][]float64{ make([]float64, len(xs)) } }
	for i, x := range xs { out[0][i] = bi.Eval(x, y) }
	return out[0]
}
