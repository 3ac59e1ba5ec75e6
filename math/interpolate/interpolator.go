package interpolate

// Interpolator evaluates a sampled function of one variable.
type Interpolator interface {
	Eval(x float64) float64
	EvalAll(xs []float64, out ...[]float64) []float64
}

var (
	_ Interpolator = &Linear{}
)

// BiInterpolator evaluates a sampled function of two variables.
type BiInterpolator interface {
	Eval(x, y float64) float64
	EvalAll(xs, ys []float64, out ...[]float64) []float64

	EvalAllX(x float64, ys []float64, out ...[]float64) []float64
	EvalAllY(xs []float64, y float64, out ...[]float64) []float64
}

var (
	_ BiInterpolator = &BiLinear{}
)
