/*package wakefield provides the wakefield models a bunch can be tracked
through: analytic blowout approximations, a nonlinear cold fluid column
model, the quasistatic solve of package plasma, externally supplied field
maps, and sums of any of these.

All models answer force queries through the same four method interface.
Forces are per unit charge: the transverse force in V/m projected on the x
and y planes, the longitudinal field in V/m, the focusing gradient in T/m
and the longitudinal field slope in V/m^2. Grid backed models keep their
solved fields in an explicit Cache record that the caller passes in and
receives back, so recomputation and reinterpolation are visible decisions
instead of hidden object state.*/
package wakefield

import (
	"fmt"
	"math"

	"github.com/delaossa/Wake-T/beam"
	"github.com/delaossa/Wake-T/math/interpolate"
)

// Model is a wakefield variant queried at tracking time t for the forces
// acting on a bunch. Implementations write one value per bunch particle
// into the output slices, whose lengths must equal b.N().
type Model interface {
	Kind() Kind

	// RadialForce evaluates the transverse force per unit charge,
	// projected on x and y, in V/m.
	RadialForce(c *Cache, b *beam.Bunch, t float64, wx, wy []float64) (*Cache, error)
	// FocusingGradient evaluates the radial slope of the transverse
	// force in T/m.
	FocusingGradient(c *Cache, b *beam.Bunch, t float64, kx []float64) (*Cache, error)
	// LongitudinalForce evaluates the accelerating field in V/m.
	LongitudinalForce(c *Cache, b *beam.Bunch, t float64, ez []float64) (*Cache, error)
	// LongitudinalGradient evaluates the xi slope of the accelerating
	// field in V/m^2.
	LongitudinalGradient(c *Cache, b *beam.Bunch, t float64, dez []float64) (*Cache, error)
}

// Density is a plasma density profile in m^-3 as a function of the lab
// frame position z and the radius r, both in meters.
type Density func(z, r float64) float64

// UniformDensity returns the constant profile n0.
func UniformDensity(n0 float64) Density {
	return func(z, r float64) float64 { return n0 }
}

// DensityOfZ adapts a longitudinal-only profile.
func DensityOfZ(f func(z float64) float64) Density {
	return func(z, r float64) float64 { return f(z) }
}

// DensityFromTable interpolates a tabulated longitudinal profile with
// sample positions zs (strictly increasing, in meters) and densities ns in
// m^-3. Outside the table the profile holds its edge values.
func DensityFromTable(zs, ns []float64) Density {
	lin := interpolate.NewLinear(zs, ns)
	return func(z, r float64) float64 { return lin.Eval(z) }
}

// densityAt evaluates the profile and rejects unusable values.
func densityAt(d Density, z, r float64) (float64, error) {
	if d == nil {
		return 0, fmt.Errorf("no density profile set")
	}
	np := d(z, r)
	if math.IsNaN(np) || np <= 0 {
		return 0, fmt.Errorf(
			"density profile returned %g m^-3 at z = %g m", np, z)
	}
	return np, nil
}

// checkLen panics when an output slice does not match the bunch.
func checkLen(name string, got, want int) {
	if got != want {
		panic(fmt.Sprintf(
			"%s output of length %d for a bunch of %d particles",
			name, got, want))
	}
}

// ensure hands back a usable cache for models that carry no grids.
func ensure(c *Cache) *Cache {
	if c == nil {
		c = NewCache()
	}
	return c
}

func zero(xs []float64) {
	for i := range xs {
		xs[i] = 0
	}
}

func fill(xs []float64, v float64) {
	for i := range xs {
		xs[i] = v
	}
}

// resize returns a slice of length n, reusing the allocation when it fits.
func resize(xs []float64, n int) []float64 {
	if cap(xs) < n {
		return make([]float64, n)
	}
	return xs[:n]
}
