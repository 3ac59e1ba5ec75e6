/*package beam describes the relativistic particle bunches that drive a
plasma wakefield and computes the source term they contribute to the
field equations.*/
package beam

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/delaossa/Wake-T/units"
)

// Bunch is a collection of beam macroparticles. Positions are in meters,
// momenta in units of m_species*c, and Q holds the signed charge of each
// macroparticle in coulombs.
type Bunch struct {
	Name string

	X, Y, Xi   []float64
	Px, Py, Pz []float64
	Q          []float64

	// QSpecies and MSpecies are the charge and mass of the underlying
	// particle species. NewBunch sets them to electron values; override
	// them after construction for anything else.
	QSpecies, MSpecies float64
}

// NewBunch wraps the given particle arrays in a Bunch. All arrays must have
// the same length. The arrays are retained, not copied.
func NewBunch(
	name string, x, y, xi, px, py, pz, q []float64,
) (*Bunch, error) {
	for _, arr := range [][]float64{y, xi, px, py, pz, q} {
		if len(arr) != len(x) {
			return nil, fmt.Errorf(
				"bunch %q: particle arrays of differing lengths", name,
			)
		}
	}
	return &Bunch{
		Name: name,
		X:    x, Y: y, Xi: xi,
		Px: px, Py: py, Pz: pz,
		Q:        q,
		QSpecies: -units.ElementaryCharge,
		MSpecies: units.ElectronMass,
	}, nil
}

// N returns the number of macroparticles in the bunch.
func (b *Bunch) N() int { return len(b.X) }

// TotalCharge returns the summed signed charge of the bunch in coulombs.
func (b *Bunch) TotalCharge() float64 {
	sum := 0.0
	for _, q := range b.Q {
		sum += q
	}
	return sum
}

// MeanXi returns the unweighted mean longitudinal position of the bunch.
func (b *Bunch) MeanXi() float64 {
	if b.N() == 0 {
		return 0
	}
	sum := 0.0
	for _, xi := range b.Xi {
		sum += xi
	}
	return sum / float64(b.N())
}

// Radii writes the cylindrical radius of every particle into dst and
// returns it. A nil dst is allocated.
func (b *Bunch) Radii(dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, b.N())
	}
	for i := range dst {
		dst[i] = math.Hypot(b.X[i], b.Y[i])
	}
	return dst
}

// Gamma writes the Lorentz factor of every particle into dst and returns
// it. A nil dst is allocated.
func (b *Bunch) Gamma(dst []float64) []float64 {
	if dst == nil {
		dst = make([]float64, b.N())
	}
	for i := range dst {
		dst[i] = math.Sqrt(1 +
			b.Px[i]*b.Px[i] + b.Py[i]*b.Py[i] + b.Pz[i]*b.Pz[i])
	}
	return dst
}

// Gaussian samples an axisymmetric Gaussian electron bunch: transverse
// positions with deviation sigmaR per axis, longitudinal positions with
// deviation sigmaXi around xiC, and a cold longitudinal momentum pz0.
// The total charge q is split evenly over n macroparticles. A nil rng
// falls back on the global source.
func Gaussian(
	name string, n int, q, sigmaR, sigmaXi, xiC, pz0 float64,
	rng *rand.Rand,
) *Bunch {
	norm := rand.NormFloat64
	if rng != nil {
		norm = rng.NormFloat64
	}
	if n < 0 {
		n = 0
	}

	x, y, xi := make([]float64, n), make([]float64, n), make([]float64, n)
	px, py, pz := make([]float64, n), make([]float64, n), make([]float64, n)
	qs := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = sigmaR * norm()
		y[i] = sigmaR * norm()
		xi[i] = xiC + sigmaXi*norm()
		pz[i] = pz0
		qs[i] = q / float64(n)
	}

	b, err := NewBunch(name, x, y, xi, px, py, pz, qs)
	if err != nil {
		panic(err.Error())
	}
	return b
}
