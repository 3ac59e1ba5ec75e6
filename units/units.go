/*package units holds physical constants and the conversions between SI units
and the normalized plasma units used internally by the solver.
*/
package units

import "math"

// Physical constants in SI units (CODATA 2018).
const (
	C                = 299792458.0    // speed of light, m/s
	ElectronMass     = 9.1093837015e-31 // kg
	ElementaryCharge = 1.602176634e-19  // C
	Epsilon0         = 8.8541878128e-12 // vacuum permittivity, F/m

	// ProtonElectronMassRatio is the default mass ratio for a mobile ion
	// background.
	ProtonElectronMassRatio = 1836.15267343
)

// Plasma holds the unit conversion factors for a given background density.
// Lengths are normalized by SkinDepth, fields by E0, densities by Density.
type Plasma struct {
	Density   float64 // reference on-axis density, m^-3
	Frequency float64 // electron plasma frequency omega_p, rad/s
	SkinDepth float64 // c/omega_p, m
	E0        float64 // cold wave-breaking field m_e c omega_p / e, V/m
}

// NewPlasma computes the conversion factors for a plasma of density np in
// m^-3. The density must be positive; validation happens at the call sites
// that accept user input.
func NewPlasma(np float64) Plasma {
	wp := PlasmaFrequency(np)
	return Plasma{
		Density:   np,
		Frequency: wp,
		SkinDepth: C / wp,
		E0:        ElectronMass * C * wp / ElementaryCharge,
	}
}

// PlasmaFrequency returns the electron plasma frequency in rad/s for a
// density in m^-3.
func PlasmaFrequency(np float64) float64 {
	return math.Sqrt(np * ElementaryCharge * ElementaryCharge /
		(Epsilon0 * ElectronMass))
}

// SkinDepth returns c/omega_p in meters for a density in m^-3.
func SkinDepth(np float64) float64 {
	return C / PlasmaFrequency(np)
}

// WaveBreakingField returns the cold non-relativistic wave-breaking field
// m_e c omega_p / e in V/m for a density in m^-3.
func WaveBreakingField(np float64) float64 {
	return ElectronMass * C * PlasmaFrequency(np) / ElementaryCharge
}
