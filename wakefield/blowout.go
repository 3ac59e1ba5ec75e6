package wakefield

import (
	"fmt"
	"math"

	"github.com/delaossa/Wake-T/beam"
	"github.com/delaossa/Wake-T/units"
)

// blowoutGradient is the ion column focusing strength at density np,
// m_e w_p^2 / (2 e c), in T/m.
func blowoutGradient(np float64) float64 {
	wp := units.PlasmaFrequency(np)
	return wp * wp / 2 * units.ElectronMass /
		(units.ElementaryCharge * units.C)
}

// SimpleBlowout approximates an ideal blowout cavity at a fixed density: a
// uniform focusing gradient and a longitudinal field that rises linearly
// along xi, crossing zero half a plasma wavelength behind the driver
// center. The driver slips forward in the co-moving frame according to its
// velocity betaDriver.
type SimpleBlowout struct {
	gx     float64 // T/m
	slope  float64 // V/m^2
	lp     float64 // plasma wavelength, m
	xiC    float64
	offset float64
	betaD  float64
}

// NewSimpleBlowout builds the model for plasma density np with the driver
// centered at xiC. fieldOffset shifts the longitudinal field pattern along
// xi and betaDriver is the driver velocity over c.
func NewSimpleBlowout(np, xiC, fieldOffset, betaDriver float64) (*SimpleBlowout, error) {
	if !(np > 0) {
		return nil, fmt.Errorf("plasma density %g must be positive", np)
	}
	wp := units.PlasmaFrequency(np)
	return &SimpleBlowout{
		gx:     blowoutGradient(np),
		slope:  wp * wp / 2 * units.ElectronMass / units.ElementaryCharge,
		lp:     2 * math.Pi * units.C / wp,
		xiC:    xiC,
		offset: fieldOffset,
		betaD:  betaDriver,
	}, nil
}

func (m *SimpleBlowout) Kind() Kind { return SimpleBlowoutKind }

func (m *SimpleBlowout) RadialForce(
	c *Cache, b *beam.Bunch, t float64, wx, wy []float64,
) (*Cache, error) {
	checkLen("radial force", len(wx), b.N())
	checkLen("radial force", len(wy), b.N())
	for i := range wx {
		wx[i] = units.C * m.gx * b.X[i]
		wy[i] = units.C * m.gx * b.Y[i]
	}
	return ensure(c), nil
}

func (m *SimpleBlowout) FocusingGradient(
	c *Cache, b *beam.Bunch, t float64, kx []float64,
) (*Cache, error) {
	checkLen("focusing gradient", len(kx), b.N())
	fill(kx, m.gx)
	return ensure(c), nil
}

func (m *SimpleBlowout) LongitudinalForce(
	c *Cache, b *beam.Bunch, t float64, ez []float64,
) (*Cache, error) {
	checkLen("longitudinal force", len(ez), b.N())
	slip := (1 - m.betaD) * units.C * t
	for i := range ez {
		ez[i] = m.slope * (m.lp/2 + b.Xi[i] - m.xiC - m.offset + slip)
	}
	return ensure(c), nil
}

func (m *SimpleBlowout) LongitudinalGradient(
	c *Cache, b *beam.Bunch, t float64, dez []float64,
) (*Cache, error) {
	checkLen("longitudinal gradient", len(dez), b.N())
	fill(dez, m.slope)
	return ensure(c), nil
}

// CustomBlowout is a blowout with user-chosen field strengths: the
// focusing gradient in T/m, the longitudinal field in V/m at the reference
// position and its slope in V/m^2. A NaN reference position latches onto
// the charge-weighted center of the first bunch queried.
type CustomBlowout struct {
	kx, ez0, slope float64
	xiRef          float64
	betaD          float64
}

func NewCustomBlowout(kx, ez, slope, xiRef, betaDriver float64) *CustomBlowout {
	return &CustomBlowout{
		kx: kx, ez0: ez, slope: slope, xiRef: xiRef, betaD: betaDriver,
	}
}

func (m *CustomBlowout) Kind() Kind { return CustomBlowoutKind }

func (m *CustomBlowout) RadialForce(
	c *Cache, b *beam.Bunch, t float64, wx, wy []float64,
) (*Cache, error) {
	checkLen("radial force", len(wx), b.N())
	checkLen("radial force", len(wy), b.N())
	for i := range wx {
		wx[i] = units.C * m.kx * b.X[i]
		wy[i] = units.C * m.kx * b.Y[i]
	}
	return ensure(c), nil
}

func (m *CustomBlowout) FocusingGradient(
	c *Cache, b *beam.Bunch, t float64, kx []float64,
) (*Cache, error) {
	checkLen("focusing gradient", len(kx), b.N())
	fill(kx, m.kx)
	return ensure(c), nil
}

func (m *CustomBlowout) LongitudinalForce(
	c *Cache, b *beam.Bunch, t float64, ez []float64,
) (*Cache, error) {
	checkLen("longitudinal force", len(ez), b.N())
	if math.IsNaN(m.xiRef) {
		m.xiRef = weightedMeanXi(b)
	}
	slip := (1 - m.betaD) * units.C * t
	for i := range ez {
		ez[i] = m.ez0 + m.slope*(b.Xi[i]-m.xiRef+slip)
	}
	return ensure(c), nil
}

func (m *CustomBlowout) LongitudinalGradient(
	c *Cache, b *beam.Bunch, t float64, dez []float64,
) (*Cache, error) {
	checkLen("longitudinal gradient", len(dez), b.N())
	fill(dez, m.slope)
	return ensure(c), nil
}

// weightedMeanXi is the charge-weighted bunch center; an uncharged bunch
// falls back on the unweighted mean.
func weightedMeanXi(b *beam.Bunch) float64 {
	sumQ, sumXi := 0.0, 0.0
	for i := range b.Xi {
		sumQ += b.Q[i]
		sumXi += b.Q[i] * b.Xi[i]
	}
	if sumQ == 0 {
		return b.MeanXi()
	}
	return sumXi / sumQ
}

// FocusingBlowout applies the blowout focusing strength of the local
// density with no longitudinal field. Useful on ramps, where the focusing
// felt by the bunch follows the density profile.
type FocusingBlowout struct {
	density Density
}

func NewFocusingBlowout(density Density) (*FocusingBlowout, error) {
	if density == nil {
		return nil, fmt.Errorf("focusing blowout without a density profile")
	}
	return &FocusingBlowout{density: density}, nil
}

func (m *FocusingBlowout) Kind() Kind { return FocusingBlowoutKind }

// gradAt evaluates the focusing gradient at one particle. The lab frame
// position of a co-moving coordinate xi at time t is c t + xi.
func (m *FocusingBlowout) gradAt(xi, r, t float64) (float64, error) {
	np, err := densityAt(m.density, t*units.C+xi, r)
	if err != nil {
		return 0, err
	}
	return blowoutGradient(np), nil
}

func (m *FocusingBlowout) RadialForce(
	c *Cache, b *beam.Bunch, t float64, wx, wy []float64,
) (*Cache, error) {
	checkLen("radial force", len(wx), b.N())
	checkLen("radial force", len(wy), b.N())
	for i := range wx {
		kx, err := m.gradAt(b.Xi[i], math.Hypot(b.X[i], b.Y[i]), t)
		if err != nil {
			return ensure(c), err
		}
		wx[i] = units.C * kx * b.X[i]
		wy[i] = units.C * kx * b.Y[i]
	}
	return ensure(c), nil
}

func (m *FocusingBlowout) FocusingGradient(
	c *Cache, b *beam.Bunch, t float64, kx []float64,
) (*Cache, error) {
	checkLen("focusing gradient", len(kx), b.N())
	for i := range kx {
		g, err := m.gradAt(b.Xi[i], math.Hypot(b.X[i], b.Y[i]), t)
		if err != nil {
			return ensure(c), err
		}
		kx[i] = g
	}
	return ensure(c), nil
}

func (m *FocusingBlowout) LongitudinalForce(
	c *Cache, b *beam.Bunch, t float64, ez []float64,
) (*Cache, error) {
	checkLen("longitudinal force", len(ez), b.N())
	zero(ez)
	return ensure(c), nil
}

func (m *FocusingBlowout) LongitudinalGradient(
	c *Cache, b *beam.Bunch, t float64, dez []float64,
) (*Cache, error) {
	checkLen("longitudinal gradient", len(dez), b.N())
	zero(dez)
	return ensure(c), nil
}
