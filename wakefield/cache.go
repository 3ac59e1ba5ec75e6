package wakefield

import (
	"math"

	"github.com/delaossa/Wake-T/beam"
	"github.com/delaossa/Wake-T/plasma"
	"github.com/delaossa/Wake-T/units"
)

// Cache carries the solve state of a grid backed model between force
// calls. Callers keep the returned cache and hand it to the next call, so
// whether a call reuses grids, reinterpolates, or solves again is decided
// by the record rather than by hidden model state. Passing nil starts
// fresh.
type Cache struct {
	// ComputedAt and InterpolatedAt are the tracking times, in seconds,
	// of the last field solve and of the last per-particle interpolation.
	// NaN means never.
	ComputedAt, InterpolatedAt float64

	// Fields holds the grids of the last solve. Models that do not
	// compute every output leave the unused grids nil.
	Fields *plasma.Wakefields

	// Wx, Wy and Ez are the last per-particle interpolations.
	Wx, Wy, Ez []float64

	// Children holds one cache per member of a combined model.
	Children []*Cache
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{ComputedAt: math.NaN(), InterpolatedAt: math.NaN()}
}

// needsCompute reports whether a solve is due at time t: the cached grids
// are stale once t has advanced at least dzFields/c past the time they
// were computed at.
func (c *Cache) needsCompute(t, dzFields float64) bool {
	if math.IsNaN(c.ComputedAt) || c.Fields == nil {
		return true
	}
	return t != c.ComputedAt && t >= c.ComputedAt+dzFields/units.C
}

// needsInterpolation reports whether the per-particle arrays are stale for
// an n particle bunch at time t.
func (c *Cache) needsInterpolation(t float64, n int) bool {
	if math.IsNaN(c.InterpolatedAt) || c.InterpolatedAt != t {
		return true
	}
	return len(c.Ez) != n
}

// refresh reinterpolates the cached grids to the bunch if the per-particle
// arrays are stale.
func (c *Cache) refresh(b *beam.Bunch, t float64) {
	if !c.needsInterpolation(t, b.N()) {
		return
	}
	c.Wx = resize(c.Wx, b.N())
	c.Wy = resize(c.Wy, b.N())
	c.Ez = resize(c.Ez, b.N())
	gatherMainFields(c.Fields, b, c.Wx, c.Wy, c.Ez)
	c.InterpolatedAt = t
}
