/*package deposit projects particles onto the (xi, r) grid of the solver.

The radial direction is treated cylindrically: particles are reduced to their
radius, weights that land on the guard cells below the axis are folded back
onto their mirror cells, and the linear shape carries a near-axis correction
so a uniformly distributed population deposits a uniform density.
*/
package deposit

import (
	"fmt"
	"strings"
)

// Shape is the particle shape factor used when spreading a particle over
// grid nodes.
type Shape int

const (
	// Linear spreads a particle over the 2x2 surrounding nodes.
	Linear Shape = iota
	// Cubic spreads a particle over 4x4 nodes with cubic B-spline weights.
	Cubic
)

// ShapeFromString parses a shape name as it appears in config files.
func ShapeFromString(s string) (sh Shape, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return Linear, true
	case "cubic":
		return Cubic, true
	}
	return Linear, false
}

func (sh Shape) String() string {
	switch sh {
	case Linear:
		return "linear"
	case Cubic:
		return "cubic"
	}
	panic(fmt.Sprintf("unknown shape %d", int(sh)))
}
