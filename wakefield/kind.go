package wakefield

import (
	"fmt"
	"strings"
)

// Kind identifies one of the fixed wakefield model variants.
type Kind int

const (
	SimpleBlowoutKind Kind = iota
	CustomBlowoutKind
	FocusingBlowoutKind
	ColdFluid1DKind
	Quasistatic2DKind
	Quasistatic2DIonKind
	ExternalKind
	CombinedKind
)

// KindFromString parses the configuration name of a model kind.
func KindFromString(s string) (k Kind, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple_blowout":
		return SimpleBlowoutKind, true
	case "custom_blowout":
		return CustomBlowoutKind, true
	case "focusing_blowout":
		return FocusingBlowoutKind, true
	case "cold_fluid_1d":
		return ColdFluid1DKind, true
	case "quasistatic_2d":
		return Quasistatic2DKind, true
	case "quasistatic_2d_ion":
		return Quasistatic2DIonKind, true
	case "external":
		return ExternalKind, true
	case "combined":
		return CombinedKind, true
	}
	return SimpleBlowoutKind, false
}

func (k Kind) String() string {
	switch k {
	case SimpleBlowoutKind:
		return "simple_blowout"
	case CustomBlowoutKind:
		return "custom_blowout"
	case FocusingBlowoutKind:
		return "focusing_blowout"
	case ColdFluid1DKind:
		return "cold_fluid_1d"
	case Quasistatic2DKind:
		return "quasistatic_2d"
	case Quasistatic2DIonKind:
		return "quasistatic_2d_ion"
	case ExternalKind:
		return "external"
	case CombinedKind:
		return "combined"
	}
	panic(fmt.Sprintf("unknown model kind %d", int(k)))
}
