package morphology

import (
	"log/slog"

	"galaxy-server/internal/coords"
)

// Model evaluates un-normalized stellar density. Implementations are
// pure functions of position once constructed from a Spec.
type Model interface {
	// Density returns relative stellar density at p, always >= 0.
	Density(p coords.Vec3) float64

	// PeakDensity estimates the maximum density, for normalization.
	PeakDensity() float64

	// ArmFactor returns the spiral-arm density modulation in [0,1] at
	// planar radius r and plane coordinates (x, z). Non-spiral models
	// return 1.0 identically.
	ArmFactor(r, x, z float64) float64
}

// NewModel constructs the density model selected by spec.Type. An
// unknown tag falls back to the spiral model; that is a configuration
// bug worth surfacing, but never a reason to abort generation.
func NewModel(spec Spec) Model {
	switch spec.Type {
	case TypeSpiral:
		return newSpiralModel(spec)
	case TypeElliptical:
		return newEllipticalModel(spec)
	case TypeIrregular:
		return newIrregularModel(spec)
	default:
		slog.Error("Unknown galaxy type, falling back to spiral",
			"component", "morphology",
			"type", string(spec.Type),
			"seed", spec.Seed,
		)
		return newSpiralModel(spec)
	}
}
