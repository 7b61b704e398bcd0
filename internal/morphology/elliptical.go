package morphology

import (
	"math"

	"galaxy-server/internal/coords"
)

// Minimum axis ratio so high ellipticity cannot flatten the galaxy into
// a degenerate pancake.
const minAxisRatio = 0.3

// ellipticalModel is a 3D anisotropic Gaussian: X and Z share a major
// sigma, Y uses a minor sigma scaled by the axis ratio.
type ellipticalModel struct {
	spec       Spec
	sigmaMajor float64
	sigmaMinor float64
}

func newEllipticalModel(spec Spec) *ellipticalModel {
	major := 0.35 * spec.DiskRadius
	ratio := math.Max(1-spec.Ellipticity, minAxisRatio)
	return &ellipticalModel{
		spec:       spec,
		sigmaMajor: major,
		sigmaMinor: major * ratio,
	}
}

func (m *ellipticalModel) Density(p coords.Vec3) float64 {
	if m.sigmaMajor <= 0 {
		return 0
	}

	exponent := -(p.X*p.X+p.Z*p.Z)/(2*m.sigmaMajor*m.sigmaMajor) -
		(p.Y*p.Y)/(2*m.sigmaMinor*m.sigmaMinor)

	// Clamp before exp so far-field evaluation yields a clean zero
	// instead of denormal noise.
	if exponent < -30 {
		exponent = -30
	}
	if exponent > 0 {
		exponent = 0
	}

	return math.Exp(exponent)
}

func (m *ellipticalModel) PeakDensity() float64 {
	return m.Density(coords.Vec3{})
}

func (m *ellipticalModel) ArmFactor(r, x, z float64) float64 {
	return 1.0
}
