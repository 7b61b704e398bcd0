// Package morphology holds the immutable galaxy specification and the
// density-field models that evaluate relative stellar density at any
// point in parsec-space. Density values are un-normalized; only their
// ratio to a reference density matters downstream.
package morphology

import "math"

// GalaxyType tags which density model a spec selects.
type GalaxyType string

const (
	TypeSpiral     GalaxyType = "spiral"
	TypeElliptical GalaxyType = "elliptical"
	TypeIrregular  GalaxyType = "irregular"
)

// IsValid reports whether t names a known model.
func (t GalaxyType) IsValid() bool {
	switch t {
	case TypeSpiral, TypeElliptical, TypeIrregular:
		return true
	}
	return false
}

// Spec is the full morphology specification of one galaxy. Together
// with the master seed it is the only persisted state: every star is
// regenerated from these fields. Never mutated after construction.
type Spec struct {
	Seed int64      `json:"seed" yaml:"seed"`
	Type GalaxyType `json:"type" yaml:"type"`

	// Overall extents, parsecs.
	DiskRadius float64 `json:"disk_radius" yaml:"disk_radius"`
	HalfHeight float64 `json:"half_height" yaml:"half_height"`

	// Central bulge (Gaussian sigmas plus a relative intensity).
	BulgeRadius    float64 `json:"bulge_radius" yaml:"bulge_radius"`
	BulgeHeight    float64 `json:"bulge_height" yaml:"bulge_height"`
	BulgeIntensity float64 `json:"bulge_intensity" yaml:"bulge_intensity"`

	// Exponential disk scales.
	DiskScaleLength float64 `json:"disk_scale_length" yaml:"disk_scale_length"`
	DiskScaleHeight float64 `json:"disk_scale_height" yaml:"disk_scale_height"`

	// Spiral arm parameters. Pitch and width are radians; amplitude in
	// [0,1] sets how deep the inter-arm density dips.
	ArmCount     int     `json:"arm_count" yaml:"arm_count"`
	ArmPitch     float64 `json:"arm_pitch" yaml:"arm_pitch"`
	ArmWidth     float64 `json:"arm_width" yaml:"arm_width"`
	ArmAmplitude float64 `json:"arm_amplitude" yaml:"arm_amplitude"`

	// Elliptical flattening in [0,1).
	Ellipticity float64 `json:"ellipticity" yaml:"ellipticity"`

	// Irregular noise feature size, parsecs.
	IrregularityScale float64 `json:"irregularity_scale" yaml:"irregularity_scale"`
}

// MilkyWay returns a spec with Milky Way-like proportions, used as the
// default preset and throughout the tests.
func MilkyWay(seed int64) Spec {
	return Spec{
		Seed:              seed,
		Type:              TypeSpiral,
		DiskRadius:        16000,
		HalfHeight:        400,
		BulgeRadius:       2000,
		BulgeHeight:       1400,
		BulgeIntensity:    4.0,
		DiskScaleLength:   3000,
		DiskScaleHeight:   300,
		ArmCount:          4,
		ArmPitch:          0.22,
		ArmWidth:          0.35,
		ArmAmplitude:      0.7,
		Ellipticity:       0.6,
		IrregularityScale: 1200,
	}
}

// EffectiveRadius is the planar extent the generation grid must cover:
// the disk radius or the bulge's 3-sigma extent, whichever is larger.
func (s Spec) EffectiveRadius() float64 {
	return math.Max(s.DiskRadius, s.BulgeRadius*3)
}

// EffectiveHalfHeight is the vertical analogue of EffectiveRadius.
func (s Spec) EffectiveHalfHeight() float64 {
	return math.Max(s.HalfHeight, s.BulgeHeight*3)
}
