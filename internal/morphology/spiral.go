package morphology

import (
	"math"

	"galaxy-server/internal/coords"
)

// spiralModel is a Gaussian bulge plus an exponential disk modulated by
// logarithmic spiral arms.
type spiralModel struct {
	spec Spec

	// Per-arm angular offsets, evenly spaced, precomputed once.
	armOffsets []float64
}

func newSpiralModel(spec Spec) *spiralModel {
	offsets := make([]float64, 0, spec.ArmCount)
	for i := 0; i < spec.ArmCount; i++ {
		offsets = append(offsets, 2*math.Pi*float64(i)/float64(spec.ArmCount))
	}
	return &spiralModel{spec: spec, armOffsets: offsets}
}

func (m *spiralModel) Density(p coords.Vec3) float64 {
	r := math.Hypot(p.X, p.Z)
	h := p.Y

	bulge := m.bulge(r, h)
	disk := m.disk(r, h) * m.ArmFactor(r, p.X, p.Z)

	return bulge + disk
}

func (m *spiralModel) bulge(r, h float64) float64 {
	sr := m.spec.BulgeRadius
	sh := m.spec.BulgeHeight
	if sr <= 0 || sh <= 0 {
		return 0
	}
	return m.spec.BulgeIntensity * math.Exp(-(r*r)/(2*sr*sr)-(h*h)/(2*sh*sh))
}

func (m *spiralModel) disk(r, h float64) float64 {
	sl := m.spec.DiskScaleLength
	sh := m.spec.DiskScaleHeight
	if sl <= 0 || sh <= 0 {
		return 0
	}
	return math.Exp(-r/sl - math.Abs(h)/sh)
}

// ArmFactor blends between (1-amplitude) off-arm and 1.0 on-arm. For
// each arm the log-spiral angle at radius r is offset + ln(r)/tan(pitch);
// proximity is a Gaussian in the wrapped angular distance, and the
// strongest arm wins. Inside r < 1 the spiral angle is undefined, so
// arm modulation is disabled there.
func (m *spiralModel) ArmFactor(r, x, z float64) float64 {
	if r < 1 || len(m.armOffsets) == 0 || m.spec.ArmAmplitude <= 0 {
		return 1.0
	}

	theta := math.Atan2(z, x)
	tanPitch := math.Tan(m.spec.ArmPitch)
	if tanPitch == 0 {
		return 1.0
	}
	spiralAngle := math.Log(r) / tanPitch

	width := m.spec.ArmWidth
	if width <= 0 {
		return 1.0
	}

	maxProximity := 0.0
	for _, offset := range m.armOffsets {
		delta := wrapAngle(theta - (offset + spiralAngle))
		proximity := math.Exp(-(delta * delta) / (2 * width * width))
		if proximity > maxProximity {
			maxProximity = proximity
		}
	}

	amp := m.spec.ArmAmplitude
	return (1 - amp) + amp*maxProximity
}

func (m *spiralModel) PeakDensity() float64 {
	// Density peaks at the center, where arm modulation is disabled.
	return m.Density(coords.Vec3{})
}

// wrapAngle maps an angle into [-pi, pi].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
