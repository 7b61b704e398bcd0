package morphology

import (
	"math"

	"galaxy-server/internal/coords"
	"galaxy-server/internal/hashchain"
)

// Fixed decorrelation offsets for the seeded noise layers and the
// asymmetry vector. Changing these regenerates every irregular galaxy.
const (
	irregularOffsetSalt = 101
	irregularBlobSalt   = 202
	irregularClumpSalt  = 303
)

// irregularModel is an offset exponential falloff shaped by two layered
// noise fields: a fractal blob field for large structural variation and
// a cellular clump field for sharp star-forming regions.
type irregularModel struct {
	spec   Spec
	center coords.Vec3
	blob   valueNoise
	clump  cellNoise
}

func newIrregularModel(spec Spec) *irregularModel {
	// Seeded random asymmetry: irregulars have no well-defined center.
	offSeed := hashchain.DeriveSeedIndexed(uint32(spec.Seed), irregularOffsetSalt)
	ox := seedUnit(offSeed, 0)
	oy := seedUnit(offSeed, 1)
	oz := seedUnit(offSeed, 2)

	return &irregularModel{
		spec: spec,
		center: coords.Vec3{
			X: ox * 0.25 * spec.DiskRadius,
			Y: oy * 0.25 * spec.HalfHeight,
			Z: oz * 0.25 * spec.DiskRadius,
		},
		blob:  valueNoise{seed: hashchain.DeriveSeedIndexed(uint32(spec.Seed), irregularBlobSalt)},
		clump: cellNoise{seed: hashchain.DeriveSeedIndexed(uint32(spec.Seed), irregularClumpSalt)},
	}
}

// seedUnit derives a deterministic value in [-1,1) from seed and index.
func seedUnit(seed uint32, index int64) float64 {
	return float64(hashchain.DeriveSeedIndexed(seed, index))/float64(math.MaxUint32)*2 - 1
}

func (m *irregularModel) Density(p coords.Vec3) float64 {
	d := p.Sub(m.center)
	r := math.Hypot(d.X, d.Z)
	h := math.Abs(d.Y)

	coreScale := 0.4 * m.spec.DiskRadius
	heightScale := m.spec.DiskScaleHeight
	if coreScale <= 0 || heightScale <= 0 {
		return 0
	}

	core := math.Exp(-r/coreScale - h/heightScale)
	halo := 0.3 * math.Exp(-r/(2.5*coreScale)-h/(2*heightScale))
	base := core + halo

	scale := m.spec.IrregularityScale
	if scale <= 0 {
		return base
	}
	np := coords.Vec3{X: p.X / scale, Y: p.Y / scale, Z: p.Z / scale}

	// Blob field: structural variation, never extinguishing density.
	blob := 0.3 + 0.7*m.blob.fractal(np, 4, 0.5, 2.0)

	// Clump field: squared to sharpen peaks into distinct regions.
	c := m.clump.at(np)
	clumps := 1 + 2*c*c

	return base * blob * clumps
}

func (m *irregularModel) PeakDensity() float64 {
	// Base peaks at the offset center; noise can boost it by at most
	// 1.0 (blob) * 3.0 (clump).
	return m.Density(m.center) * 3
}

func (m *irregularModel) ArmFactor(r, x, z float64) float64 {
	return 1.0
}
