package morphology

import (
	"math"
	"math/rand/v2"
	"testing"

	"galaxy-server/internal/coords"
)

func sampleSpecs() map[string]Spec {
	spiral := MilkyWay(42)

	elliptical := spiral
	elliptical.Type = TypeElliptical

	irregular := spiral
	irregular.Type = TypeIrregular

	return map[string]Spec{
		"spiral":     spiral,
		"elliptical": elliptical,
		"irregular":  irregular,
	}
}

// Density must be non-negative for all models anywhere within ten times
// the effective radius.
func TestDensityNonNegative(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))

	for name, spec := range sampleSpecs() {
		t.Run(name, func(t *testing.T) {
			model := NewModel(spec)
			extent := spec.EffectiveRadius() * 10

			for i := 0; i < 3000; i++ {
				p := coords.Vec3{
					X: (rng.Float64() - 0.5) * 2 * extent,
					Y: (rng.Float64() - 0.5) * 2 * extent,
					Z: (rng.Float64() - 0.5) * 2 * extent,
				}
				d := model.Density(p)
				if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
					t.Fatalf("density(%v) = %v", p, d)
				}
			}
		})
	}
}

func TestDensityDeterministic(t *testing.T) {
	for name, spec := range sampleSpecs() {
		t.Run(name, func(t *testing.T) {
			a := NewModel(spec)
			b := NewModel(spec)
			points := []coords.Vec3{
				{X: 0, Y: 0, Z: 0},
				{X: 8000, Y: 0, Z: 0},
				{X: -3000, Y: 150, Z: 7000},
				{X: 100.5, Y: -20.25, Z: -99.75},
			}
			for _, p := range points {
				if a.Density(p) != b.Density(p) {
					t.Fatalf("density differs between identical models at %v", p)
				}
			}
		})
	}
}

func TestArmFactorRange(t *testing.T) {
	spec := MilkyWay(7)
	model := NewModel(spec)
	rng := rand.New(rand.NewPCG(3, 1))

	floor := 1 - spec.ArmAmplitude
	for i := 0; i < 2000; i++ {
		x := (rng.Float64() - 0.5) * 2 * spec.DiskRadius
		z := (rng.Float64() - 0.5) * 2 * spec.DiskRadius
		r := math.Hypot(x, z)
		f := model.ArmFactor(r, x, z)
		if f < floor-1e-9 || f > 1+1e-9 {
			t.Fatalf("arm factor %v at r=%v outside [%v, 1]", f, r, floor)
		}
	}
}

func TestArmFactorDisabledNearCenter(t *testing.T) {
	model := NewModel(MilkyWay(7))
	if f := model.ArmFactor(0.5, 0.3, 0.4); f != 1.0 {
		t.Errorf("arm factor inside r<1 = %v, want 1.0", f)
	}
}

func TestNonSpiralArmFactorIdentity(t *testing.T) {
	for _, typ := range []GalaxyType{TypeElliptical, TypeIrregular} {
		spec := MilkyWay(1)
		spec.Type = typ
		model := NewModel(spec)
		if f := model.ArmFactor(5000, 3000, 4000); f != 1.0 {
			t.Errorf("%s arm factor = %v, want 1.0", typ, f)
		}
	}
}

// An unknown type tag must fall back to the spiral model rather than
// aborting generation.
func TestUnknownTypeFallsBackToSpiral(t *testing.T) {
	spec := MilkyWay(3)
	spec.Type = GalaxyType("lenticular")

	model := NewModel(spec)
	if _, ok := model.(*spiralModel); !ok {
		t.Fatalf("unknown type produced %T, want *spiralModel", model)
	}
}

func TestPeakDensityPositive(t *testing.T) {
	for name, spec := range sampleSpecs() {
		if peak := NewModel(spec).PeakDensity(); peak <= 0 {
			t.Errorf("%s peak density = %v, want > 0", name, peak)
		}
	}
}

func TestEllipticalClampsAxisRatio(t *testing.T) {
	spec := MilkyWay(1)
	spec.Type = TypeElliptical
	spec.Ellipticity = 0.99

	m := newEllipticalModel(spec)
	if ratio := m.sigmaMinor / m.sigmaMajor; math.Abs(ratio-minAxisRatio) > 1e-12 {
		t.Errorf("axis ratio = %v, want clamped to %v", ratio, minAxisRatio)
	}
}

func TestEffectiveRadiusCoversBulge(t *testing.T) {
	spec := MilkyWay(1)
	spec.BulgeRadius = 10000 // 3 sigma exceeds the disk radius
	if got := spec.EffectiveRadius(); got != 30000 {
		t.Errorf("effective radius = %v, want 30000", got)
	}
	if got := MilkyWay(1).EffectiveRadius(); got != 16000 {
		t.Errorf("effective radius = %v, want disk radius 16000", got)
	}
}

func TestIrregularSeedChangesField(t *testing.T) {
	specA := MilkyWay(10)
	specA.Type = TypeIrregular
	specB := specA
	specB.Seed = 11

	a := NewModel(specA)
	b := NewModel(specB)

	differs := false
	for _, p := range []coords.Vec3{{X: 1000}, {X: 0, Z: 2500}, {X: -4000, Y: 100, Z: 1}} {
		if a.Density(p) != b.Density(p) {
			differs = true
			break
		}
	}
	if !differs {
		t.Error("irregular field identical under different seeds")
	}
}

func TestNoiseRanges(t *testing.T) {
	vn := valueNoise{seed: 123}
	cn := cellNoise{seed: 456}
	rng := rand.New(rand.NewPCG(5, 5))

	for i := 0; i < 2000; i++ {
		p := coords.Vec3{
			X: (rng.Float64() - 0.5) * 200,
			Y: (rng.Float64() - 0.5) * 200,
			Z: (rng.Float64() - 0.5) * 200,
		}
		if v := vn.at(p); v < 0 || v > 1 {
			t.Fatalf("value noise %v at %v", v, p)
		}
		if v := vn.fractal(p, 4, 0.5, 2.0); v < 0 || v > 1 {
			t.Fatalf("fractal noise %v at %v", v, p)
		}
		if v := cn.at(p); v < 0 || v > 1 {
			t.Fatalf("cell noise %v at %v", v, p)
		}
	}
}
