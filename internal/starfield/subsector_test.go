package starfield

import (
	"math"
	"math/rand/v2"
	"testing"

	"galaxy-server/internal/coords"
	"galaxy-server/internal/morphology"
)

// flatModel is a uniform density field for statistical tests.
type flatModel struct {
	value float64
}

func (m flatModel) Density(coords.Vec3) float64       { return m.value }
func (m flatModel) PeakDensity() float64              { return m.value }
func (m flatModel) ArmFactor(r, x, z float64) float64 { return 1 }

func flatContext(seed int64, density float64) *Context {
	return &Context{
		Spec:             morphology.MilkyWay(seed),
		Model:            flatModel{value: density},
		ReferenceDensity: density,
	}
}

func TestGenerateSubsectorDeterministic(t *testing.T) {
	ctx := flatContext(42, 1.0)
	q := coords.Quadrant{X: 3, Y: -1, Z: 7}
	s := coords.Local{X: 2, Y: 5, Z: 8}
	sub := coords.Local{X: 9, Y: 0, Z: 4}

	a := GenerateSubsector(ctx, q, s, sub)
	b := GenerateSubsector(ctx, q, s, sub)

	if len(a) != len(b) {
		t.Fatalf("star counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if *a[i] != *b[i] {
			t.Fatalf("star %d differs:\n%+v\n%+v", i, *a[i], *b[i])
		}
	}
}

func TestGenerateSubsectorStarsInsideCell(t *testing.T) {
	ctx := flatContext(7, 1.0)
	q := coords.Quadrant{X: 0, Y: 0, Z: 0}
	s := coords.Local{X: 5, Y: 5, Z: 5}

	for x := 0; x < 10; x++ {
		sub := coords.Local{X: x, Y: x % 3, Z: (x * 7) % 10}
		origin := coords.SubsectorOrigin(q, s, sub)

		for _, star := range GenerateSubsector(ctx, q, s, sub) {
			p := star.Position
			if p.X < origin.X || p.X > origin.X+coords.SubsectorSize ||
				p.Y < origin.Y || p.Y > origin.Y+coords.SubsectorSize ||
				p.Z < origin.Z || p.Z > origin.Z+coords.SubsectorSize {
				t.Fatalf("star %v outside cell with origin %v", p, origin)
			}
			if star.Quadrant != q || star.Sector != s {
				t.Fatalf("star stamped with wrong hierarchy: %+v", star)
			}
			if !star.Subsector.InRange() {
				t.Fatalf("subsector coords out of range: %+v", star.Subsector)
			}
		}
	}
}

// At reference density the mean star count per subsector must converge
// to the solar-neighborhood expectation of 4.0.
func TestPoissonExpectationAtReferenceDensity(t *testing.T) {
	ctx := flatContext(99, 2.5)

	total := 0
	cells := 0
	for sx := 0; sx < 4; sx++ {
		for x := 0; x < 10; x++ {
			for y := 0; y < 10; y++ {
				for z := 0; z < 10; z++ {
					stars := GenerateSubsector(ctx,
						coords.Quadrant{X: int64(sx)},
						coords.Local{X: sx, Y: sx, Z: sx},
						coords.Local{X: x, Y: y, Z: z})
					total += len(stars)
					cells++
				}
			}
		}
	}

	mean := float64(total) / float64(cells)
	if math.Abs(mean-solarNeighborhoodExpectation) > 0.15 {
		t.Errorf("mean star count = %v over %d cells, want %v +/- 0.15",
			mean, cells, solarNeighborhoodExpectation)
	}
}

// A non-positive reference density is a valid degenerate state: no
// stars anywhere, no error.
func TestDegenerateReferenceDensity(t *testing.T) {
	for _, ref := range []float64{0, -1} {
		ctx := flatContext(1, 1.0)
		ctx.ReferenceDensity = ref

		stars := GenerateSubsector(ctx, coords.Quadrant{}, coords.Local{}, coords.Local{})
		if len(stars) != 0 {
			t.Errorf("reference density %v produced %d stars, want 0", ref, len(stars))
		}
	}
}

// The density ratio is capped at 10x reference, so the Poisson mean
// never exceeds 40 and cell star counts stay bounded.
func TestDensityRatioCap(t *testing.T) {
	ctx := flatContext(5, 1.0)
	ctx.Model = flatModel{value: 1e9} // absurd local density

	worst := 0
	for x := 0; x < 10; x++ {
		stars := GenerateSubsector(ctx, coords.Quadrant{}, coords.Local{}, coords.Local{X: x})
		if len(stars) > worst {
			worst = len(stars)
		}
	}

	// Poisson(40) essentially never exceeds 100.
	if worst > 120 {
		t.Errorf("cell produced %d stars; ratio cap appears broken", worst)
	}
	if worst == 0 {
		t.Error("capped ratio should still produce stars")
	}
}

func TestPoissonZeroLambda(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	if n := poisson(rng, 0); n != 0 {
		t.Errorf("poisson(0) = %d, want 0", n)
	}
	if n := poisson(rng, -3); n != 0 {
		t.Errorf("poisson(-3) = %d, want 0", n)
	}
}

func TestSeedChainLevels(t *testing.T) {
	qs := QuadrantSeed(42, coords.Quadrant{X: 1, Y: 2, Z: 3})
	ss := SectorSeed(qs, coords.Local{X: 4, Y: 5, Z: 6})
	subs := SubsectorSeed(ss, coords.Local{X: 7, Y: 8, Z: 9})

	if qs == ss || ss == subs || qs == subs {
		t.Error("chain levels should produce distinct seeds")
	}

	// Changing the galaxy seed must ripple down the whole chain.
	qs2 := QuadrantSeed(43, coords.Quadrant{X: 1, Y: 2, Z: 3})
	if qs == qs2 {
		t.Error("quadrant seed insensitive to galaxy seed")
	}
}

func TestStarAttributesRanges(t *testing.T) {
	spec := morphology.MilkyWay(1)
	rng := rand.New(rand.NewPCG(2, 0))

	for i := 0; i < 1000; i++ {
		pos := coords.Vec3{
			X: (rng.Float64() - 0.5) * 2 * spec.DiskRadius,
			Y: (rng.Float64() - 0.5) * 2 * spec.HalfHeight,
			Z: (rng.Float64() - 0.5) * 2 * spec.DiskRadius,
		}
		metallicity, ageBias := starAttributes(uint32(i), pos, spec)
		if metallicity < 0 || math.IsNaN(metallicity) {
			t.Fatalf("metallicity = %v at %v", metallicity, pos)
		}
		if ageBias < 0 || ageBias > 1 {
			t.Fatalf("age bias = %v at %v", ageBias, pos)
		}
	}
}
