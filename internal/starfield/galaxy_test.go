package starfield

import (
	"fmt"
	"testing"

	"galaxy-server/internal/coords"
	"galaxy-server/internal/morphology"
)

func TestGalaxyDeterminism(t *testing.T) {
	spec := morphology.MilkyWay(42)
	a := New(spec)
	b := New(spec)

	if a.ReferenceDensity() != b.ReferenceDensity() {
		t.Fatalf("reference densities differ: %v vs %v",
			a.ReferenceDensity(), b.ReferenceDensity())
	}

	// Sector at the solar-neighborhood radius on the X axis.
	q := coords.Quadrant{X: 8}
	local := coords.Local{X: 0, Y: 0, Z: 0}

	starsA := a.StarsInSector(q, local)
	starsB := b.StarsInSector(q, local)

	if len(starsA) != len(starsB) {
		t.Fatalf("star counts differ: %d vs %d", len(starsA), len(starsB))
	}
	for i := range starsA {
		if *starsA[i] != *starsB[i] {
			t.Fatalf("star %d differs:\n%+v\n%+v", i, *starsA[i], *starsB[i])
		}
	}
}

func TestGalaxyCentralSectorScenario(t *testing.T) {
	g := New(morphology.MilkyWay(42))

	q := coords.Quadrant{X: 0, Y: 0, Z: 0}
	local := coords.Local{X: 5, Y: 5, Z: 5}

	stars := g.StarsInSector(q, local)
	if len(stars) == 0 {
		t.Fatal("central sector of a milky-way galaxy should not be empty")
	}

	// Every star sits inside the sector and carries in-range subsector
	// coordinates.
	origin := coords.SectorOrigin(q, local)
	for _, star := range stars {
		p := star.Position
		if p.X < origin.X || p.X > origin.X+coords.SectorSize ||
			p.Y < origin.Y || p.Y > origin.Y+coords.SectorSize ||
			p.Z < origin.Z || p.Z > origin.Z+coords.SectorSize {
			t.Fatalf("star %v outside sector with origin %v", p, origin)
		}
		if !star.Subsector.InRange() {
			t.Fatalf("subsector coords out of range: %+v", star.Subsector)
		}
	}

	// Repeated reads hit the memoized result.
	again := g.StarsInSector(q, local)
	if len(again) != len(stars) {
		t.Fatalf("memoized read returned %d stars, first read %d", len(again), len(stars))
	}
}

func TestSubsectorBucketsPartitionSector(t *testing.T) {
	g := New(morphology.MilkyWay(7))

	q := coords.Quadrant{X: 8}
	local := coords.Local{X: 1, Y: 0, Z: 1}
	total := len(g.StarsInSector(q, local))

	bucketed := 0
	for x := 0; x < coords.CellsPerAxis; x++ {
		for y := 0; y < coords.CellsPerAxis; y++ {
			for z := 0; z < coords.CellsPerAxis; z++ {
				bucketed += len(g.StarsInSubsector(q, local, coords.Local{X: x, Y: y, Z: z}))
			}
		}
	}

	if bucketed != total {
		t.Errorf("subsector buckets hold %d stars, sector holds %d", bucketed, total)
	}
}

// StarsInRadius must agree with a brute-force scan over a deliberately
// oversized sector window.
func TestStarsInRadiusMatchesBruteForce(t *testing.T) {
	g := New(morphology.MilkyWay(11))

	center := coords.Vec3{X: 8000, Y: 0, Z: 0}
	radius := 150.0

	got := g.StarsInRadius(center, radius)

	key := func(s *Star) string {
		return fmt.Sprintf("%d/%v/%v/%v", s.Seed, s.Position.X, s.Position.Y, s.Position.Z)
	}
	gotSet := make(map[string]bool, len(got))
	for _, s := range got {
		if s.Position.Dist(center) > radius {
			t.Fatalf("star at %v is %v away, outside radius %v",
				s.Position, s.Position.Dist(center), radius)
		}
		gotSet[key(s)] = true
	}
	if len(gotSet) != len(got) {
		t.Fatalf("radius query returned duplicates: %d stars, %d unique", len(got), len(gotSet))
	}

	// Brute force over a window two sectors wider in every direction.
	margin := 2.0 * coords.SectorSize
	minX := globalSectorIndex(center.X - radius - margin)
	maxX := globalSectorIndex(center.X + radius + margin)
	minY := globalSectorIndex(center.Y - radius - margin)
	maxY := globalSectorIndex(center.Y + radius + margin)
	minZ := globalSectorIndex(center.Z - radius - margin)
	maxZ := globalSectorIndex(center.Z + radius + margin)

	want := 0
	for gx := minX; gx <= maxX; gx++ {
		for gy := minY; gy <= maxY; gy++ {
			for gz := minZ; gz <= maxZ; gz++ {
				q, local := splitSectorIndex(gx, gy, gz)
				for _, s := range g.StarsInSector(q, local) {
					if s.Position.Dist(center) <= radius {
						want++
						if !gotSet[key(s)] {
							t.Fatalf("brute force found star %v missed by radius query", s.Position)
						}
					}
				}
			}
		}
	}

	if want != len(got) {
		t.Errorf("radius query returned %d stars, brute force found %d", len(got), want)
	}
}

func TestStarsInRadiusNegative(t *testing.T) {
	g := New(morphology.MilkyWay(1))
	if stars := g.StarsInRadius(coords.Vec3{}, -1); stars != nil {
		t.Errorf("negative radius returned %d stars", len(stars))
	}
}

// Clearing caches must not change what regeneration produces.
func TestClearCacheReproducibility(t *testing.T) {
	g := New(morphology.MilkyWay(13))

	q := coords.Quadrant{X: 8}
	local := coords.Local{X: 0, Y: 1, Z: 0}

	before := g.StarsInSector(q, local)
	if g.GeneratedSectorCount() != 1 {
		t.Fatalf("generated sector count = %d, want 1", g.GeneratedSectorCount())
	}

	g.ClearCache()
	if g.GeneratedSectorCount() != 0 {
		t.Fatalf("generated sector count after clear = %d, want 0", g.GeneratedSectorCount())
	}

	after := g.StarsInSector(q, local)
	if len(before) != len(after) {
		t.Fatalf("star counts differ after cache clear: %d vs %d", len(before), len(after))
	}
	for i := range before {
		if *before[i] != *after[i] {
			t.Fatalf("star %d differs after cache clear", i)
		}
	}
}

func TestSectorRegenerateIdentical(t *testing.T) {
	g := New(morphology.MilkyWay(3))

	sector := g.Sector(coords.Quadrant{X: 8}, coords.Local{X: 2, Y: 0, Z: 2})
	before := sector.Stars(g.context())

	sector.Regenerate(g.context())
	after := sector.Stars(g.context())

	if len(before) != len(after) {
		t.Fatalf("star counts differ after regenerate: %d vs %d", len(before), len(after))
	}
	for i := range before {
		if *before[i] != *after[i] {
			t.Fatalf("star %d differs after regenerate", i)
		}
	}
}

func TestSystemCache(t *testing.T) {
	g := New(morphology.MilkyWay(1))

	if _, ok := g.CachedSystem(77); ok {
		t.Fatal("empty cache reported a hit")
	}

	type system struct{ Name string }
	g.CacheSystem(77, &system{Name: "sol"})

	cached, ok := g.CachedSystem(77)
	if !ok {
		t.Fatal("cached system not found")
	}
	if cached.(*system).Name != "sol" {
		t.Fatalf("wrong system returned: %+v", cached)
	}

	g.ClearCache()
	if _, ok := g.CachedSystem(77); ok {
		t.Fatal("system cache survived ClearCache")
	}
}

func TestSectorAt(t *testing.T) {
	g := New(morphology.MilkyWay(1))

	p := coords.Vec3{X: 8520, Y: -30, Z: 110}
	sector := g.SectorAt(p)

	h := coords.ParsecToHierarchy(p)
	if sector.Quadrant != h.Quadrant || sector.Local != h.Sector {
		t.Errorf("SectorAt(%v) = %v/%v, want %v/%v",
			p, sector.Quadrant, sector.Local, h.Quadrant, h.Sector)
	}

	// Same coordinates must return the same memoized sector.
	if g.SectorAt(p) != sector {
		t.Error("SectorAt returned a different sector for the same point")
	}
}

func TestConcurrentSectorAccess(t *testing.T) {
	g := New(morphology.MilkyWay(21))

	q := coords.Quadrant{X: 8}
	local := coords.Local{X: 3, Y: 0, Z: 3}

	const workers = 8
	results := make(chan int, workers)
	for i := 0; i < workers; i++ {
		go func() {
			results <- len(g.StarsInSector(q, local))
		}()
	}

	first := <-results
	for i := 1; i < workers; i++ {
		if n := <-results; n != first {
			t.Fatalf("concurrent readers saw different star counts: %d vs %d", first, n)
		}
	}
	if g.GeneratedSectorCount() != 1 {
		t.Errorf("generated sector count = %d, want 1", g.GeneratedSectorCount())
	}
}

func TestFloorDiv(t *testing.T) {
	cases := []struct {
		a, b, want int64
	}{
		{0, 10, 0},
		{9, 10, 0},
		{10, 10, 1},
		{-1, 10, -1},
		{-10, 10, -1},
		{-11, 10, -2},
	}
	for _, c := range cases {
		if got := floorDiv(c.a, c.b); got != c.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
