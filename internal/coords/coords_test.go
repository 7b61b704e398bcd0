package coords

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestParsecToQuadrant(t *testing.T) {
	tests := []struct {
		name string
		pos  Vec3
		want Quadrant
	}{
		{"origin", Vec3{0, 0, 0}, Quadrant{0, 0, 0}},
		{"inside first", Vec3{999.9, 500, 0.1}, Quadrant{0, 0, 0}},
		{"on boundary", Vec3{1000, 0, 0}, Quadrant{1, 0, 0}},
		{"negative", Vec3{-0.5, -1000, -1000.5}, Quadrant{-1, -1, -2}},
		{"far out", Vec3{123456, -987654, 42}, Quadrant{123, -988, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParsecToQuadrant(tt.pos); got != tt.want {
				t.Errorf("ParsecToQuadrant(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

// TestHierarchyRoundTrip checks that reconstructing the subsector origin
// from the hierarchy places the original point inside that subsector's
// 10x10x10 pc cell (boundary-inclusive per the clamping rule).
func TestHierarchyRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 5000; i++ {
		p := Vec3{
			X: (rng.Float64() - 0.5) * 40000,
			Y: (rng.Float64() - 0.5) * 2000,
			Z: (rng.Float64() - 0.5) * 40000,
		}

		h := ParsecToHierarchy(p)
		if !h.Sector.InRange() || !h.Subsector.InRange() {
			t.Fatalf("local coords out of range for %v: %+v", p, h)
		}

		o := SubsectorOrigin(h.Quadrant, h.Sector, h.Subsector)
		for axis, pair := range [][2]float64{{p.X, o.X}, {p.Y, o.Y}, {p.Z, o.Z}} {
			v, lo := pair[0], pair[1]
			if v < lo-1e-9 || v > lo+SubsectorSize+1e-9 {
				t.Fatalf("axis %d: %v not within [%v, %v] for point %v", axis, v, lo, lo+SubsectorSize, p)
			}
		}
	}
}

// Boundary points must clamp into the last cell, not spill over.
func TestHierarchyClampsFarBoundary(t *testing.T) {
	// 999.9999999 floors into quadrant 0; the sector offset may round to
	// exactly 1000/100 = 10, which must clamp to 9.
	p := Vec3{math.Nextafter(1000, 0), 0, 0}
	h := ParsecToHierarchy(p)
	if h.Quadrant.X != 0 {
		t.Fatalf("quadrant = %d, want 0", h.Quadrant.X)
	}
	if h.Sector.X != 9 || h.Subsector.X != 9 {
		t.Errorf("boundary point should clamp to last cells, got sector %d subsector %d", h.Sector.X, h.Subsector.X)
	}
}

func TestSectorAndSubsectorCenters(t *testing.T) {
	q := Quadrant{1, -2, 0}
	s := Local{3, 4, 5}
	sub := Local{9, 0, 1}

	sc := SectorCenter(q, s)
	want := Vec3{1000 + 350, -2000 + 450, 0 + 550}
	if sc != want {
		t.Errorf("SectorCenter = %v, want %v", sc, want)
	}

	subC := SubsectorCenter(q, s, sub)
	wantSub := Vec3{1000 + 300 + 95, -2000 + 400 + 5, 500 + 15}
	if subC != wantSub {
		t.Errorf("SubsectorCenter = %v, want %v", subC, wantSub)
	}
}

func TestVec3Dist(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 6, 3}
	if d := a.Dist(b); math.Abs(d-5) > 1e-12 {
		t.Errorf("Dist = %v, want 5", d)
	}
}
