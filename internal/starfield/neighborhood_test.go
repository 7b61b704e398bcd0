package starfield

import (
	"testing"

	"galaxy-server/internal/coords"
	"galaxy-server/internal/morphology"
)

func TestNeighborhoodShape(t *testing.T) {
	g := New(morphology.MilkyWay(42))

	p := coords.Vec3{X: 8005, Y: 5, Z: 5}
	n := g.Neighborhood(p)

	if want := coords.ParsecToHierarchy(p); n.Center != want {
		t.Fatalf("center = %+v, want %+v", n.Center, want)
	}

	side := 2*NeighborhoodRadius + 1
	if len(n.Cells) != side*side*side {
		t.Fatalf("neighborhood has %d cells, want %d", len(n.Cells), side*side*side)
	}

	shellCounts := make(map[int]int)
	for _, cell := range n.Cells {
		if cell.Shell < 0 || cell.Shell > NeighborhoodRadius {
			t.Fatalf("shell %d out of range", cell.Shell)
		}
		shellCounts[cell.Shell]++
		if !cell.Sector.InRange() || !cell.Subsector.InRange() {
			t.Fatalf("cell coordinates out of range: %+v", cell)
		}
	}

	// Chebyshev shells of a cube: shell k holds (2k+1)^3 - (2k-1)^3 cells.
	want := map[int]int{0: 1, 1: 26, 2: 98, 3: 218}
	for shell, count := range want {
		if shellCounts[shell] != count {
			t.Errorf("shell %d has %d cells, want %d", shell, shellCounts[shell], count)
		}
	}
}

// The window must cross quadrant and sector boundaries without gaps:
// centering near an origin pulls in negative-quadrant cells.
func TestNeighborhoodAcrossBoundaries(t *testing.T) {
	g := New(morphology.MilkyWay(42))

	n := g.Neighborhood(coords.Vec3{X: 1, Y: 1, Z: 1})

	seen := make(map[coords.Quadrant]bool)
	for _, cell := range n.Cells {
		seen[cell.Quadrant] = true
	}
	if !seen[coords.Quadrant{X: -1, Y: -1, Z: -1}] {
		t.Error("window at the origin should include the (-1,-1,-1) quadrant")
	}
	if !seen[coords.Quadrant{X: 0, Y: 0, Z: 0}] {
		t.Error("window at the origin should include the (0,0,0) quadrant")
	}

	// No cell may repeat.
	type cellKey struct {
		Q      coords.Quadrant
		S, Sub coords.Local
	}
	unique := make(map[cellKey]bool)
	for _, cell := range n.Cells {
		k := cellKey{Q: cell.Quadrant, S: cell.Sector, Sub: cell.Subsector}
		if unique[k] {
			t.Fatalf("duplicate cell in window: %+v", k)
		}
		unique[k] = true
	}
}

func TestNeighborhoodStarsMatchDirectQuery(t *testing.T) {
	g := New(morphology.MilkyWay(9))

	n := g.Neighborhood(coords.Vec3{X: 8050, Y: 0, Z: 0})

	total := 0
	for _, cell := range n.Cells {
		direct := g.StarsInSubsector(cell.Quadrant, cell.Sector, cell.Subsector)
		if len(direct) != len(cell.Stars) {
			t.Fatalf("cell %v/%v/%v holds %d stars, direct query returns %d",
				cell.Quadrant, cell.Sector, cell.Subsector, len(cell.Stars), len(direct))
		}
		total += len(cell.Stars)
	}

	if n.StarCount() != total {
		t.Errorf("StarCount() = %d, summed %d", n.StarCount(), total)
	}
	if total == 0 {
		t.Error("a solar-neighborhood window should contain stars")
	}
}

func TestGlobalSubsectorIndexRoundTrip(t *testing.T) {
	cases := []struct {
		q      int64
		s, sub int
	}{
		{0, 0, 0},
		{0, 9, 9},
		{3, 5, 7},
		{-1, 0, 0},
		{-1, 9, 9},
		{-4, 2, 8},
	}
	for _, c := range cases {
		g := globalSubsectorIndex(c.q, c.s, c.sub)
		q, s, sub := splitSubsectorAxis(g)
		if q != c.q || s != c.s || sub != c.sub {
			t.Errorf("round trip of (%d,%d,%d) via %d gave (%d,%d,%d)",
				c.q, c.s, c.sub, g, q, s, sub)
		}
	}
}
