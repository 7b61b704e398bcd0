package starfield

import "galaxy-server/internal/coords"

// NeighborhoodRadius is the Chebyshev radius of the subsector window
// assembled around a point: shells 0..3 give a 7x7x7 block.
const NeighborhoodRadius = 3

// NeighborhoodCell is one subsector of the window, tagged with its
// Chebyshev shell distance from the center cell so consumers can fade
// outer rings.
type NeighborhoodCell struct {
	Quadrant  coords.Quadrant `json:"quadrant"`
	Sector    coords.Local    `json:"sector"`
	Subsector coords.Local    `json:"subsector"`
	Shell     int             `json:"shell"`
	Stars     []*Star         `json:"stars"`
}

// Neighborhood is the fixed 7x7x7 subsector window around a point.
type Neighborhood struct {
	Center coords.Hierarchy   `json:"center"`
	Cells  []NeighborhoodCell `json:"cells"`
}

// StarCount returns the total stars across all cells.
func (n *Neighborhood) StarCount() int {
	total := 0
	for _, cell := range n.Cells {
		total += len(cell.Stars)
	}
	return total
}

// Neighborhood assembles the subsector window centered on the cell
// containing p. Sectors touched by the window are generated lazily and
// memoized as usual.
func (g *Galaxy) Neighborhood(p coords.Vec3) *Neighborhood {
	center := coords.ParsecToHierarchy(p)

	// Global subsector index of the center cell, per axis.
	cx := globalSubsectorIndex(center.Quadrant.X, center.Sector.X, center.Subsector.X)
	cy := globalSubsectorIndex(center.Quadrant.Y, center.Sector.Y, center.Subsector.Y)
	cz := globalSubsectorIndex(center.Quadrant.Z, center.Sector.Z, center.Subsector.Z)

	side := 2*NeighborhoodRadius + 1
	cells := make([]NeighborhoodCell, 0, side*side*side)

	for dx := -NeighborhoodRadius; dx <= NeighborhoodRadius; dx++ {
		for dy := -NeighborhoodRadius; dy <= NeighborhoodRadius; dy++ {
			for dz := -NeighborhoodRadius; dz <= NeighborhoodRadius; dz++ {
				q, s, sub := splitSubsectorIndex(cx+int64(dx), cy+int64(dy), cz+int64(dz))

				cells = append(cells, NeighborhoodCell{
					Quadrant:  q,
					Sector:    s,
					Subsector: sub,
					Shell:     chebyshev(dx, dy, dz),
					Stars:     g.StarsInSubsector(q, s, sub),
				})
			}
		}
	}

	return &Neighborhood{Center: center, Cells: cells}
}

// globalSubsectorIndex flattens quadrant/sector/subsector coordinates
// into a single global cell index on one axis (100 subsectors per
// quadrant axis).
func globalSubsectorIndex(q int64, s, sub int) int64 {
	return q*100 + int64(s)*10 + int64(sub)
}

// splitSubsectorIndex is the inverse of globalSubsectorIndex across all
// three axes.
func splitSubsectorIndex(gx, gy, gz int64) (coords.Quadrant, coords.Local, coords.Local) {
	qx, sx, subx := splitSubsectorAxis(gx)
	qy, sy, suby := splitSubsectorAxis(gy)
	qz, sz, subz := splitSubsectorAxis(gz)
	return coords.Quadrant{X: qx, Y: qy, Z: qz},
		coords.Local{X: sx, Y: sy, Z: sz},
		coords.Local{X: subx, Y: suby, Z: subz}
}

func splitSubsectorAxis(g int64) (quadrant int64, sector, subsector int) {
	q := floorDiv(g, 100)
	rem := int(g - q*100)
	return q, rem / 10, rem % 10
}

func chebyshev(dx, dy, dz int) int {
	m := dx
	if m < 0 {
		m = -m
	}
	if a := abs(dy); a > m {
		m = a
	}
	if a := abs(dz); a > m {
		m = a
	}
	return m
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
