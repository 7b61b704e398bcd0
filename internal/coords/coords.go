// Package coords maps continuous parsec-space positions onto the fixed
// quadrant/sector/subsector grid and back. XZ is the galactic plane,
// Y is height. Every function here is total: out-of-range floating
// input is clamped, never rejected.
package coords

import "math"

// Grid cell edge lengths in parsecs. A sector holds exactly 10^3
// subsectors, a quadrant exactly 10^3 sectors.
const (
	QuadrantSize  = 1000.0
	SectorSize    = 100.0
	SubsectorSize = 10.0

	// CellsPerAxis is the sector count per quadrant axis and the
	// subsector count per sector axis.
	CellsPerAxis = 10

	// BulgeSigmaCoverage is how many standard deviations of the bulge
	// the generation grid must cover.
	BulgeSigmaCoverage = 3.0
)

// Vec3 is a position or offset in parsec-space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + w.
func (v Vec3) Add(w Vec3) Vec3 {
	return Vec3{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vec3) Sub(w Vec3) Vec3 {
	return Vec3{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Dist returns the Euclidean distance between v and w.
func (v Vec3) Dist(w Vec3) float64 {
	dx, dy, dz := v.X-w.X, v.Y-w.Y, v.Z-w.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Quadrant identifies one 1000 pc cell by its unbounded signed grid
// coordinates.
type Quadrant struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
	Z int64 `json:"z"`
}

// Local is a sector-in-quadrant or subsector-in-sector index triple,
// each axis in [0,9].
type Local struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// InRange reports whether every axis lies in [0,9].
func (l Local) InRange() bool {
	return l.X >= 0 && l.X < CellsPerAxis &&
		l.Y >= 0 && l.Y < CellsPerAxis &&
		l.Z >= 0 && l.Z < CellsPerAxis
}

// Hierarchy locates a point at all three grid levels.
type Hierarchy struct {
	Quadrant  Quadrant `json:"quadrant"`
	Sector    Local    `json:"sector"`
	Subsector Local    `json:"subsector"`
}

// ParsecToQuadrant returns the quadrant containing p (per-axis floor
// division by the quadrant edge).
func ParsecToQuadrant(p Vec3) Quadrant {
	return Quadrant{
		X: int64(math.Floor(p.X / QuadrantSize)),
		Y: int64(math.Floor(p.Y / QuadrantSize)),
		Z: int64(math.Floor(p.Z / QuadrantSize)),
	}
}

// ParsecToHierarchy resolves p down to its subsector. Points exactly on
// a cell's far boundary clamp into the last cell of the parent rather
// than spilling into the next one; this keeps the function total under
// floating-point edge cases.
func ParsecToHierarchy(p Vec3) Hierarchy {
	q := ParsecToQuadrant(p)
	origin := QuadrantOrigin(q)

	sector := Local{
		X: cellIndex(p.X-origin.X, SectorSize),
		Y: cellIndex(p.Y-origin.Y, SectorSize),
		Z: cellIndex(p.Z-origin.Z, SectorSize),
	}

	sectorOrigin := SectorOrigin(q, sector)
	subsector := Local{
		X: cellIndex(p.X-sectorOrigin.X, SubsectorSize),
		Y: cellIndex(p.Y-sectorOrigin.Y, SubsectorSize),
		Z: cellIndex(p.Z-sectorOrigin.Z, SubsectorSize),
	}

	return Hierarchy{Quadrant: q, Sector: sector, Subsector: subsector}
}

// cellIndex converts a local offset into a child cell index clamped to
// [0,9].
func cellIndex(offset, cellSize float64) int {
	i := int(math.Floor(offset / cellSize))
	if i < 0 {
		return 0
	}
	if i >= CellsPerAxis {
		return CellsPerAxis - 1
	}
	return i
}

// QuadrantOrigin returns the world-space minimum corner of q.
func QuadrantOrigin(q Quadrant) Vec3 {
	return Vec3{
		X: float64(q.X) * QuadrantSize,
		Y: float64(q.Y) * QuadrantSize,
		Z: float64(q.Z) * QuadrantSize,
	}
}

// SectorOrigin returns the world-space minimum corner of the sector at
// local coordinates s within quadrant q.
func SectorOrigin(q Quadrant, s Local) Vec3 {
	o := QuadrantOrigin(q)
	return Vec3{
		X: o.X + float64(s.X)*SectorSize,
		Y: o.Y + float64(s.Y)*SectorSize,
		Z: o.Z + float64(s.Z)*SectorSize,
	}
}

// SectorCenter returns the world-space center of the sector at s within q.
func SectorCenter(q Quadrant, s Local) Vec3 {
	o := SectorOrigin(q, s)
	return Vec3{o.X + SectorSize/2, o.Y + SectorSize/2, o.Z + SectorSize/2}
}

// SubsectorOrigin returns the world-space minimum corner of the
// subsector at local coordinates sub within the sector at s within q.
func SubsectorOrigin(q Quadrant, s, sub Local) Vec3 {
	o := SectorOrigin(q, s)
	return Vec3{
		X: o.X + float64(sub.X)*SubsectorSize,
		Y: o.Y + float64(sub.Y)*SubsectorSize,
		Z: o.Z + float64(sub.Z)*SubsectorSize,
	}
}

// SubsectorCenter returns the world-space center of a subsector cell.
func SubsectorCenter(q Quadrant, s, sub Local) Vec3 {
	o := SubsectorOrigin(q, s, sub)
	return Vec3{o.X + SubsectorSize/2, o.Y + SubsectorSize/2, o.Z + SubsectorSize/2}
}
