package starfield

import (
	"math"
	"sync"

	"galaxy-server/internal/coords"
	"galaxy-server/internal/morphology"
)

// solarNeighborhoodRadius is where the reference density is sampled:
// the solar-neighborhood-equivalent point on the X axis, in parsecs.
const solarNeighborhoodRadius = 8000.0

// Galaxy is the top-level aggregate: the spec, the density model built
// from it, the reference density, and the lazy sector cache. Seed plus
// spec fully determine every sector's contents; the caches only
// memoize, they never alter results. Safe for concurrent use.
type Galaxy struct {
	spec             morphology.Spec
	model            morphology.Model
	referenceDensity float64

	mu      sync.RWMutex
	sectors map[SectorKey]*Sector

	systemsMu sync.RWMutex
	systems   map[int64]any
}

// New builds a Galaxy from its spec. The density model and reference
// density are computed once here and stay immutable for the galaxy's
// lifetime.
func New(spec morphology.Spec) *Galaxy {
	model := morphology.NewModel(spec)
	return &Galaxy{
		spec:             spec,
		model:            model,
		referenceDensity: model.Density(coords.Vec3{X: solarNeighborhoodRadius}),
		sectors:          make(map[SectorKey]*Sector),
		systems:          make(map[int64]any),
	}
}

// Spec returns the galaxy's immutable morphology spec.
func (g *Galaxy) Spec() morphology.Spec { return g.spec }

// Model returns the galaxy's density model.
func (g *Galaxy) Model() morphology.Model { return g.model }

// ReferenceDensity returns the density at the solar-neighborhood-
// equivalent radius, the normalizer for expected star counts.
func (g *Galaxy) ReferenceDensity() float64 { return g.referenceDensity }

// context assembles the read-only generation context handed to sectors.
func (g *Galaxy) context() *Context {
	return &Context{
		Spec:             g.spec,
		Model:            g.model,
		ReferenceDensity: g.referenceDensity,
	}
}

// Sector returns the sector at the given coordinates, creating (but not
// yet generating) it on first access.
func (g *Galaxy) Sector(q coords.Quadrant, local coords.Local) *Sector {
	key := SectorKey{Quadrant: q, Local: local}

	g.mu.RLock()
	sector, ok := g.sectors[key]
	g.mu.RUnlock()
	if ok {
		return sector
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if sector, ok = g.sectors[key]; ok {
		return sector
	}
	sector = NewSector(q, local)
	g.sectors[key] = sector
	return sector
}

// SectorAt returns the sector containing the world position p.
func (g *Galaxy) SectorAt(p coords.Vec3) *Sector {
	h := coords.ParsecToHierarchy(p)
	return g.Sector(h.Quadrant, h.Sector)
}

// StarsInSector returns all stars of one sector, generating it lazily.
func (g *Galaxy) StarsInSector(q coords.Quadrant, local coords.Local) []*Star {
	return g.Sector(q, local).Stars(g.context())
}

// StarsInSubsector returns the stars of one subsector cell.
func (g *Galaxy) StarsInSubsector(q coords.Quadrant, s, sub coords.Local) []*Star {
	return g.Sector(q, s).SubsectorStars(g.context(), sub)
}

// StarsInRadius returns every star within radius of center. It first
// bounds the search to the sectors overlapping the cube
// [center-r, center+r] and only then filters by exact Euclidean
// distance, so unrelated sectors are never touched.
func (g *Galaxy) StarsInRadius(center coords.Vec3, radius float64) []*Star {
	if radius < 0 {
		return nil
	}

	minX := globalSectorIndex(center.X - radius)
	maxX := globalSectorIndex(center.X + radius)
	minY := globalSectorIndex(center.Y - radius)
	maxY := globalSectorIndex(center.Y + radius)
	minZ := globalSectorIndex(center.Z - radius)
	maxZ := globalSectorIndex(center.Z + radius)

	ctx := g.context()
	var result []*Star

	for gx := minX; gx <= maxX; gx++ {
		for gy := minY; gy <= maxY; gy++ {
			for gz := minZ; gz <= maxZ; gz++ {
				q, local := splitSectorIndex(gx, gy, gz)
				for _, star := range g.Sector(q, local).Stars(ctx) {
					if star.Position.Dist(center) <= radius {
						result = append(result, star)
					}
				}
			}
		}
	}

	return result
}

// CacheSystem memoizes a generated solar system under its star seed.
// Pass-through for the downstream system-generation pipeline.
func (g *Galaxy) CacheSystem(starSeed int64, system any) {
	g.systemsMu.Lock()
	g.systems[starSeed] = system
	g.systemsMu.Unlock()
}

// CachedSystem returns the memoized solar system for a star seed.
func (g *Galaxy) CachedSystem(starSeed int64) (any, bool) {
	g.systemsMu.RLock()
	defer g.systemsMu.RUnlock()
	system, ok := g.systems[starSeed]
	return system, ok
}

// ClearCache drops all sector and system memoization. The galaxy itself
// (spec, model, reference density) is unaffected; regenerated sectors
// will be identical.
func (g *Galaxy) ClearCache() {
	g.mu.Lock()
	g.sectors = make(map[SectorKey]*Sector)
	g.mu.Unlock()

	g.systemsMu.Lock()
	g.systems = make(map[int64]any)
	g.systemsMu.Unlock()
}

// GeneratedSectorCount reports how many sectors have actually been
// generated, for stats endpoints.
func (g *Galaxy) GeneratedSectorCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	count := 0
	for _, sector := range g.sectors {
		if sector.IsGenerated() {
			count++
		}
	}
	return count
}

// globalSectorIndex maps a world coordinate to its global sector index
// on one axis.
func globalSectorIndex(v float64) int64 {
	return int64(math.Floor(v / coords.SectorSize))
}

// splitSectorIndex decomposes global sector indices into quadrant plus
// sector-local coordinates.
func splitSectorIndex(gx, gy, gz int64) (coords.Quadrant, coords.Local) {
	qx, lx := splitAxis(gx)
	qy, ly := splitAxis(gy)
	qz, lz := splitAxis(gz)
	return coords.Quadrant{X: qx, Y: qy, Z: qz}, coords.Local{X: lx, Y: ly, Z: lz}
}

func splitAxis(g int64) (int64, int) {
	q := floorDiv(g, coords.CellsPerAxis)
	return q, int(g - q*coords.CellsPerAxis)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
