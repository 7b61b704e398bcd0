package starfield

import (
	"sync"
	"time"

	"galaxy-server/internal/coords"
	"galaxy-server/internal/shared/metrics"
)

// SectorKey identifies a sector by its quadrant and sector-local
// coordinates. A struct key avoids both the cost and the collision
// hazards of string-concatenated keys.
type SectorKey struct {
	Quadrant coords.Quadrant
	Local    coords.Local
}

// Sector lazily generates and memoizes the stars of one 100 pc cell
// (1000 subsectors). Once generated, its star set never changes except
// via an explicit Regenerate. Safe for concurrent use: generation runs
// at most once, builds into local structures, and is published under
// the lock, so readers never observe a partially filled bucket.
type Sector struct {
	Quadrant coords.Quadrant
	Local    coords.Local

	mu          sync.RWMutex
	generated   bool
	stars       []*Star
	bySubsector map[coords.Local][]*Star
}

// NewSector creates an ungenerated sector shell.
func NewSector(q coords.Quadrant, local coords.Local) *Sector {
	return &Sector{Quadrant: q, Local: local}
}

// IsGenerated reports whether the sector's stars have been generated.
func (s *Sector) IsGenerated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generated
}

// Stars returns all stars in the sector, generating them on first call.
// The returned slice is shared and must not be mutated.
func (s *Sector) Stars(ctx *Context) []*Star {
	s.ensure(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stars
}

// SubsectorStars returns the stars of one subsector cell within the
// sector, generating the whole sector on first call.
func (s *Sector) SubsectorStars(ctx *Context, sub coords.Local) []*Star {
	s.ensure(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bySubsector[sub]
}

// StarCount returns the number of stars in the sector, generating on
// first call.
func (s *Sector) StarCount(ctx *Context) int {
	return len(s.Stars(ctx))
}

// Regenerate discards the memoized stars and regenerates them. With an
// unchanged context the result is identical; this exists so a caller
// can rebuild after deliberately swapping generation parameters.
func (s *Sector) Regenerate(ctx *Context) {
	s.mu.Lock()
	s.generated = false
	s.stars = nil
	s.bySubsector = nil
	s.mu.Unlock()

	s.ensure(ctx)
}

// ensure generates the sector exactly once. Two goroutines racing on an
// uninitialized sector serialize here; the loser finds generated=true
// and returns without redoing the 1000-cell sweep.
func (s *Sector) ensure(ctx *Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generated {
		metrics.SectorCache.WithLabelValues("hit").Inc()
		return
	}
	metrics.SectorCache.WithLabelValues("miss").Inc()

	start := time.Now()

	var stars []*Star
	bySubsector := make(map[coords.Local][]*Star)

	for x := 0; x < coords.CellsPerAxis; x++ {
		for y := 0; y < coords.CellsPerAxis; y++ {
			for z := 0; z < coords.CellsPerAxis; z++ {
				sub := coords.Local{X: x, Y: y, Z: z}
				for _, star := range GenerateSubsector(ctx, s.Quadrant, s.Local, sub) {
					// Bucket by the coordinates recomputed from the
					// star's world position (already clamped to [0,9]
					// by the hierarchy math), absorbing any
					// floating-point edge at cell boundaries.
					bySubsector[star.Subsector] = append(bySubsector[star.Subsector], star)
					stars = append(stars, star)
				}
			}
		}
	}

	s.stars = stars
	s.bySubsector = bySubsector
	s.generated = true

	metrics.SectorsGenerated.Inc()
	metrics.StarsGenerated.Add(float64(len(stars)))
	metrics.SectorGenerationDuration.Observe(time.Since(start).Seconds())
}
