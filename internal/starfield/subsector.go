package starfield

import (
	"math"
	"math/rand/v2"

	"galaxy-server/internal/coords"
	"galaxy-server/internal/hashchain"
	"galaxy-server/internal/morphology"
)

const (
	// solarNeighborhoodExpectation is the expected system count for one
	// subsector at reference density: 0.004 systems/pc^3 * 1000 pc^3.
	solarNeighborhoodExpectation = 4.0

	// densityRatioCap bounds the local/reference density ratio so a
	// dense bulge cell cannot request an absurd Poisson mean.
	densityRatioCap = 10.0

	// poissonIterationCap is a defensive bound on the inverse-transform
	// loop. With the ratio cap the mean never exceeds 40, where the
	// chance of hitting 1000 iterations is effectively zero, so the cap
	// cannot change output for in-range inputs.
	poissonIterationCap = 1000
)

// Context carries the immutable per-galaxy state a cell needs during
// generation: the spec, the density model built from it, and the
// reference density used to normalize local density into an expected
// star count. It is passed explicitly instead of letting cells hold a
// back-reference to their Galaxy.
type Context struct {
	Spec             morphology.Spec
	Model            morphology.Model
	ReferenceDensity float64
}

// Seed chain, one level per grid level. The master seed enters the hash
// whole (64-bit); each derived level is a 32-bit seed.

// QuadrantSeed derives the seed for a quadrant from the galaxy seed.
func QuadrantSeed(galaxySeed int64, q coords.Quadrant) uint32 {
	return hashchain.HashIntegers(galaxySeed, q.X, q.Y, q.Z)
}

// SectorSeed derives a sector seed from its quadrant's seed.
func SectorSeed(quadrantSeed uint32, s coords.Local) uint32 {
	return hashchain.DeriveSeed(quadrantSeed, int64(s.X), int64(s.Y), int64(s.Z))
}

// SubsectorSeed derives a subsector seed from its sector's seed.
func SubsectorSeed(sectorSeed uint32, sub coords.Local) uint32 {
	return hashchain.DeriveSeed(sectorSeed, int64(sub.X), int64(sub.Y), int64(sub.Z))
}

// GenerateSubsector produces the star systems of one subsector cell:
// a Poisson-distributed count scaled by the local/reference density
// ratio, each star placed uniformly within the 10x10x10 pc cell and
// tagged with a chain-derived seed.
//
// A non-positive reference density is a valid degenerate state and
// yields no stars anywhere.
func GenerateSubsector(ctx *Context, q coords.Quadrant, s, sub coords.Local) []*Star {
	if ctx.ReferenceDensity <= 0 {
		return nil
	}

	center := coords.SubsectorCenter(q, s, sub)
	local := ctx.Model.Density(center)

	ratio := local / ctx.ReferenceDensity
	if ratio < 0 {
		ratio = 0
	}
	if ratio > densityRatioCap {
		ratio = densityRatioCap
	}
	expected := ratio * solarNeighborhoodExpectation

	seed := SubsectorSeed(SectorSeed(QuadrantSeed(ctx.Spec.Seed, q), s), sub)

	// A fresh RNG per cell, seeded from the hash chain, keeps every
	// draw independent of generation order across cells. Never replace
	// this with a shared stream.
	rng := rand.New(rand.NewPCG(uint64(seed), 0))

	count := poisson(rng, expected)
	if count == 0 {
		return nil
	}

	origin := coords.SubsectorOrigin(q, s, sub)
	stars := make([]*Star, 0, count)
	for i := 0; i < count; i++ {
		starSeed := hashchain.DeriveSeedIndexed(seed, int64(i))
		pos := coords.Vec3{
			X: origin.X + rng.Float64()*coords.SubsectorSize,
			Y: origin.Y + rng.Float64()*coords.SubsectorSize,
			Z: origin.Z + rng.Float64()*coords.SubsectorSize,
		}
		stars = append(stars, newStar(pos, starSeed, ctx.Spec))
	}

	return stars
}

// poisson draws from Poisson(lambda) by Knuth's inverse-transform
// method: multiply uniforms until the product drops below exp(-lambda).
// Adequate for the small means this generator produces.
func poisson(rng *rand.Rand, lambda float64) int {
	if lambda <= 0 {
		return 0
	}

	limit := math.Exp(-lambda)
	count := 0
	product := 1.0

	for i := 0; i < poissonIterationCap; i++ {
		product *= rng.Float64()
		if product <= limit {
			return count
		}
		count++
	}

	return count
}
