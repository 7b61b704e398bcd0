// Package starfield turns a morphology spec into discrete, reproducible
// star systems. It owns the stochastic placement of stars within
// subsector cells and the lazy spatial caches (Sector, Galaxy) that
// memoize them. Nothing here is ever persisted: seed plus spec fully
// determine every star, so caches are pure memoization.
package starfield

import (
	"math"
	"math/rand/v2"

	"galaxy-server/internal/coords"
	"galaxy-server/internal/morphology"
)

// Star is one star system as handed to the downstream system-generation
// pipeline, which consumes exactly position, seed, metallicity and age
// bias. Immutable after creation; hierarchy coordinates are stamped at
// creation time.
type Star struct {
	Position    coords.Vec3 `json:"position"`
	Seed        int64       `json:"seed"`
	Metallicity float64     `json:"metallicity"`
	AgeBias     float64     `json:"age_bias"`

	Quadrant  coords.Quadrant `json:"quadrant"`
	Sector    coords.Local    `json:"sector"`
	Subsector coords.Local    `json:"subsector"`
}

func newStar(pos coords.Vec3, seed uint32, spec morphology.Spec) *Star {
	h := coords.ParsecToHierarchy(pos)
	metallicity, ageBias := starAttributes(seed, pos, spec)

	return &Star{
		Position:    pos,
		Seed:        int64(seed),
		Metallicity: metallicity,
		AgeBias:     ageBias,
		Quadrant:    h.Quadrant,
		Sector:      h.Sector,
		Subsector:   h.Subsector,
	}
}

// starAttributes derives solar-relative metallicity and an age bias in
// [0,1] from the star's own seed and its galactic radius. Each star gets
// its own RNG so attributes stay independent of neighboring draws.
func starAttributes(seed uint32, pos coords.Vec3, spec morphology.Spec) (metallicity, ageBias float64) {
	rng := rand.New(rand.NewPCG(uint64(seed), 1))

	scale := spec.DiskScaleLength
	if scale <= 0 {
		scale = math.Max(spec.DiskRadius, 1)
	}

	// Metal-rich core, metal-poor rim, with log-normal scatter.
	r := math.Hypot(pos.X, pos.Z)
	gradient := math.Exp(-r / (2 * scale))
	metallicity = gradient * math.Exp(0.25*rng.NormFloat64())

	// Stars toward the bulge skew old.
	ageBias = gradient + 0.15*rng.NormFloat64()
	if ageBias < 0 {
		ageBias = 0
	}
	if ageBias > 1 {
		ageBias = 1
	}

	return metallicity, ageBias
}
