package starfield

import (
	"math"
	"math/rand/v2"

	"galaxy-server/internal/coords"
	"galaxy-server/internal/hashchain"
	"galaxy-server/internal/shared/metrics"
)

// Point-cloud sampler: a galaxy-wide importance sampler for rendering
// consumers. Unlike the per-cell generator it does not enumerate cells;
// it draws positions directly from the morphology: Gaussian for the
// bulge, Gamma-radius/Laplace-height with arm-factor rejection for the
// disk.

const (
	samplerSeedSalt = 9001

	// rejectionAttemptFactor bounds disk rejection sampling: at most
	// this many attempts per requested point before giving up and
	// returning a short result. Guards against parameter combinations
	// with near-zero arm acceptance.
	rejectionAttemptFactor = 20
)

// SamplePointCloud returns up to count positions distributed like the
// galaxy's density field. Deterministic for a given spec and count; may
// return fewer than count points if the rejection budget is exhausted.
func (g *Galaxy) SamplePointCloud(count int) []coords.Vec3 {
	if count <= 0 {
		return nil
	}

	spec := g.spec
	rng := rand.New(rand.NewPCG(uint64(hashchain.HashIntegers(spec.Seed, samplerSeedSalt)), 0))

	// Split the budget between bulge and disk by bulge intensity.
	bulgeShare := spec.BulgeIntensity / (spec.BulgeIntensity + 1)
	if bulgeShare < 0 {
		bulgeShare = 0
	}
	nBulge := int(float64(count) * bulgeShare)
	nDisk := count - nBulge

	points := make([]coords.Vec3, 0, count)

	// Bulge: direct anisotropic Gaussian, no rejection needed.
	for i := 0; i < nBulge; i++ {
		points = append(points, coords.Vec3{
			X: rng.NormFloat64() * spec.BulgeRadius,
			Y: rng.NormFloat64() * spec.BulgeHeight,
			Z: rng.NormFloat64() * spec.BulgeRadius,
		})
	}

	// Disk: Gamma(shape=2) radius as the sum of two exponential draws,
	// uniform angle, Laplace height via inverse CDF, accepted with
	// probability equal to the arm factor.
	scaleLength := spec.DiskScaleLength
	if scaleLength <= 0 {
		scaleLength = math.Max(spec.DiskRadius/4, 1)
	}
	scaleHeight := spec.DiskScaleHeight
	if scaleHeight <= 0 {
		scaleHeight = math.Max(spec.HalfHeight/2, 1)
	}

	budget := nDisk * rejectionAttemptFactor
	accepted := 0
	for attempt := 0; attempt < budget && accepted < nDisk; attempt++ {
		r := -scaleLength*math.Log(1-rng.Float64()) - scaleLength*math.Log(1-rng.Float64())
		angle := 2 * math.Pi * rng.Float64()
		x := r * math.Cos(angle)
		z := r * math.Sin(angle)

		u := rng.Float64() - 0.5
		h := -scaleHeight * sign(u) * math.Log(1-2*math.Abs(u))

		if rng.Float64() > g.model.ArmFactor(r, x, z) {
			continue
		}

		points = append(points, coords.Vec3{X: x, Y: h, Z: z})
		accepted++
	}

	metrics.PointCloudPoints.Add(float64(len(points)))
	return points
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
