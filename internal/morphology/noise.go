package morphology

import (
	"math"

	"galaxy-server/internal/coords"
	"galaxy-server/internal/hashchain"
)

// Noise fields for the irregular model. Both are lattice noises whose
// per-cell values come from the hash chain, so they inherit its
// stability guarantee: same seed, same field, forever.

// valueNoise is smooth trilinear-interpolated lattice noise in [0,1].
type valueNoise struct {
	seed uint32
}

func (n valueNoise) lattice(x, y, z int64) float64 {
	return float64(hashchain.DeriveSeed(n.seed, x, y, z)) / float64(math.MaxUint32)
}

func (n valueNoise) at(p coords.Vec3) float64 {
	x0, y0, z0 := math.Floor(p.X), math.Floor(p.Y), math.Floor(p.Z)
	tx, ty, tz := fade(p.X-x0), fade(p.Y-y0), fade(p.Z-z0)
	xi, yi, zi := int64(x0), int64(y0), int64(z0)

	c000 := n.lattice(xi, yi, zi)
	c100 := n.lattice(xi+1, yi, zi)
	c010 := n.lattice(xi, yi+1, zi)
	c110 := n.lattice(xi+1, yi+1, zi)
	c001 := n.lattice(xi, yi, zi+1)
	c101 := n.lattice(xi+1, yi, zi+1)
	c011 := n.lattice(xi, yi+1, zi+1)
	c111 := n.lattice(xi+1, yi+1, zi+1)

	x00 := lerp(c000, c100, tx)
	x10 := lerp(c010, c110, tx)
	x01 := lerp(c001, c101, tx)
	x11 := lerp(c011, c111, tx)

	y0v := lerp(x00, x10, ty)
	y1v := lerp(x01, x11, ty)

	return lerp(y0v, y1v, tz)
}

// fractal sums octaves of value noise, renormalized back to [0,1].
func (n valueNoise) fractal(p coords.Vec3, octaves int, persistence, lacunarity float64) float64 {
	sum := 0.0
	amplitude := 1.0
	frequency := 1.0
	norm := 0.0

	for i := 0; i < octaves; i++ {
		sum += amplitude * n.at(coords.Vec3{X: p.X * frequency, Y: p.Y * frequency, Z: p.Z * frequency})
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}

	if norm == 0 {
		return 0
	}
	return sum / norm
}

// cellNoise is Worley-style cellular noise: one jittered feature point
// per lattice cell, value rising toward the nearest feature. Output is
// in [0,1] with sharp peaks at feature points.
type cellNoise struct {
	seed uint32
}

func (n cellNoise) feature(x, y, z int64) coords.Vec3 {
	h := hashchain.DeriveSeed(n.seed, x, y, z)
	// Three decorrelated jitters in [0,1) from one cell hash.
	jx := float64(h&0x3ff) / 1024
	jy := float64((h>>10)&0x3ff) / 1024
	jz := float64((h>>20)&0x3ff) / 1024
	return coords.Vec3{X: float64(x) + jx, Y: float64(y) + jy, Z: float64(z) + jz}
}

func (n cellNoise) at(p coords.Vec3) float64 {
	xi, yi, zi := int64(math.Floor(p.X)), int64(math.Floor(p.Y)), int64(math.Floor(p.Z))

	minDist := math.MaxFloat64
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for dz := int64(-1); dz <= 1; dz++ {
				f := n.feature(xi+dx, yi+dy, zi+dz)
				if d := p.Dist(f); d < minDist {
					minDist = d
				}
			}
		}
	}

	v := 1 - minDist
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func fade(t float64) float64 {
	return t * t * (3 - 2*t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
