// Package hashchain derives the deterministic seed tree that makes the
// galaxy reproducible without storing any star data. The chain is
// galaxy seed -> quadrant -> sector -> subsector -> star; every level is
// a pure integer hash of its parent seed plus grid coordinates.
//
// The hash function and the byte order it consumes are load-bearing:
// changing either silently regenerates every galaxy. Keep them stable
// across versions and platforms (no math/rand, no map iteration).
package hashchain

const (
	fnvOffsetBasis uint32 = 2166136261
	fnvPrime       uint32 = 16777619
)

// HashIntegers computes FNV-1a over the little-endian bytes of each
// 64-bit value, one byte at a time, with all arithmetic in 32 bits.
func HashIntegers(values ...int64) uint32 {
	h := fnvOffsetBasis
	for _, v := range values {
		u := uint64(v)
		for i := 0; i < 8; i++ {
			h ^= uint32(u & 0xff)
			h *= fnvPrime
			u >>= 8
		}
	}
	return h
}

// DeriveSeed derives a child seed from a parent seed and a coordinate
// triple. Used for quadrant, sector and subsector seeds.
func DeriveSeed(parent uint32, x, y, z int64) uint32 {
	return HashIntegers(int64(parent), x, y, z)
}

// DeriveSeedIndexed derives a child seed from a parent seed and a flat
// index. Used for per-star seeds within a subsector.
func DeriveSeedIndexed(parent uint32, index int64) uint32 {
	return HashIntegers(int64(parent), index)
}
