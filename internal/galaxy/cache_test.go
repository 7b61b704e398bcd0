package galaxy

import (
	"testing"

	"galaxy-server/internal/coords"
	"galaxy-server/internal/starfield"
)

func TestSectorBlobRoundTrip(t *testing.T) {
	stars := []*starfield.Star{
		{
			Position:    coords.Vec3{X: 8001.5, Y: -2.25, Z: 17.0},
			Seed:        123456789,
			Metallicity: 0.42,
			AgeBias:     0.9,
			Quadrant:    coords.Quadrant{X: 8},
			Sector:      coords.Local{X: 0, Y: 0, Z: 0},
			Subsector:   coords.Local{X: 1, Y: 7, Z: 0},
		},
		{
			Position: coords.Vec3{X: -30, Y: 4, Z: -990},
			Seed:     42,
			Quadrant: coords.Quadrant{X: -1, Z: -1},
			Sector:   coords.Local{X: 9, Y: 0, Z: 0},
		},
	}

	blob, err := encodeSectorBlob(stars)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := decodeSectorBlob(blob)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if len(decoded) != len(stars) {
		t.Fatalf("decoded %d stars, want %d", len(decoded), len(stars))
	}
	for i := range stars {
		if *decoded[i] != *stars[i] {
			t.Errorf("star %d changed through the blob:\n%+v\n%+v", i, *stars[i], *decoded[i])
		}
	}
}

func TestSectorBlobDecodeGarbage(t *testing.T) {
	if _, err := decodeSectorBlob([]byte("not an lz4 frame")); err == nil {
		t.Error("expected an error decoding garbage")
	}
}

func TestSectorCacheKeyDistinct(t *testing.T) {
	a := sectorCacheKey(1, coords.Quadrant{X: 1, Y: 2, Z: 3}, coords.Local{X: 4, Y: 5, Z: 6})
	b := sectorCacheKey(1, coords.Quadrant{X: 1, Y: 2, Z: 3}, coords.Local{X: 4, Y: 5, Z: 7})
	c := sectorCacheKey(2, coords.Quadrant{X: 1, Y: 2, Z: 3}, coords.Local{X: 4, Y: 5, Z: 6})

	if a == b || a == c {
		t.Errorf("cache keys collide: %q %q %q", a, b, c)
	}

	// Negative quadrants must not produce ambiguous keys either.
	d := sectorCacheKey(1, coords.Quadrant{X: -1, Y: 2, Z: 3}, coords.Local{X: 4, Y: 5, Z: 6})
	if d == a {
		t.Errorf("negative quadrant key collides: %q", d)
	}
}

// A nil client disables the cache cleanly.
func TestSectorCacheDisabled(t *testing.T) {
	c := newSectorCache(nil, 0)

	if c.enabled() {
		t.Fatal("nil-client cache reports enabled")
	}
	if _, ok := c.Get(t.Context(), 1, coords.Quadrant{}, coords.Local{}); ok {
		t.Error("disabled cache returned a hit")
	}
	// Set and Invalidate must be no-ops, not panics.
	c.Set(t.Context(), 1, coords.Quadrant{}, coords.Local{}, nil)
	c.Invalidate(t.Context(), 1)
}
