package galaxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"galaxy-server/internal/coords"
	"galaxy-server/internal/shared/metrics"
	"galaxy-server/internal/shared/redis"
	"galaxy-server/internal/starfield"

	"github.com/pierrec/lz4/v4"
)

// sectorCache is the remote tier above the in-process sector
// memoization: generated sector blobs are stored in Redis, LZ4
// compressed, so a restarted or scaled-out instance can skip the
// 1000-cell sweep for warm sectors. Results are identical either way;
// this only trades CPU for network.
type sectorCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func newSectorCache(client *redis.Client, ttl time.Duration) *sectorCache {
	return &sectorCache{
		client: client,
		ttl:    ttl,
		logger: slog.With("component", "sector_cache"),
	}
}

func (c *sectorCache) enabled() bool {
	return c != nil && c.client != nil
}

func sectorCacheKey(galaxyID int, q coords.Quadrant, local coords.Local) string {
	return fmt.Sprintf("galaxy:%d:sector:%d:%d:%d:%d:%d:%d",
		galaxyID, q.X, q.Y, q.Z, local.X, local.Y, local.Z)
}

func (c *sectorCache) Get(ctx context.Context, galaxyID int, q coords.Quadrant, local coords.Local) ([]*starfield.Star, bool) {
	if !c.enabled() {
		return nil, false
	}

	key := sectorCacheKey(galaxyID, q, local)
	blob, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		metrics.RemoteCache.WithLabelValues("miss").Inc()
		return nil, false
	}

	stars, err := decodeSectorBlob(blob)
	if err != nil {
		metrics.RemoteCache.WithLabelValues("error").Inc()
		c.logger.Warn("Failed to decode cached sector blob", "key", key, "error", err)
		return nil, false
	}

	metrics.RemoteCache.WithLabelValues("hit").Inc()
	return stars, true
}

func (c *sectorCache) Set(ctx context.Context, galaxyID int, q coords.Quadrant, local coords.Local, stars []*starfield.Star) {
	if !c.enabled() {
		return
	}

	key := sectorCacheKey(galaxyID, q, local)
	blob, err := encodeSectorBlob(stars)
	if err != nil {
		metrics.RemoteCache.WithLabelValues("error").Inc()
		c.logger.Warn("Failed to encode sector blob", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, key, blob, c.ttl).Err(); err != nil {
		metrics.RemoteCache.WithLabelValues("error").Inc()
		c.logger.Warn("Failed to store sector blob", "key", key, "error", err)
	}
}

// Invalidate drops every cached sector of one galaxy.
func (c *sectorCache) Invalidate(ctx context.Context, galaxyID int) {
	if !c.enabled() {
		return
	}

	pattern := fmt.Sprintf("galaxy:%d:sector:*", galaxyID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warn("Failed to delete cached sector", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("Failed to scan cached sectors", "galaxy_id", galaxyID, "error", err)
	}
}

func encodeSectorBlob(stars []*starfield.Star) ([]byte, error) {
	raw, err := json.Marshal(stars)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decodeSectorBlob(blob []byte) ([]*starfield.Star, error) {
	zr := lz4.NewReader(bytes.NewReader(blob))
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, err
	}

	var stars []*starfield.Star
	if err := json.Unmarshal(raw, &stars); err != nil {
		return nil, err
	}
	return stars, nil
}
