// Package metrics registers the server's Prometheus collectors. Labels
// are kept to bounded value sets so cardinality cannot grow with the
// (astronomical) number of cells.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Generation work.
	SectorsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "galaxy_sectors_generated_total",
		Help: "Sectors fully generated (1000 subsector evaluations each)",
	})

	StarsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "galaxy_stars_generated_total",
		Help: "Stars placed by the subsector generator",
	})

	SectorGenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "galaxy_sector_generation_seconds",
		Help:    "Time spent generating one sector",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	})

	PointCloudPoints = promauto.NewCounter(prometheus.CounterOpts{
		Name: "galaxy_pointcloud_points_total",
		Help: "Points produced by the density sampler",
	})

	// Caches.
	SectorCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "galaxy_sector_cache_total",
		Help: "Sector cache lookups by outcome",
	}, []string{"outcome"}) // "hit", "miss"

	RemoteCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "galaxy_remote_cache_total",
		Help: "Redis sector-blob cache lookups by outcome",
	}, []string{"outcome"}) // "hit", "miss", "error"

	// HTTP surface.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"}) // path is the route pattern, never the raw URL

	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	StreamConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "galaxy_stream_connections_active",
		Help: "Currently active point-cloud WebSocket streams",
	})
)
