package galaxy

import (
	"time"

	"galaxy-server/internal/morphology"
)

// Record is the persisted form of a galaxy. Only the name, the seed and
// the morphology spec are stored; stars are never persisted because the
// spec fully determines them.
type Record struct {
	ID        int             `json:"id"`
	OwnerID   int             `json:"owner_id"`
	Name      string          `json:"name"`
	Spec      morphology.Spec `json:"spec"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateRequest is the body of POST /api/galaxies. Either a preset name
// or a full spec must be given; a zero seed means "pick one".
type CreateRequest struct {
	Name   string           `json:"name"`
	Preset string           `json:"preset,omitempty"`
	Seed   int64            `json:"seed,omitempty"`
	Spec   *morphology.Spec `json:"spec,omitempty"`
}

// Stats summarizes a live galaxy for the stats endpoint.
type Stats struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	Seed             int64   `json:"seed"`
	ReferenceDensity float64 `json:"reference_density"`
	GeneratedSectors int     `json:"generated_sectors"`
}
