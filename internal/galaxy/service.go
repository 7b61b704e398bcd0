package galaxy

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math"
	"math/big"
	"sync"

	"galaxy-server/internal/coords"
	"galaxy-server/internal/morphology"
	"galaxy-server/internal/shared/config"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/redis"
	"galaxy-server/internal/starfield"
)

// Service owns the galaxy lifecycle: persistence of {name, seed, spec},
// the registry of live generators, and the remote sector cache. A live
// starfield.Galaxy is rebuilt on demand from its record; nothing
// derived is ever written back.
type Service struct {
	repo    *Repository
	cache   *sectorCache
	presets map[string]morphology.Spec
	logger  *slog.Logger

	mu   sync.RWMutex
	live map[int]*starfield.Galaxy
}

func NewService(repo *Repository, redisClient *redis.Client, logger *slog.Logger) *Service {
	logger.Debug("Initializing galaxy service")

	cfg := config.GlobalConfig.Galaxy
	presets, err := morphology.LoadPresets(cfg.PresetsPath)
	if err != nil {
		logger.Error("Failed to load galaxy presets, using builtins", "error", err, "path", cfg.PresetsPath)
		presets = morphology.DefaultPresets()
	}

	return &Service{
		repo:    repo,
		cache:   newSectorCache(redisClient, cfg.SectorCacheTTL),
		presets: presets,
		logger:  logger,
		live:    make(map[int]*starfield.Galaxy),
	}
}

// Presets returns the loaded preset catalog.
func (s *Service) Presets() map[string]morphology.Spec {
	return s.presets
}

func (s *Service) Create(ctx context.Context, ownerID int, req CreateRequest) (*Record, error) {
	if req.Name == "" {
		return nil, errors.Validation("galaxy name is required")
	}

	spec, err := s.resolveSpec(req)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, ownerID, req.Name, spec)
}

func (s *Service) resolveSpec(req CreateRequest) (morphology.Spec, error) {
	var spec morphology.Spec

	switch {
	case req.Spec != nil:
		spec = *req.Spec
		if !spec.Type.IsValid() {
			return spec, errors.Validationf("unknown galaxy type: %q", spec.Type)
		}
	default:
		preset := req.Preset
		if preset == "" {
			preset = config.GlobalConfig.Galaxy.DefaultPreset
		}
		p, ok := s.presets[preset]
		if !ok {
			return spec, errors.Validationf("unknown galaxy preset: %q", preset)
		}
		spec = p
	}

	spec.Seed = req.Seed
	if spec.Seed == 0 {
		seed, err := randomSeed()
		if err != nil {
			return spec, errors.WrapInternal("failed to generate galaxy seed", err)
		}
		spec.Seed = seed
	}

	return spec, nil
}

func randomSeed() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

func (s *Service) Get(ctx context.Context, id int) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.repo.List(ctx)
}

// Delete removes the record, evicts the live generator and drops the
// galaxy's remote cache entries.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()

	s.cache.Invalidate(ctx, id)
	return nil
}

// galaxy returns the live generator for a record, building it on first
// access. Identical specs always rebuild identical generators.
func (s *Service) galaxy(ctx context.Context, id int) (*starfield.Galaxy, error) {
	s.mu.RLock()
	g, ok := s.live[id]
	s.mu.RUnlock()
	if ok {
		return g, nil
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok = s.live[id]; ok {
		return g, nil
	}

	s.logger.Info("Building galaxy generator",
		"galaxy_id", id,
		"type", record.Spec.Type,
		"seed", record.Spec.Seed)

	g = starfield.New(record.Spec)
	s.live[id] = g
	return g, nil
}

// SectorStars returns the stars of one sector, trying the remote cache
// before generating.
func (s *Service) SectorStars(ctx context.Context, id int, q coords.Quadrant, local coords.Local) ([]*starfield.Star, error) {
	if !local.InRange() {
		return nil, errors.Validation("sector coordinates must be in [0,9]")
	}

	if stars, ok := s.cache.Get(ctx, id, q, local); ok {
		return stars, nil
	}

	g, err := s.galaxy(ctx, id)
	if err != nil {
		return nil, err
	}

	stars := g.StarsInSector(q, local)
	s.cache.Set(ctx, id, q, local, stars)
	return stars, nil
}

func (s *Service) SubsectorStars(ctx context.Context, id int, q coords.Quadrant, sector, sub coords.Local) ([]*starfield.Star, error) {
	if !sector.InRange() || !sub.InRange() {
		return nil, errors.Validation("sector and subsector coordinates must be in [0,9]")
	}

	g, err := s.galaxy(ctx, id)
	if err != nil {
		return nil, err
	}

	return g.StarsInSubsector(q, sector, sub), nil
}

func (s *Service) StarsInRadius(ctx context.Context, id int, center coords.Vec3, radius float64) ([]*starfield.Star, error) {
	if radius < 0 {
		return nil, errors.Validation("radius must be non-negative")
	}
	if maxRadius := config.GlobalConfig.Galaxy.RadiusQueryMax; radius > maxRadius {
		return nil, errors.Validationf("radius %g exceeds the maximum of %g parsecs", radius, maxRadius)
	}

	g, err := s.galaxy(ctx, id)
	if err != nil {
		return nil, err
	}

	return g.StarsInRadius(center, radius), nil
}

func (s *Service) Neighborhood(ctx context.Context, id int, p coords.Vec3) (*starfield.Neighborhood, error) {
	g, err := s.galaxy(ctx, id)
	if err != nil {
		return nil, err
	}

	return g.Neighborhood(p), nil
}

func (s *Service) PointCloud(ctx context.Context, id int, count int) ([]coords.Vec3, error) {
	if count <= 0 {
		return nil, errors.Validation("count must be positive")
	}
	if maxPoints := config.GlobalConfig.Galaxy.PointCloudMaxPoints; count > maxPoints {
		count = maxPoints
	}

	g, err := s.galaxy(ctx, id)
	if err != nil {
		return nil, err
	}

	return g.SamplePointCloud(count), nil
}

func (s *Service) Stats(ctx context.Context, id int) (*Stats, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g, err := s.galaxy(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Stats{
		ID:               record.ID,
		Name:             record.Name,
		Type:             string(record.Spec.Type),
		Seed:             record.Spec.Seed,
		ReferenceDensity: g.ReferenceDensity(),
		GeneratedSectors: g.GeneratedSectorCount(),
	}, nil
}

// ClearCache drops the in-process memoization and remote cache of one
// galaxy. Regenerated content is identical.
func (s *Service) ClearCache(ctx context.Context, id int) error {
	s.mu.RLock()
	g, ok := s.live[id]
	s.mu.RUnlock()
	if ok {
		g.ClearCache()
	}

	s.cache.Invalidate(ctx, id)
	return nil
}
