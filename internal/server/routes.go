package server

import (
	"log/slog"
	"net/http"

	"galaxy-server/internal/auth"
	"galaxy-server/internal/galaxy"
	galaxyHandlers "galaxy-server/internal/galaxy/handlers"
	"galaxy-server/internal/middleware"
	serverHandlers "galaxy-server/internal/server/handlers"
	"galaxy-server/internal/shared/database"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Routes struct {
	db            *database.DB
	authService   *auth.Service
	galaxyService *galaxy.Service
	logger        *slog.Logger
}

func NewRoutes(db *database.DB, authService *auth.Service, galaxyService *galaxy.Service, logger *slog.Logger) *Routes {
	return &Routes{
		db:            db,
		authService:   authService,
		galaxyService: galaxyService,
		logger:        logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := slog.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db)
	authHandler := auth.NewHandler(r.authService)
	galaxyHandler := galaxyHandlers.NewGalaxyHandler(r.galaxyService)
	streamHandler := galaxyHandlers.NewStreamHandler(r.galaxyService)
	galaxyAccess := middleware.NewGalaxyAccessMiddleware(r.db)

	// handle registers a route with per-pattern request metrics.
	handle := func(pattern string, handler http.Handler) {
		mux.Handle(pattern, middleware.Instrument(pattern, handler))
	}

	// Public endpoints
	handle("/api/server/health", healthHandler)
	handle("GET /api/presets", http.HandlerFunc(galaxyHandler.GetPresets))
	handle("GET /metrics", promhttp.Handler())

	// Galaxy catalog
	handle("GET /api/galaxies", middleware.JWTMiddleware(http.HandlerFunc(galaxyHandler.List)))
	handle("GET /api/galaxies/{id}", middleware.JWTMiddleware(http.HandlerFunc(galaxyHandler.Get)))
	handle("GET /api/galaxies/{id}/stats", middleware.JWTMiddleware(http.HandlerFunc(galaxyHandler.GetStats)))
	handle("POST /api/galaxies", middleware.JWTMiddleware(http.HandlerFunc(galaxyHandler.Create)))

	// Galaxy content (owner or admin)
	handle("GET /api/galaxies/{id}/sector", galaxyAccess.Require(http.HandlerFunc(galaxyHandler.GetSector)))
	handle("GET /api/galaxies/{id}/subsector", galaxyAccess.Require(http.HandlerFunc(galaxyHandler.GetSubsector)))
	handle("GET /api/galaxies/{id}/stars", galaxyAccess.Require(http.HandlerFunc(galaxyHandler.GetStarsInRadius)))
	handle("GET /api/galaxies/{id}/neighborhood", galaxyAccess.Require(http.HandlerFunc(galaxyHandler.GetNeighborhood)))
	handle("GET /api/galaxies/{id}/pointcloud", galaxyAccess.Require(http.HandlerFunc(galaxyHandler.GetPointCloud)))
	mux.Handle("GET /api/galaxies/{id}/stream", galaxyAccess.Require(http.HandlerFunc(streamHandler.HandleStream)))

	// Admin-only endpoints (authenticated + admin role)
	handle("DELETE /api/galaxies/{id}", middleware.RequireAdmin(http.HandlerFunc(galaxyHandler.Delete)))
	handle("POST /api/galaxies/{id}/cache/clear", middleware.RequireAdmin(http.HandlerFunc(galaxyHandler.ClearCache)))

	// Account endpoints
	handle("GET /api/users/me", middleware.JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		authHandler.HandleMe(w, req, middleware.GetUserFromContext(req))
	})))

	// OAuth endpoints
	handle("/auth/login", http.HandlerFunc(authHandler.HandleLogin))
	handle("/auth/callback", http.HandlerFunc(authHandler.HandleCallback))
	handle("/auth/logout", http.HandlerFunc(authHandler.HandleLogout))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/api/presets", "/metrics"},
		"galaxy_endpoints", []string{"/api/galaxies", "/api/galaxies/{id}/sector", "/api/galaxies/{id}/stars", "/api/galaxies/{id}/neighborhood", "/api/galaxies/{id}/pointcloud", "/api/galaxies/{id}/stream"},
		"admin_endpoints", []string{"DELETE /api/galaxies/{id}", "/api/galaxies/{id}/cache/clear"},
		"auth_endpoints", []string{"/auth/login", "/auth/callback", "/auth/logout"},
	)

	return mux
}
