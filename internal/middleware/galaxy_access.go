package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"galaxy-server/internal/shared/database"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/response"
)

type GalaxyAccessMiddleware struct {
	db *database.DB
}

func NewGalaxyAccessMiddleware(db *database.DB) *GalaxyAccessMiddleware {
	return &GalaxyAccessMiddleware{db: db}
}

// Require gates galaxy routes: the requester must own the galaxy named
// in the path, or be an admin.
func (m *GalaxyAccessMiddleware) Require(next http.Handler) http.Handler {
	return JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "galaxy_access",
			"method", r.Method,
			"path", r.URL.Path,
		)

		claims := GetUserFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		// Admins can access all galaxies
		if claims.Role == "admin" {
			next.ServeHTTP(w, r)
			return
		}

		galaxyIDStr := r.PathValue("id")
		if galaxyIDStr == "" {
			response.Error(w, r, logger, errors.Validation("galaxy ID is required"))
			return
		}

		galaxyID, err := strconv.Atoi(galaxyIDStr)
		if err != nil {
			response.Error(w, r, logger, errors.WrapValidation("invalid galaxy ID format", err))
			return
		}

		var ownerID int
		err = m.db.QueryRowContext(r.Context(),
			`SELECT owner_id FROM galaxies WHERE id = $1`, galaxyID,
		).Scan(&ownerID)
		if err != nil {
			response.Error(w, r, logger, errors.NotFoundf("galaxy not found with id: %d", galaxyID))
			return
		}

		if ownerID != claims.UserID {
			response.Error(w, r, logger, errors.Forbidden("galaxy access required"))
			return
		}

		next.ServeHTTP(w, r)
	}))
}
