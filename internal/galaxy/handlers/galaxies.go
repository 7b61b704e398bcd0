package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"galaxy-server/internal/coords"
	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/middleware"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/shared/response"
	"galaxy-server/internal/starfield"
)

type GalaxyHandler struct {
	service *galaxy.Service
}

func NewGalaxyHandler(service *galaxy.Service) *GalaxyHandler {
	return &GalaxyHandler{service: service}
}

func (h *GalaxyHandler) Create(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "create_galaxy")

	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		response.Error(w, r, logger, errors.Unauthorized("authentication required"))
		return
	}

	var req galaxy.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	record, err := h.service.Create(r.Context(), claims.UserID, req)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusCreated, record)
}

func (h *GalaxyHandler) List(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "list_galaxies")

	records, err := h.service.List(r.Context())
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if records == nil {
		records = []galaxy.Record{}
	}

	response.Success(w, http.StatusOK, records)
}

func (h *GalaxyHandler) Get(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_galaxy")

	id, err := galaxyID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	record, err := h.service.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, record)
}

func (h *GalaxyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "delete_galaxy")

	id, err := galaxyID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *GalaxyHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "galaxy_stats")

	id, err := galaxyID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	stats, err := h.service.Stats(r.Context(), id)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, stats)
}

func (h *GalaxyHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "clear_galaxy_cache")

	id, err := galaxyID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	if err := h.service.ClearCache(r.Context(), id); err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]string{"status": "cache cleared"})
}

func (h *GalaxyHandler) GetSector(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_sector")

	id, err := galaxyID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	q, err := parseQuadrant(r, "qx", "qy", "qz")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	sector, err := parseLocal(r, "sx", "sy", "sz")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	stars, err := h.service.SectorStars(r.Context(), id, q, sector)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, starsPayload(stars))
}

func (h *GalaxyHandler) GetSubsector(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_subsector")

	id, err := galaxyID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	q, err := parseQuadrant(r, "qx", "qy", "qz")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	sector, err := parseLocal(r, "sx", "sy", "sz")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	sub, err := parseLocal(r, "ssx", "ssy", "ssz")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	stars, err := h.service.SubsectorStars(r.Context(), id, q, sector, sub)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, starsPayload(stars))
}

func (h *GalaxyHandler) GetStarsInRadius(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_stars_in_radius")

	id, err := galaxyID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	center, err := parseVec3(r, "x", "y", "z")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}
	radius, err := parseFloat(r, "radius")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	stars, err := h.service.StarsInRadius(r.Context(), id, center, radius)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, starsPayload(stars))
}

func (h *GalaxyHandler) GetNeighborhood(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_neighborhood")

	id, err := galaxyID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	p, err := parseVec3(r, "x", "y", "z")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	neighborhood, err := h.service.Neighborhood(r.Context(), id, p)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, neighborhood)
}

func (h *GalaxyHandler) GetPointCloud(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "get_point_cloud")

	id, err := galaxyID(r)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	count, err := parseInt(r, "count")
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	points, err := h.service.PointCloud(r.Context(), id, count)
	if err != nil {
		response.Error(w, r, logger, err)
		return
	}

	response.Success(w, http.StatusOK, map[string]interface{}{
		"count":  len(points),
		"points": points,
	})
}

func starsPayload(stars []*starfield.Star) map[string]interface{} {
	if stars == nil {
		stars = []*starfield.Star{}
	}
	return map[string]interface{}{
		"count": len(stars),
		"stars": stars,
	}
}

func galaxyID(r *http.Request) (int, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return 0, errors.Validation("galaxy ID is required")
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, errors.WrapValidation("invalid galaxy ID format", err)
	}
	return id, nil
}

func parseQuadrant(r *http.Request, xKey, yKey, zKey string) (coords.Quadrant, error) {
	x, err := parseInt64(r, xKey)
	if err != nil {
		return coords.Quadrant{}, err
	}
	y, err := parseInt64(r, yKey)
	if err != nil {
		return coords.Quadrant{}, err
	}
	z, err := parseInt64(r, zKey)
	if err != nil {
		return coords.Quadrant{}, err
	}
	return coords.Quadrant{X: x, Y: y, Z: z}, nil
}

func parseLocal(r *http.Request, xKey, yKey, zKey string) (coords.Local, error) {
	x, err := parseInt(r, xKey)
	if err != nil {
		return coords.Local{}, err
	}
	y, err := parseInt(r, yKey)
	if err != nil {
		return coords.Local{}, err
	}
	z, err := parseInt(r, zKey)
	if err != nil {
		return coords.Local{}, err
	}
	return coords.Local{X: x, Y: y, Z: z}, nil
}

func parseVec3(r *http.Request, xKey, yKey, zKey string) (coords.Vec3, error) {
	x, err := parseFloat(r, xKey)
	if err != nil {
		return coords.Vec3{}, err
	}
	y, err := parseFloat(r, yKey)
	if err != nil {
		return coords.Vec3{}, err
	}
	z, err := parseFloat(r, zKey)
	if err != nil {
		return coords.Vec3{}, err
	}
	return coords.Vec3{X: x, Y: y, Z: z}, nil
}

func parseInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, errors.Validationf("query parameter %q is required", key)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Validationf("query parameter %q must be an integer", key)
	}
	return v, nil
}

func parseInt64(r *http.Request, key string) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, errors.Validationf("query parameter %q is required", key)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Validationf("query parameter %q must be an integer", key)
	}
	return v, nil
}

func parseFloat(r *http.Request, key string) (float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, errors.Validationf("query parameter %q is required", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Validationf("query parameter %q must be a number", key)
	}
	return v, nil
}
