package galaxy

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"

	"galaxy-server/internal/morphology"
	"galaxy-server/internal/shared/database"
	"galaxy-server/internal/shared/errors"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	logger := slog.With("component", "galaxy_repository", "operation", "init")
	logger.Debug("Initializing galaxy repository")
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, ownerID int, name string, spec morphology.Spec) (*Record, error) {
	logger := slog.With(
		"component", "galaxy_repository",
		"operation", "create",
		"owner_id", ownerID,
		"name", name,
		"type", spec.Type,
		"seed", spec.Seed,
	)
	logger.Info("Creating galaxy")

	specJSON, err := json.Marshal(spec)
	if err != nil {
		return nil, errors.WrapInternal("failed to encode galaxy spec", err)
	}

	query := `
		INSERT INTO galaxies (owner_id, name, config)
		VALUES ($1, $2, $3)
		RETURNING id, owner_id, name, config, created_at, updated_at
	`

	record, err := scanRecord(r.db.QueryRowContext(ctx, query, ownerID, name, specJSON))
	if err != nil {
		logger.Error("Failed to create galaxy", "error", err)
		return nil, errors.WrapInternal("failed to create galaxy", err)
	}

	logger.Info("Galaxy created successfully", "galaxy_id", record.ID)
	return record, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Record, error) {
	logger := slog.With("component", "galaxy_repository", "operation", "get", "galaxy_id", id)
	logger.Debug("Getting galaxy by ID")

	query := `
		SELECT id, owner_id, name, config, created_at, updated_at
		FROM galaxies
		WHERE id = $1
	`

	record, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("galaxy not found with id: %d", id)
		}
		logger.Error("Database error getting galaxy", "error", err)
		return nil, errors.WrapInternal("failed to get galaxy", err)
	}

	return record, nil
}

func (r *Repository) List(ctx context.Context) ([]Record, error) {
	logger := slog.With("component", "galaxy_repository", "operation", "list")
	logger.Debug("Listing galaxies")

	query := `
		SELECT id, owner_id, name, config, created_at, updated_at
		FROM galaxies
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		logger.Error("Failed to query galaxies", "error", err)
		return nil, errors.WrapInternal("failed to list galaxies", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			logger.Error("Failed to scan galaxy row", "error", err)
			return nil, errors.WrapInternal("failed to scan galaxy", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error during rows iteration", "error", err)
		return nil, errors.WrapInternal("error iterating galaxies", err)
	}

	logger.Debug("Galaxies listed", "count", len(records))
	return records, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	logger := slog.With("component", "galaxy_repository", "operation", "delete", "galaxy_id", id)
	logger.Info("Deleting galaxy")

	result, err := r.db.ExecContext(ctx, `DELETE FROM galaxies WHERE id = $1`, id)
	if err != nil {
		logger.Error("Failed to delete galaxy", "error", err)
		return errors.WrapInternal("failed to delete galaxy", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.WrapInternal("failed to check delete result", err)
	}
	if affected == 0 {
		return errors.NotFoundf("galaxy not found with id: %d", id)
	}

	logger.Info("Galaxy deleted")
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var record Record
	var specJSON []byte

	err := row.Scan(
		&record.ID,
		&record.OwnerID,
		&record.Name,
		&specJSON,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(specJSON, &record.Spec); err != nil {
		return nil, err
	}

	return &record, nil
}
