package auth

import (
	"context"
	"database/sql"

	"galaxy-server/internal/shared/database"
	"galaxy-server/internal/shared/errors"
)

type Repository struct {
	db *database.DB
}

func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, subject, username, email, display_name, role, created_at, updated_at`

func (r *Repository) FindBySubject(ctx context.Context, subject string) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE subject = $1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, subject))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("user not found for subject")
		}
		return nil, errors.WrapInternal("failed to find user by subject", err)
	}

	return user, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("user not found with id: %d", id)
		}
		return nil, errors.WrapInternal("failed to get user", err)
	}

	return user, nil
}

func (r *Repository) Create(ctx context.Context, subject, username, email, displayName, role string) (*User, error) {
	query := `
		INSERT INTO users (subject, username, email, display_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, subject, username, email, displayName, role))
	if err != nil {
		return nil, errors.WrapInternal("failed to create user", err)
	}

	return user, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Subject,
		&user.Username,
		&user.Email,
		&user.DisplayName,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
