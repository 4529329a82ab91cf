package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oscarper3z/MULTI-APIS/internal/domain"
	"github.com/oscarper3z/MULTI-APIS/internal/repository"
)

// CreateUser inserts a user and returns the stored row.
func (r *Repository) CreateUser(ctx context.Context, name, email string) (*domain.User, error) {
	const query = `INSERT INTO users_schema.users (name, email)
		VALUES ($1, $2)
		RETURNING id, name, email`
	row := r.pool.QueryRow(ctx, query, name, email)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email); err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all users in ascending id order.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	const query = `SELECT id, name, email FROM users_schema.users ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUserByID retrieves a user by identifier.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `SELECT id, name, email FROM users_schema.users WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateUser applies a partial update. Nil fields become NULL parameters and
// COALESCE keeps the stored value.
func (r *Repository) UpdateUser(ctx context.Context, id int64, name, email *string) (*domain.User, error) {
	const query = `UPDATE users_schema.users
		SET name = COALESCE($1, name), email = COALESCE($2, email)
		WHERE id = $3
		RETURNING id, name, email`
	row := r.pool.QueryRow(ctx, query, name, email, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// DeleteUser removes a user and returns the deleted row.
func (r *Repository) DeleteUser(ctx context.Context, id int64) (*domain.User, error) {
	const query = `DELETE FROM users_schema.users WHERE id = $1 RETURNING id, name, email`
	row := r.pool.QueryRow(ctx, query, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
