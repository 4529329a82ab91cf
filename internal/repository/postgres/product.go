package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oscarper3z/MULTI-APIS/internal/domain"
	"github.com/oscarper3z/MULTI-APIS/internal/repository"
)

// Price is stored as NUMERIC(10,2); every statement casts it to float8 on the
// way out so rows scan into a float64 instead of numeric text.

// CreateProduct inserts a product and returns the stored row.
func (r *Repository) CreateProduct(ctx context.Context, name string, price float64) (*domain.Product, error) {
	const query = `INSERT INTO products_schema.products (name, price)
		VALUES ($1, $2)
		RETURNING id, name, price::float8`
	row := r.pool.QueryRow(ctx, query, name, price)
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns all products in ascending id order.
func (r *Repository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const query = `SELECT id, name, price::float8 FROM products_schema.products ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProductByID retrieves a product by identifier.
func (r *Repository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	const query = `SELECT id, name, price::float8 FROM products_schema.products WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpdateProduct applies a partial update with COALESCE semantics.
func (r *Repository) UpdateProduct(ctx context.Context, id int64, name *string, price *float64) (*domain.Product, error) {
	const query = `UPDATE products_schema.products
		SET name = COALESCE($1, name), price = COALESCE($2, price)
		WHERE id = $3
		RETURNING id, name, price::float8`
	row := r.pool.QueryRow(ctx, query, name, price, id)
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// DeleteProduct removes a product and returns the deleted row.
func (r *Repository) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const query = `DELETE FROM products_schema.products WHERE id = $1 RETURNING id, name, price::float8`
	row := r.pool.QueryRow(ctx, query, id)
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
