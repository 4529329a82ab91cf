package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oscarper3z/MULTI-APIS/internal/repository"
)

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ensure Repository satisfies interfaces.
var (
	_ repository.UserRepository    = (*Repository)(nil)
	_ repository.ProductRepository = (*Repository)(nil)
	_ repository.HealthChecker     = (*Repository)(nil)
)

// Health runs a trivial query to prove a connection can be acquired.
func (r *Repository) Health(ctx context.Context) error {
	const query = `SELECT 1 AS ok`
	var ok int
	if err := r.pool.QueryRow(ctx, query).Scan(&ok); err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("unexpected health probe result: %d", ok)
	}
	return nil
}
