package repository

import (
	"context"

	"github.com/oscarper3z/MULTI-APIS/internal/domain"
)

// UserRepository persists users.
type UserRepository interface {
	CreateUser(ctx context.Context, name, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	// UpdateUser overwrites only the supplied fields; nil leaves the stored
	// value untouched. Returns the post-update row.
	UpdateUser(ctx context.Context, id int64, name, email *string) (*domain.User, error)
	// DeleteUser removes the row and returns it as it was before deletion.
	DeleteUser(ctx context.Context, id int64) (*domain.User, error)
}

// ProductRepository persists products.
type ProductRepository interface {
	CreateProduct(ctx context.Context, name string, price float64) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, name *string, price *float64) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) (*domain.Product, error)
}

// HealthChecker probes store connectivity.
type HealthChecker interface {
	Health(ctx context.Context) error
}
