package product

import (
	"context"
	"errors"

	"log/slog"

	"github.com/oscarper3z/MULTI-APIS/internal/domain"
	"github.com/oscarper3z/MULTI-APIS/internal/repository"
)

// Validation errors surfaced verbatim to clients.
var (
	ErrMissingFields   = errors.New("name & price required")
	ErrNothingToUpdate = errors.New("nothing to update")
)

// UsersUnavailableError marks a failed call to the users service.
type UsersUnavailableError struct {
	Err error
}

func (e *UsersUnavailableError) Error() string {
	return "could not reach users service: " + e.Err.Error()
}

func (e *UsersUnavailableError) Unwrap() error { return e.Err }

// UsersCounter reports how many users the sibling service currently holds.
type UsersCounter interface {
	CountUsers(ctx context.Context) (int, error)
}

// CreateInput carries the fields required to create a product.
type CreateInput struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
}

// Service implements product CRUD plus the composed users lookup.
type Service struct {
	products repository.ProductRepository
	users    UsersCounter
	logger   *slog.Logger
}

// New returns a product service.
func New(products repository.ProductRepository, users UsersCounter, logger *slog.Logger) Service {
	return Service{products: products, users: users, logger: logger}
}

// Create validates input and inserts a product. A zero price counts as
// missing, same as an absent field.
func (s Service) Create(ctx context.Context, in CreateInput) (*domain.Product, error) {
	if in.Name == "" || in.Price == 0 {
		return nil, ErrMissingFields
	}
	p, err := s.products.CreateProduct(ctx, in.Name, in.Price)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product created", "product_id", p.ID)
	return p, nil
}

// List returns all products ordered by ascending id.
func (s Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListProducts(ctx)
}

// Get returns one product or repository.ErrNotFound.
func (s Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetProductByID(ctx, id)
}

// Update applies a partial update, keeping omitted fields at their stored value.
func (s Service) Update(ctx context.Context, id int64, in UpdateInput) (*domain.Product, error) {
	if in.Name == nil && in.Price == nil {
		return nil, ErrNothingToUpdate
	}
	p, err := s.products.UpdateProduct(ctx, id, in.Name, in.Price)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product updated", "product_id", p.ID)
	return p, nil
}

// Delete removes a product and returns the deleted row.
func (s Service) Delete(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.DeleteProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product deleted", "product_id", p.ID)
	return p, nil
}

// ListWithUsers reads the local product list and then asks the users service
// for its user count. A failed local read keeps its store error; any failure
// of the users call is wrapped so the handler can answer 502. The product
// list already fetched is discarded in that case.
func (s Service) ListWithUsers(ctx context.Context) ([]domain.Product, int, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.users.CountUsers(ctx)
	if err != nil {
		s.logger.Error("users service call failed", "error", err)
		return nil, 0, &UsersUnavailableError{Err: err}
	}
	return products, count, nil
}
