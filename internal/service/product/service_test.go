package product

import (
	"context"
	"errors"
	"io"
	"testing"

	"log/slog"

	"github.com/oscarper3z/MULTI-APIS/internal/domain"
	"github.com/oscarper3z/MULTI-APIS/internal/repository"
)

type stubProductRepository struct {
	products map[int64]domain.Product
	nextID   int64
	err      error
}

func newStubProductRepository() *stubProductRepository {
	return &stubProductRepository{products: make(map[int64]domain.Product)}
}

func (s *stubProductRepository) CreateProduct(ctx context.Context, name string, price float64) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.nextID++
	p := domain.Product{ID: s.nextID, Name: name, Price: price}
	s.products[p.ID] = p
	return &p, nil
}

func (s *stubProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.Product, 0, len(s.products))
	for id := int64(1); id <= s.nextID; id++ {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProductRepository) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *stubProductRepository) UpdateProduct(ctx context.Context, id int64, name *string, price *float64) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if name != nil {
		p.Name = *name
	}
	if price != nil {
		p.Price = *price
	}
	s.products[id] = p
	return &p, nil
}

func (s *stubProductRepository) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.products, id)
	return &p, nil
}

type stubUsersCounter struct {
	count int
	err   error
}

func (s stubUsersCounter) CountUsers(ctx context.Context) (int, error) {
	return s.count, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateRequiresNameAndPrice(t *testing.T) {
	svc := New(newStubProductRepository(), stubUsersCounter{}, testLogger())

	cases := []CreateInput{
		{},
		{Name: "Widget"},
		{Price: 9.99},
		{Name: "Widget", Price: 0},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("Create(%+v): expected ErrMissingFields, got %v", in, err)
		}
	}
}

func TestCreateKeepsDecimalPrice(t *testing.T) {
	svc := New(newStubProductRepository(), stubUsersCounter{}, testLogger())

	p, err := svc.Create(context.Background(), CreateInput{Name: "Widget", Price: 19.99})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.Price != 19.99 {
		t.Fatalf("price mangled: %v", p.Price)
	}
}

func TestUpdateCoalescesOmittedFields(t *testing.T) {
	repo := newStubProductRepository()
	svc := New(repo, stubUsersCounter{}, testLogger())

	created, err := svc.Create(context.Background(), CreateInput{Name: "Widget", Price: 9.99})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	price := 12.50
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Price: &price})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Widget" {
		t.Fatalf("name should be untouched, got %q", updated.Name)
	}
	if updated.Price != 12.50 {
		t.Fatalf("price not updated: %v", updated.Price)
	}
}

func TestUpdateRequiresAtLeastOneField(t *testing.T) {
	svc := New(newStubProductRepository(), stubUsersCounter{}, testLogger())

	if _, err := svc.Update(context.Background(), 1, UpdateInput{}); !errors.Is(err, ErrNothingToUpdate) {
		t.Fatalf("expected ErrNothingToUpdate, got %v", err)
	}
}

func TestListWithUsersReturnsProductsAndCount(t *testing.T) {
	repo := newStubProductRepository()
	svc := New(repo, stubUsersCounter{count: 3}, testLogger())

	if _, err := svc.Create(context.Background(), CreateInput{Name: "Widget", Price: 9.99}); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	products, count, err := svc.ListWithUsers(context.Background())
	if err != nil {
		t.Fatalf("ListWithUsers returned error: %v", err)
	}
	if len(products) != 1 || count != 3 {
		t.Fatalf("unexpected result: %d products, %d users", len(products), count)
	}
}

func TestListWithUsersWrapsUpstreamFailure(t *testing.T) {
	repo := newStubProductRepository()
	cause := errors.New("connection refused")
	svc := New(repo, stubUsersCounter{err: cause}, testLogger())

	_, _, err := svc.ListWithUsers(context.Background())
	var unavailable *UsersUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected UsersUnavailableError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("wrapped error should expose the cause, got %v", err)
	}
}

func TestListWithUsersPropagatesStoreError(t *testing.T) {
	repo := newStubProductRepository()
	repo.err = errors.New("db down")
	svc := New(repo, stubUsersCounter{count: 3}, testLogger())

	_, _, err := svc.ListWithUsers(context.Background())
	var unavailable *UsersUnavailableError
	if errors.As(err, &unavailable) {
		t.Fatalf("store failure must not masquerade as upstream failure: %v", err)
	}
	if err == nil {
		t.Fatal("expected an error")
	}
}
