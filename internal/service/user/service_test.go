package user

import (
	"context"
	"errors"
	"io"
	"testing"

	"log/slog"

	"github.com/oscarper3z/MULTI-APIS/internal/domain"
	"github.com/oscarper3z/MULTI-APIS/internal/repository"
)

type stubUserRepository struct {
	users  map[int64]domain.User
	nextID int64
	err    error
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{users: make(map[int64]domain.User)}
}

func (s *stubUserRepository) CreateUser(ctx context.Context, name, email string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.nextID++
	u := domain.User{ID: s.nextID, Name: name, Email: email}
	s.users[u.ID] = u
	return &u, nil
}

func (s *stubUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]domain.User, 0, len(s.users))
	for id := int64(1); id <= s.nextID; id++ {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubUserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *stubUserRepository) UpdateUser(ctx context.Context, id int64, name, email *string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if name != nil {
		u.Name = *name
	}
	if email != nil {
		u.Email = *email
	}
	s.users[id] = u
	return &u, nil
}

func (s *stubUserRepository) DeleteUser(ctx context.Context, id int64) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.users, id)
	return &u, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCreateRequiresNameAndEmail(t *testing.T) {
	svc := New(newStubUserRepository(), testLogger())

	cases := []CreateInput{
		{},
		{Name: "Ada"},
		{Email: "ada@example.com"},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrMissingFields) {
			t.Fatalf("Create(%+v): expected ErrMissingFields, got %v", in, err)
		}
	}
}

func TestCreateReturnsStoredUser(t *testing.T) {
	svc := New(newStubUserRepository(), testLogger())

	u, err := svc.Create(context.Background(), CreateInput{Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if u.ID != 1 || u.Name != "Ada" || u.Email != "ada@example.com" {
		t.Fatalf("unexpected created user: %+v", u)
	}
}

func TestCreateAssignsDistinctIDs(t *testing.T) {
	svc := New(newStubUserRepository(), testLogger())

	first, err := svc.Create(context.Background(), CreateInput{Name: "A", Email: "a@example.com"})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	second, err := svc.Create(context.Background(), CreateInput{Name: "B", Email: "b@example.com"})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("ids must not repeat, both got %d", first.ID)
	}
}

func TestUpdateRequiresAtLeastOneField(t *testing.T) {
	svc := New(newStubUserRepository(), testLogger())

	if _, err := svc.Update(context.Background(), 1, UpdateInput{}); !errors.Is(err, ErrNothingToUpdate) {
		t.Fatalf("expected ErrNothingToUpdate, got %v", err)
	}
}

func TestUpdateCoalescesOmittedFields(t *testing.T) {
	repo := newStubUserRepository()
	svc := New(repo, testLogger())

	created, err := svc.Create(context.Background(), CreateInput{Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	name := "Grace"
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Name: &name})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "Grace" {
		t.Fatalf("name not updated: %+v", updated)
	}
	if updated.Email != "ada@example.com" {
		t.Fatalf("email should be untouched, got %q", updated.Email)
	}
}

func TestUpdatePropagatesNotFound(t *testing.T) {
	svc := New(newStubUserRepository(), testLogger())

	name := "Grace"
	if _, err := svc.Update(context.Background(), 99, UpdateInput{Name: &name}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteReturnsRowThenNotFound(t *testing.T) {
	repo := newStubUserRepository()
	svc := New(repo, testLogger())

	created, err := svc.Create(context.Background(), CreateInput{Name: "Ada", Email: "ada@example.com"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	deleted, err := svc.Delete(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if deleted.ID != created.ID || deleted.Name != "Ada" {
		t.Fatalf("deleted row mismatch: %+v", deleted)
	}
	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
