package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/codeauth-server/internal/model"
)

// MemoryUserStore is an in-memory UserStore and Transactor with a unique
// index on email.
type MemoryUserStore struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]model.User
	byEmail map[string]uuid.UUID
	creates int
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		byID:    make(map[uuid.UUID]model.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

var (
	_ model.UserStore  = (*MemoryUserStore)(nil)
	_ model.Transactor = (*MemoryUserStore)(nil)
)

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[model.NormalizeEmail(email)]
	if !ok {
		return model.User{}, model.NewError(model.KindNotFound, "get user by email", model.ErrNotFound)
	}

	return s.byID[id], nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return model.User{}, model.NewError(model.KindNotFound, "get user by id", model.ErrNotFound)
	}

	return user, nil
}

func (s *MemoryUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = model.NormalizeEmail(user.Email)
	if _, taken := s.byEmail[user.Email]; taken {
		return model.User{}, model.NewError(model.KindConflict, "create user", model.ErrConflict)
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = model.RoleClient
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	s.byID[user.ID] = user
	s.byEmail[user.Email] = user.ID
	s.creates++

	return user, nil
}

// InTransaction runs fn directly; writes are applied immediately.
func (s *MemoryUserStore) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Put stores user as is, bypassing defaults.
func (s *MemoryUserStore) Put(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[user.ID] = user
	s.byEmail[user.Email] = user.ID
}

// Len returns the number of stored users.
func (s *MemoryUserStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.byID)
}

// Creates returns the number of successful Create calls.
func (s *MemoryUserStore) Creates() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.creates
}
