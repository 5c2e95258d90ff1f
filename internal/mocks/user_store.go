package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/store"
)

// MockUserStore implements store.UserStore on a MemoryDB.
type MockUserStore struct {
	db *MemoryDB

	// Function fields for customizable behavior
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements store.UserStore.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("UserStore.Create"); err != nil {
		return err
	}
	if user.HashedPassword == "" {
		return store.NewStoreError("user", "create", "user has no password hash", store.ErrInvalidEntity)
	}
	for _, u := range m.db.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.db.users = append(m.db.users, cloneUser(user))
	return nil
}

// GetByID implements store.UserStore.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("UserStore.GetByID"); err != nil {
		return nil, err
	}
	if u := m.db.userLocked(id); u != nil {
		return cloneUser(u), nil
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements store.UserStore.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("UserStore.GetByEmail"); err != nil {
		return nil, err
	}
	email = domain.NormalizeEmail(email)
	for _, u := range m.db.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// ExistingIDs implements store.UserStore.
func (m *MockUserStore) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("UserStore.ExistingIDs"); err != nil {
		return nil, err
	}
	existing := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if m.db.userLocked(id) != nil {
			existing = append(existing, id)
		}
	}
	return existing, nil
}

// WithTx implements store.UserStore. The mock ignores tx.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
