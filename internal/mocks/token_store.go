package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/store"
)

// MockTokenStore implements store.TokenStore on a MemoryDB.
type MockTokenStore struct {
	db *MemoryDB
}

var _ store.TokenStore = (*MockTokenStore)(nil)

// GetOrCreate implements store.TokenStore.
func (m *MockTokenStore) GetOrCreate(ctx context.Context, token *domain.AuthToken) (*domain.AuthToken, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("TokenStore.GetOrCreate"); err != nil {
		return nil, err
	}
	if err := token.Validate(); err != nil {
		return nil, err
	}
	if m.db.userLocked(token.UserID) == nil {
		return nil, store.NewStoreError("auth token", "create", "token owner does not exist", store.ErrUserNotFound)
	}
	for _, t := range m.db.tokens {
		if t.UserID == token.UserID {
			c := *t
			return &c, nil
		}
	}
	c := *token
	m.db.tokens = append(m.db.tokens, &c)
	out := c
	return &out, nil
}

// GetByUserID implements store.TokenStore.
func (m *MockTokenStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.AuthToken, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for _, t := range m.db.tokens {
		if t.UserID == userID {
			c := *t
			return &c, nil
		}
	}
	return nil, store.ErrTokenNotFound
}

// GetByKey implements store.TokenStore.
func (m *MockTokenStore) GetByKey(ctx context.Context, key string) (*domain.AuthToken, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("TokenStore.GetByKey"); err != nil {
		return nil, err
	}
	for _, t := range m.db.tokens {
		if t.Key == key {
			c := *t
			return &c, nil
		}
	}
	return nil, store.ErrTokenNotFound
}

// WithTx implements store.TokenStore. The mock ignores tx.
func (m *MockTokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return m
}
