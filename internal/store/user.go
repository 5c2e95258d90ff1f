package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The caller must have set HashedPassword.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their normalized email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// ExistingIDs returns the subset of ids that belong to registered users,
	// in the order given.
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}

// TokenStore persists the single auth token each user holds.
type TokenStore interface {
	// GetOrCreate stores token unless the user already has one, and returns
	// whichever token is persisted afterwards.
	GetOrCreate(ctx context.Context, token *domain.AuthToken) (*domain.AuthToken, error)

	// GetByUserID returns the user's token or ErrTokenNotFound.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.AuthToken, error)

	// GetByKey returns the token with the given key or ErrTokenNotFound.
	GetByKey(ctx context.Context, key string) (*domain.AuthToken, error)

	// WithTx returns a new TokenStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TokenStore
}
