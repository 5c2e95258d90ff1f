package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/platform/logger"
	"github.com/phrazzld/kanban-api/internal/store"
)

// PostgresTokenStore implements store.TokenStore.
type PostgresTokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTokenStore creates a token store on db.
func NewPostgresTokenStore(db store.DBTX, logger *slog.Logger) *PostgresTokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &PostgresTokenStore{
		db:     db,
		logger: componentLogger(logger, "token_store"),
	}
}

var _ store.TokenStore = (*PostgresTokenStore)(nil)

// WithTx implements store.TokenStore.WithTx
func (s *PostgresTokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return &PostgresTokenStore{db: tx, logger: s.logger}
}

// GetOrCreate implements store.TokenStore.GetOrCreate
// The insert is a no-op when the user already holds a token, so concurrent
// logins converge on one row.
func (s *PostgresTokenStore) GetOrCreate(ctx context.Context, token *domain.AuthToken) (*domain.AuthToken, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := token.Validate(); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO auth_tokens (key, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`, token.Key, token.UserID, token.CreatedAt)
	if err != nil {
		log.Error("failed to insert auth token",
			slog.String("error", err.Error()),
			slog.String("user_id", token.UserID.String()))
		return nil, MapError(err, store.ErrTokenNotFound)
	}

	return s.GetByUserID(ctx, token.UserID)
}

// GetByUserID implements store.TokenStore.GetByUserID
func (s *PostgresTokenStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.AuthToken, error) {
	return s.getOne(ctx, `SELECT key, user_id, created_at FROM auth_tokens WHERE user_id = $1`, userID)
}

// GetByKey implements store.TokenStore.GetByKey
func (s *PostgresTokenStore) GetByKey(ctx context.Context, key string) (*domain.AuthToken, error) {
	return s.getOne(ctx, `SELECT key, user_id, created_at FROM auth_tokens WHERE key = $1`, key)
}

func (s *PostgresTokenStore) getOne(ctx context.Context, query string, arg any) (*domain.AuthToken, error) {
	var token domain.AuthToken
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&token.Key, &token.UserID, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTokenNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get auth token",
			slog.String("error", err.Error()))
		return nil, MapError(err, store.ErrTokenNotFound)
	}
	return &token, nil
}
