package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
)

// CommentStore defines the interface for comment persistence.
type CommentStore interface {
	// Create saves a new comment.
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves a comment or returns ErrCommentNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)

	// Delete removes a comment. Returns ErrCommentNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetView returns the read model of a comment or ErrCommentNotFound.
	GetView(ctx context.Context, id uuid.UUID) (*domain.CommentView, error)

	// ListViewsByTask returns the comments of a task in ascending creation order.
	ListViewsByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.CommentView, error)

	// WithTx returns a new CommentStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CommentStore
}
