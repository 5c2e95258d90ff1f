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

// PostgresCommentStore implements store.CommentStore.
type PostgresCommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCommentStore creates a comment store on db.
func NewPostgresCommentStore(db store.DBTX, logger *slog.Logger) *PostgresCommentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &PostgresCommentStore{
		db:     db,
		logger: componentLogger(logger, "comment_store"),
	}
}

var _ store.CommentStore = (*PostgresCommentStore)(nil)

// WithTx implements store.CommentStore.WithTx
func (s *PostgresCommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return &PostgresCommentStore{db: tx, logger: s.logger}
}

const selectCommentView = `
	SELECT c.id, c.created_at, u.fullname, c.content
	FROM comments c
	JOIN users u ON u.id = c.author_id
`

// Create implements store.CommentStore.Create
func (s *PostgresCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, task_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, comment.ID, comment.TaskID, comment.AuthorID, comment.Content, comment.CreatedAt)
	if err != nil {
		log.Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.String("task_id", comment.TaskID.String()))
		return MapError(err, store.ErrCommentNotFound)
	}

	log.Info("comment created successfully",
		slog.String("comment_id", comment.ID.String()),
		slog.String("task_id", comment.TaskID.String()))
	return nil
}

// GetByID implements store.CommentStore.GetByID
func (s *PostgresCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	var c domain.Comment
	err := s.db.QueryRowContext(ctx, `
		SELECT id, task_id, author_id, content, created_at FROM comments WHERE id = $1
	`, id).Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCommentNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", id.String()))
		return nil, MapError(err, store.ErrCommentNotFound)
	}
	return &c, nil
}

// Delete implements store.CommentStore.Delete
func (s *PostgresCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", id.String()))
		return MapError(err, store.ErrCommentNotFound)
	}
	if err := CheckRowsAffected(result, store.ErrCommentNotFound); err != nil {
		return err
	}

	log.Info("comment deleted successfully", slog.String("comment_id", id.String()))
	return nil
}

// GetView implements store.CommentStore.GetView
func (s *PostgresCommentStore) GetView(ctx context.Context, id uuid.UUID) (*domain.CommentView, error) {
	var v domain.CommentView
	err := s.db.QueryRowContext(ctx, selectCommentView+` WHERE c.id = $1`, id).
		Scan(&v.ID, &v.CreatedAt, &v.Author, &v.Content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCommentNotFound
		}
		return nil, MapError(err, store.ErrCommentNotFound)
	}
	return &v, nil
}

// ListViewsByTask implements store.CommentStore.ListViewsByTask
func (s *PostgresCommentStore) ListViewsByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.CommentView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		selectCommentView+` WHERE c.task_id = $1 ORDER BY c.created_at, c.id`,
		taskID,
	)
	if err != nil {
		log.Error("failed to list comments",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, MapError(err, nil)
	}
	defer closeRows(rows, log)

	views := []*domain.CommentView{}
	for rows.Next() {
		var v domain.CommentView
		if err := rows.Scan(&v.ID, &v.CreatedAt, &v.Author, &v.Content); err != nil {
			return nil, err
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}
