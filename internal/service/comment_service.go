package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/platform/logger"
	"github.com/phrazzld/kanban-api/internal/store"
)

// CommentService manages the comments of a task.
type CommentService interface {
	// List returns the task's comments, oldest first.
	List(ctx context.Context, userID, taskID uuid.UUID) ([]*domain.CommentView, error)

	// Create adds a comment by the user to the task.
	Create(ctx context.Context, userID, taskID uuid.UUID, content string) (*domain.CommentView, error)

	// Delete removes a comment. Only its author may delete it.
	Delete(ctx context.Context, userID, taskID, commentID uuid.UUID) error
}

type commentServiceImpl struct {
	comments store.CommentStore
	tasks    store.TaskStore
	boards   store.BoardStore
	tx       store.TxRunner
	logger   *slog.Logger
}

// NewCommentService creates a CommentService.
// It returns an error if any of the required dependencies are nil.
func NewCommentService(
	comments store.CommentStore,
	tasks store.TaskStore,
	boards store.BoardStore,
	tx store.TxRunner,
	logger *slog.Logger,
) (CommentService, error) {
	if comments == nil || tasks == nil || boards == nil || tx == nil {
		return nil, domain.NewValidationError("stores", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &commentServiceImpl{
		comments: comments,
		tasks:    tasks,
		boards:   boards,
		tx:       tx,
		logger:   logger.With(slog.String("component", "comment_service")),
	}, nil
}

// List implements CommentService.List
func (s *commentServiceImpl) List(ctx context.Context, userID, taskID uuid.UUID) ([]*domain.CommentView, error) {
	if _, err := accessibleTask(ctx, s.tasks, s.boards, taskID, userID); err != nil {
		return nil, s.fail(ctx, "list", err, taskID)
	}
	views, err := s.comments.ListViewsByTask(ctx, taskID)
	if err != nil {
		return nil, s.fail(ctx, "list", err, taskID)
	}
	return views, nil
}

// Create implements CommentService.Create
func (s *commentServiceImpl) Create(
	ctx context.Context,
	userID, taskID uuid.UUID,
	content string,
) (*domain.CommentView, error) {
	var view *domain.CommentView
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := accessibleTask(ctx, s.tasks.WithTx(tx), s.boards.WithTx(tx), taskID, userID); err != nil {
			return err
		}

		comment, err := domain.NewComment(taskID, userID, content)
		if err != nil {
			return err
		}
		comments := s.comments.WithTx(tx)
		if err := comments.Create(ctx, comment); err != nil {
			return err
		}
		view, err = comments.GetView(ctx, comment.ID)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "create", err, taskID)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("comment created",
		slog.String("task_id", taskID.String()),
		slog.String("comment_id", view.ID.String()))
	return view, nil
}

// Delete implements CommentService.Delete
// A comment that belongs to another task is reported as not found.
func (s *commentServiceImpl) Delete(ctx context.Context, userID, taskID, commentID uuid.UUID) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return s.fail(ctx, "delete", mapNotFound(err, store.ErrCommentNotFound, ErrCommentNotFound), taskID)
	}
	if comment.TaskID != taskID {
		return s.fail(ctx, "delete", ErrCommentNotFound, taskID)
	}
	if !CommentAuthor(comment, userID) {
		return s.fail(ctx, "delete", ErrNotCommentAuthor, taskID)
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return s.fail(ctx, "delete", mapNotFound(err, store.ErrCommentNotFound, ErrCommentNotFound), taskID)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("comment deleted",
		slog.String("task_id", taskID.String()),
		slog.String("comment_id", commentID.String()))
	return nil
}

func (s *commentServiceImpl) fail(ctx context.Context, op string, err error, taskID uuid.UUID) error {
	return logAndWrap(logger.FromContextOrDefault(ctx, s.logger), "comment", op, err,
		slog.String("task_id", taskID.String()))
}
