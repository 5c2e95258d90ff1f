package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/store"
)

// BoardAccess reports whether userID owns or is a member of boardID.
func BoardAccess(ctx context.Context, boards store.BoardStore, boardID, userID uuid.UUID) (bool, error) {
	return boards.IsMember(ctx, boardID, userID)
}

// TaskBoardAccess reports whether userID has BoardAccess to the task's board.
func TaskBoardAccess(ctx context.Context, boards store.BoardStore, task *domain.Task, userID uuid.UUID) (bool, error) {
	return BoardAccess(ctx, boards, task.BoardID, userID)
}

// CommentAuthor reports whether userID wrote the comment.
func CommentAuthor(comment *domain.Comment, userID uuid.UUID) bool {
	return comment.IsAuthor(userID)
}

// CanDeleteBoard reports whether userID may delete the board. Only the owner may.
func CanDeleteBoard(board *domain.Board, userID uuid.UUID) bool {
	return board.IsOwner(userID)
}

// CanDeleteTask reports whether userID may delete a task on board: the task's
// creator and the board owner may.
func CanDeleteTask(task *domain.Task, board *domain.Board, userID uuid.UUID) bool {
	return task.CreatedBy == userID || board.IsOwner(userID)
}

// visibleBoard loads a board the user can see. Boards outside the user's
// scope are reported as ErrBoardNotFound, exactly like missing ones.
func visibleBoard(ctx context.Context, boards store.BoardStore, boardID, userID uuid.UUID) (*domain.Board, error) {
	ok, err := BoardAccess(ctx, boards, boardID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBoardNotFound
	}
	board, err := boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, mapNotFound(err, store.ErrBoardNotFound, ErrBoardNotFound)
	}
	return board, nil
}

// memberBoard loads a board the user must belong to: ErrBoardNotFound when
// it does not exist, ErrNotBoardMember when the user has no access.
func memberBoard(ctx context.Context, boards store.BoardStore, boardID, userID uuid.UUID) (*domain.Board, error) {
	board, err := boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, mapNotFound(err, store.ErrBoardNotFound, ErrBoardNotFound)
	}
	ok, err := BoardAccess(ctx, boards, boardID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotBoardMember
	}
	return board, nil
}

// accessibleTask loads a task whose board the user belongs to:
// ErrTaskNotFound when it does not exist, ErrNotBoardMember without access.
func accessibleTask(
	ctx context.Context,
	tasks store.TaskStore,
	boards store.BoardStore,
	taskID, userID uuid.UUID,
) (*domain.Task, error) {
	task, err := tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, mapNotFound(err, store.ErrTaskNotFound, ErrTaskNotFound)
	}
	ok, err := TaskBoardAccess(ctx, boards, task, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotBoardMember
	}
	return task, nil
}

// mapNotFound replaces the store's not-found sentinel with the service one.
func mapNotFound(err, storeErr, serviceErr error) error {
	if errors.Is(err, storeErr) {
		return serviceErr
	}
	return err
}

// isExpected reports whether err is a condition the caller reports to the
// client rather than an unexpected failure.
func isExpected(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrBoardNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrInvalidCredentials) ||
		store.IsNotFoundError(err) ||
		store.IsDuplicateError(err) ||
		errors.Is(err, store.ErrInvalidEntity)
}

// wrapUnexpected leaves expected errors untouched and wraps everything else
// in a ServiceError.
func wrapUnexpected(service, op string, err error) error {
	if err == nil || isExpected(err) {
		return err
	}
	return NewServiceError(service, op, err)
}
