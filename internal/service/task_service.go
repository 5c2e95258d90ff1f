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

// CreateTaskParams is the input of TaskService.Create.
type CreateTaskParams struct {
	BoardID     uuid.UUID
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	AssigneeID  *uuid.UUID
	ReviewerID  *uuid.UUID
	DueDate     *domain.Date
}

// TaskService manages tasks on boards.
type TaskService interface {
	// ListForUser returns the tasks selected by scope for the user.
	ListForUser(ctx context.Context, userID uuid.UUID, scope domain.TaskScope) ([]*domain.TaskView, error)

	// Get returns a task on a board the user belongs to.
	Get(ctx context.Context, userID, taskID uuid.UUID) (*domain.TaskView, error)

	// Create adds a task to a board the user belongs to.
	Create(ctx context.Context, userID uuid.UUID, params CreateTaskParams) (*domain.TaskView, error)

	// Update applies the fields present in patch.
	Update(ctx context.Context, userID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.TaskView, error)

	// Delete removes a task and its comments. Only the task's creator and
	// the board owner may delete it.
	Delete(ctx context.Context, userID, taskID uuid.UUID) error
}

type taskServiceImpl struct {
	tasks  store.TaskStore
	boards store.BoardStore
	users  store.UserStore
	tx     store.TxRunner
	logger *slog.Logger
}

// NewTaskService creates a TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	boards store.BoardStore,
	users store.UserStore,
	tx store.TxRunner,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil || boards == nil || users == nil || tx == nil {
		return nil, domain.NewValidationError("stores", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		tasks:  tasks,
		boards: boards,
		users:  users,
		tx:     tx,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

// ListForUser implements TaskService.ListForUser
func (s *taskServiceImpl) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	scope domain.TaskScope,
) ([]*domain.TaskView, error) {
	if !scope.Valid() {
		return nil, domain.NewValidationError("scope", "is not a valid task scope", domain.ErrValidation)
	}
	views, err := s.tasks.ListViews(ctx, domain.FilterForScope(userID, scope))
	if err != nil {
		return nil, logAndWrap(logger.FromContextOrDefault(ctx, s.logger), "task", "list", err,
			slog.String("user_id", userID.String()),
			slog.String("scope", string(scope)))
	}
	return views, nil
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(ctx context.Context, userID, taskID uuid.UUID) (*domain.TaskView, error) {
	if _, err := accessibleTask(ctx, s.tasks, s.boards, taskID, userID); err != nil {
		return nil, s.fail(ctx, "get", err, taskID)
	}
	view, err := s.tasks.GetView(ctx, taskID)
	if err != nil {
		return nil, s.fail(ctx, "get", mapNotFound(err, store.ErrTaskNotFound, ErrTaskNotFound), taskID)
	}
	return view, nil
}

// Create implements TaskService.Create
// The board is checked before the task fields, so a missing board is
// NotFound and a foreign board is Forbidden whatever the payload.
func (s *taskServiceImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	params CreateTaskParams,
) (*domain.TaskView, error) {
	if params.BoardID == uuid.Nil {
		return nil, domain.NewValidationError("board", "This field is required.", domain.ErrEmptyTaskBoardID)
	}

	var view *domain.TaskView
	var taskID uuid.UUID
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		boards := s.boards.WithTx(tx)
		tasks := s.tasks.WithTx(tx)

		if _, err := memberBoard(ctx, boards, params.BoardID, userID); err != nil {
			return err
		}

		task, err := domain.NewTask(
			params.BoardID, userID,
			params.Title, params.Description,
			params.Status, params.Priority,
		)
		if err != nil {
			return err
		}
		task.DueDate = params.DueDate
		taskID = task.ID

		users := s.users.WithTx(tx)
		if task.AssigneeID, err = resolveUser(ctx, users, params.AssigneeID); err != nil {
			return err
		}
		if task.ReviewerID, err = resolveUser(ctx, users, params.ReviewerID); err != nil {
			return err
		}

		if err := tasks.Create(ctx, task); err != nil {
			return err
		}
		view, err = tasks.GetView(ctx, task.ID)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "create", err, taskID,
			slog.String("board_id", params.BoardID.String()))
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task created",
		slog.String("task_id", taskID.String()),
		slog.String("board_id", params.BoardID.String()))
	return view, nil
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(
	ctx context.Context,
	userID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.TaskView, error) {
	var view *domain.TaskView
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		task, err := accessibleTask(ctx, tasks, s.boards.WithTx(tx), taskID, userID)
		if err != nil {
			return err
		}
		if err := task.Apply(patch); err != nil {
			return err
		}

		users := s.users.WithTx(tx)
		if patch.AssigneeID.Set {
			if task.AssigneeID, err = resolveUser(ctx, users, patch.AssigneeID.Value); err != nil {
				return err
			}
		}
		if patch.ReviewerID.Set {
			if task.ReviewerID, err = resolveUser(ctx, users, patch.ReviewerID.Value); err != nil {
				return err
			}
		}

		if err := tasks.Update(ctx, task); err != nil {
			return mapNotFound(err, store.ErrTaskNotFound, ErrTaskNotFound)
		}
		view, err = tasks.GetView(ctx, task.ID)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "update", err, taskID)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task updated",
		slog.String("task_id", taskID.String()))
	return view, nil
}

// Delete implements TaskService.Delete
func (s *taskServiceImpl) Delete(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := accessibleTask(ctx, s.tasks, s.boards, taskID, userID)
	if err != nil {
		return s.fail(ctx, "delete", err, taskID)
	}
	board, err := s.boards.GetByID(ctx, task.BoardID)
	if err != nil {
		return s.fail(ctx, "delete", err, taskID)
	}
	if !CanDeleteTask(task, board, userID) {
		return s.fail(ctx, "delete", ErrNotTaskCreatorOrOwner, taskID)
	}
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return s.fail(ctx, "delete", mapNotFound(err, store.ErrTaskNotFound, ErrTaskNotFound), taskID)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		slog.String("task_id", taskID.String()))
	return nil
}

func (s *taskServiceImpl) fail(ctx context.Context, op string, err error, taskID uuid.UUID, attrs ...any) error {
	attrs = append([]any{slog.String("task_id", taskID.String())}, attrs...)
	return logAndWrap(logger.FromContextOrDefault(ctx, s.logger), "task", op, err, attrs...)
}

// resolveUser returns id when it belongs to a registered user and nil
// otherwise, so references to unknown users are stored as NULL.
func resolveUser(ctx context.Context, users store.UserStore, id *uuid.UUID) (*uuid.UUID, error) {
	if id == nil || *id == uuid.Nil {
		return nil, nil
	}
	existing, err := users.ExistingIDs(ctx, []uuid.UUID{*id})
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, nil
	}
	resolved := existing[0]
	return &resolved, nil
}
