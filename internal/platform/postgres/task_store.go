package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/platform/logger"
	"github.com/phrazzld/kanban-api/internal/store"
)

// PostgresTaskStore implements store.TaskStore.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a task store on db.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &PostgresTaskStore{
		db:     db,
		logger: componentLogger(logger, "task_store"),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

const selectTaskView = `
	SELECT t.id, t.board_id, t.title, t.description, t.status, t.priority,
		a.id, a.email, a.fullname,
		r.id, r.email, r.fullname,
		t.due_date, t.created_by,
		(SELECT COUNT(*) FROM comments c WHERE c.task_id = t.id)
	FROM tasks t
	LEFT JOIN users a ON a.id = t.assignee_id
	LEFT JOIN users r ON r.id = t.reviewer_id
`

// Create implements store.TaskStore.Create
// Returns store.ErrInvalidEntity when the board or a referenced user does not exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, board_id, title, description, status, priority,
			assignee_id, reviewer_id, due_date, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		task.ID,
		task.BoardID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		nullUUID(task.AssigneeID),
		nullUUID(task.ReviewerID),
		nullDate(task.DueDate),
		task.CreatedBy,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("board_id", task.BoardID.String()))
		return MapError(err, store.ErrTaskNotFound)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("board_id", task.BoardID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var (
		task               domain.Task
		status, priority   string
		assignee, reviewer uuid.NullUUID
		dueDate            sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, board_id, title, description, status, priority,
			assignee_id, reviewer_id, due_date, created_by, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`, id).Scan(
		&task.ID,
		&task.BoardID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&assignee,
		&reviewer,
		&dueDate,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err, store.ErrTaskNotFound)
	}

	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	task.AssigneeID = uuidPtr(assignee)
	task.ReviewerID = uuidPtr(reviewer)
	task.DueDate = datePtr(dueDate)
	return &task, nil
}

// Update implements store.TaskStore.Update
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4,
			assignee_id = $5, reviewer_id = $6, due_date = $7, updated_at = $8
		WHERE id = $9
	`,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		nullUUID(task.AssigneeID),
		nullUUID(task.ReviewerID),
		nullDate(task.DueDate),
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err, store.ErrTaskNotFound)
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// Delete implements store.TaskStore.Delete
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err, store.ErrTaskNotFound)
	}
	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		return err
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return nil
}

// GetView implements store.TaskStore.GetView
func (s *PostgresTaskStore) GetView(ctx context.Context, id uuid.UUID) (*domain.TaskView, error) {
	view, err := scanTaskView(s.db.QueryRowContext(ctx, selectTaskView+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task view",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err, store.ErrTaskNotFound)
	}
	return view, nil
}

// ListViews implements store.TaskStore.ListViews
func (s *PostgresTaskStore) ListViews(ctx context.Context, filter domain.TaskFilter) ([]*domain.TaskView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args, err := taskFilterClause(filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		selectTaskView+` WHERE `+where+` ORDER BY t.created_at, t.id`,
		args...,
	)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, MapError(err, nil)
	}
	defer closeRows(rows, log)

	views := []*domain.TaskView{}
	for rows.Next() {
		view, err := scanTaskView(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("listed tasks", slog.Int("count", len(views)))
	return views, nil
}

// taskFilterClause builds the WHERE conditions for filter, joined with AND.
func taskFilterClause(filter domain.TaskFilter) (string, []any, error) {
	var (
		conds []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.BoardID != uuid.Nil {
		conds = append(conds, "t.board_id = "+next(filter.BoardID))
	}
	if filter.AccessibleTo != uuid.Nil {
		conds = append(conds, `EXISTS (SELECT 1 FROM boards b WHERE b.id = t.board_id AND `+
			boardAccessPredicate(next(filter.AccessibleTo))+`)`)
	}
	if filter.AssigneeID != uuid.Nil {
		conds = append(conds, "t.assignee_id = "+next(filter.AssigneeID))
	}
	if filter.ReviewerID != uuid.Nil {
		conds = append(conds, "t.reviewer_id = "+next(filter.ReviewerID))
	}

	if len(conds) == 0 {
		return "", nil, store.NewStoreError("task", "list", "task filter has no criteria", store.ErrInvalidEntity)
	}
	return strings.Join(conds, " AND "), args, nil
}

func scanTaskView(row rowScanner) (*domain.TaskView, error) {
	var (
		view               domain.TaskView
		status, priority   string
		assignee, reviewer nullableSummary
		dueDate            sql.NullTime
	)
	err := row.Scan(
		&view.ID,
		&view.BoardID,
		&view.Title,
		&view.Description,
		&status,
		&priority,
		&assignee.ID, &assignee.Email, &assignee.Fullname,
		&reviewer.ID, &reviewer.Email, &reviewer.Fullname,
		&dueDate,
		&view.CreatedBy,
		&view.CommentsCount,
	)
	if err != nil {
		return nil, err
	}
	view.Status = domain.TaskStatus(status)
	view.Priority = domain.TaskPriority(priority)
	view.Assignee = assignee.summary()
	view.Reviewer = reviewer.summary()
	view.DueDate = datePtr(dueDate)
	return &view, nil
}
