package mocks

import (
	"context"
	"database/sql"
	"slices"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/store"
)

// MockTaskStore implements store.TaskStore on a MemoryDB.
type MockTaskStore struct {
	db *MemoryDB
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("TaskStore.Create"); err != nil {
		return err
	}
	if err := m.checkReferences(task); err != nil {
		return err
	}
	m.db.tasks = append(m.db.tasks, cloneTask(task))
	return nil
}

// GetByID implements store.TaskStore.
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("TaskStore.GetByID"); err != nil {
		return nil, err
	}
	if _, t := m.db.taskLocked(id); t != nil {
		return cloneTask(t), nil
	}
	return nil, store.ErrTaskNotFound
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("TaskStore.Update"); err != nil {
		return err
	}
	i, _ := m.db.taskLocked(task.ID)
	if i < 0 {
		return store.ErrTaskNotFound
	}
	if err := m.checkReferences(task); err != nil {
		return err
	}
	m.db.tasks[i] = cloneTask(task)
	return nil
}

// Delete implements store.TaskStore.
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("TaskStore.Delete"); err != nil {
		return err
	}
	if i, _ := m.db.taskLocked(id); i < 0 {
		return store.ErrTaskNotFound
	}
	m.db.deleteTaskLocked(id)
	return nil
}

// GetView implements store.TaskStore.
func (m *MockTaskStore) GetView(ctx context.Context, id uuid.UUID) (*domain.TaskView, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	_, t := m.db.taskLocked(id)
	if t == nil {
		return nil, store.ErrTaskNotFound
	}
	return m.db.taskViewLocked(t), nil
}

// ListViews implements store.TaskStore.
func (m *MockTaskStore) ListViews(ctx context.Context, filter domain.TaskFilter) ([]*domain.TaskView, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("TaskStore.ListViews"); err != nil {
		return nil, err
	}
	if filter == (domain.TaskFilter{}) {
		return nil, store.NewStoreError("task", "list", "task filter is empty", store.ErrInvalidEntity)
	}

	views := []*domain.TaskView{}
	for _, t := range m.db.tasks {
		if m.matches(t, filter) {
			views = append(views, m.db.taskViewLocked(t))
		}
	}
	return views, nil
}

// WithTx implements store.TaskStore. The mock ignores tx.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}

func (m *MockTaskStore) matches(t *domain.Task, f domain.TaskFilter) bool {
	if f.BoardID != uuid.Nil && t.BoardID != f.BoardID {
		return false
	}
	if f.AssigneeID != uuid.Nil && (t.AssigneeID == nil || *t.AssigneeID != f.AssigneeID) {
		return false
	}
	if f.ReviewerID != uuid.Nil && (t.ReviewerID == nil || *t.ReviewerID != f.ReviewerID) {
		return false
	}
	if f.AccessibleTo != uuid.Nil {
		_, b := m.db.boardLocked(t.BoardID)
		if b == nil || !m.db.hasAccessLocked(b, f.AccessibleTo) {
			return false
		}
	}
	return true
}

// checkReferences enforces the task foreign keys and CHECK constraints.
func (m *MockTaskStore) checkReferences(task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	if i, _ := m.db.boardLocked(task.BoardID); i < 0 {
		return store.NewStoreError("task", "save", "board does not exist", store.ErrBoardNotFound)
	}
	refs := []*uuid.UUID{&task.CreatedBy, task.AssigneeID, task.ReviewerID}
	if slices.ContainsFunc(refs, func(id *uuid.UUID) bool {
		return id != nil && m.db.userLocked(*id) == nil
	}) {
		return store.NewStoreError("task", "save", "referenced user does not exist", store.ErrUserNotFound)
	}
	return nil
}
