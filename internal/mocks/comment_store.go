package mocks

import (
	"context"
	"database/sql"
	"slices"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/store"
)

// MockCommentStore implements store.CommentStore on a MemoryDB.
type MockCommentStore struct {
	db *MemoryDB
}

var _ store.CommentStore = (*MockCommentStore)(nil)

// Create implements store.CommentStore.
func (m *MockCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("CommentStore.Create"); err != nil {
		return err
	}
	if err := comment.Validate(); err != nil {
		return err
	}
	if i, _ := m.db.taskLocked(comment.TaskID); i < 0 {
		return store.NewStoreError("comment", "create", "task does not exist", store.ErrTaskNotFound)
	}
	if m.db.userLocked(comment.AuthorID) == nil {
		return store.NewStoreError("comment", "create", "author does not exist", store.ErrUserNotFound)
	}
	c := *comment
	m.db.comments = append(m.db.comments, &c)
	return nil
}

// GetByID implements store.CommentStore.
func (m *MockCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for _, c := range m.db.comments {
		if c.ID == id {
			out := *c
			return &out, nil
		}
	}
	return nil, store.ErrCommentNotFound
}

// Delete implements store.CommentStore.
func (m *MockCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("CommentStore.Delete"); err != nil {
		return err
	}
	before := len(m.db.comments)
	m.db.comments = slices.DeleteFunc(m.db.comments, func(c *domain.Comment) bool { return c.ID == id })
	if len(m.db.comments) == before {
		return store.ErrCommentNotFound
	}
	return nil
}

// GetView implements store.CommentStore.
func (m *MockCommentStore) GetView(ctx context.Context, id uuid.UUID) (*domain.CommentView, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for _, c := range m.db.comments {
		if c.ID == id {
			return m.viewOf(c), nil
		}
	}
	return nil, store.ErrCommentNotFound
}

// ListViewsByTask implements store.CommentStore.
func (m *MockCommentStore) ListViewsByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.CommentView, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("CommentStore.ListViewsByTask"); err != nil {
		return nil, err
	}
	views := []*domain.CommentView{}
	for _, c := range m.db.comments {
		if c.TaskID == taskID {
			views = append(views, m.viewOf(c))
		}
	}
	slices.SortStableFunc(views, func(a, b *domain.CommentView) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return views, nil
}

// WithTx implements store.CommentStore. The mock ignores tx.
func (m *MockCommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return m
}

func (m *MockCommentStore) viewOf(c *domain.Comment) *domain.CommentView {
	view := &domain.CommentView{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		Content:   c.Content,
	}
	if u := m.db.userLocked(c.AuthorID); u != nil {
		view.Author = u.Fullname
	}
	return view
}
