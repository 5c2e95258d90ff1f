package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/store"
)

// MockBoardStore implements store.BoardStore on a MemoryDB.
type MockBoardStore struct {
	db *MemoryDB
}

var _ store.BoardStore = (*MockBoardStore)(nil)

// Create implements store.BoardStore.
func (m *MockBoardStore) Create(ctx context.Context, board *domain.Board) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("BoardStore.Create"); err != nil {
		return err
	}
	if err := board.Validate(); err != nil {
		return err
	}
	if m.db.userLocked(board.OwnerID) == nil {
		return store.NewStoreError("board", "create", "board owner does not exist", store.ErrUserNotFound)
	}
	c := *board
	m.db.boards = append(m.db.boards, &c)
	return nil
}

// GetByID implements store.BoardStore.
func (m *MockBoardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if _, b := m.db.boardLocked(id); b != nil {
		c := *b
		return &c, nil
	}
	return nil, store.ErrBoardNotFound
}

// Update implements store.BoardStore.
func (m *MockBoardStore) Update(ctx context.Context, board *domain.Board) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("BoardStore.Update"); err != nil {
		return err
	}
	if err := board.Validate(); err != nil {
		return err
	}
	i, _ := m.db.boardLocked(board.ID)
	if i < 0 {
		return store.ErrBoardNotFound
	}
	c := *board
	m.db.boards[i] = &c
	return nil
}

// Delete implements store.BoardStore.
func (m *MockBoardStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("BoardStore.Delete"); err != nil {
		return err
	}
	if i, _ := m.db.boardLocked(id); i < 0 {
		return store.ErrBoardNotFound
	}
	m.db.deleteBoardLocked(id)
	return nil
}

// SetMembers implements store.BoardStore.
func (m *MockBoardStore) SetMembers(ctx context.Context, boardID uuid.UUID, userIDs []uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("BoardStore.SetMembers"); err != nil {
		return err
	}
	if i, _ := m.db.boardLocked(boardID); i < 0 {
		return store.NewStoreError("board", "set_members", "board does not exist", store.ErrBoardNotFound)
	}
	members := make([]uuid.UUID, 0, len(userIDs))
	for _, id := range domain.DedupeIDs(userIDs) {
		if m.db.userLocked(id) != nil {
			members = append(members, id)
		}
	}
	m.db.members[boardID] = members
	return nil
}

// IsMember implements store.BoardStore.
func (m *MockBoardStore) IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("BoardStore.IsMember"); err != nil {
		return false, err
	}
	_, b := m.db.boardLocked(boardID)
	return b != nil && m.db.hasAccessLocked(b, userID), nil
}

// ListMembers implements store.BoardStore.
func (m *MockBoardStore) ListMembers(ctx context.Context, boardID uuid.UUID) ([]domain.UserSummary, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	members := []domain.UserSummary{}
	for _, id := range m.db.members[boardID] {
		if u := m.db.userLocked(id); u != nil {
			members = append(members, u.Summary())
		}
	}
	return members, nil
}

// GetSummary implements store.BoardStore.
func (m *MockBoardStore) GetSummary(ctx context.Context, id uuid.UUID) (*domain.BoardSummary, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	_, b := m.db.boardLocked(id)
	if b == nil {
		return nil, store.ErrBoardNotFound
	}
	return m.summaryOf(b), nil
}

// ListSummariesForUser implements store.BoardStore.
func (m *MockBoardStore) ListSummariesForUser(ctx context.Context, userID uuid.UUID) ([]*domain.BoardSummary, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.failure("BoardStore.ListSummariesForUser"); err != nil {
		return nil, err
	}
	summaries := []*domain.BoardSummary{}
	for _, b := range m.db.boards {
		if m.db.hasAccessLocked(b, userID) {
			summaries = append(summaries, m.summaryOf(b))
		}
	}
	return summaries, nil
}

// WithTx implements store.BoardStore. The mock ignores tx.
func (m *MockBoardStore) WithTx(tx *sql.Tx) store.BoardStore {
	return m
}

func (m *MockBoardStore) summaryOf(b *domain.Board) *domain.BoardSummary {
	s := &domain.BoardSummary{
		ID:          b.ID,
		Title:       b.Title,
		OwnerID:     b.OwnerID,
		MemberCount: len(m.db.members[b.ID]),
	}
	for _, t := range m.db.tasks {
		if t.BoardID != b.ID {
			continue
		}
		s.TicketCount++
		if t.Status == domain.TaskStatusToDo {
			s.TasksToDoCount++
		}
		if t.Priority == domain.TaskPriorityHigh {
			s.TasksHighPrioCount++
		}
	}
	return s
}
