package mocks

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
)

// MemoryDB holds the rows shared by the in-memory stores.
// Rows are kept in insertion order, which doubles as creation order.
type MemoryDB struct {
	mu       sync.Mutex
	users    []*domain.User
	tokens   []*domain.AuthToken
	boards   []*domain.Board
	members  map[uuid.UUID][]uuid.UUID
	tasks    []*domain.Task
	comments []*domain.Comment
	failures map[string]error
}

// NewMemoryDB creates an empty MemoryDB.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		members:  make(map[uuid.UUID][]uuid.UUID),
		failures: make(map[string]error),
	}
}

// UserStore returns a store.UserStore backed by m.
func (m *MemoryDB) UserStore() *MockUserStore { return &MockUserStore{db: m} }

// TokenStore returns a store.TokenStore backed by m.
func (m *MemoryDB) TokenStore() *MockTokenStore { return &MockTokenStore{db: m} }

// BoardStore returns a store.BoardStore backed by m.
func (m *MemoryDB) BoardStore() *MockBoardStore { return &MockBoardStore{db: m} }

// TaskStore returns a store.TaskStore backed by m.
func (m *MemoryDB) TaskStore() *MockTaskStore { return &MockTaskStore{db: m} }

// CommentStore returns a store.CommentStore backed by m.
func (m *MemoryDB) CommentStore() *MockCommentStore { return &MockCommentStore{db: m} }

// TxRunner returns a store.TxRunner that rolls m back when a transaction fails.
func (m *MemoryDB) TxRunner() *MockTxRunner { return &MockTxRunner{db: m} }

// FailOn makes the next call to op return err. Operations are named
// "<Store>.<Method>", for example "TaskStore.Create".
func (m *MemoryDB) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = err
}

// failure consumes the error registered for op. Callers must hold m.mu.
func (m *MemoryDB) failure(op string) error {
	err, ok := m.failures[op]
	if !ok {
		return nil
	}
	delete(m.failures, op)
	return err
}

// UserCount returns the number of stored users.
func (m *MemoryDB) UserCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// TokenCount returns the number of stored tokens.
func (m *MemoryDB) TokenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens)
}

// BoardCount returns the number of stored boards.
func (m *MemoryDB) BoardCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.boards)
}

// TaskCount returns the number of stored tasks.
func (m *MemoryDB) TaskCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// CommentCount returns the number of stored comments.
func (m *MemoryDB) CommentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.comments)
}

// DeleteUser removes a user and applies the schema's foreign key rules:
// owned boards, created tasks, authored comments and the token cascade, while
// assignee and reviewer references are cleared.
func (m *MemoryDB) DeleteUser(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = slices.DeleteFunc(m.users, func(u *domain.User) bool { return u.ID == id })
	m.tokens = slices.DeleteFunc(m.tokens, func(t *domain.AuthToken) bool { return t.UserID == id })
	m.comments = slices.DeleteFunc(m.comments, func(c *domain.Comment) bool { return c.AuthorID == id })

	for boardID, ids := range m.members {
		m.members[boardID] = slices.DeleteFunc(slices.Clone(ids), func(u uuid.UUID) bool { return u == id })
	}
	for i, t := range m.tasks {
		if (t.AssigneeID != nil && *t.AssigneeID == id) || (t.ReviewerID != nil && *t.ReviewerID == id) {
			c := cloneTask(t)
			if c.AssigneeID != nil && *c.AssigneeID == id {
				c.AssigneeID = nil
			}
			if c.ReviewerID != nil && *c.ReviewerID == id {
				c.ReviewerID = nil
			}
			m.tasks[i] = c
		}
	}
	for _, t := range slices.Clone(m.tasks) {
		if t.CreatedBy == id {
			m.deleteTaskLocked(t.ID)
		}
	}
	for _, b := range slices.Clone(m.boards) {
		if b.OwnerID == id {
			m.deleteBoardLocked(b.ID)
		}
	}
}

type memorySnapshot struct {
	users    []*domain.User
	tokens   []*domain.AuthToken
	boards   []*domain.Board
	members  map[uuid.UUID][]uuid.UUID
	tasks    []*domain.Task
	comments []*domain.Comment
}

// snapshot copies the row slices. Stored rows are never mutated in place,
// so sharing the row pointers is safe.
func (m *MemoryDB) snapshot() memorySnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := make(map[uuid.UUID][]uuid.UUID, len(m.members))
	for k, v := range m.members {
		members[k] = slices.Clone(v)
	}
	return memorySnapshot{
		users:    slices.Clone(m.users),
		tokens:   slices.Clone(m.tokens),
		boards:   slices.Clone(m.boards),
		members:  members,
		tasks:    slices.Clone(m.tasks),
		comments: slices.Clone(m.comments),
	}
}

func (m *MemoryDB) restore(s memorySnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = s.users
	m.tokens = s.tokens
	m.boards = s.boards
	m.members = s.members
	m.tasks = s.tasks
	m.comments = s.comments
}

func (m *MemoryDB) userLocked(id uuid.UUID) *domain.User {
	for _, u := range m.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (m *MemoryDB) summaryLocked(id *uuid.UUID) *domain.UserSummary {
	if id == nil {
		return nil
	}
	u := m.userLocked(*id)
	if u == nil {
		return nil
	}
	s := u.Summary()
	return &s
}

func (m *MemoryDB) boardLocked(id uuid.UUID) (int, *domain.Board) {
	for i, b := range m.boards {
		if b.ID == id {
			return i, b
		}
	}
	return -1, nil
}

func (m *MemoryDB) taskLocked(id uuid.UUID) (int, *domain.Task) {
	for i, t := range m.tasks {
		if t.ID == id {
			return i, t
		}
	}
	return -1, nil
}

func (m *MemoryDB) hasAccessLocked(board *domain.Board, userID uuid.UUID) bool {
	return board.OwnerID == userID || slices.Contains(m.members[board.ID], userID)
}

func (m *MemoryDB) deleteBoardLocked(id uuid.UUID) {
	m.boards = slices.DeleteFunc(m.boards, func(b *domain.Board) bool { return b.ID == id })
	delete(m.members, id)
	for _, t := range slices.Clone(m.tasks) {
		if t.BoardID == id {
			m.deleteTaskLocked(t.ID)
		}
	}
}

func (m *MemoryDB) deleteTaskLocked(id uuid.UUID) {
	m.tasks = slices.DeleteFunc(m.tasks, func(t *domain.Task) bool { return t.ID == id })
	m.comments = slices.DeleteFunc(m.comments, func(c *domain.Comment) bool { return c.TaskID == id })
}

func (m *MemoryDB) commentCountLocked(taskID uuid.UUID) int {
	n := 0
	for _, c := range m.comments {
		if c.TaskID == taskID {
			n++
		}
	}
	return n
}

func (m *MemoryDB) taskViewLocked(t *domain.Task) *domain.TaskView {
	return cloneTask(t).View(
		m.summaryLocked(t.AssigneeID),
		m.summaryLocked(t.ReviewerID),
		m.commentCountLocked(t.ID),
	)
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.AssigneeID != nil {
		id := *t.AssigneeID
		c.AssigneeID = &id
	}
	if t.ReviewerID != nil {
		id := *t.ReviewerID
		c.ReviewerID = &id
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	return &c
}
