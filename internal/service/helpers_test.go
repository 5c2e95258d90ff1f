package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/mocks"
	"github.com/phrazzld/kanban-api/internal/platform/logger"
	"github.com/phrazzld/kanban-api/internal/service"
	"github.com/stretchr/testify/require"
)

// fixture wires every service to one in-memory database.
type fixture struct {
	db       *mocks.MemoryDB
	tx       *mocks.MockTxRunner
	hasher   *mocks.MockPasswordHasher
	signer   *mocks.MockTokenSigner
	auth     service.AuthService
	boards   service.BoardService
	tasks    service.TaskService
	comments service.CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log, _ := logger.GetTestLogger(t)
	db := mocks.NewMemoryDB()
	f := &fixture{
		db:     db,
		tx:     db.TxRunner(),
		hasher: &mocks.MockPasswordHasher{},
		signer: &mocks.MockTokenSigner{},
	}

	var err error
	f.auth, err = service.NewAuthService(db.UserStore(), db.TokenStore(), f.tx, f.hasher, f.signer, log)
	require.NoError(t, err)
	f.boards, err = service.NewBoardService(db.BoardStore(), db.TaskStore(), f.tx, log)
	require.NoError(t, err)
	f.tasks, err = service.NewTaskService(db.TaskStore(), db.BoardStore(), db.UserStore(), f.tx, log)
	require.NoError(t, err)
	f.comments, err = service.NewCommentService(db.CommentStore(), db.TaskStore(), db.BoardStore(), f.tx, log)
	require.NoError(t, err)
	return f
}

// user registers a user and returns its id.
func (f *fixture) user(t *testing.T, fullname string) uuid.UUID {
	t.Helper()
	email := strings.ToLower(strings.ReplaceAll(fullname, " ", ".")) + "@example.com"
	res, err := f.auth.Register(context.Background(), service.RegisterParams{
		Fullname:         fullname,
		Email:            email,
		Password:         "password123",
		RepeatedPassword: "password123",
	})
	require.NoError(t, err)
	return res.UserID
}

// board creates a board owned by owner with the given members.
func (f *fixture) board(t *testing.T, owner uuid.UUID, title string, members ...uuid.UUID) *domain.BoardSummary {
	t.Helper()
	b, err := f.boards.Create(context.Background(), owner, service.CreateBoardParams{
		Title:     title,
		MemberIDs: members,
	})
	require.NoError(t, err)
	return b
}

// task creates a to-do task on board.
func (f *fixture) task(t *testing.T, creator, board uuid.UUID, title string) *domain.TaskView {
	t.Helper()
	v, err := f.tasks.Create(context.Background(), creator, service.CreateTaskParams{
		BoardID:  board,
		Title:    title,
		Status:   domain.TaskStatusToDo,
		Priority: domain.TaskPriorityMedium,
	})
	require.NoError(t, err)
	return v
}

func ptr[T any](v T) *T {
	return &v
}
