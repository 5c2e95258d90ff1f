package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestUserStore_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresUserStore(db, nil)
		user, err := domain.NewUser("Alice", "alice@example.com", "password123")
		require.NoError(t, err)
		user.HashedPassword = "hash"

		mock.ExpectExec("INSERT INTO users").
			WithArgs(user.ID, "Alice", "alice@example.com", "hash", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Create(context.Background(), user))
	})

	t.Run("duplicate email", func(t *testing.T) {
		db, mock := newMock(t)
		s := NewPostgresUserStore(db, nil)
		user := &domain.User{ID: uuid.New(), Fullname: "A", Email: "a@example.com", HashedPassword: "hash"}

		mock.ExpectExec("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		err := s.Create(context.Background(), user)
		assert.ErrorIs(t, err, store.ErrEmailExists)
	})

	t.Run("missing hash", func(t *testing.T) {
		db, _ := newMock(t)
		s := NewPostgresUserStore(db, nil)
		err := s.Create(context.Background(), &domain.User{ID: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrEmptyHashedPassword)
	})
}

func TestUserStore_Get(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("FROM users WHERE email = \\$1").
		WithArgs("bob@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "fullname", "email", "hashed_password", "created_at", "updated_at"}).
			AddRow(id.String(), "Bob", "bob@example.com", "hash", now, now))

	user, err := s.GetByEmail(context.Background(), "  Bob@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "Bob", user.Fullname)

	mock.ExpectQuery("FROM users WHERE id = \\$1").
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err = s.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserStore_ExistingIDs(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresUserStore(db, nil)
	a, b, missing := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT id FROM users WHERE id = ANY").
		WithArgs(uuidArray([]uuid.UUID{b, missing, a})).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(a.String()).AddRow(b.String()))

	ids, err := s.ExistingIDs(context.Background(), []uuid.UUID{b, missing, a})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b, a}, ids, "input order is preserved")

	ids, err = s.ExistingIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestTokenStore_GetOrCreate(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresTokenStore(db, nil)
	userID := uuid.New()
	token, err := domain.NewAuthToken(userID, "new-key")
	require.NoError(t, err)
	created := time.Now().UTC().Add(-time.Hour)

	mock.ExpectExec("INSERT INTO auth_tokens .* ON CONFLICT \\(user_id\\) DO NOTHING").
		WithArgs("new-key", userID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("FROM auth_tokens WHERE user_id = \\$1").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"key", "user_id", "created_at"}).
			AddRow("existing-key", userID.String(), created))

	got, err := s.GetOrCreate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "existing-key", got.Key, "an existing token wins")

	mock.ExpectQuery("FROM auth_tokens WHERE key = \\$1").
		WithArgs("unknown").
		WillReturnError(sql.ErrNoRows)
	_, err = s.GetByKey(context.Background(), "unknown")
	assert.ErrorIs(t, err, store.ErrTokenNotFound)
}

func TestBoardStore_SetMembers(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresBoardStore(db, nil)
	boardID, a, b := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectExec("DELETE FROM board_members WHERE board_id = \\$1").
		WithArgs(boardID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO board_members .* JOIN users u").
		WithArgs(boardID, uuidArray([]uuid.UUID{a, b})).
		WillReturnResult(sqlmock.NewResult(0, 2))

	assert.NoError(t, s.SetMembers(context.Background(), boardID, []uuid.UUID{a, b, a}))

	mock.ExpectExec("DELETE FROM board_members").
		WithArgs(boardID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	assert.NoError(t, s.SetMembers(context.Background(), boardID, nil), "empty membership skips the insert")
}

func TestBoardStore_ListSummariesForUser(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresBoardStore(db, nil)
	userID, boardID := uuid.New(), uuid.New()

	mock.ExpectQuery("FROM boards b WHERE \\(b.owner_id = \\$1 OR EXISTS").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "owner_id", "members", "tickets", "todo", "high"}).
			AddRow(boardID.String(), "Sprint 1", userID.String(), int64(1), int64(2), int64(1), int64(1)))

	boards, err := s.ListSummariesForUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, domain.BoardSummary{
		ID: boardID, Title: "Sprint 1", OwnerID: userID,
		MemberCount: 1, TicketCount: 2, TasksToDoCount: 1, TasksHighPrioCount: 1,
	}, *boards[0])
}

func TestBoardStore_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresBoardStore(db, nil)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM boards WHERE id = \\$1").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.Delete(context.Background(), id), store.ErrBoardNotFound)
}

func TestBoardStore_IsMember(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresBoardStore(db, nil)
	boardID, userID := uuid.New(), uuid.New()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(boardID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := s.IsMember(context.Background(), boardID, userID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTaskStore_CreateWithNullRelations(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresTaskStore(db, nil)
	task, err := domain.NewTask(uuid.New(), uuid.New(), "Fix bug", "", domain.TaskStatusToDo, domain.TaskPriorityHigh)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO tasks").
		WithArgs(task.ID, task.BoardID, "Fix bug", "", "to-do", "high",
			nil, nil, nil, task.CreatedBy, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.Create(context.Background(), task))
}

func TestTaskStore_CreateUnknownBoard(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresTaskStore(db, nil)
	task, err := domain.NewTask(uuid.New(), uuid.New(), "T", "", domain.TaskStatusDone, domain.TaskPriorityLow)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO tasks").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "tasks_board_id_fkey"})

	assert.ErrorIs(t, s.Create(context.Background(), task), store.ErrBoardNotFound)
}

func TestTaskStore_GetView(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresTaskStore(db, nil)
	taskID, boardID, creator, assignee := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	due := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM tasks t LEFT JOIN users a").
		WithArgs(taskID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "board_id", "title", "description", "status", "priority",
			"a_id", "a_email", "a_fullname", "r_id", "r_email", "r_fullname",
			"due_date", "created_by", "comments_count",
		}).AddRow(
			taskID.String(), boardID.String(), "Fix bug", "", "to-do", "high",
			assignee.String(), "ann@example.com", "Ann", nil, nil, nil,
			due, creator.String(), int64(2),
		))

	view, err := s.GetView(context.Background(), taskID)
	require.NoError(t, err)
	require.NotNil(t, view.Assignee)
	assert.Equal(t, "Ann", view.Assignee.Fullname)
	assert.Nil(t, view.Reviewer)
	require.NotNil(t, view.DueDate)
	assert.Equal(t, "2025-06-01", view.DueDate.String())
	assert.Equal(t, 2, view.CommentsCount)
}

func TestTaskFilterClause(t *testing.T) {
	user := uuid.New()

	where, args, err := taskFilterClause(domain.TaskFilter{AssigneeID: user})
	require.NoError(t, err)
	assert.Equal(t, "t.assignee_id = $1", where)
	assert.Equal(t, []any{user}, args)

	where, args, err = taskFilterClause(domain.TaskFilter{BoardID: user, ReviewerID: user})
	require.NoError(t, err)
	assert.Equal(t, "t.board_id = $1 AND t.reviewer_id = $2", where)
	assert.Len(t, args, 2)

	where, _, err = taskFilterClause(domain.TaskFilter{AccessibleTo: user})
	require.NoError(t, err)
	assert.Contains(t, where, "b.owner_id = $1")
	assert.Contains(t, where, "bm.user_id = $1")

	_, _, err = taskFilterClause(domain.TaskFilter{})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestCommentStore_ListViewsByTask(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresCommentStore(db, nil)
	taskID := uuid.New()
	first := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM comments c JOIN users u .* ORDER BY c.created_at, c.id").
		WithArgs(taskID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "fullname", "content"}).
			AddRow(uuid.NewString(), first, "Ann", "first").
			AddRow(uuid.NewString(), first.Add(time.Minute), "Bob", "second"))

	views, err := s.ListViewsByTask(context.Background(), taskID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Ann", views[0].Author)
	assert.True(t, !views[1].CreatedAt.Before(views[0].CreatedAt))
}

func TestCommentStore_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	s := NewPostgresCommentStore(db, nil)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM comments").WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Delete(context.Background(), id), store.ErrCommentNotFound)
}

func TestUUIDArray(t *testing.T) {
	a := uuid.MustParse("11111111-1111-4111-8111-111111111111")
	b := uuid.MustParse("22222222-2222-4222-8222-222222222222")
	assert.Equal(t, "{}", uuidArray(nil))
	assert.Equal(t, "{"+a.String()+","+b.String()+"}", uuidArray([]uuid.UUID{a, b}))
}
