//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/platform/postgres"
	"github.com/phrazzld/kanban-api/internal/store"
	"github.com/phrazzld/kanban-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInsertUser(ctx context.Context, t *testing.T, tx *sql.Tx, fullname string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(fullname, testdb.UniqueEmail(t), "password123")
	require.NoError(t, err)
	user.HashedPassword = "not-a-real-hash"
	require.NoError(t, postgres.NewPostgresUserStore(tx, nil).Create(ctx, user))
	return user
}

func TestPostgresUserStore_Integration(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
		defer cancel()
		users := postgres.NewPostgresUserStore(tx, nil)

		user := mustInsertUser(ctx, t, tx, "Alice")

		got, err := users.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)

		dup := *user
		dup.ID = uuid.New()
		assert.ErrorIs(t, users.Create(ctx, &dup), store.ErrEmailExists)

		_, err = users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestPostgresTokenStore_Integration(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		tokens := postgres.NewPostgresTokenStore(tx, nil)
		user := mustInsertUser(ctx, t, tx, "Token Owner")

		first, err := domain.NewAuthToken(user.ID, "key-"+uuid.NewString())
		require.NoError(t, err)
		saved, err := tokens.GetOrCreate(ctx, first)
		require.NoError(t, err)
		assert.Equal(t, first.Key, saved.Key)

		second, err := domain.NewAuthToken(user.ID, "key-"+uuid.NewString())
		require.NoError(t, err)
		again, err := tokens.GetOrCreate(ctx, second)
		require.NoError(t, err)
		assert.Equal(t, first.Key, again.Key, "one token per user")

		byKey, err := tokens.GetByKey(ctx, first.Key)
		require.NoError(t, err)
		assert.Equal(t, user.ID, byKey.UserID)
	})
}

func TestPostgresBoardAndTaskStores_Integration(t *testing.T) {
	t.Parallel()
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		boards := postgres.NewPostgresBoardStore(tx, nil)
		tasks := postgres.NewPostgresTaskStore(tx, nil)
		comments := postgres.NewPostgresCommentStore(tx, nil)

		owner := mustInsertUser(ctx, t, tx, "Owner")
		member := mustInsertUser(ctx, t, tx, "Member")
		outsider := mustInsertUser(ctx, t, tx, "Outsider")

		board, err := domain.NewBoard(owner.ID, "Sprint 1")
		require.NoError(t, err)
		require.NoError(t, boards.Create(ctx, board))
		require.NoError(t, boards.SetMembers(ctx, board.ID, domain.MemberSet(owner.ID, []uuid.UUID{member.ID, uuid.New()})))

		members, err := boards.ListMembers(ctx, board.ID)
		require.NoError(t, err)
		assert.Len(t, members, 2, "unknown member ids are skipped")

		for _, u := range []*domain.User{owner, member} {
			ok, err := boards.IsMember(ctx, board.ID, u.ID)
			require.NoError(t, err)
			assert.True(t, ok)
		}
		ok, err := boards.IsMember(ctx, board.ID, outsider.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		task, err := domain.NewTask(board.ID, owner.ID, "Fix bug", "", domain.TaskStatusToDo, domain.TaskPriorityHigh)
		require.NoError(t, err)
		task.AssigneeID = &member.ID
		due := domain.NewDate(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
		task.DueDate = &due
		require.NoError(t, tasks.Create(ctx, task))

		comment, err := domain.NewComment(task.ID, member.ID, "looks good")
		require.NoError(t, err)
		require.NoError(t, comments.Create(ctx, comment))

		summary, err := boards.GetSummary(ctx, board.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.MemberCount)
		assert.Equal(t, 1, summary.TicketCount)
		assert.Equal(t, 1, summary.TasksToDoCount)
		assert.Equal(t, 1, summary.TasksHighPrioCount)

		assigned, err := tasks.ListViews(ctx, domain.FilterForScope(member.ID, domain.TaskScopeAssigned))
		require.NoError(t, err)
		require.Len(t, assigned, 1)
		assert.Equal(t, "Member", assigned[0].Assignee.Fullname)
		assert.Equal(t, 1, assigned[0].CommentsCount)
		assert.Equal(t, "2025-03-01", assigned[0].DueDate.String())

		accessible, err := tasks.ListViews(ctx, domain.FilterForScope(outsider.ID, domain.TaskScopeAccessible))
		require.NoError(t, err)
		assert.Empty(t, accessible)

		views, err := comments.ListViewsByTask(ctx, task.ID)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "Member", views[0].Author)

		require.NoError(t, boards.Delete(ctx, board.ID))
		_, err = tasks.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound, "tasks cascade with the board")
		_, err = comments.GetByID(ctx, comment.ID)
		assert.ErrorIs(t, err, store.ErrCommentNotFound, "comments cascade with the task")
	})
}
