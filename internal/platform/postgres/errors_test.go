package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/kanban-api/internal/platform/postgres"
	"github.com/phrazzld/kanban-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "tasks",
		ColumnName:     "title",
		ConstraintName: "tasks_status_check",
	}
}

func fkError(constraint string) *pgconn.PgError {
	err := newPgError("23503")
	err.ConstraintName = constraint
	return err
}

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) { return 0, m.err }
func (m mockResult) RowsAffected() (int64, error) { return m.rowsAffected, m.err }

func TestViolationPredicates(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("insert: %w", newPgError("23505"))

	assert.True(t, postgres.IsUniqueViolation(wrapped))
	assert.False(t, postgres.IsUniqueViolation(errors.New("generic error")))
	assert.False(t, postgres.IsUniqueViolation(nil))
	assert.False(t, postgres.IsUniqueViolation(newPgError("23503")))
}

func TestMapError(t *testing.T) {
	t.Parallel()

	genericErr := errors.New("connection reset")

	tests := []struct {
		name     string
		err      error
		notFound error
		wantIs   error
		wantSame bool
	}{
		{name: "nil error", err: nil},
		{name: "no rows default", err: sql.ErrNoRows, wantIs: store.ErrNotFound},
		{name: "no rows specific", err: sql.ErrNoRows, notFound: store.ErrTaskNotFound, wantIs: store.ErrTaskNotFound},
		{name: "unique violation", err: newPgError("23505"), wantIs: store.ErrDuplicate},
		{name: "unknown foreign key", err: newPgError("23503"), wantIs: store.ErrInvalidEntity},
		{name: "task board foreign key", err: fkError("tasks_board_id_fkey"), wantIs: store.ErrBoardNotFound},
		{name: "comment task foreign key", err: fkError("comments_task_id_fkey"), wantIs: store.ErrTaskNotFound},
		{name: "assignee foreign key", err: fkError("tasks_assignee_id_fkey"), wantIs: store.ErrUserNotFound},
		{name: "check violation", err: newPgError("23514"), wantIs: store.ErrInvalidEntity},
		{name: "not null violation", err: newPgError("23502"), wantIs: store.ErrInvalidEntity},
		{name: "value too long", err: newPgError("22001"), wantIs: store.ErrInvalidEntity},
		{name: "unmapped pg error", err: newPgError("42P01"), wantSame: true},
		{name: "generic error", err: genericErr, wantSame: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := postgres.MapError(tt.err, tt.notFound)
			switch {
			case tt.err == nil:
				assert.NoError(t, got)
			case tt.wantSame:
				assert.Equal(t, tt.err, got)
			default:
				assert.ErrorIs(t, got, tt.wantIs)
			}
		})
	}
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, postgres.CheckRowsAffected(mockResult{rowsAffected: 1}, store.ErrBoardNotFound))
	assert.ErrorIs(t, postgres.CheckRowsAffected(mockResult{}, store.ErrBoardNotFound), store.ErrBoardNotFound)
	assert.ErrorIs(t, postgres.CheckRowsAffected(mockResult{}, nil), store.ErrNotFound)
	assert.ErrorContains(t, postgres.CheckRowsAffected(mockResult{err: errors.New("boom")}, nil), "failed to get rows affected")
	assert.Error(t, postgres.CheckRowsAffected(nil, nil))
}

func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	err := postgres.MapUniqueViolation(newPgError("23505"), store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	other := errors.New("other")
	assert.Equal(t, other, postgres.MapUniqueViolation(other, store.ErrEmailExists))
}
