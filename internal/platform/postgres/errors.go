package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/kanban-api/internal/store"
)

// SQLSTATE codes of the integrity and data violations the schema can raise.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
	stringTooLongCode       = "22001"
)

// foreignKeyTargets maps the schema's foreign keys to the not-found error of
// the row they reference. A violation means the parent disappeared between
// the service's existence check and the write.
var foreignKeyTargets = map[string]error{
	"auth_tokens_user_id_fkey":    store.ErrUserNotFound,
	"boards_owner_id_fkey":        store.ErrUserNotFound,
	"board_members_board_id_fkey": store.ErrBoardNotFound,
	"board_members_user_id_fkey":  store.ErrUserNotFound,
	"tasks_board_id_fkey":         store.ErrBoardNotFound,
	"tasks_created_by_fkey":       store.ErrUserNotFound,
	"tasks_assignee_id_fkey":      store.ErrUserNotFound,
	"tasks_reviewer_id_fkey":      store.ErrUserNotFound,
	"comments_task_id_fkey":       store.ErrTaskNotFound,
	"comments_author_id_fkey":     store.ErrUserNotFound,
}

// MapError translates a database error into the store's vocabulary.
// sql.ErrNoRows becomes notFound (store.ErrNotFound when nil); integrity
// violations become ErrDuplicate, the referenced entity's not-found error or
// ErrInvalidEntity, as does a value wider than its column. Anything else is
// returned unchanged.
func MapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound == nil {
		notFound = store.ErrNotFound
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}

	pgErr := asPgError(err)
	if pgErr == nil {
		return err
	}
	switch pgErr.Code {
	case uniqueViolationCode:
		return fmt.Errorf("%w: %s", store.ErrDuplicate, pgErr.ConstraintName)
	case foreignKeyViolationCode:
		if target, ok := foreignKeyTargets[pgErr.ConstraintName]; ok {
			return fmt.Errorf("%w (%s)", target, pgErr.ConstraintName)
		}
		return fmt.Errorf("%w: foreign key %s", store.ErrInvalidEntity, pgErr.ConstraintName)
	case checkViolationCode:
		return fmt.Errorf("%w: check %s", store.ErrInvalidEntity, pgErr.ConstraintName)
	case notNullViolationCode:
		return fmt.Errorf("%w: %s.%s is required", store.ErrInvalidEntity, pgErr.TableName, pgErr.ColumnName)
	case stringTooLongCode:
		return fmt.Errorf("%w: %s", store.ErrInvalidEntity, pgErr.Message)
	}
	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	pgErr := asPgError(err)
	return pgErr != nil && pgErr.Code == uniqueViolationCode
}

// MapUniqueViolation returns specific for a unique violation and err otherwise.
func MapUniqueViolation(err error, specific error) error {
	if !IsUniqueViolation(err) {
		return err
	}
	return fmt.Errorf("%w: %s", specific, asPgError(err).ConstraintName)
}

// CheckRowsAffected returns notFound (store.ErrNotFound when nil) when an
// UPDATE or DELETE matched no row.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return errors.New("nil result provided to CheckRowsAffected")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	if notFound == nil {
		return store.ErrNotFound
	}
	return notFound
}

func asPgError(err error) *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr
	}
	return nil
}
