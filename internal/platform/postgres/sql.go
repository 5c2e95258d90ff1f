package postgres

import (
	"database/sql"
	"embed"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
)

// MigrationsFS holds the goose SQL migrations that own the schema.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

const (
	// MigrationsDir is the directory of the migrations inside MigrationsFS.
	MigrationsDir = "migrations"

	// MigrationTableName is the goose version table.
	MigrationTableName = "schema_migrations"
)

// uuidArray renders ids as a PostgreSQL array literal. Queries cast it with
// $n::text::uuid[] so the argument travels as plain text through database/sql.
func uuidArray(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func uuidPtr(n uuid.NullUUID) *uuid.UUID {
	if !n.Valid {
		return nil
	}
	id := n.UUID
	return &id
}

func nullDate(d *domain.Date) sql.NullTime {
	if d == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: d.Time, Valid: true}
}

func datePtr(n sql.NullTime) *domain.Date {
	if !n.Valid {
		return nil
	}
	d := domain.NewDate(n.Time)
	return &d
}

// nullableSummary scans the columns of a LEFT JOINed user.
type nullableSummary struct {
	ID       uuid.NullUUID
	Email    sql.NullString
	Fullname sql.NullString
}

func (n nullableSummary) summary() *domain.UserSummary {
	if !n.ID.Valid {
		return nil
	}
	return &domain.UserSummary{ID: n.ID.UUID, Email: n.Email.String, Fullname: n.Fullname.String}
}

func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}

func componentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("component", component))
}
