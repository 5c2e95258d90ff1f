package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
)

// BoardStore defines the interface for board and membership persistence.
type BoardStore interface {
	// Create saves a new board.
	Create(ctx context.Context, board *domain.Board) error

	// GetByID retrieves a board or returns ErrBoardNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error)

	// Update saves the mutable board fields.
	// Returns ErrBoardNotFound if the board does not exist.
	Update(ctx context.Context, board *domain.Board) error

	// Delete removes the board together with its memberships, tasks and
	// their comments. Returns ErrBoardNotFound if the board does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetMembers replaces the membership of the board with userIDs.
	// Ids that do not belong to a registered user are skipped.
	SetMembers(ctx context.Context, boardID uuid.UUID, userIDs []uuid.UUID) error

	// IsMember reports whether userID owns or is a member of the board.
	IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error)

	// ListMembers returns the members of the board ordered by join order.
	ListMembers(ctx context.Context, boardID uuid.UUID) ([]domain.UserSummary, error)

	// GetSummary returns the board with its counters.
	// Returns ErrBoardNotFound if the board does not exist.
	GetSummary(ctx context.Context, id uuid.UUID) (*domain.BoardSummary, error)

	// ListSummariesForUser returns every board userID owns or is a member of,
	// oldest first.
	ListSummariesForUser(ctx context.Context, userID uuid.UUID) ([]*domain.BoardSummary, error)

	// WithTx returns a new BoardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) BoardStore
}
