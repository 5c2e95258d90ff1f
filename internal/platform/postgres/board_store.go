package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/platform/logger"
	"github.com/phrazzld/kanban-api/internal/store"
)

// PostgresBoardStore implements store.BoardStore.
type PostgresBoardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBoardStore creates a board store on db.
// If logger is nil, a default logger will be used.
func NewPostgresBoardStore(db store.DBTX, logger *slog.Logger) *PostgresBoardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &PostgresBoardStore{
		db:     db,
		logger: componentLogger(logger, "board_store"),
	}
}

var _ store.BoardStore = (*PostgresBoardStore)(nil)

// WithTx implements store.BoardStore.WithTx
func (s *PostgresBoardStore) WithTx(tx *sql.Tx) store.BoardStore {
	return &PostgresBoardStore{db: tx, logger: s.logger}
}

// boardAccessPredicate returns a condition on board alias b that holds when
// the user bound to param owns the board or is one of its members.
func boardAccessPredicate(param string) string {
	return `(b.owner_id = ` + param + ` OR EXISTS (
		SELECT 1 FROM board_members bm WHERE bm.board_id = b.id AND bm.user_id = ` + param + `
	))`
}

const selectBoardSummary = `
	SELECT b.id, b.title, b.owner_id,
		(SELECT COUNT(*) FROM board_members m WHERE m.board_id = b.id),
		(SELECT COUNT(*) FROM tasks t WHERE t.board_id = b.id),
		(SELECT COUNT(*) FROM tasks t WHERE t.board_id = b.id AND t.status = 'to-do'),
		(SELECT COUNT(*) FROM tasks t WHERE t.board_id = b.id AND t.priority = 'high')
	FROM boards b
`

// Create implements store.BoardStore.Create
func (s *PostgresBoardStore) Create(ctx context.Context, board *domain.Board) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := board.Validate(); err != nil {
		log.Warn("board validation failed during create",
			slog.String("error", err.Error()),
			slog.String("board_id", board.ID.String()))
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO boards (id, title, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, board.ID, board.Title, board.OwnerID, board.CreatedAt, board.UpdatedAt)
	if err != nil {
		log.Error("failed to create board",
			slog.String("error", err.Error()),
			slog.String("board_id", board.ID.String()))
		return MapError(err, store.ErrBoardNotFound)
	}

	log.Info("board created successfully",
		slog.String("board_id", board.ID.String()),
		slog.String("owner_id", board.OwnerID.String()))
	return nil
}

// GetByID implements store.BoardStore.GetByID
func (s *PostgresBoardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	var board domain.Board
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, owner_id, created_at, updated_at
		FROM boards
		WHERE id = $1
	`, id).Scan(&board.ID, &board.Title, &board.OwnerID, &board.CreatedAt, &board.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBoardNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get board",
			slog.String("error", err.Error()),
			slog.String("board_id", id.String()))
		return nil, MapError(err, store.ErrBoardNotFound)
	}
	return &board, nil
}

// Update implements store.BoardStore.Update
func (s *PostgresBoardStore) Update(ctx context.Context, board *domain.Board) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := board.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE boards SET title = $1, updated_at = $2 WHERE id = $3
	`, board.Title, board.UpdatedAt, board.ID)
	if err != nil {
		log.Error("failed to update board",
			slog.String("error", err.Error()),
			slog.String("board_id", board.ID.String()))
		return MapError(err, store.ErrBoardNotFound)
	}
	if err := CheckRowsAffected(result, store.ErrBoardNotFound); err != nil {
		return err
	}

	log.Info("board updated successfully", slog.String("board_id", board.ID.String()))
	return nil
}

// Delete implements store.BoardStore.Delete
// Memberships, tasks and comments are removed by ON DELETE CASCADE.
func (s *PostgresBoardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete board",
			slog.String("error", err.Error()),
			slog.String("board_id", id.String()))
		return MapError(err, store.ErrBoardNotFound)
	}
	if err := CheckRowsAffected(result, store.ErrBoardNotFound); err != nil {
		return err
	}

	log.Info("board deleted successfully", slog.String("board_id", id.String()))
	return nil
}

// SetMembers implements store.BoardStore.SetMembers
// The insert joins against users, which drops unknown ids; the array
// ordinality becomes the member position.
func (s *PostgresBoardStore) SetMembers(ctx context.Context, boardID uuid.UUID, userIDs []uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM board_members WHERE board_id = $1`, boardID); err != nil {
		log.Error("failed to clear board members",
			slog.String("error", err.Error()),
			slog.String("board_id", boardID.String()))
		return MapError(err, store.ErrBoardNotFound)
	}

	ids := domain.DedupeIDs(userIDs)
	if len(ids) == 0 {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO board_members (board_id, user_id, position)
		SELECT $1, u.id, m.ord
		FROM unnest($2::text::uuid[]) WITH ORDINALITY AS m(user_id, ord)
		JOIN users u ON u.id = m.user_id
		ON CONFLICT (board_id, user_id) DO NOTHING
	`, boardID, uuidArray(ids))
	if err != nil {
		log.Error("failed to insert board members",
			slog.String("error", err.Error()),
			slog.String("board_id", boardID.String()))
		return MapError(err, store.ErrBoardNotFound)
	}

	log.Debug("board members replaced",
		slog.String("board_id", boardID.String()),
		slog.Int("requested", len(ids)))
	return nil
}

// IsMember implements store.BoardStore.IsMember
func (s *PostgresBoardStore) IsMember(ctx context.Context, boardID, userID uuid.UUID) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM boards b WHERE b.id = $1 AND `+boardAccessPredicate("$2")+`)`,
		boardID, userID,
	).Scan(&ok)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check board membership",
			slog.String("error", err.Error()),
			slog.String("board_id", boardID.String()))
		return false, MapError(err, nil)
	}
	return ok, nil
}

// ListMembers implements store.BoardStore.ListMembers
func (s *PostgresBoardStore) ListMembers(ctx context.Context, boardID uuid.UUID) ([]domain.UserSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.fullname
		FROM board_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.board_id = $1
		ORDER BY m.position, u.id
	`, boardID)
	if err != nil {
		log.Error("failed to list board members",
			slog.String("error", err.Error()),
			slog.String("board_id", boardID.String()))
		return nil, MapError(err, nil)
	}
	defer closeRows(rows, log)

	members := []domain.UserSummary{}
	for rows.Next() {
		var m domain.UserSummary
		if err := rows.Scan(&m.ID, &m.Email, &m.Fullname); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetSummary implements store.BoardStore.GetSummary
func (s *PostgresBoardStore) GetSummary(ctx context.Context, id uuid.UUID) (*domain.BoardSummary, error) {
	summary, err := scanBoardSummary(s.db.QueryRowContext(ctx, selectBoardSummary+` WHERE b.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBoardNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get board summary",
			slog.String("error", err.Error()),
			slog.String("board_id", id.String()))
		return nil, MapError(err, store.ErrBoardNotFound)
	}
	return summary, nil
}

// ListSummariesForUser implements store.BoardStore.ListSummariesForUser
// The EXISTS predicate keeps every board once, whether the user owns it,
// is a member, or both.
func (s *PostgresBoardStore) ListSummariesForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.BoardSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		selectBoardSummary+` WHERE `+boardAccessPredicate("$1")+` ORDER BY b.created_at, b.id`,
		userID,
	)
	if err != nil {
		log.Error("failed to list boards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err, nil)
	}
	defer closeRows(rows, log)

	summaries := []*domain.BoardSummary{}
	for rows.Next() {
		summary, err := scanBoardSummary(rows)
		if err != nil {
			log.Error("failed to scan board row", slog.String("error", err.Error()))
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("listed boards",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(summaries)))
	return summaries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBoardSummary(row rowScanner) (*domain.BoardSummary, error) {
	var b domain.BoardSummary
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.OwnerID,
		&b.MemberCount,
		&b.TicketCount,
		&b.TasksToDoCount,
		&b.TasksHighPrioCount,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
