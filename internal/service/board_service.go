package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/platform/logger"
	"github.com/phrazzld/kanban-api/internal/store"
)

// CreateBoardParams is the input of BoardService.Create.
type CreateBoardParams struct {
	Title     string
	MemberIDs []uuid.UUID
}

// BoardService manages boards and their membership.
type BoardService interface {
	// List returns every board the user owns or is a member of.
	List(ctx context.Context, userID uuid.UUID) ([]*domain.BoardSummary, error)

	// Get returns the detail view of a board visible to the user.
	Get(ctx context.Context, userID, boardID uuid.UUID) (*domain.BoardDetail, error)

	// Create creates a board owned by the user. The owner always becomes a
	// member; unknown member ids are ignored.
	Create(ctx context.Context, userID uuid.UUID, params CreateBoardParams) (*domain.BoardSummary, error)

	// Update changes the title and, when given, replaces the membership.
	// Any owner or member may update.
	Update(ctx context.Context, userID, boardID uuid.UUID, patch domain.BoardPatch) (*domain.BoardDetail, error)

	// Delete removes a board with its tasks and comments. Owner only.
	Delete(ctx context.Context, userID, boardID uuid.UUID) error
}

type boardServiceImpl struct {
	boards store.BoardStore
	tasks  store.TaskStore
	tx     store.TxRunner
	logger *slog.Logger
}

// NewBoardService creates a BoardService.
// It returns an error if any of the required dependencies are nil.
func NewBoardService(
	boards store.BoardStore,
	tasks store.TaskStore,
	tx store.TxRunner,
	logger *slog.Logger,
) (BoardService, error) {
	if boards == nil || tasks == nil || tx == nil {
		return nil, domain.NewValidationError("stores", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &boardServiceImpl{
		boards: boards,
		tasks:  tasks,
		tx:     tx,
		logger: logger.With(slog.String("component", "board_service")),
	}, nil
}

// List implements BoardService.List
func (s *boardServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]*domain.BoardSummary, error) {
	summaries, err := s.boards.ListSummariesForUser(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list boards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("board", "list", err)
	}
	return summaries, nil
}

// Get implements BoardService.Get
func (s *boardServiceImpl) Get(ctx context.Context, userID, boardID uuid.UUID) (*domain.BoardDetail, error) {
	if _, err := visibleBoard(ctx, s.boards, boardID, userID); err != nil {
		return nil, s.fail(ctx, "get", err, boardID)
	}
	detail, err := s.detail(ctx, s.boards, s.tasks, boardID)
	if err != nil {
		return nil, s.fail(ctx, "get", err, boardID)
	}
	return detail, nil
}

// Create implements BoardService.Create
func (s *boardServiceImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	params CreateBoardParams,
) (*domain.BoardSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	board, err := domain.NewBoard(userID, params.Title)
	if err != nil {
		return nil, err
	}

	var summary *domain.BoardSummary
	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		boards := s.boards.WithTx(tx)
		if err := boards.Create(ctx, board); err != nil {
			return err
		}
		if err := boards.SetMembers(ctx, board.ID, domain.MemberSet(userID, params.MemberIDs)); err != nil {
			return err
		}
		created, err := boards.GetSummary(ctx, board.ID)
		if err != nil {
			return err
		}
		summary = created
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, "create", err, board.ID)
	}

	log.Info("board created",
		slog.String("board_id", board.ID.String()),
		slog.String("owner_id", userID.String()))
	return summary, nil
}

// Update implements BoardService.Update
func (s *boardServiceImpl) Update(
	ctx context.Context,
	userID, boardID uuid.UUID,
	patch domain.BoardPatch,
) (*domain.BoardDetail, error) {
	var detail *domain.BoardDetail
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		boards := s.boards.WithTx(tx)

		board, err := visibleBoard(ctx, boards, boardID, userID)
		if err != nil {
			return err
		}
		if err := board.Apply(patch); err != nil {
			return err
		}
		if err := boards.Update(ctx, board); err != nil {
			return mapNotFound(err, store.ErrBoardNotFound, ErrBoardNotFound)
		}
		if patch.MemberIDs != nil {
			if err := boards.SetMembers(ctx, board.ID, domain.MemberSet(board.OwnerID, *patch.MemberIDs)); err != nil {
				return err
			}
		}

		detail, err = s.detail(ctx, boards, s.tasks.WithTx(tx), board.ID)
		return err
	})
	if err != nil {
		return nil, s.fail(ctx, "update", err, boardID)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("board updated",
		slog.String("board_id", boardID.String()),
		slog.Bool("members_replaced", patch.MemberIDs != nil))
	return detail, nil
}

// Delete implements BoardService.Delete
func (s *boardServiceImpl) Delete(ctx context.Context, userID, boardID uuid.UUID) error {
	board, err := visibleBoard(ctx, s.boards, boardID, userID)
	if err != nil {
		return s.fail(ctx, "delete", err, boardID)
	}
	if !CanDeleteBoard(board, userID) {
		return s.fail(ctx, "delete", ErrNotBoardOwner, boardID)
	}
	if err := s.boards.Delete(ctx, boardID); err != nil {
		return s.fail(ctx, "delete", mapNotFound(err, store.ErrBoardNotFound, ErrBoardNotFound), boardID)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("board deleted",
		slog.String("board_id", boardID.String()))
	return nil
}

// detail assembles the board detail from its summary, members and tasks.
func (s *boardServiceImpl) detail(
	ctx context.Context,
	boards store.BoardStore,
	tasks store.TaskStore,
	boardID uuid.UUID,
) (*domain.BoardDetail, error) {
	summary, err := boards.GetSummary(ctx, boardID)
	if err != nil {
		return nil, mapNotFound(err, store.ErrBoardNotFound, ErrBoardNotFound)
	}
	members, err := boards.ListMembers(ctx, boardID)
	if err != nil {
		return nil, err
	}
	views, err := tasks.ListViews(ctx, domain.TaskFilter{BoardID: boardID})
	if err != nil {
		return nil, err
	}
	return &domain.BoardDetail{
		BoardSummary: *summary,
		Members:      members,
		Tasks:        views,
	}, nil
}

func (s *boardServiceImpl) fail(ctx context.Context, op string, err error, boardID uuid.UUID) error {
	return logAndWrap(logger.FromContextOrDefault(ctx, s.logger), "board", op, err,
		slog.String("board_id", boardID.String()))
}
