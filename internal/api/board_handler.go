package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/kanban-api/internal/api/shared"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/platform/logger"
	"github.com/phrazzld/kanban-api/internal/service"
)

// BoardHandler handles board endpoints.
type BoardHandler struct {
	boardService service.BoardService
	logger       *slog.Logger
}

// NewBoardHandler creates a BoardHandler.
func NewBoardHandler(boardService service.BoardService, logger *slog.Logger) *BoardHandler {
	if logger == nil {
		panic("logger cannot be nil for BoardHandler")
	}
	return &BoardHandler{
		boardService: boardService,
		logger:       logger.With(slog.String("component", "board_handler")),
	}
}

// List handles GET /boards.
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	boards, err := h.boardService.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if boards == nil {
		boards = []*domain.BoardSummary{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, boards)
}

// Create handles POST /boards.
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	board, err := h.boardService.Create(r.Context(), userID, req.params())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("board created",
		slog.String("board_id", board.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, board)
}

// Get handles GET /boards/{boardID}.
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, boardID, ok := handleUserIDAndPathUUID(w, r, BoardIDParam, h.logger)
	if !ok {
		return
	}

	detail, err := h.boardService.Get(r.Context(), userID, boardID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, detail)
}

// Update handles PATCH /boards/{boardID}.
func (h *BoardHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, boardID, ok := handleUserIDAndPathUUID(w, r, BoardIDParam, h.logger)
	if !ok {
		return
	}

	var req UpdateBoardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	detail, err := h.boardService.Update(r.Context(), userID, boardID, req.patch())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, detail)
}

// Delete handles DELETE /boards/{boardID}.
func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, boardID, ok := handleUserIDAndPathUUID(w, r, BoardIDParam, h.logger)
	if !ok {
		return
	}

	if err := h.boardService.Delete(r.Context(), userID, boardID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondNoContent(w)
}
