package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/kanban-api/internal/api/shared"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/service"
)

// CommentHandler handles the comment endpoints nested under a task.
type CommentHandler struct {
	commentService service.CommentService
	logger         *slog.Logger
}

// NewCommentHandler creates a CommentHandler.
func NewCommentHandler(commentService service.CommentService, logger *slog.Logger) *CommentHandler {
	if logger == nil {
		panic("logger cannot be nil for CommentHandler")
	}
	return &CommentHandler{
		commentService: commentService,
		logger:         logger.With(slog.String("component", "comment_handler")),
	}
}

// List handles GET /tasks/{taskID}/comments.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, TaskIDParam, h.logger)
	if !ok {
		return
	}

	comments, err := h.commentService.List(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if comments == nil {
		comments = []*domain.CommentView{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, comments)
}

// Create handles POST /tasks/{taskID}/comments.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndPathUUID(w, r, TaskIDParam, h.logger)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.commentService.Create(r.Context(), userID, taskID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, comment)
}

// Delete handles DELETE /tasks/{taskID}/comments/{commentID}.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ids, ok := handleUserIDAndPathUUIDs(w, r, h.logger, TaskIDParam, CommentIDParam)
	if !ok {
		return
	}

	if err := h.commentService.Delete(r.Context(), userID, ids[0], ids[1]); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondNoContent(w)
}
