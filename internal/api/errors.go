package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/kanban-api/internal/api/shared"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/service"
	"github.com/phrazzld/kanban-api/internal/service/auth"
	"github.com/phrazzld/kanban-api/internal/store"
)

const (
	msgUnexpected       = "An unexpected error occurred"
	msgInvalidRequest   = "Invalid request format"
	msgValidationFailed = "Validation failed"
)

// MapErrorToStatusCode maps service, store and domain errors to HTTP status
// codes. Unknown errors map to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, shared.ErrInvalidJSON),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	case store.IsDuplicateError(err):
		return http.StatusConflict

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrBoardNotFound),
		errors.Is(err, service.ErrTaskNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the client-facing message for err. Internal
// details never appear in it.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpected
	}

	var many domain.ValidationErrors
	var one *domain.ValidationError

	switch {
	case errors.As(err, &many):
		return msgValidationFailed
	case errors.As(err, &one):
		if one.Message == "" {
			return msgValidationFailed
		}
		return one.Message
	case errors.Is(err, shared.ErrInvalidJSON):
		return msgInvalidRequest
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, auth.ErrInvalidToken):
		return "Invalid token"
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, domain.ErrUnauthorized):
		return "Authentication credentials were not provided."

	case errors.Is(err, service.ErrNotBoardMember):
		return "Not a board member."
	case errors.Is(err, service.ErrNotBoardOwner):
		return "Only the owner can delete this board."
	case errors.Is(err, service.ErrNotTaskCreatorOrOwner):
		return "Only the creator or board owner can delete this task."
	case errors.Is(err, service.ErrNotCommentAuthor):
		return "Only the author can delete this comment."
	case errors.Is(err, service.ErrForbidden):
		return "You do not have permission to perform this action."

	case errors.Is(err, service.ErrUserNotFound):
		return "Email not found."
	case errors.Is(err, service.ErrBoardNotFound):
		return "Board not found."
	case errors.Is(err, service.ErrTaskNotFound):
		return "Task not found."
	case errors.Is(err, service.ErrCommentNotFound):
		return "Comment not found."
	case store.IsNotFoundError(err):
		return "Not found."
	case store.IsDuplicateError(err):
		return "Already exists."

	default:
		return msgUnexpected
	}
}

// HandleAPIError writes the error response for err. Validation errors carry
// their field messages. message, when not empty, replaces the safe message of
// client errors; 5xx responses always use the generic one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" || status >= http.StatusInternalServerError {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err,
		shared.WithFields(domain.FieldErrors(err)))
}
