package service

import (
	"errors"
	"fmt"
	"log/slog"
)

// Common service errors - sentinel errors used across service implementations.
// The API layer maps them to HTTP status codes and client-facing messages.
var (
	// ErrUserNotFound indicates no user has the requested email address.
	ErrUserNotFound = errors.New("user not found")

	// ErrBoardNotFound indicates the board does not exist or is not visible
	// to the requesting user.
	ErrBoardNotFound = errors.New("board not found")

	// ErrTaskNotFound indicates the task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrCommentNotFound indicates the comment does not exist on the task.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrForbidden is the parent of every permission failure.
	ErrForbidden = errors.New("permission denied")

	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	// The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Permission failures. Each wraps ErrForbidden.
var (
	ErrNotBoardMember        = forbidden("not a board member")
	ErrNotBoardOwner         = forbidden("only the board owner can delete the board")
	ErrNotTaskCreatorOrOwner = forbidden("only the task creator or board owner can delete the task")
	ErrNotCommentAuthor      = forbidden("only the author can delete the comment")
)

// forbiddenError is a permission failure that unwraps to ErrForbidden.
type forbiddenError struct {
	msg string
}

func forbidden(msg string) error {
	return &forbiddenError{msg: msg}
}

func (e *forbiddenError) Error() string { return e.msg }

func (e *forbiddenError) Unwrap() error { return ErrForbidden }

// ServiceError wraps an unexpected failure with the service and operation
// that produced it.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
	}
	return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(service, op string, err error) error {
	return &ServiceError{
		Service: service,
		Op:      op,
		Err:     err,
	}
}

// logAndWrap logs err at DEBUG when it is an expected condition and at ERROR
// otherwise, wrapping unexpected errors in a ServiceError.
func logAndWrap(log *slog.Logger, service, op string, err error, attrs ...any) error {
	args := append([]any{slog.String("error", err.Error())}, attrs...)
	if isExpected(err) {
		log.Debug(service+" "+op+" rejected", args...)
		return err
	}
	log.Error(service+" "+op+" failed", args...)
	return NewServiceError(service, op, err)
}
