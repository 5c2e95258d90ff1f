package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/service"
)

// RegisterRequest is the payload for POST /auth/register. Field checks are
// done by the auth service so every invalid field is reported at once.
type RegisterRequest struct {
	Fullname         string `json:"fullname"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	RepeatedPassword string `json:"repeated_password"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token    string    `json:"token"`
	Fullname string    `json:"fullname"`
	Email    string    `json:"email"`
	UserID   uuid.UUID `json:"user_id"`
}

// CreateBoardRequest is the payload for POST /boards.
type CreateBoardRequest struct {
	Title   string      `json:"title"   validate:"required,max=255"`
	Members []uuid.UUID `json:"members"`
}

// UpdateBoardRequest is the payload for PATCH /boards/{boardID}. Absent
// fields are left unchanged; a present members list replaces the membership.
type UpdateBoardRequest struct {
	Title   *string      `json:"title"   validate:"omitempty,max=255"`
	Members *[]uuid.UUID `json:"members"`
}

// CreateTaskRequest is the payload for POST /tasks. The board is checked
// before the task fields, so the service validates them.
type CreateTaskRequest struct {
	Board       uuid.UUID    `json:"board"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	AssigneeID  *uuid.UUID   `json:"assignee_id"`
	ReviewerID  *uuid.UUID   `json:"reviewer_id"`
	DueDate     *domain.Date `json:"due_date"`
}

// UpdateTaskRequest is the payload for PATCH /tasks/{taskID}. An explicit
// null clears assignee_id, reviewer_id or due_date.
type UpdateTaskRequest struct {
	Title       *string                      `json:"title"`
	Description *string                      `json:"description"`
	Status      *string                      `json:"status"      validate:"omitempty,oneof=to-do in-progress review done"`
	Priority    *string                      `json:"priority"    validate:"omitempty,oneof=low medium high"`
	AssigneeID  domain.Optional[uuid.UUID]   `json:"assignee_id"`
	ReviewerID  domain.Optional[uuid.UUID]   `json:"reviewer_id"`
	DueDate     domain.Optional[domain.Date] `json:"due_date"`
}

// CreateCommentRequest is the payload for POST /tasks/{taskID}/comments.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

func (r RegisterRequest) params() service.RegisterParams {
	return service.RegisterParams{
		Fullname:         r.Fullname,
		Email:            r.Email,
		Password:         r.Password,
		RepeatedPassword: r.RepeatedPassword,
	}
}

func (r CreateBoardRequest) params() service.CreateBoardParams {
	return service.CreateBoardParams{Title: r.Title, MemberIDs: r.Members}
}

func (r UpdateBoardRequest) patch() domain.BoardPatch {
	return domain.BoardPatch{Title: r.Title, MemberIDs: r.Members}
}

func (r CreateTaskRequest) params() service.CreateTaskParams {
	return service.CreateTaskParams{
		BoardID:     r.Board,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.TaskStatus(r.Status),
		Priority:    domain.TaskPriority(r.Priority),
		AssigneeID:  r.AssigneeID,
		ReviewerID:  r.ReviewerID,
		DueDate:     r.DueDate,
	}
}

func (r UpdateTaskRequest) patch() domain.TaskPatch {
	p := domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		AssigneeID:  r.AssigneeID,
		ReviewerID:  r.ReviewerID,
	}
	if r.Status != nil {
		status := domain.TaskStatus(*r.Status)
		p.Status = &status
	}
	if r.Priority != nil {
		priority := domain.TaskPriority(*r.Priority)
		p.Priority = &priority
	}
	return p
}

func newAuthResponse(res *service.AuthResult) AuthResponse {
	return AuthResponse{
		Token:    res.Token,
		Fullname: res.Fullname,
		Email:    res.Email,
		UserID:   res.UserID,
	}
}
