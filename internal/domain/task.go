package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the workflow column of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusToDo       TaskStatus = "to-do"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
)

// TaskPriority is the urgency of a task.
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrEmptyTaskBoardID = errors.New("task board ID cannot be empty")
	ErrEmptyTaskCreator = errors.New("task creator cannot be empty")
)

// Valid reports whether s is a known status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone:
		return true
	}
	return false
}

// Valid reports whether p is a known priority.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is a unit of work on a board.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	BoardID     uuid.UUID    `json:"board"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssigneeID  *uuid.UUID   `json:"assignee_id"`
	ReviewerID  *uuid.UUID   `json:"reviewer_id"`
	DueDate     *Date        `json:"due_date"`
	CreatedBy   uuid.UUID    `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TaskView is the materialized read model of a task: nested user summaries
// instead of ids and the number of comments.
type TaskView struct {
	ID            uuid.UUID    `json:"id"`
	BoardID       uuid.UUID    `json:"board"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Status        TaskStatus   `json:"status"`
	Priority      TaskPriority `json:"priority"`
	Assignee      *UserSummary `json:"assignee"`
	Reviewer      *UserSummary `json:"reviewer"`
	DueDate       *Date        `json:"due_date"`
	CreatedBy     uuid.UUID    `json:"created_by"`
	CommentsCount int          `json:"comments_count"`
}

// TaskScope selects which tasks a user listing returns.
type TaskScope string

const (
	// TaskScopeAccessible lists tasks on every board the user owns or is a member of.
	TaskScopeAccessible TaskScope = "accessible"
	// TaskScopeAssigned lists tasks assigned to the user.
	TaskScopeAssigned TaskScope = "assigned"
	// TaskScopeReviewing lists tasks the user reviews.
	TaskScopeReviewing TaskScope = "reviewing"
)

// Valid reports whether s is a known scope.
func (s TaskScope) Valid() bool {
	switch s {
	case TaskScopeAccessible, TaskScopeAssigned, TaskScopeReviewing:
		return true
	}
	return false
}

// TaskFilter narrows a task listing. Zero fields are ignored; at least one
// field must be set.
type TaskFilter struct {
	BoardID      uuid.UUID
	AccessibleTo uuid.UUID
	AssigneeID   uuid.UUID
	ReviewerID   uuid.UUID
}

// FilterForScope builds the filter for userID under scope.
func FilterForScope(userID uuid.UUID, scope TaskScope) TaskFilter {
	switch scope {
	case TaskScopeAssigned:
		return TaskFilter{AssigneeID: userID}
	case TaskScopeReviewing:
		return TaskFilter{ReviewerID: userID}
	default:
		return TaskFilter{AccessibleTo: userID}
	}
}

// TaskPatch holds one optional field per mutable task property.
// Pointer fields cannot be cleared; Optional fields can be set to null.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     Optional[Date]
	AssigneeID  Optional[uuid.UUID]
	ReviewerID  Optional[uuid.UUID]
}

// NewTask creates a task on boardID created by createdBy.
func NewTask(
	boardID, createdBy uuid.UUID,
	title, description string,
	status TaskStatus,
	priority TaskPriority,
) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		BoardID:     boardID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      status,
		Priority:    priority,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks the task fields, reporting every invalid field.
func (t *Task) Validate() error {
	var errs ValidationErrors
	if t.ID == uuid.Nil {
		errs = append(errs, NewValidationError("id", "is required", ErrEmptyTaskID))
	}
	if t.BoardID == uuid.Nil {
		errs = append(errs, NewValidationError("board", "This field is required.", ErrEmptyTaskBoardID))
	}
	if t.CreatedBy == uuid.Nil {
		errs = append(errs, NewValidationError("created_by", "is required", ErrEmptyTaskCreator))
	}
	if err := validateTitle(t.Title); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			errs = append(errs, ve)
		}
	}
	if !t.Status.Valid() {
		errs = append(errs, invalidChoice("status", string(t.Status), ErrInvalidTaskStatus))
	}
	if !t.Priority.Valid() {
		errs = append(errs, invalidChoice("priority", string(t.Priority), ErrInvalidTaskPriority))
	}
	return errs.ErrOrNil()
}

// Validate checks every field present in the patch.
func (p TaskPatch) Validate() error {
	var errs ValidationErrors
	if p.Title != nil {
		if err := validateTitle(strings.TrimSpace(*p.Title)); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				errs = append(errs, ve)
			}
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		errs = append(errs, invalidChoice("status", string(*p.Status), ErrInvalidTaskStatus))
	}
	if p.Priority != nil && !p.Priority.Valid() {
		errs = append(errs, invalidChoice("priority", string(*p.Priority), ErrInvalidTaskPriority))
	}
	return errs.ErrOrNil()
}

// Apply validates the patch and copies its scalar fields onto the task.
// Assignee and reviewer are resolved by the caller, which must check that the
// referenced users exist.
func (t *Task) Apply(p TaskPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Title != nil {
		t.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDate.Set {
		t.DueDate = p.DueDate.Value
	}
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// View builds the read model from the task and already resolved relations.
func (t *Task) View(assignee, reviewer *UserSummary, commentsCount int) *TaskView {
	return &TaskView{
		ID:            t.ID,
		BoardID:       t.BoardID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        t.Status,
		Priority:      t.Priority,
		Assignee:      assignee,
		Reviewer:      reviewer,
		DueDate:       t.DueDate,
		CreatedBy:     t.CreatedBy,
		CommentsCount: commentsCount,
	}
}

func invalidChoice(field, value string, err error) *ValidationError {
	return NewValidationError(field, "\""+value+"\" is not a valid choice.", err)
}
