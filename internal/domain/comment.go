package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyCommentID     = errors.New("comment ID cannot be empty")
	ErrEmptyCommentTaskID = errors.New("comment task ID cannot be empty")
	ErrEmptyCommentAuthor = errors.New("comment author cannot be empty")
)

// Comment is a note left by a user on a task. CreatedAt is assigned by the
// server and never changes; comments are listed in ascending CreatedAt order.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is the read model of a comment with the author's display name.
type CommentView struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
}

// NewComment creates a comment stamped with the current server time.
func NewComment(taskID, authorID uuid.UUID, content string) (*Comment, error) {
	comment := &Comment{
		ID:        uuid.New(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := comment.Validate(); err != nil {
		return nil, err
	}
	return comment, nil
}

// Validate checks the comment fields.
func (c *Comment) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "is required", ErrEmptyCommentID)
	}
	if c.TaskID == uuid.Nil {
		return NewValidationError("task", "is required", ErrEmptyCommentTaskID)
	}
	if c.AuthorID == uuid.Nil {
		return NewValidationError("author", "is required", ErrEmptyCommentAuthor)
	}
	if strings.TrimSpace(c.Content) == "" {
		return NewValidationError("content", "This field may not be blank.", ErrEmptyContent)
	}
	return nil
}

// IsAuthor reports whether userID wrote the comment.
func (c *Comment) IsAuthor(userID uuid.UUID) bool {
	return c.AuthorID == userID
}
