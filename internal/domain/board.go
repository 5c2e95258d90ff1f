package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTitleLength bounds board and task titles.
const MaxTitleLength = 255

var (
	ErrEmptyBoardID    = errors.New("board ID cannot be empty")
	ErrEmptyBoardOwner = errors.New("board owner cannot be empty")
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrTitleTooLong    = errors.New("title must be at most 255 characters long")
)

// Board is a named collection of tasks with an owner and a set of members.
// The owner always has member access, whether or not it is listed in the
// membership table.
type Board struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	OwnerID   uuid.UUID `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BoardSummary is the list view of a board with its counters.
type BoardSummary struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	OwnerID            uuid.UUID `json:"owner_id"`
	MemberCount        int       `json:"member_count"`
	TicketCount        int       `json:"ticket_count"`
	TasksToDoCount     int       `json:"tasks_to_do_count"`
	TasksHighPrioCount int       `json:"tasks_high_prio_count"`
}

// BoardDetail is the full view of a board: counters, members and tasks.
type BoardDetail struct {
	BoardSummary
	Members []UserSummary `json:"members"`
	Tasks   []*TaskView   `json:"tasks"`
}

// BoardPatch holds the mutable board fields of a partial update.
// A nil MemberIDs leaves the membership untouched; a non-nil slice replaces it.
type BoardPatch struct {
	Title     *string
	MemberIDs *[]uuid.UUID
}

// NewBoard creates a board owned by ownerID.
func NewBoard(ownerID uuid.UUID, title string) (*Board, error) {
	now := time.Now().UTC()
	board := &Board{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := board.Validate(); err != nil {
		return nil, err
	}
	return board, nil
}

// Validate checks the board fields.
func (b *Board) Validate() error {
	if b.ID == uuid.Nil {
		return NewValidationError("id", "is required", ErrEmptyBoardID)
	}
	if b.OwnerID == uuid.Nil {
		return NewValidationError("owner_id", "is required", ErrEmptyBoardOwner)
	}
	return validateTitle(b.Title)
}

// IsOwner reports whether userID owns the board.
func (b *Board) IsOwner(userID uuid.UUID) bool {
	return b.OwnerID == userID
}

// Apply validates and applies the patch. Membership changes are not board
// fields and are left to the caller.
func (b *Board) Apply(patch BoardPatch) error {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if err := validateTitle(title); err != nil {
			return err
		}
		b.Title = title
	}
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// MemberSet returns ids deduplicated with the owner included, preserving order.
func MemberSet(ownerID uuid.UUID, ids []uuid.UUID) []uuid.UUID {
	all := make([]uuid.UUID, 0, len(ids)+1)
	all = append(all, ids...)
	return DedupeIDs(append(all, ownerID))
}

// DedupeIDs removes nil and duplicate ids, preserving order.
func DedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func validateTitle(title string) error {
	if title == "" {
		return NewValidationError("title", "This field is required.", ErrEmptyTitle)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return NewValidationError("title", "Ensure this field has no more than 255 characters.", ErrTitleTooLong)
	}
	return nil
}
