package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoard(t *testing.T) {
	owner := uuid.New()

	board, err := NewBoard(owner, "  Sprint 1 ")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, board.ID)
	assert.Equal(t, "Sprint 1", board.Title)
	assert.True(t, board.IsOwner(owner))
	assert.False(t, board.IsOwner(uuid.New()))

	_, err = NewBoard(owner, "   ")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Equal(t, map[string]string{"title": "This field is required."}, FieldErrors(err))

	_, err = NewBoard(owner, strings.Repeat("t", MaxTitleLength+1))
	assert.ErrorIs(t, err, ErrTitleTooLong)

	// Limits count characters, not bytes.
	cyrillic, err := NewBoard(owner, strings.Repeat("д", MaxTitleLength))
	require.NoError(t, err)
	assert.Len(t, cyrillic.Title, 2*MaxTitleLength)

	_, err = NewBoard(uuid.Nil, "Board")
	assert.ErrorIs(t, err, ErrEmptyBoardOwner)
}

func TestBoardApply(t *testing.T) {
	board, err := NewBoard(uuid.New(), "Old")
	require.NoError(t, err)

	require.NoError(t, board.Apply(BoardPatch{}))
	assert.Equal(t, "Old", board.Title)

	title := "New"
	require.NoError(t, board.Apply(BoardPatch{Title: &title}))
	assert.Equal(t, "New", board.Title)

	empty := ""
	err = board.Apply(BoardPatch{Title: &empty})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "New", board.Title, "failed patch must not change the board")
}

func TestMemberSet(t *testing.T) {
	owner := uuid.New()
	a, b := uuid.New(), uuid.New()

	assert.Equal(t, []uuid.UUID{owner}, MemberSet(owner, nil))
	assert.Equal(t, []uuid.UUID{a, b, owner}, MemberSet(owner, []uuid.UUID{a, b, a, uuid.Nil}))
	assert.Equal(t, []uuid.UUID{owner, a}, MemberSet(owner, []uuid.UUID{owner, a}))
}
