package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorMatching(t *testing.T) {
	err := NewValidationError("email", "Enter a valid email address.", ErrInvalidEmail)
	wrapped := fmt.Errorf("register: %w", err)

	assert.True(t, errors.Is(wrapped, ErrValidation))
	assert.True(t, errors.Is(wrapped, ErrInvalidEmail))
	assert.Equal(t, map[string]string{"email": "Enter a valid email address."}, FieldErrors(wrapped))

	plain := NewValidationError("title", "is required", nil)
	assert.ErrorIs(t, plain, ErrValidation)
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.ErrOrNil())

	errs = append(errs,
		NewValidationError("a", "first", nil),
		NewValidationError("a", "second", nil),
		NewValidationError("b", "third", nil),
	)
	err := errs.ErrOrNil()
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, map[string]string{"a": "first", "b": "third"}, FieldErrors(err))
	assert.Contains(t, err.Error(), "and 2 more")
	assert.Nil(t, FieldErrors(errors.New("other")))
}
