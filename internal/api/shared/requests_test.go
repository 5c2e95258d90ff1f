package shared

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title    string `json:"title"    validate:"required,max=5"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Priority string `json:"priority" validate:"omitempty,oneof=low high"`
	Count    int    `json:"count"`
}

func newRequest(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		var req sampleRequest
		require.NoError(t, DecodeJSON(newRequest(`{"title":"abc","count":2}`), &req))
		assert.Equal(t, "abc", req.Title)
		assert.Equal(t, 2, req.Count)
	})

	t.Run("read-only fields are ignored", func(t *testing.T) {
		t.Parallel()
		var req sampleRequest
		body := `{"id":7,"title":"abc","created_at":"2024-01-01T00:00:00Z"}`
		require.NoError(t, DecodeJSON(newRequest(body), &req))
		assert.Equal(t, "abc", req.Title)
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		var req sampleRequest
		err := DecodeJSON(newRequest(`{"title":`), &req)
		assert.ErrorIs(t, err, ErrInvalidJSON)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		var req sampleRequest
		assert.ErrorIs(t, DecodeJSON(newRequest(""), &req), ErrInvalidJSON)
	})

	t.Run("wrong type names the field", func(t *testing.T) {
		t.Parallel()
		var req sampleRequest
		err := DecodeJSON(newRequest(`{"count":"two"}`), &req)

		require.ErrorIs(t, err, domain.ErrValidation)
		assert.Equal(t, map[string]string{"count": "Invalid value."}, domain.FieldErrors(err))
	})
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  sampleRequest
		want map[string]string
	}{
		{
			name: "valid",
			req:  sampleRequest{Title: "abc"},
		},
		{
			name: "required",
			req:  sampleRequest{},
			want: map[string]string{"title": "This field is required."},
		},
		{
			name: "every failure is reported",
			req:  sampleRequest{Title: "too long", Email: "nope", Priority: "mid"},
			want: map[string]string{
				"title":    "Ensure this field has no more than 5 characters.",
				"email":    "Enter a valid email address.",
				"priority": `"mid" is not a valid choice.`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateRequest(&tt.req)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
			assert.Equal(t, tt.want, domain.FieldErrors(err))
		})
	}
}
