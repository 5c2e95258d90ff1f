package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/service/auth"
)

// MockTokenSigner implements auth.TokenSigner for testing
type MockTokenSigner struct {
	// SignFn allows test cases to mock the Sign behavior
	SignFn func(ctx context.Context, userID uuid.UUID) (string, error)

	// VerifyFn allows test cases to mock the Verify behavior
	VerifyFn func(ctx context.Context, token string) (*auth.Claims, error)
}

var _ auth.TokenSigner = (*MockTokenSigner)(nil)

// Sign implements auth.TokenSigner. By default it returns "token-<userID>".
func (m *MockTokenSigner) Sign(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.SignFn != nil {
		return m.SignFn(ctx, userID)
	}
	return "token-" + userID.String(), nil
}

// Verify implements auth.TokenSigner. By default it accepts tokens produced
// by the default Sign.
func (m *MockTokenSigner) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, token)
	}
	if token == "" {
		return nil, auth.ErrMissingToken
	}
	const prefix = "token-"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return nil, auth.ErrInvalidToken
	}
	id, err := uuid.Parse(token[len(prefix):])
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: id}, nil
}
