package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func TestNewTokenSigner(t *testing.T) {
	t.Parallel()

	_, err := NewTokenSigner(config.AuthConfig{TokenSecret: "short"})
	assert.Error(t, err)

	signer, err := NewTokenSigner(config.AuthConfig{TokenSecret: testSecret})
	require.NoError(t, err)
	assert.NotNil(t, signer)
}

func TestSign(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	signer, err := newTokenSigner(testSecret, func() time.Time { return fixedTime })
	require.NoError(t, err)
	userID := uuid.New()

	first, err := signer.Sign(context.Background(), userID)
	require.NoError(t, err)
	second, err := signer.Sign(context.Background(), userID)
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "tokens carry a unique id")

	claims, err := signer.Verify(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return fixedTime }
	userID := uuid.New()

	signer, err := newTokenSigner(testSecret, now)
	require.NoError(t, err)
	other, err := newTokenSigner("wrong-secret-that-is-long-enough-for-testing", now)
	require.NoError(t, err)

	foreign, err := other.Sign(context.Background(), userID)
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, tokenClaims{UserID: userID})
	noneToken, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{})
	noUserToken, err := noUser.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty token", token: "", wantErr: ErrMissingToken},
		{name: "malformed token", token: "this.is.not.a.valid.jwt.token", wantErr: ErrInvalidToken},
		{name: "signed with another secret", token: foreign, wantErr: ErrInvalidToken},
		{name: "unsigned token", token: noneToken, wantErr: ErrInvalidToken},
		{name: "token without user", token: noUserToken, wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			claims, err := signer.Verify(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}

	t.Run("tampered payload", func(t *testing.T) {
		t.Parallel()
		token, err := signer.Sign(context.Background(), userID)
		require.NoError(t, err)
		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		replacement := "A"
		if parts[2][0] == 'A' {
			replacement = "B"
		}
		parts[2] = replacement + parts[2][1:]
		_, err = signer.Verify(context.Background(), strings.Join(parts, "."))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
