package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/config"
	"github.com/phrazzld/kanban-api/internal/platform/logger"
)

// MinSecretLength is the shortest signing secret accepted by NewTokenSigner.
const MinSecretLength = 32

// TokenSigner issues and verifies the bearer tokens handed out on login.
// Tokens do not expire; a token stays valid for as long as its record exists
// in the token store.
type TokenSigner interface {
	// Sign creates a new signed token for userID.
	Sign(ctx context.Context, userID uuid.UUID) (string, error)

	// Verify checks the signature of token and returns its claims.
	// Returns ErrInvalidToken if the token was not issued by this signer.
	Verify(ctx context.Context, token string) (*Claims, error)
}

// Claims carries the identity encoded in a bearer token.
type Claims struct {
	UserID   uuid.UUID
	ID       string
	IssuedAt time.Time
}

// hmacTokenSigner is a TokenSigner using HMAC-SHA256.
type hmacTokenSigner struct {
	signingKey []byte
	timeFunc   func() time.Time // Injectable for testing
}

// tokenClaims is the JWT payload.
type tokenClaims struct {
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

var _ TokenSigner = (*hmacTokenSigner)(nil)

// NewTokenSigner creates an HMAC TokenSigner from the auth configuration.
func NewTokenSigner(cfg config.AuthConfig) (TokenSigner, error) {
	return newTokenSigner(cfg.TokenSecret, time.Now)
}

func newTokenSigner(secret string, timeFunc func() time.Time) (*hmacTokenSigner, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("token secret must be at least %d characters", MinSecretLength)
	}
	return &hmacTokenSigner{
		signingKey: []byte(secret),
		timeFunc:   timeFunc,
	}, nil
}

// Sign implements TokenSigner. Every call yields a distinct token because the
// jti claim is random.
func (s *hmacTokenSigner) Sign(ctx context.Context, userID uuid.UUID) (string, error) {
	log := logger.FromContext(ctx)

	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(s.timeFunc()),
			ID:       uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign bearer token",
			"error", err,
			"user_id", userID,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}
	return signed, nil
}

// Verify implements TokenSigner.
func (s *hmacTokenSigner) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)

	if tokenString == "" {
		return nil, ErrMissingToken
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.timeFunc),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			log.Debug("token verification failed: malformed token", "error", err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			log.Debug("token verification failed: invalid signature", "error", err)
		default:
			log.Debug("token verification failed",
				"error", err,
				"error_type", fmt.Sprintf("%T", err))
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.UserID == uuid.Nil {
		log.Debug("token verification failed: invalid claims")
		return nil, ErrInvalidToken
	}

	verified := &Claims{
		UserID: claims.UserID,
		ID:     claims.ID,
	}
	if claims.IssuedAt != nil {
		verified.IssuedAt = claims.IssuedAt.Time
	}
	return verified, nil
}
