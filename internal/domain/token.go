package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTokenKey    = errors.New("token key cannot be empty")
	ErrEmptyTokenUserID = errors.New("token user ID cannot be empty")
)

// AuthToken is the persisted bearer credential of a user.
// Each user owns at most one token; it is reused on every login.
type AuthToken struct {
	Key       string    `json:"-"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAuthToken creates a token record binding key to userID.
func NewAuthToken(userID uuid.UUID, key string) (*AuthToken, error) {
	token := &AuthToken{
		Key:       key,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := token.Validate(); err != nil {
		return nil, err
	}
	return token, nil
}

// Validate checks that the token is bound to a user and has a key.
func (t *AuthToken) Validate() error {
	if t.Key == "" {
		return ErrEmptyTokenKey
	}
	if t.UserID == uuid.Nil {
		return ErrEmptyTokenUserID
	}
	return nil
}
