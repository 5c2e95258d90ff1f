package auth

import "errors"

// Common authentication errors
var (
	// ErrInvalidToken indicates the token is malformed, its signature doesn't
	// match, or it is not on record for any user.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrPasswordMismatch indicates a password does not match its stored hash.
	ErrPasswordMismatch = errors.New("password does not match")
)
