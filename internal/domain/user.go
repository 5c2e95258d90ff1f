package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field length bounds. Passwords are measured in bytes since bcrypt ignores
// everything past 72; the others in characters, matching the column widths.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
	MaxFullnameLength = 150
	MaxEmailLength    = 254
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmailTooLong        = errors.New("email must be at most 254 characters long")
	ErrEmptyFullname       = errors.New("fullname cannot be empty")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the board application.
// The email address is the login identifier.
type User struct {
	ID             uuid.UUID `json:"id"`
	Fullname       string    `json:"fullname"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserSummary is the public profile of a user as shown to other users.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Fullname string    `json:"fullname"`
}

// NewUser creates a new User with a fresh ID and timestamps.
// The email is normalized with NormalizeEmail.
//
// The caller is responsible for hashing the password before storing the user.
func NewUser(fullname, email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Fullname:  strings.TrimSpace(fullname),
		Email:     NormalizeEmail(email),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Summary returns the public profile of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Email:    u.Email,
		Fullname: u.Fullname,
	}
}

// Validate checks if the User has valid data.
// All field problems are reported together as ValidationErrors.
func (u *User) Validate() error {
	var errs ValidationErrors

	if u.ID == uuid.Nil {
		errs = append(errs, NewValidationError("id", "is required", ErrEmptyUserID))
	}

	switch {
	case u.Fullname == "":
		errs = append(errs, NewValidationError("fullname", "This field is required.", ErrEmptyFullname))
	case utf8.RuneCountInString(u.Fullname) > MaxFullnameLength:
		errs = append(errs, NewValidationError("fullname", "Ensure this field has no more than 150 characters.", ErrValidation))
	}

	switch {
	case u.Email == "":
		errs = append(errs, NewValidationError("email", "This field is required.", ErrEmptyEmail))
	case utf8.RuneCountInString(u.Email) > MaxEmailLength:
		errs = append(errs, NewValidationError("email", "Ensure this field has no more than 254 characters.", ErrEmailTooLong))
	case !ValidateEmailFormat(u.Email):
		errs = append(errs, NewValidationError("email", "Enter a valid email address.", ErrInvalidEmail))
	}

	if u.Password != "" {
		if err := ValidatePassword(u.Password); err != nil {
			errs = append(errs, NewValidationError("password", err.Error(), err))
		}
	} else if u.HashedPassword == "" {
		// Stored users carry only the hash.
		errs = append(errs, NewValidationError("password", "This field is required.", ErrEmptyPassword))
	}

	return errs.ErrOrNil()
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address,
// so lookups and the uniqueness constraint agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmailFormat reports whether email is a bare RFC 5322 address
// with a dotted domain part.
func ValidateEmailFormat(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	domainPart := email[at+1:]
	dot := strings.Index(domainPart, ".")
	return dot > 0 && dot < len(domainPart)-1
}

// ValidatePassword checks the length bounds for a plaintext password.
func ValidatePassword(password string) error {
	switch n := len(password); {
	case n == 0:
		return ErrEmptyPassword
	case n < MinPasswordLength:
		return ErrPasswordTooShort
	case n > MaxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}
