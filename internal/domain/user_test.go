package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("  Erika Example ", " Erika@Example.COM ", "supersecret")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if user.Fullname != "Erika Example" {
		t.Errorf("Expected trimmed fullname, got %q", user.Fullname)
	}
	if user.Email != "erika@example.com" {
		t.Errorf("Expected normalized email, got %q", user.Email)
	}
	if user.Password != "supersecret" {
		t.Errorf("Expected plaintext password to be kept for hashing, got %q", user.Password)
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("Expected non-zero timestamps")
	}
}

func TestNewUserValidation(t *testing.T) {
	tests := []struct {
		name      string
		fullname  string
		email     string
		password  string
		wantField string
		wantErr   error
	}{
		{"missing fullname", "", "a@example.com", "supersecret", "fullname", ErrEmptyFullname},
		{"missing email", "A", "", "supersecret", "email", ErrEmptyEmail},
		{"invalid email", "A", "not-an-email", "supersecret", "email", ErrInvalidEmail},
		{"email without dotted domain", "A", "a@localhost", "supersecret", "email", ErrInvalidEmail},
		{"long email", "A", strings.Repeat("a", 243) + "@example.com", "supersecret", "email", ErrEmailTooLong},
		{"long fullname", strings.Repeat("ж", MaxFullnameLength+1), "a@example.com", "supersecret", "fullname", ErrValidation},
		{"short password", "A", "a@example.com", "short", "password", ErrPasswordTooShort},
		{"long password", "A", "a@example.com", strings.Repeat("x", 73), "password", ErrPasswordTooLong},
		{"empty password", "A", "a@example.com", "", "password", ErrEmptyPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.fullname, tt.email, tt.password)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Expected validation error, got %v", err)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v in chain, got %v", tt.wantErr, err)
			}
			if _, ok := FieldErrors(err)[tt.wantField]; !ok {
				t.Errorf("Expected field %q in %v", tt.wantField, FieldErrors(err))
			}
		})
	}
}

func TestUserValidateStoredUser(t *testing.T) {
	user := User{
		ID:             uuid.New(),
		Fullname:       "Stored User",
		Email:          "stored@example.com",
		HashedPassword: "$2a$10$hash",
	}
	if err := user.Validate(); err != nil {
		t.Errorf("Expected no error for user with only a hash, got %v", err)
	}

	user.ID = uuid.Nil
	if err := user.Validate(); !errors.Is(err, ErrEmptyUserID) {
		t.Errorf("Expected %v, got %v", ErrEmptyUserID, err)
	}
}

func TestNewUserMultibyteFullname(t *testing.T) {
	fullname := strings.Repeat("ж", MaxFullnameLength)
	user, err := NewUser(fullname, "a@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Expected %d characters to be accepted, got %v", MaxFullnameLength, err)
	}
	if user.Fullname != fullname {
		t.Errorf("Expected fullname to be kept, got %q", user.Fullname)
	}
}

func TestUserSummary(t *testing.T) {
	user := User{ID: uuid.New(), Fullname: "F", Email: "f@example.com", HashedPassword: "h"}
	summary := user.Summary()
	if summary.ID != user.ID || summary.Email != user.Email || summary.Fullname != user.Fullname {
		t.Errorf("Summary does not match user: %+v", summary)
	}
}

func TestValidateEmailFormat(t *testing.T) {
	valid := []string{"a@b.co", "first.last@example.org", "x+tag@sub.example.com"}
	invalid := []string{"", "plain", "@example.com", "a@", "a@b", "a@.com", "Name <a@b.com>"}

	for _, email := range valid {
		if !ValidateEmailFormat(email) {
			t.Errorf("Expected %q to be valid", email)
		}
	}
	for _, email := range invalid {
		if ValidateEmailFormat(email) {
			t.Errorf("Expected %q to be invalid", email)
		}
	}
}
