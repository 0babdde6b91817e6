package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Username and name length constraints enforced at registration.
const (
	UsernameMinLength = 3
	UsernameMaxLength = 30
	NameMinLength     = 1
	NameMaxLength     = 50
	PasswordMinLength = 6
	EmailMaxLength    = 120
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// emailPattern is intentionally permissive: one @ with a dotted domain.
// Uniqueness and deliverability are the database's and the mail system's
// problems respectively.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// User represents a registered account.
// The plaintext Password is only ever populated transiently during
// registration; HashedPassword is what gets persisted. Neither is
// serialized to JSON.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	HashedPassword string    `json:"-"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// RegistrationInput carries the raw registration fields before validation.
type RegistrationInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// NewUser creates a new active User from registration input.
// It generates the user ID and timestamps, and leaves the plaintext
// password on the struct for the caller to hash before persisting.
// Returns a *ValidationError if any field fails validation.
func NewUser(in RegistrationInput) (*User, error) {
	if err := ValidateRegistration(in); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		ID:        uuid.New(),
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateRegistration checks every registration field and collects all
// failures into a single *ValidationError. It is a pure function with no
// transport or storage dependencies.
func ValidateRegistration(in RegistrationInput) error {
	var fields []FieldError

	switch {
	case in.Username == "":
		fields = append(fields, FieldError{"username", "Username is required"})
	case len(in.Username) < UsernameMinLength || len(in.Username) > UsernameMaxLength:
		fields = append(fields, FieldError{"username", "Username must be between 3 and 30 characters"})
	case !usernamePattern.MatchString(in.Username):
		fields = append(fields, FieldError{"username", "Username can only contain letters, numbers, and underscores"})
	}

	switch {
	case in.Email == "":
		fields = append(fields, FieldError{"email", "Email is required"})
	case len(in.Email) > EmailMaxLength || !emailPattern.MatchString(in.Email):
		fields = append(fields, FieldError{"email", "Invalid email format"})
	}

	if msg := passwordStrengthError(in.Password); msg != "" {
		fields = append(fields, FieldError{"password", msg})
	}

	if msg := nameError("First name", in.FirstName); msg != "" {
		fields = append(fields, FieldError{"firstName", msg})
	}
	if msg := nameError("Last name", in.LastName); msg != "" {
		fields = append(fields, FieldError{"lastName", msg})
	}

	if len(fields) > 0 {
		return NewValidationError(fields...)
	}
	return nil
}

// passwordStrengthError returns the first strength rule the password
// violates, or "" when it passes. Rules: minimum length plus at least one
// lowercase letter, one uppercase letter, and one digit.
func passwordStrengthError(password string) string {
	if len(password) < PasswordMinLength {
		return "Password must be at least 6 characters long"
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	switch {
	case !hasLower:
		return "Password must contain at least one lowercase letter"
	case !hasUpper:
		return "Password must contain at least one uppercase letter"
	case !hasDigit:
		return "Password must contain at least one number"
	}
	return ""
}

func nameError(label, value string) string {
	if strings.TrimSpace(value) == "" || len(value) > NameMaxLength {
		return label + " must be between 1 and 50 characters"
	}
	return ""
}
