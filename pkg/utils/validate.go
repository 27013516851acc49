package utils

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 6

	// DateLayout is the calendar-day encoding used for meal plans.
	DateLayout = "2006-01-02"
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_. -]+$`)

// ValidationError represents a validation error on a single field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateEmail checks the address parses as a bare RFC 5322 address.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email", Message: "Email is required"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &ValidationError{Field: "email", Message: "Invalid email address"}
	}
	return nil
}

// ValidateUsername validates display name format
// Rules: 3-30 characters, letters, numbers, spaces, dots, dashes, underscores
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)

	if len(username) < MinUsernameLength {
		return &ValidationError{Field: "username", Message: "Username must be at least 3 characters"}
	}

	if len(username) > MaxUsernameLength {
		return &ValidationError{Field: "username", Message: "Username must be at most 30 characters"}
	}

	if !usernameRegex.MatchString(username) {
		return &ValidationError{Field: "username", Message: "Username can only contain letters, numbers, spaces, dots, dashes and underscores"}
	}

	if !(unicode.IsLetter(rune(username[0])) || unicode.IsNumber(rune(username[0]))) {
		return &ValidationError{Field: "username", Message: "Username must start with a letter or number"}
	}

	return nil
}

// ValidatePassword only enforces a minimum length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return &ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}
	return nil
}

// ValidateDate checks s is a real calendar day in YYYY-MM-DD form.
func ValidateDate(field, s string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return &ValidationError{Field: field, Message: field + " must be a date in YYYY-MM-DD format"}
	}
	return nil
}
