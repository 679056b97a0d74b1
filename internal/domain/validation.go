package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MinMonth          = 1
	MaxMonth          = 12
	MinYear           = 1000
	MaxYear           = 9999
	MaxUserNameLength = 255
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEntry checks an entry before it is persisted and returns the
// first violated rule. A kind outside the known set counts as missing.
// Id, registration date and status are not checked.
func ValidateEntry(e *Entry) error {
	if e == nil || strings.TrimSpace(e.Description) == "" {
		return ErrInvalidDescription
	}

	if e.Month < MinMonth || e.Month > MaxMonth {
		return ErrInvalidMonth
	}

	if e.Year < MinYear || e.Year > MaxYear {
		return ErrInvalidYear
	}

	if e.OwnerID() == "" {
		return ErrMissingUser
	}

	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !e.Kind.IsValid() {
		return ErrMissingEntryKind
	}

	return nil
}

// ValidateUserName validates a display name
func ValidateUserName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidUserName)
	}

	if len(name) > MaxUserNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidUserName, MaxUserNameLength)
	}

	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// NormalizeEmail lower-cases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
