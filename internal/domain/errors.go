package domain

import "errors"

var (
	// Entry errors
	ErrEntryNotFound      = errors.New("entry not found")
	ErrUnknownEntryKind   = errors.New("unknown entry kind")
	ErrUnknownEntryStatus = errors.New("unknown entry status")

	// User errors
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidEmail           = errors.New("invalid email format")
	ErrInvalidUserName        = errors.New("invalid user name")
)

// ValidationError is a user-correctable business rule violation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Entry validation failures, in the order ValidateEntry checks them.
var (
	ErrInvalidDescription = &ValidationError{Message: "invalid description"}
	ErrInvalidMonth       = &ValidationError{Message: "invalid month"}
	ErrInvalidYear        = &ValidationError{Message: "invalid year"}
	ErrMissingUser        = &ValidationError{Message: "missing user"}
	ErrInvalidAmount      = &ValidationError{Message: "invalid amount"}
	ErrMissingEntryKind   = &ValidationError{Message: "missing entry type"}
)

// PreconditionError reports a caller bug: an operation that needs a
// persisted entry received one without an id.
type PreconditionError struct {
	Op string
}

func (e *PreconditionError) Error() string {
	return e.Op + ": entry has no id"
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPreconditionError reports whether err is a PreconditionError.
func IsPreconditionError(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}
