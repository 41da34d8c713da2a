// Package domain holds the error taxonomy shared by services and handlers.
package domain

import (
	"errors"
	"fmt"
)

// ErrProfileNotFound means an authenticated identity owns neither a student
// nor a teacher profile (admin accounts hit this). Handlers surface it as a
// flash message, never a crash.
var ErrProfileNotFound = errors.New("no student or teacher profile for user")

// ErrInvalidCredentials is returned on a failed login.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ValidationError is bad or missing input. Handlers re-render the form with
// the message inline.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a ValidationError for a form field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// NotFoundError means a referenced entity id does not exist; surfaced as 404.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
