package recurrence

import (
	"errors"
	"fmt"
)

// Error types
type ErrorType string

const (
	ErrInvalidConfiguration ErrorType = "invalid_configuration"
	ErrUnsupportedRule      ErrorType = "unsupported_rule"
)

// Error represents a recurrence-related error
type Error struct {
	Type    ErrorType
	Field   string // Offending configuration field, if any
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalid(field, format string, args ...any) error {
	return &Error{Type: ErrInvalidConfiguration, Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsInvalidConfiguration reports whether err, or any error it wraps, is an
// ErrInvalidConfiguration error.
func IsInvalidConfiguration(err error) bool {
	return hasType(err, ErrInvalidConfiguration)
}

// IsUnsupportedRule reports whether err is an ErrUnsupportedRule error.
func IsUnsupportedRule(err error) bool {
	return hasType(err, ErrUnsupportedRule)
}

func hasType(err error, typ ErrorType) bool {
	var rerr *Error
	return errors.As(err, &rerr) && rerr.Type == typ
}
