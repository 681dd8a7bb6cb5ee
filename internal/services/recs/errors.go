package recs

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a recommendation pipeline failure
type ErrorKind string

const (
	// ErrorKindValidation indicates a missing or invalid required identifier
	ErrorKindValidation ErrorKind = "validation"
	// ErrorKindDatabase indicates an underlying store call failed
	ErrorKindDatabase ErrorKind = "database"
	// ErrorKindUnknown indicates anything else unanticipated
	ErrorKindUnknown ErrorKind = "unknown"
)

// Error is a typed pipeline error. Database errors wrap the original cause.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Op != "":
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Op, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError creates a validation error with the given message
func ValidationError(message string) *Error {
	return &Error{Kind: ErrorKindValidation, Message: message}
}

// DatabaseError wraps a store failure, recording the failing operation
func DatabaseError(op string, err error) *Error {
	return &Error{Kind: ErrorKindDatabase, Op: op, Err: err}
}

// UnknownError wraps an unanticipated failure
func UnknownError(op string, err error) *Error {
	return &Error{Kind: ErrorKindUnknown, Op: op, Err: err}
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	return kindOf(err) == ErrorKindValidation
}

// IsDatabase reports whether err is a database error
func IsDatabase(err error) bool {
	return kindOf(err) == ErrorKindDatabase
}

func kindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
