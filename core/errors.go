package core

import "github.com/pkg/errors"

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// PersistenceError is a store level failure: constraint violation, lost connection, bad query...
type PersistenceError struct {
	Op  string
	Err error
	// Constraint is set when the store rejected the change because of a schema constraint
	// (foreign key, unique, not null, check), as reported by the driver error code.
	Constraint bool
}

func (err *PersistenceError) Error() string {
	return "persistence: " + err.Op + ": " + err.Err.Error()
}

func (err *PersistenceError) Unwrap() error { return err.Err }

// IsConstraint reports whether the store rejected the change because of a schema constraint.
func (err *PersistenceError) IsConstraint() bool { return err.Constraint }

// IsPersistenceError reports whether err was caused by a PersistenceError.
func IsPersistenceError(err error) bool {
	_, ok := errors.Cause(err).(*PersistenceError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
