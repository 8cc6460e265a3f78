package entity

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned on failed login attempts. The same
// error is used for unknown emails and wrong passwords so the API does
// not leak which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrValidation wraps input validation failures that gin's binding
// layer cannot express, e.g. a malformed CNPJ check digit count.
var ErrValidation = errors.New("validation failed")

// NotFoundError reports that a referenced record does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s with ID %d not found", e.Entity, e.ID)
}

// NewNotFound creates a NotFoundError for the given entity and id.
// Pass id 0 when the record was looked up by another key and the
// message should not name one.
func NewNotFound(entity string, id int64) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// InvalidReferenceError reports that an input references a record that
// does not resolve. Unlike NotFoundError it blocks a write rather than
// a read, so the HTTP layer maps it to 422 instead of 404.
type InvalidReferenceError struct {
	Entity string
	ID     int64
}

func (e *InvalidReferenceError) Error() string {
	return fmt.Sprintf("referenced %s with ID %d does not exist", e.Entity, e.ID)
}

// NewInvalidReference creates an InvalidReferenceError.
func NewInvalidReference(entity string, id int64) *InvalidReferenceError {
	return &InvalidReferenceError{Entity: entity, ID: id}
}

// IsInvalidReference reports whether err is (or wraps) an
// InvalidReferenceError.
func IsInvalidReference(err error) bool {
	var ir *InvalidReferenceError
	return errors.As(err, &ir)
}

// ConflictError reports a uniqueness or ownership violation, e.g. a
// duplicate email or deleting a client that still has services.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflict creates a ConflictError with the given message.
func NewConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
