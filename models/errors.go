// ABOUTME: Coded errors shared by the store, storage and import layers
// ABOUTME: Distinguishes validation, not-found and storage failures
package models

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an error for callers.
type ErrorCode string

const (
	ErrCodeInvalid  ErrorCode = "invalid"
	ErrCodeNotFound ErrorCode = "not_found"
	ErrCodeStorage  ErrorCode = "storage"
)

// Error is the error type returned by CRM operations.
type Error struct {
	Code    ErrorCode
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches any *Error with the same code, so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && t.Field == "" && t.Err == nil
}

// ErrNotFound is reported by collaborators when an operation was a no-op.
var ErrNotFound = &Error{Code: ErrCodeNotFound, Message: "not found"}

// NewValidationError reports an invalid field.
func NewValidationError(field, message string) *Error {
	return &Error{Code: ErrCodeInvalid, Field: field, Message: message}
}

// WrapValidationError reports invalid input caused by err.
func WrapValidationError(message string, err error) *Error {
	return &Error{Code: ErrCodeInvalid, Message: message, Err: err}
}

// WrapStorageError reports a failed read or write of the storage slot.
func WrapStorageError(message string, err error) *Error {
	return &Error{Code: ErrCodeStorage, Message: message, Err: err}
}

// HasCode reports whether err carries code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

func IsValidation(err error) bool { return HasCode(err, ErrCodeInvalid) }

func IsStorage(err error) bool { return HasCode(err, ErrCodeStorage) }

// NewNotFoundError reports that a record of kind with id does not exist.
func NewNotFoundError(kind, id string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s %s not found", kind, id)}
}
