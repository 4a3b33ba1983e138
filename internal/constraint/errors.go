package constraint

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes loader errors.
type ErrorCode string

const (
	// ErrCodeMalformed indicates the normalized structured form could not be
	// decoded into the expected shape. Never produced by the text path.
	ErrCodeMalformed ErrorCode = "MALFORMED_SPECIFICATION"

	// ErrCodeIO indicates a read failure (missing file, permission).
	ErrCodeIO ErrorCode = "IO_FAILURE"
)

// SpecError is the typed failure surfaced by loader operations.
type SpecError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *SpecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *SpecError) Unwrap() error {
	return e.Err
}

// IsMalformed returns true if the error is a malformed-specification error.
// Uses errors.As to handle wrapped errors.
func IsMalformed(err error) bool {
	var se *SpecError
	if errors.As(err, &se) {
		return se.Code == ErrCodeMalformed
	}
	return false
}

// IsIOFailure returns true if the error is a read or write failure.
// Uses errors.As to handle wrapped errors.
func IsIOFailure(err error) bool {
	var se *SpecError
	if errors.As(err, &se) {
		return se.Code == ErrCodeIO
	}
	return false
}

// NewMalformedError creates a SpecError for an undecodable normalized form.
func NewMalformedError(message string, err error) *SpecError {
	return &SpecError{Code: ErrCodeMalformed, Message: message, Err: err}
}

// NewIOError creates a SpecError for a failed read.
func NewIOError(message string, err error) *SpecError {
	return &SpecError{Code: ErrCodeIO, Message: message, Err: err}
}
