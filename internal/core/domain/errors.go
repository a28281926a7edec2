package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "RM-MEMB-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// Membership errors (MEMB).
var (
	// ErrMemberNotFound indicates the requested member is not in the roster.
	ErrMemberNotFound = NewDomainError("RM-MEMB-4040", "member not found")

	// ErrEmptyMemberID indicates an operation was attempted with an empty ID.
	ErrEmptyMemberID = NewDomainError("RM-MEMB-4000", "empty member id")

	// ErrUnknownHealth indicates an unrecognized health state name.
	ErrUnknownHealth = NewDomainError("RM-MEMB-4001", "unknown health state")
)

// Archive errors (ARCH).
var (
	// ErrArchiveClosed indicates a write against a closed tombstone archive.
	ErrArchiveClosed = NewDomainError("RM-ARCH-5001", "tombstone archive closed")

	// ErrArchive indicates an underlying storage failure.
	ErrArchive = NewDomainError("RM-ARCH-5000", "tombstone archive failure")
)

// Configuration errors (CONF).
var (
	// ErrConfigInvalid indicates the configuration failed verification.
	ErrConfigInvalid = NewDomainError("RM-CONF-4000", "invalid configuration")
)

// Internal errors (CORE).
var (
	// ErrInternal indicates an unexpected internal failure.
	ErrInternal = NewDomainError("RM-CORE-5000", "internal error")
)
