package errors

import (
	"errors"
	"fmt"
)

// Kind categorizes an analysis error. Callers dispatch on the kind, never on
// message text.
type Kind int

const (
	// KindUnknown - unexpected internal failure
	KindUnknown Kind = iota
	// KindNotFound - target repository or user does not exist or is inaccessible
	KindNotFound
	// KindRateLimited - upstream API quota exhausted
	KindRateLimited
	// KindAuthRequired - no usable credential for the upstream API
	KindAuthRequired
	// KindValidation - malformed request, rejected before any network call
	KindValidation
	// KindEmptyResult - ingestion succeeded but yielded zero commits
	KindEmptyResult
)

// Error is a tagged error carrying a kind and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on kind so errors.Is works against sentinel *Error values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error under the given kind. Returns nil for a nil
// cause so call sites can wrap unconditionally.
func Wrap(err error, kind Kind, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: err}
}

// KindOf extracts the kind from an error chain, KindUnknown if untagged.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsNotFound reports whether the error chain carries KindNotFound.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsRateLimited reports whether the error chain carries KindRateLimited.
func IsRateLimited(err error) bool { return KindOf(err) == KindRateLimited }

// IsAuthRequired reports whether the error chain carries KindAuthRequired.
func IsAuthRequired(err error) bool { return KindOf(err) == KindAuthRequired }

// IsValidation reports whether the error chain carries KindValidation.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsEmptyResult reports whether the error chain carries KindEmptyResult.
func IsEmptyResult(err error) bool { return KindOf(err) == KindEmptyResult }
