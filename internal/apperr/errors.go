package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error
type Kind string

const (
	KindInvalidInput        Kind = "invalid_input"
	KindNotFound            Kind = "not_found"
	KindUnavailable         Kind = "unavailable"
	KindAuthorizationDenied Kind = "authorization_denied"
	KindRequestFailed       Kind = "request_failed"
	KindNoContent           Kind = "no_content"
	KindDecodeFailed        Kind = "decode_failed"
	KindTimeout             Kind = "timeout"
	KindInternal            Kind = "internal"
)

// Error is an application error carrying a kind for dispatch at the API
// boundary. StatusCode is set for upstream request failures only.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors by kind
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New creates an error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap wraps err with a kind and message
func Wrap(err error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// InvalidInput reports a rejected caller-supplied value
func InvalidInput(message string) *Error {
	return New(KindInvalidInput, message)
}

// NotFound reports a missing entity
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Unavailable reports an unreachable upstream collaborator
func Unavailable(err error, message string) *Error {
	return Wrap(err, KindUnavailable, message)
}

// AuthorizationDenied reports a refused data-access grant
func AuthorizationDenied(message string) *Error {
	return New(KindAuthorizationDenied, message)
}

// RequestFailed reports a non-success upstream response
func RequestFailed(statusCode int, message string) *Error {
	return &Error{Kind: KindRequestFailed, Message: message, StatusCode: statusCode}
}

// NoContent reports an upstream response with an empty payload
func NoContent(message string) *Error {
	return New(KindNoContent, message)
}

// DecodeFailed reports a malformed upstream payload
func DecodeFailed(err error, message string) *Error {
	return Wrap(err, KindDecodeFailed, message)
}

// Timeout reports an upstream call that exceeded its deadline
func Timeout(err error, message string) *Error {
	return Wrap(err, KindTimeout, message)
}

// KindOf extracts the kind from err, or KindInternal when err is not an
// application error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
