package ledger

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies service errors so transports can map them to
// protocol specific failures
type ErrorKind string

// Error kinds surfaced by the service
const (
	KindInvalidInput           ErrorKind = "InvalidInput"
	KindNotFound               ErrorKind = "NotFound"
	KindInsufficientFunds      ErrorKind = "InsufficientFunds"
	KindSelfTransferNotAllowed ErrorKind = "SelfTransferNotAllowed"
	KindIdempotencyConflict    ErrorKind = "IdempotencyConflict"
	KindUnavailable            ErrorKind = "Unavailable"
)

// Error is a service error with a kind attached
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Message)
}

// NewError returns a service error of a given kind
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns a kind of a given error or an empty string
// if the error carries no kind
func KindOf(err error) ErrorKind {
	if typed, ok := errors.Cause(err).(*Error); ok {
		return typed.Kind
	}
	return ErrorKind("")
}
