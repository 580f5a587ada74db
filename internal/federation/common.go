// Package federation holds the error taxonomy shared by the federation components.
package federation

import (
	"errors"
	"fmt"
)

var (
	ErrMissingProperty        = errors.New("missing property")
	ErrUnprocessablePropValue = errors.New("unprocessable property value")
	ErrUnsupported            = errors.New("unsupported")
	ErrNotFoundIRI            = errors.New("IRI not found")
	ErrPrecondition           = errors.New("precondition failed")
	ErrSignerMismatch         = errors.New("activity actor does not match signer")
)

// ValidationError reports a structurally malformed activity. It is raised before any mutation and is never
// worth retrying.
type ValidationError struct {
	Msg string
	err error
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.err
}

// Invalid builds a ValidationError. A %w verb in format is preserved for errors.Is.
func Invalid(format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return &ValidationError{Msg: err.Error(), err: errors.Unwrap(err)}
}

// PreconditionError reports an activity that is well formed but cannot be applied to the current state, such
// as an Update of an unknown object.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string {
	return e.Msg
}

func (e *PreconditionError) Unwrap() error {
	return ErrPrecondition
}

func Precondition(format string, args ...any) error {
	return &PreconditionError{Msg: fmt.Sprintf(format, args...)}
}

// DeliveryError is returned when a remote inbox answers a delivery with a non-2xx status.
type DeliveryError struct {
	Inbox      string
	StatusCode int
	Body       []byte
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed with status %d: %s", e.Inbox, e.StatusCode, e.Body)
}
