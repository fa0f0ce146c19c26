// Package apperr defines the error values shared by the plant store, the
// schedule manager and the transports that sit on top of them.
package apperr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// ValidationError reports bad input shape or range. Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// InvalidTriggerError reports a reminder trigger that cannot be scheduled.
type InvalidTriggerError struct {
	Reason string
	Err    error
}

func (e *InvalidTriggerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid trigger: %s: %v", e.Reason, e.Err)
	}
	return "invalid trigger: " + e.Reason
}

func (e *InvalidTriggerError) Unwrap() error { return e.Err }

// NotFoundError is a normal result variant: callers are expected to check for
// it and turn it into a user-facing message.
type NotFoundError struct {
	Kind string // plant|health issue|reminder
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Kind, e.ID) }

// StorageError wraps a failure of the backing store. The operation that
// returned it left no partial state behind.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("storage: %s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

func Validation(field, reason string) error { return &ValidationError{Field: field, Reason: reason} }

func InvalidTrigger(reason string, err error) error {
	return &InvalidTriggerError{Reason: reason, Err: err}
}

func NotFound(kind, id string) error { return &NotFoundError{Kind: kind, ID: id} }

// Storage wraps err with a stack trace. A nil err yields nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: errors.WithStack(err)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsInvalidTrigger(err error) bool {
	var v *InvalidTriggerError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	var v *NotFoundError
	return errors.As(err, &v)
}

func IsStorage(err error) bool {
	var v *StorageError
	return errors.As(err, &v)
}

// HTTPStatus maps err onto the status code the REST controllers reply with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsNotFound(err):
		return http.StatusNotFound
	case IsValidation(err), IsInvalidTrigger(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
