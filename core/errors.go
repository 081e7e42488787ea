package core

import (
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned when a precondition fails before any store call.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return "validation failed"
	}
	return err.Err.Error()
}

// IsValidation reports whether err is a ValidationError or a validator.ValidationErrors.
func IsValidation(err error) bool {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return true
	}
	var vErrs validator.ValidationErrors
	return errors.As(err, &vErrs)
}

// notFound is returned when an operation targets a missing record.
type notFound struct {
	message string
}

func NewNotFoundError(msg string) error {
	return &notFound{message: msg}
}

func (nf notFound) Error() string {
	return nf.message
}

func IsNotFound(err error) bool {
	var nf *notFound
	return errors.As(err, &nf)
}

// storeUnavailable wraps transport and connectivity failures of a store.
type storeUnavailable struct {
	err error
	msg string
}

func NewStoreUnavailableError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &storeUnavailable{err: err, msg: msg}
}

func (su storeUnavailable) Error() string {
	return "store unavailable: " + su.msg + ": " + su.err.Error()
}

func (su storeUnavailable) Unwrap() error {
	return su.err
}

func IsStoreUnavailable(err error) bool {
	var su *storeUnavailable
	return errors.As(err, &su)
}

// WorkflowError is what a workflow boundary (roster load, batch save, report) reports.
// Its message is meant for the user; the underlying cause is kept for logs and status mapping.
type WorkflowError struct {
	Message string
	Err     error
}

func NewWorkflowError(msg string, err error) error {
	return &WorkflowError{Message: msg, Err: err}
}

func (err WorkflowError) Error() string {
	if err.Err == nil {
		return err.Message
	}
	return err.Message + ": " + err.Err.Error()
}

func (err WorkflowError) Unwrap() error {
	return err.Err
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
