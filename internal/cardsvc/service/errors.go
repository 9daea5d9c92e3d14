package service

import (
	"errors"
	"fmt"
)

var (
	ErrCardAlreadyExists = errors.New("card already exists")
	ErrCardNotFound      = errors.New("card not found")
	ErrWriteFailed       = errors.New("card write failed")
)

// CardError carries the message shown to API callers. errors.Is matches both
// Kind (one of the sentinels above) and the underlying cause.
type CardError struct {
	Kind    error
	Message string
	Err     error
}

func (e *CardError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CardError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func alreadyExists(mobileNumber string) *CardError {
	return &CardError{
		Kind:    ErrCardAlreadyExists,
		Message: fmt.Sprintf("Card already registered with given mobileNumber %s", mobileNumber),
	}
}

func notFound(field, value string) *CardError {
	return &CardError{
		Kind:    ErrCardNotFound,
		Message: fmt.Sprintf("Card not found with the given input data %s : '%s'", field, value),
	}
}

func writeFailed(op string, err error) *CardError {
	return &CardError{
		Kind:    ErrWriteFailed,
		Message: op + " failed",
		Err:     err,
	}
}

// Message returns the caller-facing text of err.
func Message(err error) string {
	var ce *CardError
	if errors.As(err, &ce) {
		return ce.Message
	}
	return err.Error()
}
