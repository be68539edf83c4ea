package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// FieldErrors collects per-field validation failures so a form can surface
// all of them at once instead of one at a time.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation error"
	}
	return fmt.Sprintf("validation failed for %d field(s)", len(e))
}

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

// PaymentDeclinedError means the card was rejected by the processor.
// The buyer may retry with a corrected instrument.
type PaymentDeclinedError struct {
	Msg string
	Err error
}

func (e PaymentDeclinedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "payment declined"
}

func (e PaymentDeclinedError) Unwrap() error { return e.Err }

// CapacityExceededError means the event cannot cover the requested quantity.
// Retrying with the same quantity is pointless; the session treats it as terminal.
type CapacityExceededError struct {
	Available int
	Err       error
}

func (e CapacityExceededError) Error() string {
	if e.Available > 0 {
		return fmt.Sprintf("sold out: only %d ticket(s) left", e.Available)
	}
	return "sold out"
}

func (e CapacityExceededError) Unwrap() error { return e.Err }

// UnavailableError marks a transient failure reaching the order backend.
type UnavailableError struct {
	Msg string
	Err error
}

func (e UnavailableError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "service unavailable"
}

func (e UnavailableError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	if errors.As(err, &target) {
		return true
	}
	var fields FieldErrors
	return errors.As(err, &fields)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsPaymentDeclined(err error) bool {
	var target PaymentDeclinedError
	return errors.As(err, &target)
}

func IsCapacityExceeded(err error) bool {
	var target CapacityExceededError
	return errors.As(err, &target)
}

func IsUnavailable(err error) bool {
	var target UnavailableError
	return errors.As(err, &target)
}

// FieldErrorsOf extracts the per-field map when err carries one.
func FieldErrorsOf(err error) (FieldErrors, bool) {
	var fields FieldErrors
	if errors.As(err, &fields) {
		return fields, true
	}
	var single ValidationError
	if errors.As(err, &single) && single.Field != "" {
		return FieldErrors{single.Field: single.Msg}, true
	}
	return nil, false
}
