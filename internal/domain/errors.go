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

// PaymentFailedError signals a provider-reported non-success verification.
// Maps to 402 at the HTTP layer.
type PaymentFailedError struct {
	Reference string
	Msg       string
}

func (e PaymentFailedError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Reference != "" {
		return fmt.Sprintf("payment %s was not successful", e.Reference)
	}
	return "payment was not successful"
}

// UpstreamError signals that the payment provider could not be reached or
// returned garbage. Maps to 502 at the HTTP layer.
type UpstreamError struct {
	Op  string
	Err error
}

func (e UpstreamError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("payment provider error during %s", e.Op)
	}
	return "payment provider error"
}

func (e UpstreamError) Unwrap() error { return e.Err }

// ConfigError signals missing server-side configuration (e.g. provider
// secret key). Maps to 500.
type ConfigError struct {
	Key string
}

func (e ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("server configuration missing: %s", e.Key)
	}
	return "server misconfigured"
}

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

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsPaymentFailed(err error) bool {
	var target PaymentFailedError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target UpstreamError
	return errors.As(err, &target)
}

func IsConfig(err error) bool {
	var target ConfigError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
