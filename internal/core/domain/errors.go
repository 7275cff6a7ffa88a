package domain

import "fmt"

// ValidationError marks a client-caused failure: malformed input or a
// product that could not be validated upstream. The message is relayed to
// the caller verbatim.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// WrapValidationError keeps the upstream message intact while preserving
// the original error for errors.Is/As chains.
func WrapValidationError(err error) *ValidationError {
	return &ValidationError{Message: err.Error(), Err: err}
}

// NotFoundError marks a lookup for an order id that does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NewOrderNotFound(id string) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("order with id %s not found", id)}
}
