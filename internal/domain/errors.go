package domain

import "errors"

var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden is returned when the actor is not allowed to perform the operation
	ErrForbidden = errors.New("forbidden")

	// ErrConflict is returned when a uniqueness rule is violated
	ErrConflict = errors.New("conflict occurred")

	// ErrInvalidState is returned when the resource is in the wrong state for the operation
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrInsufficientStock is returned when a managed product cannot cover the requested quantity
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
)
