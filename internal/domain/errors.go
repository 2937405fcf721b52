package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Callers wrap them with context and classify with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrConflict        = errors.New("conflict")
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidTransition is an ErrInvalidInput for a status change the order machine forbids.
	ErrInvalidTransition = fmt.Errorf("%w: status transition not allowed", ErrInvalidInput)
)
