package Models

import (
	"errors"
)

// Sentinel errors for the count lifecycle. Controllers map these to HTTP
// status codes; anything else is treated as a storage failure (500).
var (
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidOperation  = errors.New("operation not allowed in current state")
	ErrNotFound          = errors.New("not found")
)
