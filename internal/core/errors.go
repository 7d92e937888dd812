package core

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of all user-correctable input errors. Callers
// should match with errors.Is so that field-specific sentinels below map to
// the same HTTP status.
var ErrValidation = errors.New("invalid input")

var (
	ErrEmptyName     = fmt.Errorf("%w: name is required", ErrValidation)
	ErrInvalidAmount = fmt.Errorf("%w: amount must be a number", ErrValidation)
	ErrInvalidDate   = fmt.Errorf("%w: date must be yyyy-mm-dd", ErrValidation)
	ErrInvalidBudget = fmt.Errorf("%w: budget must be greater than zero", ErrValidation)
	ErrInvalidTarget = fmt.Errorf("%w: target must be greater than zero", ErrValidation)
)

var (
	// ErrNotFound means the referenced record does not exist under the
	// requesting owner. Terminal for the request.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized covers missing, invalid and expired credentials as
	// well as failed logins.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDuplicateUser is returned when registering an already taken username.
	ErrDuplicateUser = errors.New("username already taken")

	// ErrUnavailable marks a transient storage or broker failure. Reads are
	// safe to retry; mutations are too, since ids are generated server-side.
	ErrUnavailable = errors.New("temporarily unavailable")
)
