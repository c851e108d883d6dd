package core

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every input validation error in this package.
var ErrValidation = errors.New("validation failed")

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// validationError is a sentinel that also satisfies errors.Is(err, ErrValidation).
type validationError string

func (e validationError) Error() string { return string(e) }

func (e validationError) Is(target error) bool { return target == ErrValidation }

var (
	ErrInvalidMonth       error = validationError("invalid month")
	ErrInvalidYear        error = validationError("invalid year")
	ErrInvalidDays        error = validationError("invalid number of days")
	ErrInvalidAmount      error = validationError("invalid amount")
	ErrInvalidDate        error = validationError("invalid date")
	ErrEmptyDescription   error = validationError("empty description")
	ErrEmptyName          error = validationError("empty name")
	ErrInvalidColor       error = validationError("invalid color")
	ErrUnknownCategory    error = validationError("unknown category")
	ErrInvalidSort        error = validationError("invalid sort")
	ErrInvalidPage        error = validationError("invalid page")
	ErrInvalidDateRange   error = validationError("invalid date range")
	ErrInvalidAmountRange error = validationError("invalid amount range")
	ErrTooLong            error = validationError("value too long")
)

func wrapf(err error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{err}, args...)...)
}
