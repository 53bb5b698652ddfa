package services

import (
	"errors"
	"fmt"
)

// Validation errors. They are returned before any state is touched.
var (
	ErrMissingFields    = errors.New("gift name and count are required")
	ErrInvalidCount     = errors.New("count must be a positive integer")
	ErrInvalidLimit     = errors.New("gift limit must be an integer between 0 and 100000")
	ErrInvalidExclusion = errors.New("exclusion must carry a license number and name within length limits")
	ErrInvalidWinner    = errors.New("winner must carry license number, name and gift")
)

// ErrWinnerNotFound is returned when a winner to redraw is not in the winner list
var ErrWinnerNotFound = errors.New("winner not found")

// LimitExceededError is returned when a draw would take a gift past its limit
type LimitExceededError struct {
	Gift      string
	Limit     int
	Current   int
	Requested int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("gift %q allows at most %d winners (current %d, requested %d)", e.Gift, e.Limit, e.Current, e.Requested)
}

// InsufficientPoolError is returned when more winners are requested than remain
type InsufficientPoolError struct {
	Remaining int
	Requested int
}

func (e *InsufficientPoolError) Error() string {
	return fmt.Sprintf("cannot draw %d participants, only %d remaining", e.Requested, e.Remaining)
}

// IsValidationError reports whether err rejects the request's input
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrInvalidCount) ||
		errors.Is(err, ErrInvalidLimit) ||
		errors.Is(err, ErrInvalidExclusion) ||
		errors.Is(err, ErrInvalidWinner)
}

// IsCapacityError reports whether err is a limit or pool size failure
func IsCapacityError(err error) bool {
	var limitErr *LimitExceededError
	var poolErr *InsufficientPoolError
	return errors.As(err, &limitErr) || errors.As(err, &poolErr)
}
