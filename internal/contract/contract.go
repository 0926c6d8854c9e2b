// Package contract defines the error kind returned when a caller violates a
// documented precondition (malformed gesture, mismatched training shapes,
// out-of-range configuration).
package contract

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a precondition violation. Test with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// Invalidf returns an error wrapping ErrInvalidInput with a formatted reason.
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
