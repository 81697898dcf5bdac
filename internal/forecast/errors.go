package forecast

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed history or simulation parameters.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNumericOverflow marks a simulation that produced a non-finite or non-positive price.
	ErrNumericOverflow = errors.New("numeric overflow")
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
