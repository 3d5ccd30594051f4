package models

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter marks caller errors: non-positive periods, out-of-range
// confidence levels, unordered series. Short or degenerate data is never an error.
var ErrInvalidParameter = errors.New("invalid parameter")

// InvalidParameterf wraps ErrInvalidParameter with a formatted description.
func InvalidParameterf(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, a...))
}

// IsInvalidParameter reports whether err is (or wraps) ErrInvalidParameter.
func IsInvalidParameter(err error) bool { return errors.Is(err, ErrInvalidParameter) }
