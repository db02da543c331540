package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var errNoStore = errors.New("no reading store configured")

// ValidationError marks input the caller got wrong, as opposed to storage
// failures. The HTTP layer maps it to 400.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func invalidf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func validateRangeInt(name string, value, min, max int) error {
	if value < min || value > max {
		return invalidf("%s must be between %d and %d", name, min, max)
	}
	return nil
}

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

// roundHalfUp rounds to the nearest integer with ties going up, matching
// how averages are displayed (129.5 -> 130, -0.5 -> 0).
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
