// Package pages wraps the storefront screens in page objects. Every
// validation returns an error: a mismatch between observed and expected
// page state is an *AssertionError, anything else is a transport failure.
package pages

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	ErrMissingErrorBanner = errors.New("login error banner is not displayed")
	ErrUnknownItem        = errors.New("unknown catalog item")
)

// AssertionError reports observed page state that differs from the expected
// state
type AssertionError struct {
	Check    string
	Expected string
	Actual   string
	// Contains marks substring checks
	Contains bool
}

func (e *AssertionError) Error() string {
	if e.Contains {
		return fmt.Sprintf("%s: expected text containing %q, got %q", e.Check, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: expected %q, got %q", e.Check, e.Expected, e.Actual)
}

// IsAssertion reports whether err is, or wraps, an assertion failure
func IsAssertion(err error) bool {
	var assertion *AssertionError
	return errors.As(err, &assertion)
}

// Holds converts a validation result into a boolean. An assertion failure
// becomes false; transport errors are passed through.
func Holds(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if IsAssertion(err) {
		return false, nil
	}
	return false, err
}

func expectEqual(check, want, got string) error {
	if got != want {
		return &AssertionError{Check: check, Expected: want, Actual: got}
	}
	return nil
}

func expectContains(check, want, got string) error {
	if !strings.Contains(got, want) {
		return &AssertionError{Check: check, Expected: want, Actual: got, Contains: true}
	}
	return nil
}
