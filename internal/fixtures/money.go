package fixtures

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedAmount is returned when a price label cannot be parsed
var ErrMalformedAmount = errors.New("malformed currency amount")

// Cents is a currency amount in minor units
type Cents int64

// String formats the amount the way the storefront renders it
func (c Cents) String() string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s$%d.%02d", sign, c/100, c%100)
}

// ParseDollars parses "$9.99", "9.99" or "9.9" into cents. More than two
// fractional digits are rejected rather than rounded.
func ParseDollars(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrMalformedAmount)
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	if !digits(whole) || !digits(frac) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}

	var minor int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		minor, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
		}
	}

	return Cents(units*100 + minor), nil
}

// digits reports whether s holds only ASCII digits. Signs are not accepted
// anywhere in an amount.
func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ParseLabel strips a "Label: " prefix and parses the remaining amount,
// e.g. "Item total: $9.99".
func ParseLabel(text, label string) (Cents, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(text), label)
	if !ok {
		return 0, fmt.Errorf("%w: %q does not start with %q", ErrMalformedAmount, text, label)
	}
	return ParseDollars(rest)
}
