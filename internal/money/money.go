package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformed is returned when text cannot be read as a currency amount.
var ErrMalformed = errors.New("malformed amount")

const scale = 2

// Max is the largest representable amount.
const Max = Amount(math.MaxInt64)

// Amount is a currency value in minor units (cents). Signed so that
// callers can express and reject non-positive input.
type Amount int64

// FromCents builds an Amount from a count of minor units.
func FromCents(cents int64) Amount {
	return Amount(cents)
}

// Cents returns the amount in minor units.
func (a Amount) Cents() int64 {
	return int64(a)
}

// String renders the amount with exactly two fractional digits, e.g. "1500.00".
func (a Amount) String() string {
	return decimal.New(int64(a), -scale).StringFixed(scale)
}

// Parse reads a decimal string such as "500", "12.5" or "-5" into an Amount.
// More than two fractional digits are rejected rather than rounded.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMalformed
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if !d.Equal(d.Truncate(scale)) {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", ErrMalformed, s, scale)
	}
	cents := d.Shift(scale)
	if cents.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || cents.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, fmt.Errorf("%w: %q out of range", ErrMalformed, s)
	}
	return Amount(cents.IntPart()), nil
}

// MustParse is Parse for compiled-in constants; it panics on error.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}
