// Package money provides a fixed-precision currency amount stored as integer
// cents. Rate arithmetic goes through arbitrary-precision decimals and is
// rounded back to the cent, so long compounding runs never drift.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a signed monetary value in cents.
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// MaxAmount and MinAmount bound every Amount produced by conversion or Sum.
// The range is symmetric so Neg never overflows.
const (
	MaxAmount Amount = math.MaxInt64
	MinAmount Amount = -math.MaxInt64
)

// ErrInvalidAmount is returned when a string cannot be parsed as money.
var ErrInvalidAmount = errors.New("invalid amount")

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(int64(MaxAmount))
	minCents = decimal.NewFromInt(int64(MinAmount))
)

// FromCents returns an Amount of exactly c cents.
func FromCents(c int64) Amount {
	return Amount(c)
}

// FromFloat converts a dollar value to cents, rounding half away from zero.
// Intended for values read from config and scenario files.
func FromFloat(dollars float64) Amount {
	return FromDecimal(decimal.NewFromFloat(dollars))
}

// FromDecimal converts a dollar value to cents, rounding half away from zero.
// Values outside the Amount range saturate at MaxAmount or MinAmount.
func FromDecimal(d decimal.Decimal) Amount {
	cents := d.Mul(hundred).Round(0)
	switch {
	case cents.GreaterThan(maxCents):
		return MaxAmount
	case cents.LessThan(minCents):
		return MinAmount
	}
	return Amount(cents.IntPart())
}

// Parse reads a dollar string such as "1234.5", "$1,234.50" or "-20".
func Parse(s string) (Amount, error) {
	clean := strings.TrimSpace(s)
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.ReplaceAll(clean, "_", "")
	neg := false
	if strings.HasPrefix(clean, "-") {
		neg = true
		clean = clean[1:]
	}
	clean = strings.TrimPrefix(clean, "$")
	if clean == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if neg {
		d = d.Neg()
	}
	return FromDecimal(d), nil
}

// Cents returns the raw cent count.
func (a Amount) Cents() int64 {
	return int64(a)
}

// Decimal returns the amount in dollars as an exact decimal.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -2)
}

// Float64 returns the amount in dollars. Display and charting only.
func (a Amount) Float64() float64 {
	return float64(a) / 100
}

// Mul multiplies the amount by factor and rounds to the cent.
func (a Amount) Mul(factor decimal.Decimal) Amount {
	return FromDecimal(a.Decimal().Mul(factor))
}

// Escalate grows the amount by rate compounded over periods years.
// periods <= 0 returns the amount unchanged.
func (a Amount) Escalate(rate decimal.Decimal, periods int) Amount {
	return a.Mul(GrowthFactor(rate, periods))
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return -a
}

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool {
	return a < 0
}

// String formats the amount as a plain dollar string with two decimals,
// e.g. "-1000.00". Use cli.FormatMoney for human-facing output.
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// MarshalJSON encodes the amount as a JSON number in dollars.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted dollar string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		parsed, perr := Parse(num.String())
		if perr != nil {
			return perr
		}
		*a = parsed
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, string(data))
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Sum adds amounts, saturating at MaxAmount and MinAmount instead of
// wrapping.
func Sum(amounts ...Amount) Amount {
	var total Amount
	for _, v := range amounts {
		switch {
		case v > 0 && total > MaxAmount-v:
			total = MaxAmount
		case v < 0 && total < MinAmount-v:
			total = MinAmount
		default:
			total += v
		}
	}
	return total
}

// GrowthFactor returns (1 + rate)^periods computed exactly.
func GrowthFactor(rate decimal.Decimal, periods int) decimal.Decimal {
	factor := decimal.NewFromInt(1)
	if periods <= 0 {
		return factor
	}
	base := factor.Add(rate)
	for i := 0; i < periods; i++ {
		factor = factor.Mul(base)
	}
	return factor
}
