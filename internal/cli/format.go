// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/hoafund/internal/money"
)

// FormatMoney formats an amount as whole dollars with separators.
// e.g., 1234567.89 -> "$1,234,568", -500 -> "-$500"
func FormatMoney(a money.Amount) string {
	cents := a.Cents()
	neg := cents < 0
	if neg {
		cents = -cents
	}
	dollars := (cents + 50) / 100
	s := "$" + FormatNumber(dollars)
	if neg && dollars != 0 {
		return "-" + s
	}
	return s
}

// FormatMoneyExact formats an amount with cents.
// e.g., 1234.5 -> "$1,234.50"
func FormatMoneyExact(a money.Amount) string {
	cents := a.Cents()
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%s.%02d", sign, FormatNumber(cents/100), cents%100)
}

// FormatMoneyCompact formats an amount with human-readable suffixes.
// e.g., 1234 -> "$1.2K", 2500000 -> "$2.5M"
func FormatMoneyCompact(a money.Amount) string {
	v := a.Float64()
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%s$%.1fB", sign, v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s$%.1fK", sign, v/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", sign, math.Round(v))
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatRate formats a fractional rate as a percentage.
// e.g., 0.03 -> "3.00%"
func FormatRate(r float64) string {
	return fmt.Sprintf("%.2f%%", r*100)
}

// FormatPercent formats a funded ratio as a percentage, e.g. 0.667 -> "66.7%".
// A nil ratio (nothing to fund) renders as "n/a".
func FormatPercent(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *p*100)
}

// FormatDelta formats the difference between two amounts with an explicit sign.
func FormatDelta(current, previous money.Amount) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return "-" + FormatMoney(-delta)
}

// FormatYear formats a forecast year, using "never" for zero.
func FormatYear(y int) string {
	if y <= 0 {
		return "never"
	}
	return "Year " + strconv.Itoa(y)
}
