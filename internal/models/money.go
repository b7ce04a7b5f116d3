package models

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// minorUnitExponent is the number of decimal places held by one major unit.
const minorUnitExponent = 2

// Money is an amount in minor currency units (cents). All engine arithmetic
// happens on this integer; decimals only appear at the JSON boundary.
type Money int64

// MoneyFromDecimal converts a decimal major-unit amount, rounding half away
// from zero to the nearest minor unit.
func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money(d.Shift(minorUnitExponent).Round(0).IntPart())
}

// ParseMoney parses a decimal string such as "8.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid money amount %q: %w", s, err)
	}
	return MoneyFromDecimal(d), nil
}

// Add returns m+o, or ErrPriceOverflow when the sum leaves the int64 range.
func (m Money) Add(o Money) (Money, error) {
	sum := m + o
	if (o > 0 && sum < m) || (o < 0 && sum > m) {
		return 0, ErrPriceOverflow
	}
	return sum, nil
}

// Times returns m×n, or ErrPriceOverflow when the product leaves the int64
// range.
func (m Money) Times(n int64) (Money, error) {
	if m == 0 || n == 0 {
		return 0, nil
	}
	if (m == math.MinInt64 && n == -1) || (n == math.MinInt64 && m == -1) {
		return 0, ErrPriceOverflow
	}
	product := m * Money(n)
	if product/Money(n) != m {
		return 0, ErrPriceOverflow
	}
	return product, nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -minorUnitExponent)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(minorUnitExponent)
}

// MarshalJSON encodes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*m = 0
		return nil
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
