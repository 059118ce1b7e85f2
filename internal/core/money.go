// Package core holds the budget domain: money, entities, the allocation
// rules, and the derived-state projections. Everything here is pure; the
// record store and the command surface live elsewhere.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Money is an amount in centavos. All arithmetic in the ledger happens on
// int64 minor units; floats only appear at display time.
type Money struct {
	Cents int64
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Pesos returns the peso value as a float64 for display purposes only.
func (m Money) Pesos() float64 {
	return float64(m.Cents) / 100.0
}

func (m Money) Add(other Money) Money     { return Money{Cents: m.Cents + other.Cents} }
func (m Money) Sub(other Money) Money     { return Money{Cents: m.Cents - other.Cents} }
func (m Money) IsZero() bool              { return m.Cents == 0 }
func (m Money) LessThan(other Money) bool { return m.Cents < other.Cents }

// FloorSub subtracts other from m, clamping at zero. Expense debits against
// a target balance never drive it negative.
func (m Money) FloorSub(other Money) Money {
	c := m.Cents - other.Cents
	if c < 0 {
		c = 0
	}
	return Money{Cents: c}
}

// ParseDecimalToCents converts a decimal string to centavos.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Anything finer than a centavo is rejected rather than rounded: the ledger
// stores exact minor units, so a fractional-cent input is a caller bug.
// Negative and zero amounts are rejected.
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	if len(fracPart) > 2 {
		return 0, fmt.Errorf("%w: fractional centavos not supported", ErrInvalidAmount)
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrInvalidAmount
	}
	return cents, nil
}

// FormatCents renders centavos as Dominican pesos, e.g. "RD$1,500.00".
func FormatCents(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	pesos := cents / 100
	rem := cents % 100
	s := strconv.FormatInt(pesos, 10)
	// Thousands separators, right to left.
	if len(s) > 3 {
		var b strings.Builder
		lead := len(s) % 3
		if lead > 0 {
			b.WriteString(s[:lead])
		}
		for i := lead; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	out := "RD$" + s + "." + fmt.Sprintf("%02d", rem)
	if neg {
		return "-" + out
	}
	return out
}
