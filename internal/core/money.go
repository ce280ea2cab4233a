// Package core provides the shopping domain types and amount helpers.
//
// Amounts are whole currency units as typed by the user; there is no
// subunit conversion. Division results are rounded half away from zero,
// which for the non-negative amounts tracked here is plain half-up.
package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user input into a non-negative whole amount.
//
// Surrounding whitespace and a leading '+' are accepted. Fractions,
// negative values and anything that is not a base-10 integer are rejected.
//
// Examples:
//
//	ParseAmount("12")   -> 12, nil
//	ParseAmount(" 0 ")  -> 0, nil
//	ParseAmount("-3")   -> 0, ErrInvalidAmount
//	ParseAmount("1.50") -> 0, ErrInvalidAmount
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// RoundDiv returns sum/n rounded to the nearest whole unit.
// n must be positive.
func RoundDiv(sum, n int64) int64 {
	return decimal.NewFromInt(sum).
		Div(decimal.NewFromInt(n)).
		Round(0).
		IntPart()
}

// RoundNumber parses a JSON number literal and rounds it to a whole unit.
func RoundNumber(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.Round(0).IntPart(), nil
}
