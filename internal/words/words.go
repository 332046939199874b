// Package words renders monetary amounts as Indian-English words for the
// legal "amount in words" line printed on GST invoices. Grouping follows the
// Indian numbering system: thousand, lakh (1,00,000), crore (1,00,00,000).
package words

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for negative amounts, amounts with more than
// two fractional digits, or amounts at or above 1000 crore rupees.
var ErrInvalidAmount = errors.New("amount not representable in words")

var (
	ones  = [...]string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine"}
	teens = [...]string{"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tens  = [...]string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

const (
	crore    = 1_00_00_000
	lakh     = 1_00_000
	thousand = 1_000

	// Each scale group is worded as a 1-999 number, so amounts from
	// 1000 crore up have no group to land in.
	maxRupees = 1000*crore - 1
)

// Rupees converts a decimal rupee amount into words, e.g.
// 1234567.89 -> "Twelve Lakh Thirty Four Thousand Five Hundred Sixty Seven
// Rupees and Eighty Nine Paise Only".
func Rupees(amount decimal.Decimal) (string, error) {
	totalPaise := amount.Mul(decimal.NewFromInt(100))
	if !totalPaise.IsInteger() {
		return "", ErrInvalidAmount
	}

	// Bound-check as a decimal before IntPart: past int64 the integer part
	// wraps and would slip through FromPaise's range guard.
	if totalPaise.IsNegative() || totalPaise.GreaterThan(decimal.NewFromInt(maxRupees*100+99)) {
		return "", ErrInvalidAmount
	}

	return FromPaise(totalPaise.IntPart())
}

// FromPaise converts an amount held in minor units (paise) into words.
func FromPaise(totalPaise int64) (string, error) {
	if totalPaise < 0 {
		return "", ErrInvalidAmount
	}

	rupees := totalPaise / 100
	paise := totalPaise % 100

	if rupees > maxRupees {
		return "", ErrInvalidAmount
	}

	var parts []string

	if rupees == 0 {
		parts = append(parts, "Zero")
	} else {
		for _, scale := range []struct {
			value int64
			name  string
		}{
			{crore, "Crore"},
			{lakh, "Lakh"},
			{thousand, "Thousand"},
		} {
			if group := rupees / scale.value; group > 0 {
				parts = append(parts, belowThousand(group)...)
				parts = append(parts, scale.name)
				rupees %= scale.value
			}
		}

		parts = append(parts, belowThousand(rupees)...)
	}

	parts = append(parts, "Rupees")

	if paise > 0 {
		parts = append(parts, "and")
		parts = append(parts, belowThousand(paise)...)
		parts = append(parts, "Paise")
	}

	parts = append(parts, "Only")

	return strings.Join(parts, " "), nil
}

// belowThousand words a number in [0, 999]; zero contributes nothing.
func belowThousand(n int64) []string {
	var parts []string

	if n >= 100 {
		parts = append(parts, ones[n/100], "Hundred")
		n %= 100
	}

	switch {
	case n >= 10 && n <= 19:
		parts = append(parts, teens[n-10])
	case n >= 20:
		parts = append(parts, tens[n/10])

		if n%10 > 0 {
			parts = append(parts, ones[n%10])
		}
	case n > 0:
		parts = append(parts, ones[n])
	}

	return parts
}
