// Package planner sizes a π computation from a requested number of decimal
// digits and renders the result back to decimal text.
package planner

import (
	"math/big"
	"strings"

	"github.com/agbru/picalc/internal/chudnovsky"
	apperrors "github.com/agbru/picalc/internal/errors"
)

const (
	// termMargin is added to the series length so that the last requested
	// digits are never at the edge of the series' accuracy.
	termMargin = 10
	// digitMargin pads the precision so rounding in the evaluation stays
	// well below the last rendered digit.
	digitMargin = 100
	// bitsPerDigit over-approximates log2(10).
	bitsPerDigit = 4
	// centiDigitsPerTerm is 100·log10(640320³/1728) rounded down: each term
	// adds about 14.18 correct decimals.
	centiDigitsPerTerm = 1418
	// availableSlack covers the constant factor of the truncation error.
	availableSlack = 2
)

// Plan is the sizing of one computation.
type Plan struct {
	Digits        int
	SeriesLength  int
	PrecisionBits int
}

// ForDigits returns the plan for digits decimals. Zero digits is accepted
// and renders as "3".
func ForDigits(digits int) (Plan, error) {
	if digits < 0 {
		return Plan{}, apperrors.NewValidationError("digits", "must not be negative", digits)
	}
	n := digits/chudnovsky.DigitsPerTerm + termMargin
	for AvailableDigits(n) < digits {
		n++
	}
	return Plan{
		Digits:        digits,
		SeriesLength:  n,
		PrecisionBits: (digits + digitMargin) * bitsPerDigit,
	}, nil
}

// Request turns the plan into a core request for workers goroutines.
func (p Plan) Request(workers int) chudnovsky.Request {
	return chudnovsky.Request{
		SeriesLength:  p.SeriesLength,
		Workers:       workers,
		PrecisionBits: p.PrecisionBits,
	}
}

// AvailableDigits returns a lower bound on the correct decimals of the
// first n terms, ⌊14.18·n⌋ - 2, given enough precision. A single term
// yields 13.
func AvailableDigits(n int) int {
	if n < 1 {
		return 0
	}
	return max(centiDigitsPerTerm*n/100-availableSlack, 0)
}

// Render formats pi with exactly digits decimals. The value is truncated,
// not rounded, so that every printed digit is a digit of π: pi·10^digits is
// computed exactly and its integer part is split at the decimal point.
func Render(pi *big.Float, digits int) string {
	if digits < 0 {
		digits = 0
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	prec := max(pi.MinPrec(), 1) + uint(scale.BitLen())
	scaled := new(big.Float).SetPrec(prec).SetInt(scale)
	scaled.Mul(scaled, pi)

	i, _ := scaled.Int(nil)
	sign := ""
	if i.Sign() < 0 {
		sign = "-"
		i.Neg(i)
	}
	s := i.String()
	if digits == 0 {
		return sign + s
	}
	if len(s) <= digits {
		s = strings.Repeat("0", digits+1-len(s)) + s
	}
	return sign + s[:len(s)-digits] + "." + s[len(s)-digits:]
}
