// Package validate holds the caller-side checks the allocator relies on:
// a positive estate, at most one spouse, and non-negative child counts.
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/warisan/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNonPositiveEstate = errors.New("estate must be greater than 0")
	ErrEstateTooLarge    = errors.New("estate too large")
	ErrSpouseConflict    = errors.New("choose husband or wife, not both")
	ErrNegativeChildren  = errors.New("number of children cannot be negative")
)

// Input reports every violated invariant of in, joined into one error
func Input(in model.Input) error {
	var errs []error

	if !in.Estate.IsPositive() {
		errs = append(errs, fmt.Errorf("%w, got %s", ErrNonPositiveEstate, in.Estate))
	}
	if in.Estate.RoundBank(0).GreaterThan(model.MaxEstate) {
		errs = append(errs, fmt.Errorf("%w: maximum is %s, got %s", ErrEstateTooLarge, model.MaxEstate, in.Estate))
	}
	if in.Husband && in.Wife {
		errs = append(errs, ErrSpouseConflict)
	}
	if in.Sons < 0 {
		errs = append(errs, fmt.Errorf("%w: sons = %d", ErrNegativeChildren, in.Sons))
	}
	if in.Daughters < 0 {
		errs = append(errs, fmt.Errorf("%w: daughters = %d", ErrNegativeChildren, in.Daughters))
	}

	return errors.Join(errs...)
}

// ParseEstate converts a user-entered amount to a decimal.
//
// An optional "Rp" prefix, spaces and underscores are ignored. Thousands may
// be grouped with dots or commas; when both appear, the last one is the
// decimal separator. A lone dot or comma followed by exactly three digits,
// after at most three leading digits, groups thousands; otherwise it is the
// decimal point.
//
// Examples:
//
//	ParseEstate("6000000")        -> 6000000
//	ParseEstate("Rp 6.000.000")   -> 6000000
//	ParseEstate("6,000,000.50")   -> 6000000.5
//	ParseEstate("1.250.000,75")   -> 1250000.75
//	ParseEstate("Rp 6.000")       -> 6000
//	ParseEstate("12,5")           -> 12.5
func ParseEstate(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.EqualFold(s[:2], "rp") {
		s = s[2:]
	}
	s = strings.NewReplacer(" ", "", "_", "").Replace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if strings.HasPrefix(s, "-") {
		return decimal.Zero, fmt.Errorf("%w, got %q", ErrNonPositiveEstate, raw)
	}
	s = strings.TrimPrefix(s, "+")

	normalized, ok := normalizeSeparators(s)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	for _, r := range normalized {
		if (r < '0' || r > '9') && r != '.' {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
		}
	}

	v, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %w", ErrInvalidAmount, raw, err)
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w, got %q", ErrNonPositiveEstate, raw)
	}
	if v.RoundBank(0).GreaterThan(model.MaxEstate) {
		return decimal.Zero, fmt.Errorf("%w: maximum is %s, got %q", ErrEstateTooLarge, model.MaxEstate, raw)
	}
	return v, nil
}

// normalizeSeparators rewrites s so that '.' is the only, optional, decimal point
func normalizeSeparators(s string) (string, bool) {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots > 0 && commas > 0:
		lastDot := strings.LastIndex(s, ".")
		lastComma := strings.LastIndex(s, ",")
		group, point := ",", "."
		if lastComma > lastDot {
			group, point = ".", ","
		}
		if strings.Count(s, point) != 1 {
			return "", false
		}
		idx := strings.LastIndex(s, point)
		if !grouped(s[:idx], group) {
			return "", false
		}
		return strings.ReplaceAll(s[:idx], group, "") + "." + s[idx+1:], true
	case dots > 1:
		if !grouped(s, ".") {
			return "", false
		}
		return strings.ReplaceAll(s, ".", ""), true
	case commas > 1:
		if !grouped(s, ",") {
			return "", false
		}
		return strings.ReplaceAll(s, ",", ""), true
	case commas == 1:
		return singleSeparator(s, ","), true
	case dots == 1:
		return singleSeparator(s, "."), true
	default:
		return s, true
	}
}

// singleSeparator treats sep as a thousands separator when it splits a 1-3
// digit head from exactly three digits ("6.000", "12,500"), otherwise as the
// decimal point ("12,5", "1000.500")
func singleSeparator(s, sep string) string {
	if grouped(s, sep) {
		return strings.Replace(s, sep, "", 1)
	}
	return strings.Replace(s, sep, ".", 1)
}

// grouped reports whether s is digits split by sep into a 1-3 digit head and 3-digit groups
func grouped(s, sep string) bool {
	parts := strings.Split(s, sep)
	if len(parts[0]) == 0 || len(parts[0]) > 3 {
		return false
	}
	for _, p := range parts[1:] {
		if len(p) != 3 {
			return false
		}
	}
	return true
}
