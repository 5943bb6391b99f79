// Package allocate distributes an estate among heirs under a simplified
// fixed-share rule set.
//
// The computation runs in four steps: fixed shares from the rule table,
// proportional reduction (awl) when fixed shares exceed the estate and there
// are no sons, residue (ashabah) distribution to sons and daughters at 2:1 or
// to a father when there are no children, and independent rounding of every
// entry to whole currency units. Anything no rule claims is reported as an
// undistributed remainder.
//
// Only the estate value is validated here. Husband/wife exclusivity and
// non-negative child counts are the caller's responsibility; inputs violating
// them produce rule-defined but otherwise unspecified results.
package allocate

import (
	"errors"
	"fmt"

	"github.com/ppiankov/warisan/internal/model"
	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned when the estate value is not positive or too large
var ErrInvalidInput = errors.New("invalid input")

// Cache memoizes allocations by input
type Cache interface {
	Get(in model.Input) (model.Allocation, bool)
	Set(in model.Input, result model.Allocation)
}

// Allocator computes allocations. The zero value is ready to use.
type Allocator struct {
	cache Cache
}

// Option configures an Allocator
type Option func(*Allocator)

// WithCache memoizes results in c
func WithCache(c Cache) Option {
	return func(a *Allocator) {
		a.cache = c
	}
}

// New creates an allocator
func New(opts ...Option) *Allocator {
	a := &Allocator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate distributes in.Estate among the heirs present in in
func (a *Allocator) Allocate(in model.Input) (model.Allocation, error) {
	if !in.Estate.IsPositive() {
		return model.Allocation{}, fmt.Errorf("%w: estate must be greater than 0, got %s", ErrInvalidInput, in.Estate)
	}
	if in.Estate.RoundBank(0).GreaterThan(model.MaxEstate) {
		return model.Allocation{}, fmt.Errorf("%w: estate must not exceed %s, got %s", ErrInvalidInput, model.MaxEstate, in.Estate)
	}

	if a.cache != nil {
		if cached, ok := a.cache.Get(in); ok {
			return cached, nil
		}
	}

	result := allocate(in)

	if a.cache != nil {
		a.cache.Set(in, result)
	}
	return result, nil
}

func allocate(in model.Input) model.Allocation {
	estate := in.Estate

	// 1. Fixed shares
	shares := fixedShares(in)
	fixed := sum(shares)

	// 2. Awl. With sons present daughters hold no fixed share, so the
	// correction is skipped even if the remaining fixed shares overflow.
	awl := false
	if fixed.GreaterThan(estate) && in.Sons == 0 {
		for i := range shares {
			shares[i].Amount = shares[i].Amount.Mul(estate).Div(fixed)
		}
		fixed = sum(shares)
		awl = true
	}

	remainder := estate.Sub(fixed)
	if awl {
		// scaled shares exhaust the estate; drop division residue
		remainder = decimal.Zero
	}

	// 3. Residue
	switch {
	case in.Sons > 0 && remainder.IsPositive():
		units := in.Sons*2 + in.Daughters
		if units > 0 {
			shares = distributeToChildren(shares, in, remainder, units)
			remainder = decimal.Zero
		}
	case in.Children() == 0 && in.Father && remainder.IsPositive():
		shares = awardFather(shares, remainder)
		remainder = decimal.Zero
	}

	// 4. Rounding, per entry
	for i := range shares {
		shares[i].Amount = shares[i].Amount.RoundBank(0)
	}
	if remainder.IsPositive() {
		shares = append(shares, model.Share{
			Kind:   model.KindRemainder,
			Label:  model.LabelRemainder,
			Amount: remainder.RoundBank(0),
		})
	}

	return model.Allocation{
		Shares:     shares,
		FixedTotal: fixed,
		AwlApplied: awl,
		Remainder:  remainder,
	}
}

// distributeToChildren splits remainder 2:1 between sons and daughters,
// appending an aggregate entry followed by one entry per child for each group
func distributeToChildren(shares []model.Share, in model.Input, remainder decimal.Decimal, units int) []model.Share {
	unitTotal := decimal.NewFromInt(int64(units))

	sons := decimal.NewFromInt(int64(in.Sons))
	sonsTotal := remainder.Mul(sons.Mul(decimal.NewFromInt(2))).Div(unitTotal)
	shares = appendGroup(shares, model.KindSonsTotal, model.LabelSonsTotal, model.KindSon, model.LabelSon, in.Sons, sonsTotal)

	if in.Daughters > 0 {
		shares = without(shares, model.LabelDaughtersTotal)
		daughters := decimal.NewFromInt(int64(in.Daughters))
		daughtersTotal := remainder.Mul(daughters).Div(unitTotal)
		shares = appendGroup(shares, model.KindDaughtersTotal, model.LabelDaughtersTotal, model.KindDaughter, model.LabelDaughter, in.Daughters, daughtersTotal)
	}
	return shares
}

func appendGroup(shares []model.Share, totalKind model.ShareKind, totalLabel string, kind model.ShareKind, label string, count int, total decimal.Decimal) []model.Share {
	shares = append(shares, model.Share{
		Kind:   totalKind,
		Label:  totalLabel,
		Basis:  basisResidue,
		Amount: total,
	})
	per := total.Div(decimal.NewFromInt(int64(count)))
	for i := 1; i <= count; i++ {
		shares = append(shares, model.Share{
			Kind:    kind,
			Label:   fmt.Sprintf("%s %d", label, i),
			Ordinal: i,
			Basis:   basisResidue,
			Amount:  per,
		})
	}
	return shares
}

// awardFather gives the remainder to the father, keeping his slot first
func awardFather(shares []model.Share, remainder decimal.Decimal) []model.Share {
	for i := range shares {
		if shares[i].Kind == model.KindFather {
			shares[i].Amount = shares[i].Amount.Add(remainder)
			shares[i].Basis += " + " + basisResidue
			return shares
		}
	}
	father := model.Share{
		Kind:   model.KindFather,
		Label:  model.LabelFather,
		Basis:  basisResidue,
		Amount: remainder,
	}
	return append([]model.Share{father}, shares...)
}

func without(shares []model.Share, label string) []model.Share {
	out := shares[:0]
	for _, s := range shares {
		if s.Label != label {
			out = append(out, s)
		}
	}
	return out
}

func sum(shares []model.Share) decimal.Decimal {
	total := decimal.Zero
	for _, s := range shares {
		total = total.Add(s.Amount)
	}
	return total
}
