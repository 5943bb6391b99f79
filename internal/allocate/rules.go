package allocate

import (
	"fmt"

	"github.com/ppiankov/warisan/internal/model"
	"github.com/shopspring/decimal"
)

// Fraction is an exact share of the estate
type Fraction struct {
	Num int64
	Den int64
}

// Of applies the fraction to v as v*num/den
func (f Fraction) Of(v decimal.Decimal) decimal.Decimal {
	return v.Mul(decimal.NewFromInt(f.Num)).Div(decimal.NewFromInt(f.Den))
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

var (
	oneHalf    = Fraction{1, 2}
	oneThird   = Fraction{1, 3}
	oneQuarter = Fraction{1, 4}
	oneSixth   = Fraction{1, 6}
	oneEighth  = Fraction{1, 8}
	twoThirds  = Fraction{2, 3}
)

const basisResidue = "ashabah"

// Rule yields the fixed share of one heir kind for an input.
// ok is false when the heir takes no fixed share for that input.
type Rule struct {
	Kind  model.ShareKind
	Share func(in model.Input) (label string, f Fraction, ok bool)
}

// FixedRules is the fixed-share (ashabul furudh) table in result order.
// A father without children is absent here; he is handled by the residue step.
var FixedRules = []Rule{
	{
		Kind: model.KindFather,
		Share: func(in model.Input) (string, Fraction, bool) {
			return model.LabelFather, oneSixth, in.Father && in.Children() > 0
		},
	},
	{
		Kind: model.KindMother,
		Share: func(in model.Input) (string, Fraction, bool) {
			if in.Children() > 0 {
				return model.LabelMother, oneSixth, in.Mother
			}
			return model.LabelMother, oneThird, in.Mother
		},
	},
	{
		Kind: model.KindHusband,
		Share: func(in model.Input) (string, Fraction, bool) {
			if in.Children() > 0 {
				return model.LabelHusband, oneQuarter, in.Husband
			}
			return model.LabelHusband, oneHalf, in.Husband
		},
	},
	{
		Kind: model.KindWife,
		Share: func(in model.Input) (string, Fraction, bool) {
			if in.Children() > 0 {
				return model.LabelWife, oneEighth, in.Wife
			}
			return model.LabelWife, oneQuarter, in.Wife
		},
	},
	{
		// Provisional: only when there are daughters and no sons
		Kind: model.KindDaughtersFixed,
		Share: func(in model.Input) (string, Fraction, bool) {
			if in.Sons != 0 || in.Daughters <= 0 {
				return "", Fraction{}, false
			}
			if in.Daughters == 1 {
				return model.LabelSingleDaughter, oneHalf, true
			}
			return model.LabelDaughtersTotal, twoThirds, true
		},
	},
}

// fixedShares evaluates the rule table against in, unrounded
func fixedShares(in model.Input) []model.Share {
	shares := make([]model.Share, 0, len(FixedRules))
	for _, rule := range FixedRules {
		label, f, ok := rule.Share(in)
		if !ok {
			continue
		}
		shares = append(shares, model.Share{
			Kind:   rule.Kind,
			Label:  label,
			Basis:  f.String(),
			Amount: f.Of(in.Estate),
		})
	}
	return shares
}
