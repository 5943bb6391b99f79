package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ShareKind classifies an entry of an allocation
type ShareKind string

const (
	KindFather         ShareKind = "father"          // Ayah, fixed 1/6 or residue without children
	KindMother         ShareKind = "mother"          // Ibu
	KindHusband        ShareKind = "husband"         // Suami
	KindWife           ShareKind = "wife"            // Istri
	KindDaughtersFixed ShareKind = "daughters_fixed" // Daughters-only fixed share (no sons)
	KindSonsTotal      ShareKind = "sons_total"      // Aggregate residue of all sons
	KindSon            ShareKind = "son"             // One son's part of the aggregate
	KindDaughtersTotal ShareKind = "daughters_total" // Aggregate residue of all daughters (with sons)
	KindDaughter       ShareKind = "daughter"        // One daughter's part of the aggregate
	KindRemainder      ShareKind = "remainder"       // Value with no eligible claimant
)

// Labels used in results and reports
const (
	LabelFather           = "Ayah"
	LabelMother           = "Ibu"
	LabelHusband          = "Suami"
	LabelWife             = "Istri"
	LabelSingleDaughter   = "Anak Perempuan (1)"
	LabelDaughtersTotal   = "Anak Perempuan (total)"
	LabelSonsTotal        = "Anak Laki-laki (total)"
	LabelSon              = "Anak Laki-laki"
	LabelDaughter         = "Anak Perempuan"
	LabelRemainder        = "Sisa (tidak terdistribusi)"
	individualLabelPrefix = "  └─ "
)

// Share is one labelled amount in an allocation
type Share struct {
	Kind    ShareKind       `json:"kind"`
	Label   string          `json:"label"`
	Ordinal int             `json:"ordinal,omitempty"` // 1-based index for per-child entries, 0 otherwise
	Basis   string          `json:"basis,omitempty"`   // Fraction or rule the amount came from, e.g. "1/6" or "ashabah"
	Amount  decimal.Decimal `json:"amount"`
}

// Individual reports whether the share is a per-child sub-entry of an aggregate
func (s Share) Individual() bool {
	return s.Ordinal > 0
}

// DisplayLabel returns the label with a tree marker for per-child sub-entries
func (s Share) DisplayLabel() string {
	if s.Individual() {
		return individualLabelPrefix + s.Label
	}
	return s.Label
}

// Allocation is the ordered result of distributing an estate
type Allocation struct {
	Shares     []Share         `json:"shares"`
	FixedTotal decimal.Decimal `json:"fixed_total"` // Sum of fixed shares after Awl, unrounded
	AwlApplied bool            `json:"awl_applied"` // Whether fixed shares were scaled down
	Remainder  decimal.Decimal `json:"remainder"`   // Unrounded value left after residue distribution
}

// Get returns the first share with the given label
func (a Allocation) Get(label string) (Share, bool) {
	for _, s := range a.Shares {
		if s.Label == label {
			return s, true
		}
	}
	return Share{}, false
}

// Amount returns the amount for label, zero if absent
func (a Allocation) Amount(label string) decimal.Decimal {
	s, _ := a.Get(label)
	return s.Amount
}

// Has reports whether a share with the given label exists
func (a Allocation) Has(label string) bool {
	_, ok := a.Get(label)
	return ok
}

// Total sums every top-level share (aggregates, not their per-child entries),
// including any undistributed remainder entry
func (a Allocation) Total() decimal.Decimal {
	total := decimal.Zero
	for _, s := range a.Shares {
		if s.Individual() {
			continue
		}
		total = total.Add(s.Amount)
	}
	return total
}

// Clone returns a deep copy so cached allocations are never shared
func (a Allocation) Clone() Allocation {
	out := a
	out.Shares = append([]Share(nil), a.Shares...)
	return out
}

// String renders the allocation as "label=amount" pairs, mostly for logs and test output
func (a Allocation) String() string {
	parts := make([]string, 0, len(a.Shares))
	for _, s := range a.Shares {
		parts = append(parts, s.DisplayLabel()+"="+s.Amount.String())
	}
	return strings.Join(parts, ", ")
}
