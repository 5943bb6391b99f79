package model

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MaxEstate is the largest estate whose rounded shares fit a whole-unit int64
var MaxEstate = decimal.NewFromInt(math.MaxInt64)

// Input is a snapshot of everything an allocation depends on.
// Husband and Wife are mutually exclusive and child counts are non-negative;
// both are caller invariants checked by the validate package, not the allocator.
type Input struct {
	Estate    decimal.Decimal `json:"estate" yaml:"harta"`              // Total estate value, must be > 0
	Father    bool            `json:"father" yaml:"ayah"`               // Ayah
	Mother    bool            `json:"mother" yaml:"ibu"`                // Ibu
	Husband   bool            `json:"husband" yaml:"suami"`             // Suami
	Wife      bool            `json:"wife" yaml:"istri"`                // Istri
	Sons      int             `json:"sons" yaml:"anak_laki"`            // Number of sons
	Daughters int             `json:"daughters" yaml:"anak_perempuan"` // Number of daughters
}

// Children returns the total number of children
func (in Input) Children() int {
	return in.Sons + in.Daughters
}

// Field is one named input value as it appears in reports
type Field struct {
	Key   string
	Value string
}

// Fields returns the boolean and count inputs in report order.
// The estate is reported separately as "Total Harta".
func (in Input) Fields() []Field {
	return []Field{
		{Key: "ayah", Value: titleBool(in.Father)},
		{Key: "ibu", Value: titleBool(in.Mother)},
		{Key: "suami", Value: titleBool(in.Husband)},
		{Key: "istri", Value: titleBool(in.Wife)},
		{Key: "anak_laki", Value: fmt.Sprint(in.Sons)},
		{Key: "anak_perempuan", Value: fmt.Sprint(in.Daughters)},
	}
}

// titleBool spells booleans as True/False, the form existing history exports use
func titleBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
