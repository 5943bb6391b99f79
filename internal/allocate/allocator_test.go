package allocate

import (
	"fmt"
	"testing"

	"github.com/ppiankov/warisan/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type want struct {
	label  string
	amount int64
}

func rupiah(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func assertShares(t *testing.T, got model.Allocation, expected []want) {
	t.Helper()

	require.Len(t, got.Shares, len(expected), "shares: %s", got)
	for i, w := range expected {
		assert.Equal(t, w.label, got.Shares[i].Label, "label at %d", i)
		assert.True(t, got.Shares[i].Amount.Equal(rupiah(w.amount)),
			"%s: expected %d, got %s", w.label, w.amount, got.Shares[i].Amount)
	}
}

func TestAllocate_Examples(t *testing.T) {
	tests := []struct {
		name string
		in   model.Input
		want []want
	}{
		{
			name: "mother only, no children leaves remainder",
			in:   model.Input{Estate: rupiah(6_000_000), Mother: true},
			want: []want{
				{model.LabelMother, 2_000_000},
				{model.LabelRemainder, 4_000_000},
			},
		},
		{
			name: "father and mother with one son",
			in:   model.Input{Estate: rupiah(12_000_000), Father: true, Mother: true, Sons: 1},
			want: []want{
				{model.LabelFather, 2_000_000},
				{model.LabelMother, 2_000_000},
				{model.LabelSonsTotal, 8_000_000},
				{"Anak Laki-laki 1", 8_000_000},
			},
		},
		{
			name: "wife with two daughters",
			in:   model.Input{Estate: rupiah(8_000_000), Wife: true, Daughters: 2},
			want: []want{
				{model.LabelWife, 1_000_000},
				{model.LabelDaughtersTotal, 5_333_333},
				{model.LabelRemainder, 1_666_667},
			},
		},
		{
			name: "father takes residue without children",
			in:   model.Input{Estate: rupiah(9_000_000), Father: true, Mother: true},
			want: []want{
				{model.LabelFather, 6_000_000},
				{model.LabelMother, 3_000_000},
			},
		},
		{
			name: "father alone takes everything",
			in:   model.Input{Estate: rupiah(1_000_000), Father: true},
			want: []want{
				{model.LabelFather, 1_000_000},
			},
		},
		{
			name: "husband without children",
			in:   model.Input{Estate: rupiah(10_000_000), Husband: true, Father: true},
			want: []want{
				{model.LabelFather, 5_000_000},
				{model.LabelHusband, 5_000_000},
			},
		},
		{
			name: "single daughter fixed half",
			in:   model.Input{Estate: rupiah(6_000_000), Daughters: 1},
			want: []want{
				{model.LabelSingleDaughter, 3_000_000},
				{model.LabelRemainder, 3_000_000},
			},
		},
		{
			name: "father keeps one sixth with daughters only",
			in:   model.Input{Estate: rupiah(6_000_000), Father: true, Daughters: 1},
			want: []want{
				{model.LabelFather, 1_000_000},
				{model.LabelSingleDaughter, 3_000_000},
				{model.LabelRemainder, 2_000_000},
			},
		},
		{
			name: "sons and daughters split two to one",
			in:   model.Input{Estate: rupiah(1_200_000), Sons: 1, Daughters: 2},
			want: []want{
				{model.LabelSonsTotal, 600_000},
				{"Anak Laki-laki 1", 600_000},
				{model.LabelDaughtersTotal, 600_000},
				{"Anak Perempuan 1", 300_000},
				{"Anak Perempuan 2", 300_000},
			},
		},
		{
			name: "wife and children",
			in:   model.Input{Estate: rupiah(24_000_000), Wife: true, Sons: 2, Daughters: 3},
			want: []want{
				{model.LabelWife, 3_000_000},
				{model.LabelSonsTotal, 12_000_000},
				{"Anak Laki-laki 1", 6_000_000},
				{"Anak Laki-laki 2", 6_000_000},
				{model.LabelDaughtersTotal, 9_000_000},
				{"Anak Perempuan 1", 3_000_000},
				{"Anak Perempuan 2", 3_000_000},
				{"Anak Perempuan 3", 3_000_000},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Allocate(tt.in)
			require.NoError(t, err)
			assertShares(t, got, tt.want)
		})
	}
}

func TestAllocate_RejectsNonPositiveEstate(t *testing.T) {
	for _, estate := range []decimal.Decimal{decimal.Zero, rupiah(-1), decimal.RequireFromString("-0.5")} {
		_, err := New().Allocate(model.Input{Estate: estate, Mother: true})
		assert.ErrorIs(t, err, ErrInvalidInput, "estate %s", estate)
	}
}

func TestAllocate_EstateBoundedByInt64(t *testing.T) {
	_, err := New().Allocate(model.Input{Estate: decimal.RequireFromString("100000000000000000000"), Mother: true})
	assert.ErrorIs(t, err, ErrInvalidInput)

	a, err := New().Allocate(model.Input{Estate: model.MaxEstate, Mother: true, Sons: 1, Daughters: 2})
	require.NoError(t, err)
	for _, s := range a.Shares {
		assert.False(t, s.Amount.IsNegative(), "share %s", s.Label)
		assert.True(t, s.Amount.RoundBank(0).LessThanOrEqual(model.MaxEstate), "share %s", s.Label)
	}
}

func TestAllocate_Awl(t *testing.T) {
	// husband 1/4 + mother 1/6 + father 1/6 + daughters 2/3 = 15/12
	in := model.Input{Estate: rupiah(15_000_000), Husband: true, Mother: true, Father: true, Daughters: 2}

	got, err := New().Allocate(in)
	require.NoError(t, err)

	assert.True(t, got.AwlApplied)
	assert.True(t, got.Remainder.IsZero())
	assert.False(t, got.Has(model.LabelRemainder))
	assertShares(t, got, []want{
		{model.LabelFather, 2_000_000},
		{model.LabelMother, 2_000_000},
		{model.LabelHusband, 3_000_000},
		{model.LabelDaughtersTotal, 8_000_000},
	})
	assert.True(t, got.FixedTotal.Sub(in.Estate).Abs().LessThan(decimal.RequireFromString("0.000001")),
		"fixed total %s should equal estate", got.FixedTotal)
}

func TestAllocate_AwlUnevenScale(t *testing.T) {
	// husband 1/4 + father 1/6 + mother 1/6 + one daughter 1/2 = 13/12
	in := model.Input{Estate: rupiah(1_000_000), Husband: true, Father: true, Mother: true, Daughters: 1}

	got, err := New().Allocate(in)
	require.NoError(t, err)

	require.True(t, got.AwlApplied)
	assertShares(t, got, []want{
		{model.LabelFather, 153_846},
		{model.LabelMother, 153_846},
		{model.LabelHusband, 230_769},
		{model.LabelSingleDaughter, 461_538},
	})
	// independent rounding loses one unit here
	assert.True(t, got.Total().Equal(rupiah(999_999)), "total %s", got.Total())
}

func TestAllocate_AwlSkippedWithSons(t *testing.T) {
	// Husband and wife together violate a caller invariant; the allocator
	// still runs. With sons present no overflow correction is attempted and
	// whatever is left after the fixed shares goes to the children.
	in := model.Input{Estate: rupiah(24_000_000), Father: true, Mother: true, Husband: true, Wife: true, Sons: 1}

	got, err := New().Allocate(in)
	require.NoError(t, err)

	assert.False(t, got.AwlApplied)
	// 1/6 + 1/6 + 1/4 + 1/8 = 17/24
	assert.True(t, got.FixedTotal.Equal(rupiah(17_000_000)), "fixed total %s", got.FixedTotal)
	assert.True(t, got.Remainder.IsZero(), "observed remainder %s", got.Remainder)
	assert.True(t, got.Amount(model.LabelSonsTotal).Equal(rupiah(7_000_000)))
}

func TestAllocate_DaughtersFixedReplacedBySons(t *testing.T) {
	base := model.Input{Estate: rupiah(6_000_000), Daughters: 2}

	without, err := New().Allocate(base)
	require.NoError(t, err)
	share, ok := without.Get(model.LabelDaughtersTotal)
	require.True(t, ok)
	assert.Equal(t, model.KindDaughtersFixed, share.Kind)

	base.Sons = 1
	with, err := New().Allocate(base)
	require.NoError(t, err)

	for _, s := range with.Shares {
		assert.NotEqual(t, model.KindDaughtersFixed, s.Kind)
	}
	share, ok = with.Get(model.LabelDaughtersTotal)
	require.True(t, ok)
	assert.Equal(t, model.KindDaughtersTotal, share.Kind)
	assert.True(t, share.Amount.Equal(rupiah(3_000_000)))
	assert.False(t, with.Has(model.LabelRemainder))
}

func TestAllocate_SingleDaughterReplacedBySons(t *testing.T) {
	got, err := New().Allocate(model.Input{Estate: rupiah(6_000_000), Sons: 1, Daughters: 1})
	require.NoError(t, err)

	assert.False(t, got.Has(model.LabelSingleDaughter))
	assertShares(t, got, []want{
		{model.LabelSonsTotal, 4_000_000},
		{"Anak Laki-laki 1", 4_000_000},
		{model.LabelDaughtersTotal, 2_000_000},
		{"Anak Perempuan 1", 2_000_000},
	})
}

func TestAllocate_RoundsEachEntryHalfToEven(t *testing.T) {
	// 5 split over two sons is 2.5 each; 7 gives 3.5 each
	got, err := New().Allocate(model.Input{Estate: rupiah(5), Sons: 2})
	require.NoError(t, err)
	assertShares(t, got, []want{
		{model.LabelSonsTotal, 5},
		{"Anak Laki-laki 1", 2},
		{"Anak Laki-laki 2", 2},
	})

	got, err = New().Allocate(model.Input{Estate: rupiah(7), Sons: 2})
	require.NoError(t, err)
	assertShares(t, got, []want{
		{model.LabelSonsTotal, 7},
		{"Anak Laki-laki 1", 4},
		{"Anak Laki-laki 2", 4},
	})
}

func TestAllocate_FractionalEstate(t *testing.T) {
	got, err := New().Allocate(model.Input{Estate: decimal.RequireFromString("1000.5"), Father: true})
	require.NoError(t, err)
	// 1000.5 rounds half to even
	assertShares(t, got, []want{{model.LabelFather, 1000}})
}

func TestAllocate_ViolatedInvariantsDoNotPanic(t *testing.T) {
	inputs := []model.Input{
		{Estate: rupiah(1000), Sons: 1, Daughters: -2},
		{Estate: rupiah(1000), Sons: 1, Daughters: -3, Father: true},
		{Estate: rupiah(1000), Sons: -1, Daughters: 1},
		{Estate: rupiah(1000), Sons: -2, Daughters: -1, Father: true, Mother: true},
		{Estate: rupiah(1000), Husband: true, Wife: true, Mother: true},
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() {
			_, err := New().Allocate(in)
			assert.NoError(t, err)
		}, "input %+v", in)
	}
}

func TestAllocate_NoUnitsLeavesRemainder(t *testing.T) {
	got, err := New().Allocate(model.Input{Estate: rupiah(1000), Sons: 1, Daughters: -2})
	require.NoError(t, err)
	assertShares(t, got, []want{{model.LabelRemainder, 1000}})
}

func TestAllocate_TotalMatchesEstate(t *testing.T) {
	estates := []decimal.Decimal{
		rupiah(1), rupiah(7), rupiah(100), rupiah(999_999),
		decimal.RequireFromString("12345678.9"), rupiah(1_000_000_000),
	}
	spouses := []struct{ husband, wife bool }{{false, false}, {true, false}, {false, true}}

	for _, estate := range estates {
		for _, father := range []bool{false, true} {
			for _, mother := range []bool{false, true} {
				for _, sp := range spouses {
					for sons := 0; sons <= 3; sons++ {
						for daughters := 0; daughters <= 3; daughters++ {
							in := model.Input{
								Estate: estate, Father: father, Mother: mother,
								Husband: sp.husband, Wife: sp.wife,
								Sons: sons, Daughters: daughters,
							}
							name := fmt.Sprintf("%+v", in)
							got, err := New().Allocate(in)
							require.NoError(t, err, name)

							slack := decimal.NewFromInt(int64(len(got.Shares)))
							diff := got.Total().Sub(estate.RoundBank(0)).Abs()
							assert.True(t, diff.LessThanOrEqual(slack), "%s: total %s", name, got.Total())

							for _, s := range got.Shares {
								assert.False(t, s.Amount.IsNegative(), "%s: %s negative", name, s.Label)
								assert.True(t, s.Amount.Equal(s.Amount.Truncate(0)), "%s: %s not whole", name, s.Label)
							}
						}
					}
				}
			}
		}
	}
}

func TestAllocate_EntryOrder(t *testing.T) {
	got, err := New().Allocate(model.Input{Estate: rupiah(48_000_000), Father: true, Mother: true, Wife: true, Sons: 2, Daughters: 1})
	require.NoError(t, err)

	kinds := make([]model.ShareKind, 0, len(got.Shares))
	for _, s := range got.Shares {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []model.ShareKind{
		model.KindFather, model.KindMother, model.KindWife,
		model.KindSonsTotal, model.KindSon, model.KindSon,
		model.KindDaughtersTotal, model.KindDaughter,
	}, kinds)
}

type countingCache struct {
	entries map[string]model.Allocation
	hits    int
}

func (c *countingCache) Get(in model.Input) (model.Allocation, bool) {
	a, ok := c.entries[fmt.Sprintf("%+v", in)]
	if ok {
		c.hits++
	}
	return a, ok
}

func (c *countingCache) Set(in model.Input, a model.Allocation) {
	c.entries[fmt.Sprintf("%+v", in)] = a
}

func TestAllocate_UsesCache(t *testing.T) {
	cache := &countingCache{entries: map[string]model.Allocation{}}
	a := New(WithCache(cache))
	in := model.Input{Estate: rupiah(12_000_000), Father: true, Mother: true, Sons: 1}

	first, err := a.Allocate(in)
	require.NoError(t, err)
	second, err := a.Allocate(in)
	require.NoError(t, err)

	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.String(), second.String())

	_, err = a.Allocate(model.Input{Estate: decimal.Zero})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Len(t, cache.entries, 1)
}
