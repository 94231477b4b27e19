// SPDX-License-Identifier: MIT

package flux_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suksuki/bazi-sub001/flux"
	"github.com/suksuki/bazi-sub001/symbol"
	"github.com/suksuki/bazi-sub001/tensor"
)

func sampleChart(t *testing.T) (symbol.Chart, symbol.Stem) {
	t.Helper()
	c, err := symbol.ParseChart([]string{"甲子", "丙寅", "甲申", "乙亥"})
	require.NoError(t, err)
	ref, err := symbol.ParseStem("甲")
	require.NoError(t, err)

	return c, ref
}

func TestComputeFlux_CompanionScenario(t *testing.T) {
	t.Parallel()

	c, ref := sampleChart(t)
	role, err := symbol.ParseRole("比肩")
	require.NoError(t, err)

	got := flux.ComputeFlux(c, ref, role)
	assert.Greater(t, got, 0.0)
	// 甲 year stem 1.5·0.8 + 寅 main 0.6·1.5·1.2 + 亥 middle 0.3·1.5·0.9.
	assert.InDelta(t, 2.685, got, 1e-9)
}

func TestComputeFlux_Options(t *testing.T) {
	t.Parallel()

	c, ref := sampleChart(t)

	canon := flux.ComputeFlux(c, ref, symbol.Companion, flux.WithCanonicalBranch())
	assert.InDelta(t, 2.28, canon, 1e-9, "only 寅 among branches")

	withDM := flux.ComputeFlux(c, ref, symbol.Companion, flux.WithDayMaster())
	assert.InDelta(t, 2.685+1.8, withDM, 1e-9)

	// Role without canonical branch ignores the restriction.
	assert.Equal(t,
		flux.ComputeFlux(c, ref, symbol.DirectResource),
		flux.ComputeFlux(c, ref, symbol.DirectResource, flux.WithCanonicalBranch()))
}

func TestComputeFlux_HiddenMassPolicy(t *testing.T) {
	t.Parallel()

	c, ref := sampleChart(t)

	fixed := flux.ComputeFlux(c, ref, symbol.DirectResource)
	assert.InDelta(t, 0.48, fixed, 1e-9, "子 holds only 癸 at 0.6")

	renorm := flux.ComputeFlux(c, ref, symbol.DirectResource, flux.WithHiddenMass(symbol.HiddenMassRenormalized))
	assert.InDelta(t, 0.8, renorm, 1e-9)

	assert.Panics(t, func() { flux.WithHiddenMass(symbol.HiddenMassPolicy(9)) })
}

func TestComputeFlux_Rounded(t *testing.T) {
	t.Parallel()

	c, ref := sampleChart(t)
	for r := symbol.Role(0); r < symbol.NumRoles; r++ {
		v := flux.ComputeFlux(c, ref, r)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.InDelta(t, v, float64(int64(v*1e4+0.5))/1e4, 1e-12, r.String())
	}
}

func TestComputeFlux_Pure(t *testing.T) {
	t.Parallel()

	c, ref := sampleChart(t)
	first := flux.ComputeFlux(c, ref, symbol.EatingGod)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, flux.ComputeFlux(c, ref, symbol.EatingGod))
	}
}

func TestSlotFlux(t *testing.T) {
	t.Parallel()

	c, ref := sampleChart(t)
	// 寅 in a wood month: (0.6·1.5 + 0.3·1.2 + 0.1·0.6)·1.2.
	got := flux.SlotFlux(c, ref, symbol.Slot{Pillar: symbol.MonthPillar, Kind: symbol.BranchSlot})
	assert.InDelta(t, 1.584, got, 1e-9)

	stem := flux.SlotFlux(c, ref, symbol.Slot{Pillar: symbol.DayPillar, Kind: symbol.StemSlot})
	assert.InDelta(t, 1.5*1.2, stem, 1e-9)
}

func TestSlotFlux_BonusFollowsReference(t *testing.T) {
	t.Parallel()

	c, _ := sampleChart(t)
	month := symbol.Slot{Pillar: symbol.MonthPillar, Kind: symbol.StemSlot}
	day := symbol.Slot{Pillar: symbol.DayPillar, Kind: symbol.StemSlot}

	// 丙 sits in the month pillar: fire in a wood month is 相 (1.2).
	assert.InDelta(t, 1.2*1.2*symbol.StructuralBonus, flux.SlotFlux(c, symbol.StemBing, month), 1e-9)
	assert.InDelta(t, 1.5*1.0, flux.SlotFlux(c, symbol.StemBing, day), 1e-9, "day pillar loses the bonus")
	assert.InDelta(t, 1.2*1.2, flux.SlotFlux(c, symbol.StemJia, month), 1e-9)
}

func TestInteractions(t *testing.T) {
	t.Parallel()

	c, ref := sampleChart(t)
	clash, comb := flux.Interactions(c, ref)
	assert.InDelta(t, -1.2636, clash, 1e-9, "寅申 clash")
	assert.InDelta(t, 1.2235, comb, 1e-9, "寅亥 combine into Wood, same as 甲")

	// Against 庚 (Metal) the Wood combination is unfavourable.
	geng, err := symbol.ParseStem("庚")
	require.NoError(t, err)
	_, comb = flux.Interactions(c, geng)
	assert.Less(t, comb, 0.0)
}

func TestVector(t *testing.T) {
	t.Parallel()

	c, ref := sampleChart(t)
	fv := flux.Vector(c, ref)
	assert.Len(t, fv, tensor.NumCategories)
	assert.InDelta(t, 2.685+1.35, fv[tensor.Parallel], 1e-9)
	assert.InDelta(t, 1.38, fv[tensor.Resource], 1e-9)
	assert.LessOrEqual(t, fv[tensor.Clash], 0.0)
	for _, cat := range []tensor.Category{tensor.Parallel, tensor.Output, tensor.Wealth, tensor.Power, tensor.Resource} {
		assert.GreaterOrEqual(t, fv[cat], 0.0, cat.String())
	}
	assert.Equal(t, tensor.Power, flux.CategoryOf(symbol.SevenKillings.Group()))
}

func TestVector_Auxiliary(t *testing.T) {
	t.Parallel()

	c, err := symbol.ParseChart([]string{"甲子", "丙寅", "甲申", "乙亥"}, "甲寅")
	require.NoError(t, err)
	ref := symbol.StemJia
	base, _ := sampleChart(t)

	// Auxiliary 甲寅 adds 1.5·0.5 (stem) + 0.6·1.5·0.5 (寅 main) to Companion.
	delta := flux.ComputeFlux(c, ref, symbol.Companion) - flux.ComputeFlux(base, ref, symbol.Companion)
	assert.InDelta(t, 0.75+0.45, delta, 1e-9)
	assert.Len(t, flux.Slots(c), 10)
}

func TestSlotVector_SumsToVector(t *testing.T) {
	t.Parallel()

	c, ref := sampleChart(t)
	sum := make(map[tensor.Category]float64)
	for _, slot := range flux.Slots(c) {
		sv := flux.SlotVector(c, ref, slot)
		var total float64
		for cat, v := range sv {
			sum[cat] += v
			total += v
		}
		if slot.Pillar == symbol.DayPillar && slot.Kind == symbol.StemSlot {
			assert.Empty(t, sv, "day master is skipped")
			continue
		}
		assert.InDelta(t, flux.SlotFlux(c, ref, slot), total, 1e-12, slot.String())
	}

	want := flux.Vector(c, ref)
	for _, cat := range []tensor.Category{tensor.Parallel, tensor.Output, tensor.Wealth, tensor.Power, tensor.Resource} {
		assert.InDelta(t, want[cat], sum[cat], 2e-4, cat.String())
	}
}
