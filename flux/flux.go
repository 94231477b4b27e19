// SPDX-License-Identifier: MIT

package flux

import (
	"math"

	"github.com/suksuki/bazi-sub001/symbol"
	"github.com/suksuki/bazi-sub001/tensor"
)

// roundTo4 rounds half away from zero to four decimals.
func roundTo4(x float64) float64 { return math.Round(x*1e4) / 1e4 }

// skipDayStem reports whether the slot is the day master that stands for ref.
func skipDayStem(c symbol.Chart, slot symbol.Slot, ref symbol.Stem, o Options) bool {
	return !o.IncludeDayMaster &&
		slot.Pillar == symbol.DayPillar &&
		slot.Kind == symbol.StemSlot &&
		c.Pillars[symbol.DayPillar].Stem == ref
}

// Slots lists every slot of c in pillar order, stem before branch.
func Slots(c symbol.Chart) []symbol.Slot {
	n := 4 + len(c.Auxiliary)
	out := make([]symbol.Slot, 0, 2*n)
	for p := 0; p < n; p++ {
		out = append(out, symbol.Slot{Pillar: p, Kind: symbol.StemSlot}, symbol.Slot{Pillar: p, Kind: symbol.BranchSlot})
	}

	return out
}

func pillarAt(c symbol.Chart, idx int) symbol.Pillar {
	if idx < 4 {
		return c.Pillars[idx]
	}

	return c.Auxiliary[idx-4]
}

// ComputeFlux returns the rounded energy the chart contributes to role
// measured against ref.
//
// Complexity: O(slots × 3).
func ComputeFlux(c symbol.Chart, ref symbol.Stem, role symbol.Role, opts ...Option) float64 {
	o := resolve(opts)
	month := c.MonthElement()

	var canon symbol.Branch
	restrict := false
	if o.Canonical {
		canon, restrict = symbol.CanonicalBranch(ref, role)
	}

	var sum float64
	for _, slot := range Slots(c) {
		if skipDayStem(c, slot, ref, o) {
			continue
		}
		p := pillarAt(c, slot.Pillar)
		w := c.SlotWeight(slot, ref)
		if slot.Kind == symbol.StemSlot {
			if symbol.StemRole(ref, p.Stem) == role {
				sum += symbol.SeasonalFactor(p.Stem.Element(), month) * w
			}
			continue
		}
		if restrict && p.Branch != canon {
			continue
		}
		for _, h := range p.Branch.Hidden(o.HiddenMass) {
			if symbol.StemRole(ref, h.Stem) == role {
				sum += h.Mass * symbol.SeasonalFactor(h.Stem.Element(), month) * w
			}
		}
	}

	return roundTo4(sum)
}

// SlotFlux returns the unrounded total energy of one slot across all roles,
// with the structural bonus placed by ref. It is the initial node energy of
// the propagation graph.
func SlotFlux(c symbol.Chart, ref symbol.Stem, slot symbol.Slot, opts ...Option) float64 {
	o := resolve(opts)
	month := c.MonthElement()
	p := pillarAt(c, slot.Pillar)
	w := c.SlotWeight(slot, ref)
	if slot.Kind == symbol.StemSlot {
		return symbol.SeasonalFactor(p.Stem.Element(), month) * w
	}
	var sum float64
	for _, h := range p.Branch.Hidden(o.HiddenMass) {
		sum += h.Mass * symbol.SeasonalFactor(h.Stem.Element(), month) * w
	}

	return sum
}

// Interactions returns the Clash and Combination keys computed over every
// unordered pair of branch slots.
func Interactions(c symbol.Chart, ref symbol.Stem, opts ...Option) (clash, combination float64) {
	pillars := c.All()
	energy := make([]float64, len(pillars))
	for i := range pillars {
		energy[i] = SlotFlux(c, ref, symbol.Slot{Pillar: i, Kind: symbol.BranchSlot}, opts...)
	}
	refEl := ref.Element()
	for i := 0; i < len(pillars); i++ {
		for j := i + 1; j < len(pillars); j++ {
			bi, bj := pillars[i].Branch, pillars[j].Branch
			g := math.Sqrt(energy[i] * energy[j])
			if symbol.Clashes(bi, bj) {
				clash -= g
			}
			if e, ok := symbol.Combination(bi, bj); ok {
				if e == refEl || e.Generates(refEl) {
					combination += g
				} else {
					combination -= g
				}
			}
		}
	}

	return roundTo4(clash), roundTo4(combination)
}

// groupCategory maps role groups onto the first five categories.
var groupCategory = [symbol.NumGroups]tensor.Category{
	symbol.GroupParallel: tensor.Parallel,
	symbol.GroupOutput:   tensor.Output,
	symbol.GroupWealth:   tensor.Wealth,
	symbol.GroupPower:    tensor.Power,
	symbol.GroupResource: tensor.Resource,
}

// CategoryOf returns the frequency category a role group feeds.
func CategoryOf(g symbol.Group) tensor.Category { return groupCategory[g] }

// Vector returns the raw frequency vector of the chart against ref:
// five role-group sums plus the Clash and Combination interaction keys.
// Every category is present in the result.
func Vector(c symbol.Chart, ref symbol.Stem, opts ...Option) tensor.FrequencyVector {
	fv := make(tensor.FrequencyVector, tensor.NumCategories)
	for g := symbol.Group(0); g < symbol.NumGroups; g++ {
		var s float64
		for _, r := range g.Roles() {
			s += ComputeFlux(c, ref, r, opts...)
		}
		fv[groupCategory[g]] = roundTo4(s)
	}
	fv[tensor.Clash], fv[tensor.Combination] = Interactions(c, ref, opts...)

	return fv
}

// SlotVector splits one slot's energy across the role-group categories:
// a stem feeds its own role, a branch feeds the roles of its hidden stems.
// Values are unrounded and sum to SlotFlux; a skipped day master yields an
// empty vector.
func SlotVector(c symbol.Chart, ref symbol.Stem, slot symbol.Slot, opts ...Option) tensor.FrequencyVector {
	o := resolve(opts)
	fv := make(tensor.FrequencyVector, symbol.NumGroups)
	if skipDayStem(c, slot, ref, o) {
		return fv
	}
	month := c.MonthElement()
	p := pillarAt(c, slot.Pillar)
	w := c.SlotWeight(slot, ref)
	if slot.Kind == symbol.StemSlot {
		cat := CategoryOf(symbol.StemRole(ref, p.Stem).Group())
		fv[cat] += symbol.SeasonalFactor(p.Stem.Element(), month) * w
		return fv
	}
	for _, h := range p.Branch.Hidden(o.HiddenMass) {
		cat := CategoryOf(symbol.StemRole(ref, h.Stem).Group())
		fv[cat] += h.Mass * symbol.SeasonalFactor(h.Stem.Element(), month) * w
	}

	return fv
}
