// SPDX-License-Identifier: MIT

package symbol

import "strings"

// Pillar position indices.
const (
	YearPillar  = 0
	MonthPillar = 1
	DayPillar   = 2
	HourPillar  = 3
)

// MaxAuxiliary bounds the luck/annual pillars appended to a chart (N ≤ 12 nodes).
const MaxAuxiliary = 2

// positionalWeights for year, month, day, hour; auxiliary pillars use AuxiliaryWeight.
var positionalWeights = [4]float64{0.8, 1.2, 1.0, 0.9}

// AuxiliaryWeight is the positional weight of every auxiliary pillar.
const AuxiliaryWeight = 0.5

// StructuralBonus multiplies slots that sit in the reference pillar.
const StructuralBonus = 1.2

// PositionalWeight returns the weight of pillar index idx; idx ≥ 4 is auxiliary.
func PositionalWeight(idx int) float64 {
	if idx >= 0 && idx < len(positionalWeights) {
		return positionalWeights[idx]
	}

	return AuxiliaryWeight
}

// Pillar is a stem over a branch.
type Pillar struct {
	Stem   Stem
	Branch Branch
}

// ParsePillar parses a two-character stem+branch pillar.
func ParsePillar(s string) (Pillar, error) {
	r := []rune(strings.TrimSpace(s))
	if len(r) != 2 {
		return Pillar{}, symbolErrorf("ParsePillar", s, ErrBadPillar)
	}
	st, ok := stemFromRune(r[0])
	if !ok {
		return Pillar{}, symbolErrorf("ParsePillar", s, ErrUnknownStem)
	}
	br, ok := branchFromRune(r[1])
	if !ok {
		return Pillar{}, symbolErrorf("ParsePillar", s, ErrUnknownBranch)
	}

	return Pillar{Stem: st, Branch: br}, nil
}

// String returns the two-character form.
func (p Pillar) String() string { return p.Stem.String() + p.Branch.String() }

// Chart is the ordered year/month/day/hour pillars plus optional auxiliary pillars.
type Chart struct {
	Pillars   [4]Pillar
	Auxiliary []Pillar
}

// ParseChart parses four pillars and up to MaxAuxiliary auxiliary pillars.
//
// Errors:
//   - ErrMissingPillar when fewer than four pillars are given or one is blank.
//   - ErrBadPillar / ErrUnknownStem / ErrUnknownBranch for malformed pillars.
//   - ErrTooManyAuxiliary when aux exceeds MaxAuxiliary.
func ParseChart(pillars []string, aux ...string) (Chart, error) {
	var c Chart
	if len(pillars) != 4 {
		return c, symbolErrorf("ParseChart", strings.Join(pillars, ","), ErrMissingPillar)
	}
	for i, s := range pillars {
		if strings.TrimSpace(s) == "" {
			return c, symbolErrorf("ParseChart", strings.Join(pillars, ","), ErrMissingPillar)
		}
		p, err := ParsePillar(s)
		if err != nil {
			return c, err
		}
		c.Pillars[i] = p
	}
	if len(aux) > MaxAuxiliary {
		return c, symbolErrorf("ParseChart", strings.Join(aux, ","), ErrTooManyAuxiliary)
	}
	for _, s := range aux {
		p, err := ParsePillar(s)
		if err != nil {
			return c, err
		}
		c.Auxiliary = append(c.Auxiliary, p)
	}

	return c, nil
}

// MonthElement is the element of the month branch; it drives seasonal phases.
func (c Chart) MonthElement() Element { return c.Pillars[MonthPillar].Branch.Element() }

// All returns the four pillars followed by the auxiliary pillars.
func (c Chart) All() []Pillar {
	out := make([]Pillar, 0, 4+len(c.Auxiliary))
	out = append(out, c.Pillars[:]...)

	return append(out, c.Auxiliary...)
}

// SlotKind distinguishes the stem and branch half of a pillar.
type SlotKind uint8

const (
	StemSlot SlotKind = iota
	BranchSlot
)

// Slot addresses one half of one pillar.
type Slot struct {
	Pillar int
	Kind   SlotKind
}

// String renders e.g. "2/branch".
func (s Slot) String() string {
	k := "stem"
	if s.Kind == BranchSlot {
		k = "branch"
	}

	return string(rune('0'+s.Pillar)) + "/" + k
}

// ReferencePillar returns the pillar that holds ref: the day pillar when its
// stem is ref, else the first of the four main pillars whose stem is ref.
// ok is false when no main pillar carries ref.
func (c Chart) ReferencePillar(ref Stem) (idx int, ok bool) {
	if c.Pillars[DayPillar].Stem == ref {
		return DayPillar, true
	}
	for i, p := range c.Pillars {
		if p.Stem == ref {
			return i, true
		}
	}

	return 0, false
}

// SlotWeight is PositionalWeight of the slot's pillar, times StructuralBonus
// when the slot sits in the reference pillar of ref.
func (c Chart) SlotWeight(s Slot, ref Stem) float64 {
	w := PositionalWeight(s.Pillar)
	if idx, ok := c.ReferencePillar(ref); ok && idx == s.Pillar {
		w *= StructuralBonus
	}

	return w
}
