// SPDX-License-Identifier: MIT

package symbol

// Element is one of the five phases.
type Element uint8

// Elements in generation order: each generates the next, Water generates Wood.
const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

// NumElements is the size of the element enumeration.
const NumElements = 5

var elementNames = [NumElements]string{"Wood", "Fire", "Earth", "Metal", "Water"}

// String returns the English element name.
func (e Element) String() string {
	if int(e) < NumElements {
		return elementNames[e]
	}

	return "Element(?)"
}

// Generates reports whether e generates other (Wood→Fire→Earth→Metal→Water→Wood).
func (e Element) Generates(other Element) bool {
	return (e+1)%NumElements == other
}

// Controls reports whether e controls other (Wood→Earth→Water→Fire→Metal→Wood).
func (e Element) Controls(other Element) bool {
	return (e+2)%NumElements == other
}

// Polarity is yang (odd-numbered stems, counting from 1) or yin.
type Polarity uint8

const (
	Yang Polarity = iota
	Yin
)

// String returns "yang" or "yin".
func (p Polarity) String() string {
	if p == Yang {
		return "yang"
	}

	return "yin"
}

// Phase is the seasonal strength of an element relative to the month element.
type Phase uint8

const (
	Prosperous Phase = iota // 旺: same element as the month
	Assisted                // 相: generated by the month element
	Resting                 // 休: generates the month element
	Trapped                 // 囚: controls the month element
	Dead                    // 死: controlled by the month element
)

// phaseFactors are the multiplicative seasonal weights, indexed by Phase.
var phaseFactors = [...]float64{
	Prosperous: 1.5,
	Assisted:   1.2,
	Resting:    1.0,
	Trapped:    0.8,
	Dead:       0.6,
}

// PhaseOf returns the seasonal phase of e in a month governed by month.
func PhaseOf(e, month Element) Phase {
	switch {
	case e == month:
		return Prosperous
	case month.Generates(e):
		return Assisted
	case e.Generates(month):
		return Resting
	case e.Controls(month):
		return Trapped
	default:
		return Dead
	}
}

// Factor returns the multiplicative weight of the phase.
func (p Phase) Factor() float64 { return phaseFactors[p] }

// SeasonalFactor is shorthand for PhaseOf(e, month).Factor().
func SeasonalFactor(e, month Element) float64 { return PhaseOf(e, month).Factor() }

// MarshalText encodes the element by name.
func (e Element) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// MarshalText encodes the polarity by name.
func (p Polarity) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
