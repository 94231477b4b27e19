// SPDX-License-Identifier: MIT

package pattern

import (
	"fmt"

	"github.com/suksuki/bazi-sub001/tensor"
)

// TriggerKind is the closed set of sub-variant trigger rules.
type TriggerKind uint8

const (
	// TriggerAlways holds for every tensor.
	TriggerAlways TriggerKind = iota
	// TriggerAxisAbove holds when tensor[Axis] > Value.
	TriggerAxisAbove
	// TriggerAxisBelow holds when tensor[Axis] < Value.
	TriggerAxisBelow
	// TriggerDominantAxis holds when Axis carries the largest absolute component.
	TriggerDominantAxis
)

var triggerNames = [...]string{"always", "axis_above", "axis_below", "dominant_axis"}

// String returns the snake_case name.
func (k TriggerKind) String() string {
	if int(k) < len(triggerNames) {
		return triggerNames[k]
	}

	return fmt.Sprintf("TriggerKind(%d)", uint8(k))
}

// MarshalText encodes the kind by name.
func (k TriggerKind) MarshalText() ([]byte, error) {
	if int(k) >= len(triggerNames) {
		return nil, fmt.Errorf("MarshalText(%d): %w", uint8(k), ErrUnknownTrigger)
	}

	return []byte(triggerNames[k]), nil
}

// UnmarshalText decodes a kind name; unknown names are rejected at load time.
func (k *TriggerKind) UnmarshalText(b []byte) error {
	for i, n := range triggerNames {
		if n == string(b) {
			*k = TriggerKind(i)
			return nil
		}
	}

	return fmt.Errorf("trigger %q: %w", b, ErrUnknownTrigger)
}

// Trigger decides whether a sub-variant is considered for a tensor.
type Trigger struct {
	Kind  TriggerKind `json:"kind" yaml:"kind"`
	Axis  tensor.Axis `json:"axis,omitempty" yaml:"axis,omitempty"`
	Value float64     `json:"value,omitempty" yaml:"value,omitempty"`
}

// Holds evaluates the trigger against a (normalized) tensor.
// An unknown kind never holds.
func (t Trigger) Holds(x tensor.Tensor) bool {
	switch t.Kind {
	case TriggerAlways:
		return true
	case TriggerAxisAbove:
		return x[t.Axis] > t.Value
	case TriggerAxisBelow:
		return x[t.Axis] < t.Value
	case TriggerDominantAxis:
		return dominant(x) == t.Axis
	default:
		return false
	}
}

// dominant returns the axis with the largest |component|, lowest index on ties.
func dominant(x tensor.Tensor) tensor.Axis {
	best := tensor.AxisE
	bv := -1.0
	for _, a := range tensor.Axes() {
		v := x[a]
		if v < 0 {
			v = -v
		}
		if v > bv {
			best, bv = a, v
		}
	}

	return best
}

func (t Trigger) validate() error {
	if int(t.Kind) >= len(triggerNames) {
		return fmt.Errorf("trigger kind %d: %w", uint8(t.Kind), ErrUnknownTrigger)
	}
	if int(t.Axis) >= tensor.NumAxes {
		return fmt.Errorf("trigger axis %d: %w", uint8(t.Axis), ErrInvalidPattern)
	}

	return nil
}
