// SPDX-License-Identifier: MIT

package pattern

import (
	"fmt"
	"strings"

	"github.com/suksuki/bazi-sub001/tensor"
)

// Generic axiom bounds applied to cells without an override.
const (
	DefaultBoundMin = -2.0
	DefaultBoundMax = 2.0
)

// Cell addresses one transfer-matrix weight.
type Cell struct {
	Axis     tensor.Axis
	Category tensor.Category
}

// String renders "E.parallel".
func (c Cell) String() string { return c.Axis.String() + "." + c.Category.String() }

// MarshalText encodes the cell as "<axis>.<category>".
func (c Cell) MarshalText() ([]byte, error) {
	if _, err := c.Axis.MarshalText(); err != nil {
		return nil, err
	}
	if _, err := c.Category.MarshalText(); err != nil {
		return nil, err
	}

	return []byte(c.String()), nil
}

// UnmarshalText decodes "<axis>.<category>".
func (c *Cell) UnmarshalText(b []byte) error {
	a, cat, ok := strings.Cut(string(b), ".")
	if !ok {
		return fmt.Errorf("cell %q: want <axis>.<category>: %w", b, ErrInvalidPattern)
	}
	if err := c.Axis.UnmarshalText([]byte(a)); err != nil {
		return err
	}

	return c.Category.UnmarshalText([]byte(cat))
}

// Bound is a closed interval [Min, Max].
type Bound struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// DefaultBound is the generic [-2, 2] axiom.
func DefaultBound() Bound { return Bound{Min: DefaultBoundMin, Max: DefaultBoundMax} }

// Contains reports Min ≤ v ≤ Max.
func (b Bound) Contains(v float64) bool { return v >= b.Min && v <= b.Max }

// AxiomBounds holds per-cell overrides of the generic bound.
type AxiomBounds map[Cell]Bound

// For returns the override for c, else DefaultBound.
func (ab AxiomBounds) For(c Cell) Bound {
	if b, ok := ab[c]; ok {
		return b
	}

	return DefaultBound()
}
