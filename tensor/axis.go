// SPDX-License-Identifier: MIT

package tensor

import (
	"fmt"
	"strings"
)

// Axis indexes the five tensor dimensions.
type Axis uint8

const (
	AxisE Axis = iota // energy
	AxisO             // order
	AxisM             // material
	AxisS             // stress
	AxisR             // relation
)

// NumAxes is the tensor dimension.
const NumAxes = 5

var axisNames = [NumAxes]string{"E", "O", "M", "S", "R"}

// Axes lists every axis in index order.
func Axes() [NumAxes]Axis { return [NumAxes]Axis{AxisE, AxisO, AxisM, AxisS, AxisR} }

// String returns the single-letter axis name.
func (a Axis) String() string {
	if int(a) < NumAxes {
		return axisNames[a]
	}

	return fmt.Sprintf("Axis(%d)", uint8(a))
}

// ParseAxis accepts the single-letter name, case-insensitive.
func ParseAxis(s string) (Axis, error) {
	for i, n := range axisNames {
		if strings.EqualFold(strings.TrimSpace(s), n) {
			return Axis(i), nil
		}
	}

	return 0, fmt.Errorf("ParseAxis(%q): %w", s, ErrUnknownAxis)
}

// MarshalText encodes the axis by name so maps keyed by Axis stay readable in JSON/YAML.
func (a Axis) MarshalText() ([]byte, error) {
	if int(a) >= NumAxes {
		return nil, fmt.Errorf("MarshalText(%d): %w", uint8(a), ErrUnknownAxis)
	}

	return []byte(axisNames[a]), nil
}

// UnmarshalText decodes an axis name.
func (a *Axis) UnmarshalText(b []byte) error {
	v, err := ParseAxis(string(b))
	if err != nil {
		return err
	}
	*a = v

	return nil
}

// Category indexes the seven frequency categories.
type Category uint8

const (
	Parallel Category = iota
	Output
	Wealth
	Power
	Resource
	Clash
	Combination
)

// NumCategories is the frequency-vector dimension.
const NumCategories = 7

var categoryNames = [NumCategories]string{
	"parallel", "output", "wealth", "power", "resource", "clash", "combination",
}

// Categories lists every category in index order.
func Categories() [NumCategories]Category {
	return [NumCategories]Category{Parallel, Output, Wealth, Power, Resource, Clash, Combination}
}

// String returns the lower-case category name.
func (c Category) String() string {
	if int(c) < NumCategories {
		return categoryNames[c]
	}

	return fmt.Sprintf("Category(%d)", uint8(c))
}

// ParseCategory accepts the category name, case-insensitive.
func ParseCategory(s string) (Category, error) {
	for i, n := range categoryNames {
		if strings.EqualFold(strings.TrimSpace(s), n) {
			return Category(i), nil
		}
	}

	return 0, fmt.Errorf("ParseCategory(%q): %w", s, ErrUnknownCategory)
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	if int(c) >= NumCategories {
		return nil, fmt.Errorf("MarshalText(%d): %w", uint8(c), ErrUnknownCategory)
	}

	return []byte(categoryNames[c]), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v

	return nil
}
