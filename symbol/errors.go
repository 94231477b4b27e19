// SPDX-License-Identifier: MIT
// Package: symbol
//
// errors.go - sentinel errors for symbol parsing.
// Callers branch with errors.Is; context is attached with %w.

package symbol

import (
	"errors"
	"fmt"
)

// ErrUnknownStem indicates a character outside 甲乙丙丁戊己庚辛壬癸.
var ErrUnknownStem = errors.New("symbol: unknown stem")

// ErrUnknownBranch indicates a character outside 子丑寅卯辰巳午未申酉戌亥.
var ErrUnknownBranch = errors.New("symbol: unknown branch")

// ErrUnknownRole indicates a role name that is neither a Chinese role name
// nor an English identifier.
var ErrUnknownRole = errors.New("symbol: unknown role")

// ErrBadPillar indicates a pillar that is not exactly stem+branch.
var ErrBadPillar = errors.New("symbol: pillar must be stem+branch")

// ErrMissingPillar indicates that one of the four required pillars is empty.
var ErrMissingPillar = errors.New("symbol: missing pillar")

// ErrTooManyAuxiliary indicates more auxiliary pillars than MaxAuxiliary.
var ErrTooManyAuxiliary = errors.New("symbol: too many auxiliary pillars")

// symbolErrorf wraps err with a call-site tag and the offending input.
func symbolErrorf(tag, input string, err error) error {
	return fmt.Errorf("%s(%q): %w", tag, input, err)
}
