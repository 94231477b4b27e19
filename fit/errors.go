// SPDX-License-Identifier: MIT

package fit

import (
	"errors"
	"fmt"
)

var (
	// ErrShape indicates X or Y with the wrong number of columns or mismatched rows.
	ErrShape = errors.New("fit: invalid sample shape")

	// ErrNoSamples indicates an empty training set.
	ErrNoSamples = errors.New("fit: no samples")

	// ErrNilRegistry indicates a Fitter constructed without a registry.
	ErrNilRegistry = errors.New("fit: nil registry")

	// ErrDiverged indicates the loss became NaN or infinite.
	ErrDiverged = errors.New("fit: loss diverged")
)

func fitErrorf(patternID string, err error) error {
	return fmt.Errorf("fit %q: %w", patternID, err)
}
