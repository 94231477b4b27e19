// SPDX-License-Identifier: MIT

package engine

import "errors"

var (
	// ErrMissingData indicates an absent or malformed pillar or reference.
	ErrMissingData = errors.New("engine: missing input data")

	// ErrConfiguration indicates a missing pattern or transfer-matrix row.
	ErrConfiguration = errors.New("engine: pattern configuration incomplete")
)
