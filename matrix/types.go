// SPDX-License-Identifier: MIT

// Package matrix: shared numeric policy constants.
package matrix

// Numeric policy (single source of truth).
const (
	// DefaultEpsilon is the tolerance used by structural checks (symmetry, AllClose).
	DefaultEpsilon = 1e-9

	// DefaultValidateNaNInf toggles finite-only validation in Set/Apply.
	DefaultValidateNaNInf = true

	// PivotTolerance is the absolute pivot magnitude under which LU treats the
	// input as singular. Covariances of normalized tensors live around 1e-2..1e-4,
	// so anything below 1e-12 is numerical noise.
	PivotTolerance = 1e-12

	// DefaultRCond is the relative singular-value cutoff for PseudoInverse:
	// values below DefaultRCond·σ_max are treated as zero.
	DefaultRCond = 1e-10
)

// ZeroSum is the initial accumulator value for dot products and substitutions.
const ZeroSum = 0.0
