// SPDX-License-Identifier: MIT

package match

import "errors"

var (
	// ErrNumericInstability indicates a covariance that could not be inverted or pseudo-inverted.
	ErrNumericInstability = errors.New("match: covariance inversion failed")

	// ErrPatternNotFound indicates a pattern id unknown to the registry.
	ErrPatternNotFound = errors.New("match: pattern not found")

	// ErrNilReader indicates a Matcher constructed without a registry.
	ErrNilReader = errors.New("match: nil registry reader")

	// ErrUnknownName indicates text that names no classification or distance kind.
	ErrUnknownName = errors.New("match: unknown name")
)
