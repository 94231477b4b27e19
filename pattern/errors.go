// SPDX-License-Identifier: MIT

package pattern

import "errors"

var (
	// ErrInvalidPattern groups validation failures; the wrapped message names the field.
	ErrInvalidPattern = errors.New("pattern: invalid pattern")

	// ErrUnknownTrigger indicates a trigger kind outside the closed set.
	ErrUnknownTrigger = errors.New("pattern: unknown trigger kind")

	// ErrVersionMismatch indicates a record written by another schema or codec version.
	ErrVersionMismatch = errors.New("pattern: record version mismatch")
)
