// SPDX-License-Identifier: MIT

package propagate

import "errors"

var (
	// ErrNoAdjacency indicates an adjacency without weights.
	ErrNoAdjacency = errors.New("propagate: adjacency has no weights")

	// ErrLengthMismatch indicates energies and adjacency disagree on N.
	ErrLengthMismatch = errors.New("propagate: energy length does not match adjacency")

	// ErrFinished indicates Step was called after a terminal state.
	ErrFinished = errors.New("propagate: propagation already finished")
)
