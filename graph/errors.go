// SPDX-License-Identifier: MIT

package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrNoNodes indicates an empty node set.
	ErrNoNodes = errors.New("graph: empty node set")

	// ErrTooManyNodes indicates more than MaxNodes nodes.
	ErrTooManyNodes = errors.New("graph: too many nodes")

	// ErrInvalidOptions indicates weights that violate their sign constraints.
	ErrInvalidOptions = errors.New("graph: invalid options")
)

func graphErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
