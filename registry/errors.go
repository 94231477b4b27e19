// SPDX-License-Identifier: MIT

package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownBackend indicates a backend name outside memory, sqlite, file.
	ErrUnknownBackend = errors.New("registry: unknown backend")

	// ErrPathRequired indicates a persistent backend created without a path.
	ErrPathRequired = errors.New("registry: path is required")

	// ErrNotInitialized indicates use of a persistent backend before Init.
	ErrNotInitialized = errors.New("registry: store not initialized")

	// ErrBadGlob indicates a pattern-id filter that does not compile.
	ErrBadGlob = errors.New("registry: invalid glob")
)

// registryErrorf prefixes err with the operation and pattern id.
func registryErrorf(op, id string, err error) error {
	return fmt.Errorf("%s %q: %w", op, id, err)
}
