// SPDX-License-Identifier: MIT

package registry

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gobwas/glob"

	"github.com/suksuki/bazi-sub001/pattern"
	"github.com/suksuki/bazi-sub001/tensor"
)

// Reader resolves patterns by id. A missing pattern is (zero, false, nil).
type Reader interface {
	GetPattern(ctx context.Context, id string) (pattern.Pattern, bool, error)
	ListPatterns(ctx context.Context) ([]string, error)
}

// Writer persists fitted parameters. SaveFit creates the pattern when absent,
// replaces its transfer matrix and manifold, bumps Version and stamps UpdatedAt.
type Writer interface {
	SaveFit(ctx context.Context, id string, tm tensor.TransferMatrix, m pattern.Manifold) error
}

// Store is a complete backend.
type Store interface {
	Reader
	Writer
	Init(ctx context.Context) error
	PutPattern(ctx context.Context, p pattern.Pattern) error
}

// Backend names accepted by NewStore.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// NewStore returns an uninitialised backend; call Init before use.
// An empty kind selects the memory backend.
func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		return NewSQLiteStore(path), nil
	case BackendFile:
		return NewFileStore(path), nil
	default:
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownBackend)
	}
}

// CloseIfSupported closes stores that hold resources.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}

	return closer.Close()
}

// Import validates every pattern, then stores them in order. Nothing is
// written when any pattern is invalid; a write failure stops the import.
func Import(ctx context.Context, store Store, patterns ...pattern.Pattern) error {
	for _, p := range patterns {
		if err := p.Validate(); err != nil {
			return registryErrorf("import", p.ID, err)
		}
	}
	for _, p := range patterns {
		if err := store.PutPattern(ctx, p); err != nil {
			return registryErrorf("import", p.ID, err)
		}
	}

	return nil
}

// Match lists the pattern ids matching a glob expression ('.' separates
// segments, so "wealth_*" does not cross into sub-variant ids). An empty
// expression matches everything.
func Match(ctx context.Context, r Reader, expr string) ([]string, error) {
	ids, err := r.ListPatterns(ctx)
	if err != nil {
		return nil, err
	}
	if expr == "" {
		return ids, nil
	}
	g, err := glob.Compile(expr, '.')
	if err != nil {
		return nil, fmt.Errorf("%q: %w: %v", expr, ErrBadGlob, err)
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if g.Match(id) {
			out = append(out, id)
		}
	}

	return out, nil
}

// applyFit folds a fit into the stored pattern (or a fresh one) and validates the result.
func applyFit(p pattern.Pattern, found bool, id string, tm tensor.TransferMatrix, m pattern.Manifold, now time.Time) (pattern.Pattern, error) {
	if !found {
		p = pattern.Pattern{VersionedRecord: pattern.CurrentRecord(), ID: id}
	} else {
		p = p.Clone()
	}
	p.Transfer = tm.Clone()
	p.Manifold = m.Clone()
	p.Version++
	p.UpdatedAt = now.UTC()
	if err := p.Validate(); err != nil {
		return pattern.Pattern{}, registryErrorf("save fit", id, err)
	}

	return p, nil
}

func sortedKeys(m map[string]pattern.Pattern) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}
