// SPDX-License-Identifier: MIT

package registry

import (
	"context"
	"sync"
	"time"

	"github.com/suksuki/bazi-sub001/pattern"
	"github.com/suksuki/bazi-sub001/tensor"
)

// MemoryStore keeps patterns in process memory. Values are deep-copied on
// the way in and out, so callers never share maps with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	patterns map[string]pattern.Pattern
}

// NewMemoryStore returns an empty store; Init is a no-op.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{patterns: make(map[string]pattern.Pattern)}
}

func (s *MemoryStore) Init(context.Context) error { return nil }

func (s *MemoryStore) PutPattern(_ context.Context, p pattern.Pattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns[p.ID] = p.Clone()

	return nil
}

func (s *MemoryStore) GetPattern(_ context.Context, id string) (pattern.Pattern, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.patterns[id]
	if !ok {
		return pattern.Pattern{}, false, nil
	}

	return p.Clone(), true, nil
}

func (s *MemoryStore) ListPatterns(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedKeys(s.patterns), nil
}

func (s *MemoryStore) SaveFit(_ context.Context, id string, tm tensor.TransferMatrix, m pattern.Manifold) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, found := s.patterns[id]
	next, err := applyFit(cur, found, id, tm, m, time.Now())
	if err != nil {
		return err
	}
	s.patterns[id] = next

	return nil
}
