// SPDX-License-Identifier: MIT

package registry_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suksuki/bazi-sub001/pattern"
	"github.com/suksuki/bazi-sub001/registry"
)

// gatedStore holds its first GetPattern after the backend read until release
// is closed, so a write can land between the read and the cache fill.
type gatedStore struct {
	registry.Store
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (g *gatedStore) GetPattern(ctx context.Context, id string) (pattern.Pattern, bool, error) {
	p, found, err := g.Store.GetPattern(ctx, id)
	g.once.Do(func() {
		close(g.read)
		<-g.release
	})

	return p, found, err
}

func TestCachedStore_StaleFillAfterWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := registry.NewMemoryStore()
	require.NoError(t, registry.Import(ctx, backend, loadFixture(t)...))
	old, _, err := backend.GetPattern(ctx, "wealth_flow")
	require.NoError(t, err)

	gate := &gatedStore{Store: backend, read: make(chan struct{}), release: make(chan struct{})}
	c, err := registry.NewCachedStore(gate, 0)
	require.NoError(t, err)

	done := make(chan pattern.Pattern)
	go func() {
		p, _, _ := c.GetPattern(ctx, "wealth_flow")
		done <- p
	}()
	<-gate.read
	require.NoError(t, c.SaveFit(ctx, "wealth_flow", old.Transfer, old.Manifold))
	close(gate.release)
	assert.Equal(t, old.Version, (<-done).Version, "the in-flight read saw the old value")

	p, found, err := c.GetPattern(ctx, "wealth_flow")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, old.Version+1, p.Version, "the stale value was not cached")
}

func TestCachedStore_PurgeBlocksInFlightFill(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	backend := registry.NewMemoryStore()
	require.NoError(t, registry.Import(ctx, backend, loadFixture(t)...))
	gate := &gatedStore{Store: backend, read: make(chan struct{}), release: make(chan struct{})}
	c, err := registry.NewCachedStore(gate, 0)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		_, _, _ = c.GetPattern(ctx, "order_only")
		close(done)
	}()
	<-gate.read
	c.Purge()
	close(gate.release)
	<-done
	assert.Equal(t, 0, c.Len())
}

func TestCachedStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fixture := loadFixture(t)

	c, err := registry.NewCachedStore(registry.NewMemoryStore(), 0)
	require.NoError(t, err)
	require.NoError(t, registry.Import(ctx, c, fixture...))

	_, _, err = c.GetPattern(ctx, "wealth_flow")
	require.NoError(t, err)
	p, found, err := c.GetPattern(ctx, "wealth_flow")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, registry.CacheStats{Hits: 1, Misses: 1}, c.Stats())
	assert.Equal(t, 1, c.Len())

	// misses are not cached
	_, found, err = c.GetPattern(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, c.Len())

	require.NoError(t, c.SaveFit(ctx, "wealth_flow", p.Transfer, p.Manifold))
	assert.Equal(t, 0, c.Len(), "SaveFit evicts")
	p, _, err = c.GetPattern(ctx, "wealth_flow")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Version)

	c.Purge()
	assert.Equal(t, 0, c.Len())
	require.NoError(t, c.Close())
}
