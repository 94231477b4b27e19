// SPDX-License-Identifier: MIT

package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suksuki/bazi-sub001/pattern"
	"github.com/suksuki/bazi-sub001/registry"
	"github.com/suksuki/bazi-sub001/tensor"
)

func loadFixture(t *testing.T) []pattern.Pattern {
	t.Helper()
	f, err := os.Open(filepath.Join("..", "testdata", "patterns.yaml"))
	require.NoError(t, err)
	defer f.Close()
	list, err := pattern.DecodeYAML(f)
	require.NoError(t, err)
	require.Len(t, list, 3)

	return list
}

// backends builds one fresh, initialised store per backend.
func backends(t *testing.T) map[string]registry.Store {
	t.Helper()
	dir := t.TempDir()
	cached, err := registry.NewCachedStore(registry.NewMemoryStore(), 4)
	require.NoError(t, err)
	stores := map[string]registry.Store{
		"memory": registry.NewMemoryStore(),
		"sqlite": registry.NewSQLiteStore(filepath.Join(dir, "patterns.db")),
		"file":   registry.NewFileStore(filepath.Join(dir, "patterns.yaml")),
		"cached": cached,
	}
	for name, s := range stores {
		require.NoError(t, s.Init(context.Background()), name)
		s := s
		t.Cleanup(func() { _ = registry.CloseIfSupported(s) })
	}

	return stores
}

func TestStoreContract(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fixture := loadFixture(t)

	for name, s := range backends(t) {
		name, s := name, s
		t.Run(name, func(t *testing.T) {
			require.NoError(t, registry.Import(ctx, s, fixture...))

			ids, err := s.ListPatterns(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"order_only", "parallel_strength", "wealth_flow"}, ids)

			p, found, err := s.GetPattern(ctx, "parallel_strength")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, 0.9, p.Transfer.Get(tensor.AxisE, tensor.Parallel))
			assert.Len(t, p.SubVariants, 2)
			assert.True(t, p.Manifold.HasCovariance())
			assert.Equal(t, 1, p.Version)

			// returned values are copies
			p.Transfer.Set(tensor.AxisE, tensor.Parallel, 1.4)
			again, _, err := s.GetPattern(ctx, "parallel_strength")
			require.NoError(t, err)
			assert.Equal(t, 0.9, again.Transfer.Get(tensor.AxisE, tensor.Parallel))

			_, found, err = s.GetPattern(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestSaveFit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fixture := loadFixture(t)

	for name, s := range backends(t) {
		name, s := name, s
		t.Run(name, func(t *testing.T) {
			require.NoError(t, registry.Import(ctx, s, fixture...))
			cur, _, err := s.GetPattern(ctx, "parallel_strength")
			require.NoError(t, err)

			tm := cur.Transfer.Clone()
			tm.Set(tensor.AxisM, tensor.Wealth, 0.95)
			m := pattern.Manifold{Centroid: tensor.Tensor{0.4, 0.1, 0.2, 0.1, 0.2}}
			require.NoError(t, s.SaveFit(ctx, "parallel_strength", tm, m))

			got, found, err := s.GetPattern(ctx, "parallel_strength")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, 2, got.Version)
			assert.False(t, got.UpdatedAt.IsZero())
			assert.Equal(t, 0.95, got.Transfer.Get(tensor.AxisM, tensor.Wealth))
			assert.Equal(t, m.Centroid, got.Manifold.Centroid)
			assert.False(t, got.Manifold.HasCovariance())
			assert.Len(t, got.SubVariants, 2, "fit keeps sub-variants")

			// axiom bound E.parallel is [0.2, 1.5]
			bad := tm.Clone()
			bad.Set(tensor.AxisE, tensor.Parallel, 0)
			require.ErrorIs(t, s.SaveFit(ctx, "parallel_strength", bad, m), pattern.ErrInvalidPattern)
			got, _, err = s.GetPattern(ctx, "parallel_strength")
			require.NoError(t, err)
			assert.Equal(t, 2, got.Version)

			require.NoError(t, s.SaveFit(ctx, "fresh", tm, m))
			fresh, found, err := s.GetPattern(ctx, "fresh")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, 1, fresh.Version)
		})
	}
}

func TestPersistentBackendsSurviveReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fixture := loadFixture(t)
	dir := t.TempDir()

	for _, kind := range []string{registry.BackendSQLite, registry.BackendFile} {
		path := filepath.Join(dir, "reopen."+kind)
		s, err := registry.NewStore(kind, path)
		require.NoError(t, err)
		require.NoError(t, s.Init(ctx))
		require.NoError(t, registry.Import(ctx, s, fixture...))
		require.NoError(t, s.SaveFit(ctx, "wealth_flow", fixture[1].Transfer, fixture[1].Manifold))
		require.NoError(t, registry.CloseIfSupported(s))

		s2, err := registry.NewStore(kind, path)
		require.NoError(t, err)
		require.NoError(t, s2.Init(ctx))
		p, found, err := s2.GetPattern(ctx, "wealth_flow")
		require.NoError(t, err)
		require.True(t, found, kind)
		assert.Equal(t, 2, p.Version, kind)
		require.NoError(t, registry.CloseIfSupported(s2))
	}
}

func TestNewStoreErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := registry.NewStore("postgres", "")
	require.ErrorIs(t, err, registry.ErrUnknownBackend)

	s, err := registry.NewStore(registry.BackendSQLite, "")
	require.NoError(t, err)
	require.ErrorIs(t, s.Init(ctx), registry.ErrPathRequired)

	_, _, err = registry.NewSQLiteStore("x.db").GetPattern(ctx, "a")
	require.ErrorIs(t, err, registry.ErrNotInitialized)
	_, err = registry.NewFileStore("x.yaml").ListPatterns(ctx)
	require.ErrorIs(t, err, registry.ErrNotInitialized)

	s, err = registry.NewStore("", "")
	require.NoError(t, err)
	assert.IsType(t, &registry.MemoryStore{}, s)
}

func TestImportRejectsInvalid(t *testing.T) {
	t.Parallel()
	s := registry.NewMemoryStore()
	good := loadFixture(t)[0]
	err := registry.Import(context.Background(), s, good, pattern.Pattern{})
	require.ErrorIs(t, err, pattern.ErrInvalidPattern)
	ids, err := s.ListPatterns(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids, "nothing is written when a pattern is invalid")
}

func TestMatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := registry.NewMemoryStore()
	require.NoError(t, registry.Import(ctx, s, loadFixture(t)...))

	cases := []struct {
		expr string
		want []string
	}{
		{"", []string{"order_only", "parallel_strength", "wealth_flow"}},
		{"w*", []string{"wealth_flow"}},
		{"*_{flow,only}", []string{"order_only", "wealth_flow"}},
		{"nothing*", []string{}},
	}
	for _, tc := range cases {
		got, err := registry.Match(ctx, s, tc.expr)
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.want, got, tc.expr)
	}

	_, err := registry.Match(ctx, s, "[")
	require.ErrorIs(t, err, registry.ErrBadGlob)
}
