// SPDX-License-Identifier: MIT

package config_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suksuki/bazi-sub001/config"
	"github.com/suksuki/bazi-sub001/fit"
	"github.com/suksuki/bazi-sub001/flux"
	"github.com/suksuki/bazi-sub001/graph"
	"github.com/suksuki/bazi-sub001/propagate"
	"github.com/suksuki/bazi-sub001/registry"
	"github.com/suksuki/bazi-sub001/symbol"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bazi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, propagate.DefaultLambda, cfg.Propagate.Lambda)
	assert.Equal(t, graph.DefaultVaultOpen, cfg.Graph.VaultOpen)
	assert.Equal(t, fit.DefaultEpochs, cfg.Fit.Epochs)
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := writeConfig(t, `
flux:
  hidden_mass: renormalized
  canonical: true
propagate:
  lambda: 0.3
fit:
  epochs: 50
registry:
  backend: sqlite
  path: /tmp/p.db
log:
  level: debug
  format: json
`)
	t.Setenv("BAZI_REGISTRY_PATH", "/var/lib/bazi/p.db")
	t.Setenv("BAZI_FIT_WORKERS", "8")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "renormalized", cfg.Flux.HiddenMass)
	assert.True(t, cfg.Flux.Canonical)
	assert.Equal(t, 0.3, cfg.Propagate.Lambda)
	assert.Equal(t, propagate.DefaultEpsilon, cfg.Propagate.Epsilon, "untouched fields keep defaults")
	assert.Equal(t, 50, cfg.Fit.Epochs)
	assert.Equal(t, 8, cfg.Fit.Workers)
	assert.Equal(t, "/var/lib/bazi/p.db", cfg.Registry.Path)

	var fo flux.Options
	for _, opt := range cfg.FluxOptions() {
		opt(&fo)
	}
	assert.Equal(t, symbol.HiddenMassRenormalized, fo.HiddenMass)
	assert.True(t, fo.Canonical)

	po := propagate.DefaultOptions()
	for _, opt := range cfg.PropagateOptions() {
		opt(&po)
	}
	assert.Equal(t, 0.3, po.Lambda)

	fio := fit.DefaultOptions()
	for _, opt := range cfg.FitOptions() {
		opt(&fio)
	}
	assert.Equal(t, 50, fio.Epochs)
	assert.Equal(t, 8, fio.Workers)

	var buf bytes.Buffer
	cfg.Logger(&buf).Debug("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"unknown key":     "flux:\n  bogus: 1\n",
		"bad lambda":      "propagate:\n  lambda: 1.5\n",
		"bad hidden mass": "flux:\n  hidden_mass: sometimes\n",
		"sqlite no path":  "registry:\n  backend: sqlite\n",
		"bad backend":     "registry:\n  backend: redis\n",
		"bad weights":     "match:\n  thresholds:\n    sim_weight: 0.9\n    dist_weight: 0.9\n",
		"bad log level":   "log:\n  level: loud\n",
		"positive clash":  "graph:\n  clash_weight: 0.5\n",
	}
	for name, body := range cases {
		_, err := config.Load(writeConfig(t, body))
		require.Error(t, err, name)
	}

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = config.Load(writeConfig(t, "propagate:\n  max_iterations: 0\n"))
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	env := map[string]string{
		"BAZI_REGISTRY_BACKEND":    "FILE",
		"BAZI_REGISTRY_CACHE_SIZE": "nope",
		"BAZI_LOG_LEVEL":           "WARN",
	}
	cfg.ApplyEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok })
	assert.Equal(t, registry.BackendFile, cfg.Registry.Backend)
	assert.Equal(t, registry.DefaultCacheSize, cfg.Registry.CacheSize, "malformed numbers are ignored")
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestOpenStore_SeedsAndCaches(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cfg := config.Default()
	cfg.Registry.Seed = filepath.Join("..", "testdata", "patterns.yaml")

	s, err := cfg.OpenStore(ctx)
	require.NoError(t, err)
	defer registry.CloseIfSupported(s)
	assert.IsType(t, &registry.CachedStore{}, s)
	ids, err := s.ListPatterns(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	cfg.Registry.CacheSize = 0
	cfg.Registry.Backend = registry.BackendSQLite
	cfg.Registry.Path = filepath.Join(t.TempDir(), "p.db")
	s2, err := cfg.OpenStore(ctx)
	require.NoError(t, err)
	defer registry.CloseIfSupported(s2)
	assert.IsType(t, &registry.SQLiteStore{}, s2)
	ids, err = s2.ListPatterns(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}
