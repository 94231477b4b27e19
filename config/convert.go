// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/suksuki/bazi-sub001/fit"
	"github.com/suksuki/bazi-sub001/flux"
	"github.com/suksuki/bazi-sub001/graph"
	"github.com/suksuki/bazi-sub001/match"
	"github.com/suksuki/bazi-sub001/pattern"
	"github.com/suksuki/bazi-sub001/propagate"
	"github.com/suksuki/bazi-sub001/registry"
	"github.com/suksuki/bazi-sub001/symbol"
	"github.com/suksuki/bazi-sub001/tensor"
)

// FluxOptions converts the flux section.
func (c *Config) FluxOptions() []flux.Option {
	policy := symbol.HiddenMassFixed
	if c.Flux.HiddenMass == "renormalized" {
		policy = symbol.HiddenMassRenormalized
	}
	opts := []flux.Option{flux.WithHiddenMass(policy)}
	if c.Flux.Canonical {
		opts = append(opts, flux.WithCanonicalBranch())
	}
	if c.Flux.IncludeDayMaster {
		opts = append(opts, flux.WithDayMaster())
	}

	return opts
}

func (g GraphConfig) options() graph.Options {
	return graph.Options{
		GenerationWeight:  g.GenerationWeight,
		ControlWeight:     g.ControlWeight,
		ClashWeight:       g.ClashWeight,
		ClashDamping:      g.ClashDamping,
		CombinationWeight: g.CombinationWeight,
		CombinationBonus:  g.CombinationBonus,
		JealousyFactor:    g.JealousyFactor,
		VaultSealed:       g.VaultSealed,
		VaultOpen:         g.VaultOpen,
	}
}

// GraphOptions converts the graph section. Call after Validate.
func (c *Config) GraphOptions() []graph.Option {
	return []graph.Option{graph.WithOptions(c.Graph.options())}
}

// PropagateOptions converts the propagate section.
func (c *Config) PropagateOptions() []propagate.Option {
	return []propagate.Option{
		propagate.WithLambda(c.Propagate.Lambda),
		propagate.WithEpsilon(c.Propagate.Epsilon),
		propagate.WithMaxIterations(c.Propagate.MaxIterations),
	}
}

// TensorOptions converts the projector section.
func (c *Config) TensorOptions() []tensor.Option {
	return []tensor.Option{tensor.WithSaturationK(c.Projector.SaturationK)}
}

// MatchOptions converts the match section.
func (c *Config) MatchOptions() []match.Option {
	return []match.Option{
		match.WithThresholds(c.Match.Thresholds.WithDefaults(pattern.DefaultThresholds())),
		match.WithZeroMagnitude(c.Match.ZeroMagnitude),
		match.WithRCond(c.Match.RCond),
	}
}

// FitOptions converts the fit section.
func (c *Config) FitOptions() []fit.Option {
	opts := []fit.Option{
		fit.WithLearningRate(c.Fit.LearningRate),
		fit.WithRidge(c.Fit.Ridge),
		fit.WithEpochs(c.Fit.Epochs),
		fit.WithCovarianceEpsilon(c.Fit.CovarianceEpsilon),
		fit.WithLogEvery(c.Fit.LogEvery),
		fit.WithWorkers(c.Fit.Workers),
	}
	if c.Fit.Saturate {
		opts = append(opts, fit.WithSaturation(c.Fit.SaturationK))
	} else {
		opts = append(opts, fit.WithoutSaturation())
	}

	return opts
}

func (l LogConfig) level() (slog.Level, error) {
	var lv slog.Level
	if err := lv.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level = %q: %w", l.Level, ErrInvalid)
	}

	return lv, nil
}

// Logger builds the process logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	lv, err := c.Log.level()
	if err != nil {
		lv = slog.LevelInfo
	}
	hopts := &slog.HandlerOptions{Level: lv}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}

	return slog.New(slog.NewTextHandler(w, hopts))
}

// OpenStore creates and initialises the configured registry, wraps it in the
// LRU cache when cache_size > 0, and imports the seed file into an empty store.
func (c *Config) OpenStore(ctx context.Context) (registry.Store, error) {
	s, err := registry.NewStore(c.Registry.Backend, c.Registry.Path)
	if err != nil {
		return nil, err
	}
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	if c.Registry.Seed != "" {
		if err := seed(ctx, s, c.Registry.Seed); err != nil {
			_ = registry.CloseIfSupported(s)
			return nil, err
		}
	}
	if c.Registry.CacheSize == 0 {
		return s, nil
	}
	cached, err := registry.NewCachedStore(s, c.Registry.CacheSize)
	if err != nil {
		_ = registry.CloseIfSupported(s)
		return nil, err
	}

	return cached, nil
}

func seed(ctx context.Context, s registry.Store, path string) error {
	ids, err := s.ListPatterns(ctx)
	if err != nil || len(ids) > 0 {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer f.Close()
	list, err := pattern.DecodeYAML(f)
	if err != nil {
		return fmt.Errorf("seed %s: %w", path, err)
	}

	return registry.Import(ctx, s, list...)
}
