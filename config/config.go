// SPDX-License-Identifier: MIT

// Package config loads the process configuration of the engine and CLI.
//
// Load starts from Default, overlays a YAML file and then BAZI_* environment
// variables, and validates the result. Each section converts to the
// functional options of the package it configures.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/suksuki/bazi-sub001/fit"
	"github.com/suksuki/bazi-sub001/graph"
	"github.com/suksuki/bazi-sub001/match"
	"github.com/suksuki/bazi-sub001/matrix"
	"github.com/suksuki/bazi-sub001/pattern"
	"github.com/suksuki/bazi-sub001/propagate"
	"github.com/suksuki/bazi-sub001/registry"
	"github.com/suksuki/bazi-sub001/tensor"
)

// ErrInvalid indicates a configuration value outside its domain.
var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Flux      FluxConfig      `yaml:"flux"`
	Graph     GraphConfig     `yaml:"graph"`
	Propagate PropagateConfig `yaml:"propagate"`
	Projector ProjectorConfig `yaml:"projector"`
	Match     MatchConfig     `yaml:"match"`
	Fit       FitConfig       `yaml:"fit"`
	Registry  RegistryConfig  `yaml:"registry"`
	Log       LogConfig       `yaml:"log"`
}

type FluxConfig struct {
	HiddenMass       string `yaml:"hidden_mass"` // fixed | renormalized
	Canonical        bool   `yaml:"canonical"`
	IncludeDayMaster bool   `yaml:"include_day_master"`
}

type GraphConfig struct {
	GenerationWeight  float64 `yaml:"generation_weight"`
	ControlWeight     float64 `yaml:"control_weight"`
	ClashWeight       float64 `yaml:"clash_weight"`
	ClashDamping      float64 `yaml:"clash_damping"`
	CombinationWeight float64 `yaml:"combination_weight"`
	CombinationBonus  float64 `yaml:"combination_bonus"`
	JealousyFactor    float64 `yaml:"jealousy_factor"`
	VaultSealed       float64 `yaml:"vault_sealed"`
	VaultOpen         float64 `yaml:"vault_open"`
}

type PropagateConfig struct {
	Lambda        float64 `yaml:"lambda"`
	Epsilon       float64 `yaml:"epsilon"`
	MaxIterations int     `yaml:"max_iterations"`
}

type ProjectorConfig struct {
	Saturate    bool    `yaml:"saturate"`
	SaturationK float64 `yaml:"saturation_k"`
}

type MatchConfig struct {
	Thresholds    pattern.Thresholds `yaml:"thresholds"`
	ZeroMagnitude float64            `yaml:"zero_magnitude"`
	RCond         float64            `yaml:"rcond"`
}

type FitConfig struct {
	LearningRate      float64 `yaml:"learning_rate"`
	Ridge             float64 `yaml:"ridge"`
	Epochs            int     `yaml:"epochs"`
	CovarianceEpsilon float64 `yaml:"covariance_epsilon"`
	Saturate          bool    `yaml:"saturate"`
	SaturationK       float64 `yaml:"saturation_k"`
	LogEvery          int     `yaml:"log_every"`
	Workers           int     `yaml:"workers"`
}

type RegistryConfig struct {
	Backend   string `yaml:"backend"` // memory | sqlite | file
	Path      string `yaml:"path"`
	CacheSize int    `yaml:"cache_size"` // 0 disables the LRU cache
	Seed      string `yaml:"seed"`       // optional YAML pattern file imported into empty stores
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Default returns the built-in configuration.
func Default() *Config {
	g := graph.DefaultOptions()
	p := propagate.DefaultOptions()
	f := fit.DefaultOptions()

	return &Config{
		Flux: FluxConfig{HiddenMass: "fixed"},
		Graph: GraphConfig{
			GenerationWeight:  g.GenerationWeight,
			ControlWeight:     g.ControlWeight,
			ClashWeight:       g.ClashWeight,
			ClashDamping:      g.ClashDamping,
			CombinationWeight: g.CombinationWeight,
			CombinationBonus:  g.CombinationBonus,
			JealousyFactor:    g.JealousyFactor,
			VaultSealed:       g.VaultSealed,
			VaultOpen:         g.VaultOpen,
		},
		Propagate: PropagateConfig{Lambda: p.Lambda, Epsilon: p.Epsilon, MaxIterations: p.MaxIterations},
		Projector: ProjectorConfig{Saturate: true, SaturationK: tensor.DefaultSaturationK},
		Match:     MatchConfig{Thresholds: pattern.DefaultThresholds(), ZeroMagnitude: match.DefaultZeroMagnitude, RCond: matrix.DefaultRCond},
		Fit: FitConfig{
			LearningRate:      f.LearningRate,
			Ridge:             f.Ridge,
			Epochs:            f.Epochs,
			CovarianceEpsilon: f.CovarianceEpsilon,
			Saturate:          f.Saturate,
			SaturationK:       f.SaturationK,
			LogEvery:          f.LogEvery,
			Workers:           f.Workers,
		},
		Registry: RegistryConfig{Backend: registry.BackendMemory, CacheSize: registry.DefaultCacheSize},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path (empty means defaults only), applies the environment and validates.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := cfg.decode(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decode overlays YAML onto cfg; unknown keys are errors.
func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// ApplyEnv overrides fields from BAZI_* variables. Malformed numbers are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("BAZI_REGISTRY_BACKEND"); ok && v != "" {
		c.Registry.Backend = strings.ToLower(v)
	}
	if v, ok := lookup("BAZI_REGISTRY_PATH"); ok && v != "" {
		c.Registry.Path = v
	}
	if v, ok := lookup("BAZI_REGISTRY_CACHE_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Registry.CacheSize = n
		}
	}
	if v, ok := lookup("BAZI_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup("BAZI_FIT_EPOCHS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Fit.Epochs = n
		}
	}
	if v, ok := lookup("BAZI_FIT_WORKERS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Fit.Workers = n
		}
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	bad := func(field string, v any) error {
		return fmt.Errorf("%s = %v: %w", field, v, ErrInvalid)
	}
	switch c.Flux.HiddenMass {
	case "fixed", "renormalized":
	default:
		return bad("flux.hidden_mass", c.Flux.HiddenMass)
	}
	if err := c.Graph.options().Validate(); err != nil {
		return fmt.Errorf("graph: %v: %w", err, ErrInvalid)
	}
	if c.Propagate.Lambda <= 0 || c.Propagate.Lambda >= 1 {
		return bad("propagate.lambda", c.Propagate.Lambda)
	}
	if c.Propagate.Epsilon <= 0 {
		return bad("propagate.epsilon", c.Propagate.Epsilon)
	}
	if c.Propagate.MaxIterations < 1 {
		return bad("propagate.max_iterations", c.Propagate.MaxIterations)
	}
	if c.Projector.SaturationK <= 0 {
		return bad("projector.saturation_k", c.Projector.SaturationK)
	}
	if err := (pattern.Pattern{ID: "config", Thresholds: c.Match.Thresholds}).Validate(); err != nil {
		return fmt.Errorf("match.thresholds: %v: %w", err, ErrInvalid)
	}
	if c.Match.ZeroMagnitude <= 0 {
		return bad("match.zero_magnitude", c.Match.ZeroMagnitude)
	}
	if c.Match.RCond < 0 {
		return bad("match.rcond", c.Match.RCond)
	}
	switch {
	case c.Fit.LearningRate <= 0:
		return bad("fit.learning_rate", c.Fit.LearningRate)
	case c.Fit.Ridge < 0:
		return bad("fit.ridge", c.Fit.Ridge)
	case c.Fit.Epochs < 1:
		return bad("fit.epochs", c.Fit.Epochs)
	case c.Fit.CovarianceEpsilon < 0:
		return bad("fit.covariance_epsilon", c.Fit.CovarianceEpsilon)
	case c.Fit.SaturationK <= 0:
		return bad("fit.saturation_k", c.Fit.SaturationK)
	case c.Fit.LogEvery < 0:
		return bad("fit.log_every", c.Fit.LogEvery)
	case c.Fit.Workers < 1:
		return bad("fit.workers", c.Fit.Workers)
	}
	switch c.Registry.Backend {
	case "", registry.BackendMemory:
	case registry.BackendSQLite, registry.BackendFile:
		if c.Registry.Path == "" {
			return bad("registry.path", `""`)
		}
	default:
		return bad("registry.backend", c.Registry.Backend)
	}
	if c.Registry.CacheSize < 0 {
		return bad("registry.cache_size", c.Registry.CacheSize)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return bad("log.format", c.Log.Format)
	}

	return nil
}
