// SPDX-License-Identifier: MIT

package graph

import "fmt"

// Default weights.
const (
	DefaultGenerationWeight  = 0.3
	DefaultControlWeight     = 0.25
	DefaultClashWeight       = -0.5
	DefaultClashDamping      = 0.6
	DefaultCombinationWeight = 0.4
	DefaultCombinationBonus  = 1.2
	DefaultJealousyFactor    = 0.5
	DefaultVaultSealed       = 0.6
	DefaultVaultOpen         = 1.3
)

// Options hold the relation weights.
type Options struct {
	GenerationWeight  float64 // added for j generates i
	ControlWeight     float64 // subtracted for j controls i
	ClashWeight       float64 // signed, ≤ 0
	ClashDamping      float64
	CombinationWeight float64
	CombinationBonus  float64
	JealousyFactor    float64
	VaultSealed       float64
	VaultOpen         float64
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the default weights.
func DefaultOptions() Options {
	return Options{
		GenerationWeight:  DefaultGenerationWeight,
		ControlWeight:     DefaultControlWeight,
		ClashWeight:       DefaultClashWeight,
		ClashDamping:      DefaultClashDamping,
		CombinationWeight: DefaultCombinationWeight,
		CombinationBonus:  DefaultCombinationBonus,
		JealousyFactor:    DefaultJealousyFactor,
		VaultSealed:       DefaultVaultSealed,
		VaultOpen:         DefaultVaultOpen,
	}
}

// WithOptions replaces every weight at once; used by the config layer.
// Panics when Validate fails.
func WithOptions(o Options) Option {
	if err := o.Validate(); err != nil {
		panic(err.Error())
	}

	return func(dst *Options) { *dst = o }
}

// WithGenerationWeight sets the generation weight. Panics when w < 0.
func WithGenerationWeight(w float64) Option {
	if w < 0 {
		panic("graph: WithGenerationWeight(w<0)")
	}

	return func(o *Options) { o.GenerationWeight = w }
}

// WithControlWeight sets the control magnitude. Panics when w < 0.
func WithControlWeight(w float64) Option {
	if w < 0 {
		panic("graph: WithControlWeight(w<0)")
	}

	return func(o *Options) { o.ControlWeight = w }
}

// WithClash sets the clash weight (≤ 0) and damping (≥ 0).
func WithClash(weight, damping float64) Option {
	if weight > 0 || damping < 0 {
		panic("graph: WithClash(weight>0 or damping<0)")
	}

	return func(o *Options) { o.ClashWeight, o.ClashDamping = weight, damping }
}

// WithCombination sets the combination weight, bonus and jealousy factor (all ≥ 0).
func WithCombination(weight, bonus, jealousy float64) Option {
	if weight < 0 || bonus < 0 || jealousy < 0 {
		panic("graph: WithCombination(negative value)")
	}

	return func(o *Options) {
		o.CombinationWeight, o.CombinationBonus, o.JealousyFactor = weight, bonus, jealousy
	}
}

// WithVault sets the sealed and open self-energy scales (both > 0).
func WithVault(sealed, open float64) Option {
	if sealed <= 0 || open <= 0 {
		panic("graph: WithVault(scale<=0)")
	}

	return func(o *Options) { o.VaultSealed, o.VaultOpen = sealed, open }
}

// Validate checks sign constraints.
func (o Options) Validate() error {
	switch {
	case o.GenerationWeight < 0, o.ControlWeight < 0:
		return fmt.Errorf("generation/control weights must be >= 0: %w", ErrInvalidOptions)
	case o.ClashWeight > 0, o.ClashDamping < 0:
		return fmt.Errorf("clash weight must be <= 0 and damping >= 0: %w", ErrInvalidOptions)
	case o.CombinationWeight < 0, o.CombinationBonus < 0, o.JealousyFactor < 0:
		return fmt.Errorf("combination parameters must be >= 0: %w", ErrInvalidOptions)
	case o.VaultSealed <= 0, o.VaultOpen <= 0:
		return fmt.Errorf("vault scales must be > 0: %w", ErrInvalidOptions)
	}

	return nil
}
