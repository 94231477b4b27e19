// SPDX-License-Identifier: MIT

package flux

import "github.com/suksuki/bazi-sub001/symbol"

// Options control extraction.
type Options struct {
	// HiddenMass decides how branches with fewer than three hidden stems are weighed.
	HiddenMass symbol.HiddenMassPolicy
	// Canonical restricts Companion/RobWealth branch contributions to the
	// role's canonical branch (禄/刃) for the reference; stems still count.
	// Roles without a canonical branch ignore it.
	Canonical bool
	// IncludeDayMaster counts the day stem even when it equals the reference.
	IncludeDayMaster bool
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions: fixed hidden mass, no canonical restriction, day master excluded.
func DefaultOptions() Options {
	return Options{HiddenMass: symbol.HiddenMassFixed}
}

// WithHiddenMass selects the hidden-stem mass policy. Panics on unknown policies.
func WithHiddenMass(p symbol.HiddenMassPolicy) Option {
	if p != symbol.HiddenMassFixed && p != symbol.HiddenMassRenormalized {
		panic("flux: WithHiddenMass(unknown policy)")
	}

	return func(o *Options) { o.HiddenMass = p }
}

// WithCanonicalBranch enables the canonical branch restriction.
func WithCanonicalBranch() Option {
	return func(o *Options) { o.Canonical = true }
}

// WithDayMaster counts the day stem in its own role.
func WithDayMaster() Option {
	return func(o *Options) { o.IncludeDayMaster = true }
}

func resolve(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
