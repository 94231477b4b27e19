// SPDX-License-Identifier: MIT

package match

import "github.com/suksuki/bazi-sub001/pattern"

// DefaultZeroMagnitude replaces a zero tensor magnitude in the magnitude gate.
// Patterns may override it with Thresholds.ZeroMagnitude.
const DefaultZeroMagnitude = 1.0

// Options hold matcher-wide fallbacks.
type Options struct {
	// Thresholds fill the zero fields of every pattern's thresholds.
	Thresholds pattern.Thresholds
	// RCond is the relative singular-value cutoff of the pseudo-inverse.
	RCond float64
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns pattern.DefaultThresholds with DefaultZeroMagnitude and rcond 1e-10.
func DefaultOptions() Options {
	th := pattern.DefaultThresholds()
	th.ZeroMagnitude = DefaultZeroMagnitude

	return Options{Thresholds: th, RCond: 1e-10}
}

// WithThresholds replaces the fallback thresholds. Zero fields keep the defaults.
func WithThresholds(th pattern.Thresholds) Option {
	return func(o *Options) { o.Thresholds = th.WithDefaults(o.Thresholds) }
}

// WithZeroMagnitude sets the fallback magnitude for zero tensors. Panics if v <= 0.
func WithZeroMagnitude(v float64) Option {
	if v <= 0 {
		panic("match: WithZeroMagnitude(v<=0)")
	}

	return func(o *Options) { o.Thresholds.ZeroMagnitude = v }
}

// WithRCond sets the pseudo-inverse cutoff. Panics if rc < 0.
func WithRCond(rc float64) Option {
	if rc < 0 {
		panic("match: WithRCond(rc<0)")
	}

	return func(o *Options) { o.RCond = rc }
}
