// SPDX-License-Identifier: MIT

package tensor

// Options tunes projection.
type Options struct {
	// SaturationK is the k in sat(x) = k·tanh(x/k).
	SaturationK float64
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns k = DefaultSaturationK.
func DefaultOptions() Options {
	return Options{SaturationK: DefaultSaturationK}
}

// WithSaturationK sets the saturation scale. Panics when k ≤ 0.
func WithSaturationK(k float64) Option {
	if k <= 0 {
		panic("tensor: WithSaturationK(k<=0)")
	}

	return func(o *Options) { o.SaturationK = k }
}
