// SPDX-License-Identifier: MIT

package propagate

// Defaults.
const (
	DefaultLambda        = 0.4
	DefaultEpsilon       = 1e-3
	DefaultMaxIterations = 8
)

// Options control the update rule and stopping criteria.
type Options struct {
	Lambda        float64 // mixing factor, in (0,1)
	Epsilon       float64 // convergence threshold on Δ, > 0
	MaxIterations int     // iteration cap, ≥ 1
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns λ=0.4, ε=1e-3, cap 8.
func DefaultOptions() Options {
	return Options{Lambda: DefaultLambda, Epsilon: DefaultEpsilon, MaxIterations: DefaultMaxIterations}
}

// WithLambda sets λ. Panics unless 0 < λ < 1.
func WithLambda(l float64) Option {
	if l <= 0 || l >= 1 {
		panic("propagate: WithLambda(λ outside (0,1))")
	}

	return func(o *Options) { o.Lambda = l }
}

// WithEpsilon sets ε. Panics when ε ≤ 0.
func WithEpsilon(eps float64) Option {
	if eps <= 0 {
		panic("propagate: WithEpsilon(ε<=0)")
	}

	return func(o *Options) { o.Epsilon = eps }
}

// WithMaxIterations sets the cap. Panics when n < 1.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic("propagate: WithMaxIterations(n<1)")
	}

	return func(o *Options) { o.MaxIterations = n }
}
