// SPDX-License-Identifier: MIT

package fit

import "github.com/suksuki/bazi-sub001/tensor"

// Defaults.
const (
	DefaultLearningRate      = 0.03
	DefaultRidge             = 0.008
	DefaultEpochs            = 500
	DefaultCovarianceEpsilon = 1e-4
	DefaultLogEvery          = 100
	DefaultWorkers           = 4
)

// Options control one fit and batch parallelism.
type Options struct {
	LearningRate      float64 // η > 0
	Ridge             float64 // ρ ≥ 0
	Epochs            int     // used when Fit is called with epochs ≤ 0
	CovarianceEpsilon float64 // ε added to the covariance diagonal
	Saturate          bool    // apply k·tanh(x/k) to X
	SaturationK       float64
	LogEvery          int // debug-log the loss every n epochs; 0 disables
	Workers           int // RunBatch concurrency
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns η=0.03, ρ=0.008, 500 epochs, ε=1e-4, saturation k=3.
func DefaultOptions() Options {
	return Options{
		LearningRate:      DefaultLearningRate,
		Ridge:             DefaultRidge,
		Epochs:            DefaultEpochs,
		CovarianceEpsilon: DefaultCovarianceEpsilon,
		Saturate:          true,
		SaturationK:       tensor.DefaultSaturationK,
		LogEvery:          DefaultLogEvery,
		Workers:           DefaultWorkers,
	}
}

// WithLearningRate sets η. Panics if eta <= 0.
func WithLearningRate(eta float64) Option {
	if eta <= 0 {
		panic("fit: WithLearningRate(eta<=0)")
	}

	return func(o *Options) { o.LearningRate = eta }
}

// WithRidge sets ρ. Panics if rho < 0.
func WithRidge(rho float64) Option {
	if rho < 0 {
		panic("fit: WithRidge(rho<0)")
	}

	return func(o *Options) { o.Ridge = rho }
}

// WithEpochs sets the default epoch budget. Panics if n < 1.
func WithEpochs(n int) Option {
	if n < 1 {
		panic("fit: WithEpochs(n<1)")
	}

	return func(o *Options) { o.Epochs = n }
}

// WithCovarianceEpsilon sets the ridge term of the manifold covariance. Panics if eps < 0.
func WithCovarianceEpsilon(eps float64) Option {
	if eps < 0 {
		panic("fit: WithCovarianceEpsilon(eps<0)")
	}

	return func(o *Options) { o.CovarianceEpsilon = eps }
}

// WithSaturation sets k of the input saturation. Panics if k <= 0.
func WithSaturation(k float64) Option {
	if k <= 0 {
		panic("fit: WithSaturation(k<=0)")
	}

	return func(o *Options) { o.Saturate, o.SaturationK = true, k }
}

// WithoutSaturation trains on raw X.
func WithoutSaturation() Option {
	return func(o *Options) { o.Saturate = false }
}

// WithLogEvery sets the debug logging period. Panics if n < 0.
func WithLogEvery(n int) Option {
	if n < 0 {
		panic("fit: WithLogEvery(n<0)")
	}

	return func(o *Options) { o.LogEvery = n }
}

// WithWorkers bounds RunBatch concurrency. Panics if n < 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("fit: WithWorkers(n<1)")
	}

	return func(o *Options) { o.Workers = n }
}
