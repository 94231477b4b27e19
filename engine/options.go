// SPDX-License-Identifier: MIT

package engine

import (
	"github.com/suksuki/bazi-sub001/flux"
	"github.com/suksuki/bazi-sub001/graph"
	"github.com/suksuki/bazi-sub001/propagate"
	"github.com/suksuki/bazi-sub001/tensor"
)

// Options collect the per-stage options.
type Options struct {
	Flux      []flux.Option
	Graph     []graph.Option
	Propagate []propagate.Option
	Tensor    []tensor.Option
	// Saturate applies k·tanh(x/k) to the frequency vector before projection.
	Saturate bool
	// Propagated feeds propagated node energies into the frequency vector;
	// when false the raw extractor vector is projected.
	Propagated bool
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions: stage defaults, saturation on, propagated frequencies.
func DefaultOptions() Options {
	return Options{Saturate: true, Propagated: true}
}

func WithFluxOptions(opts ...flux.Option) Option {
	return func(o *Options) { o.Flux = append(o.Flux, opts...) }
}

func WithGraphOptions(opts ...graph.Option) Option {
	return func(o *Options) { o.Graph = append(o.Graph, opts...) }
}

func WithPropagateOptions(opts ...propagate.Option) Option {
	return func(o *Options) { o.Propagate = append(o.Propagate, opts...) }
}

func WithTensorOptions(opts ...tensor.Option) Option {
	return func(o *Options) { o.Tensor = append(o.Tensor, opts...) }
}

// WithoutSaturation projects the frequency vector as is.
func WithoutSaturation() Option {
	return func(o *Options) { o.Saturate = false }
}

// WithRawFrequency skips the propagated re-weighting of the frequency vector.
// The propagation still runs and is reported.
func WithRawFrequency() Option {
	return func(o *Options) { o.Propagated = false }
}
