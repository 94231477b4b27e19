// SPDX-License-Identifier: MIT

package match

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/suksuki/bazi-sub001/pattern"
	"github.com/suksuki/bazi-sub001/registry"
	"github.com/suksuki/bazi-sub001/tensor"
)

// Recognition is the outcome of matching one tensor against one pattern.
type Recognition struct {
	PatternID      string         `json:"pattern_id"`
	Matched        bool           `json:"matched"`
	Category       string         `json:"category"`
	Classification Classification `json:"classification"`
	SubVariant     string         `json:"sub_variant,omitempty"`
	Similarity     float64        `json:"similarity"`
	Distance       float64        `json:"distance"`
	DistanceKind   DistanceKind   `json:"distance_kind"`
	Score          float64        `json:"score"`
	Magnitude      float64        `json:"magnitude"`
	// Unstable is set when covariance inversion failed and Euclidean distance was used.
	Unstable bool `json:"unstable,omitempty"`
}

// Matcher recognizes tensors against patterns held by a registry.
// It keeps no per-call state and is safe for concurrent use.
type Matcher struct {
	reader registry.Reader
	logger *slog.Logger
	opts   Options
}

// New returns a Matcher over r. A nil logger selects slog.Default().
func New(r registry.Reader, logger *slog.Logger, opts ...Option) (*Matcher, error) {
	if r == nil {
		return nil, ErrNilReader
	}
	if logger == nil {
		logger = slog.Default()
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Matcher{reader: r, logger: logger, opts: o}, nil
}

// Recognize loads patternID and evaluates t against it.
// Only registry failures and unknown ids are returned as errors.
func (m *Matcher) Recognize(ctx context.Context, t tensor.Tensor, patternID string) (Recognition, error) {
	p, found, err := m.reader.GetPattern(ctx, patternID)
	if err != nil {
		return Recognition{PatternID: patternID}, fmt.Errorf("match: load %q: %w", patternID, err)
	}
	if !found {
		m.logger.Warn("pattern not found", "pattern", patternID)
		return Recognition{PatternID: patternID}, fmt.Errorf("%q: %w", patternID, ErrPatternNotFound)
	}

	return m.Evaluate(t, p), nil
}

// Evaluate scores t against p without touching the registry.
func (m *Matcher) Evaluate(t tensor.Tensor, p pattern.Pattern) Recognition {
	magnitude := tensor.Magnitude(t)
	x := tensor.Normalize(t)
	base := p.Thresholds.WithDefaults(m.opts.Thresholds)

	for _, sv := range p.SortedSubVariants() {
		if !sv.Trigger.Holds(x) {
			continue
		}
		th := base
		if sv.Thresholds != nil {
			th = sv.Thresholds.WithDefaults(base)
		}
		r := m.evaluate(x, magnitude, sv.Manifold, th, p.ID+"/"+sv.ID)
		if r.Classification == Matched {
			r.PatternID = p.ID
			r.Category = sv.ID
			r.SubVariant = sv.ID
			r.Matched = true

			return r
		}
	}

	r := m.evaluate(x, magnitude, p.Manifold, base, p.ID)
	r.PatternID = p.ID
	r.Category = p.ID
	r.Matched = r.Classification == Matched

	return r
}

func (m *Matcher) evaluate(x tensor.Tensor, magnitude float64, mf pattern.Manifold, th pattern.Thresholds, label string) Recognition {
	sim := tensor.CosineSimilarity(x, mf.Centroid)
	dist, kind, err := MahalanobisDistance(x, mf.Centroid, mf.Covariance, m.opts.RCond)
	if err != nil {
		m.logger.Warn("covariance unusable; falling back to euclidean distance", "manifold", label, "error", err)
	}
	if kind == DistancePseudoInverse {
		m.logger.Debug("singular covariance; using pseudo-inverse", "manifold", label)
	}

	gateMag := magnitude
	if gateMag == 0 {
		gateMag = th.ZeroMagnitude
	}
	score := Score(sim, dist, gateMag, th)

	return Recognition{
		Classification: Classify(score, dist, th),
		Similarity:     sim,
		Distance:       dist,
		DistanceKind:   kind,
		Score:          score,
		Magnitude:      magnitude,
		Unstable:       err != nil,
	}
}
