// SPDX-License-Identifier: MIT

package pattern

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/suksuki/bazi-sub001/tensor"
)

// Manifold is the empirical region of tensors a pattern expects.
// The inverse covariance is derived by the matcher and never persisted.
type Manifold struct {
	Centroid   tensor.Tensor `json:"centroid" yaml:"centroid,flow"`
	Covariance [][]float64   `json:"covariance,omitempty" yaml:"covariance,omitempty"`
}

// HasCovariance reports whether a 5×5 covariance is present.
func (m Manifold) HasCovariance() bool { return len(m.Covariance) == tensor.NumAxes }

// Clone returns a deep copy.
func (m Manifold) Clone() Manifold {
	out := Manifold{Centroid: m.Centroid}
	if m.Covariance != nil {
		out.Covariance = make([][]float64, len(m.Covariance))
		for i, row := range m.Covariance {
			out.Covariance[i] = append([]float64(nil), row...)
		}
	}

	return out
}

func (m Manifold) validate() error {
	for _, v := range m.Centroid {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("centroid not finite: %w", ErrInvalidPattern)
		}
	}
	if m.Covariance == nil {
		return nil
	}
	if len(m.Covariance) != tensor.NumAxes {
		return fmt.Errorf("covariance has %d rows, want %d: %w", len(m.Covariance), tensor.NumAxes, ErrInvalidPattern)
	}
	for i, row := range m.Covariance {
		if len(row) != tensor.NumAxes {
			return fmt.Errorf("covariance row %d has %d cols: %w", i, len(row), ErrInvalidPattern)
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("covariance row %d not finite: %w", i, ErrInvalidPattern)
			}
		}
	}

	return nil
}

// Thresholds parameterise the composite score and classification.
// Zero fields fall back to the matcher defaults (see WithDefaults).
type Thresholds struct {
	Match         float64 `json:"match,omitempty" yaml:"match,omitempty"`
	Broken        float64 `json:"broken,omitempty" yaml:"broken,omitempty"`
	MaxDistance   float64 `json:"max_distance,omitempty" yaml:"max_distance,omitempty"`
	SimWeight     float64 `json:"sim_weight,omitempty" yaml:"sim_weight,omitempty"`
	DistWeight    float64 `json:"dist_weight,omitempty" yaml:"dist_weight,omitempty"`
	Sigma         float64 `json:"sigma,omitempty" yaml:"sigma,omitempty"`
	MagnitudeK    float64 `json:"magnitude_k,omitempty" yaml:"magnitude_k,omitempty"`
	ZeroMagnitude float64 `json:"zero_magnitude,omitempty" yaml:"zero_magnitude,omitempty"`
}

// Default threshold values.
const (
	DefaultMatch       = 0.7
	DefaultBroken      = 0.3
	DefaultMaxDistance = 3.0
	DefaultSimWeight   = 0.6
	DefaultDistWeight  = 0.4
	DefaultSigma       = 1.0
	DefaultMagnitudeK  = 1.0
)

// DefaultThresholds returns the matcher defaults. ZeroMagnitude stays zero:
// the matcher substitutes its own named constant.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Match:       DefaultMatch,
		Broken:      DefaultBroken,
		MaxDistance: DefaultMaxDistance,
		SimWeight:   DefaultSimWeight,
		DistWeight:  DefaultDistWeight,
		Sigma:       DefaultSigma,
		MagnitudeK:  DefaultMagnitudeK,
	}
}

// WithDefaults fills zero fields from base.
func (t Thresholds) WithDefaults(base Thresholds) Thresholds {
	fill := func(v *float64, d float64) {
		if *v == 0 {
			*v = d
		}
	}
	fill(&t.Match, base.Match)
	fill(&t.Broken, base.Broken)
	fill(&t.MaxDistance, base.MaxDistance)
	fill(&t.Sigma, base.Sigma)
	fill(&t.MagnitudeK, base.MagnitudeK)
	fill(&t.ZeroMagnitude, base.ZeroMagnitude)
	if t.SimWeight == 0 && t.DistWeight == 0 {
		t.SimWeight, t.DistWeight = base.SimWeight, base.DistWeight
	}

	return t
}

func (t Thresholds) validate() error {
	for _, v := range []float64{t.Match, t.Broken, t.MaxDistance, t.SimWeight, t.DistWeight, t.Sigma, t.MagnitudeK, t.ZeroMagnitude} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("thresholds must be finite and >= 0: %w", ErrInvalidPattern)
		}
	}
	if t.Match != 0 && t.Broken > t.Match {
		return fmt.Errorf("broken %.3f above match %.3f: %w", t.Broken, t.Match, ErrInvalidPattern)
	}
	if s := t.SimWeight + t.DistWeight; s != 0 && math.Abs(s-1) > 1e-9 {
		return fmt.Errorf("sim_weight+dist_weight = %.6f, want 1: %w", s, ErrInvalidPattern)
	}

	return nil
}

// SubVariant is a named refinement checked before the parent classification.
type SubVariant struct {
	ID         string      `json:"id" yaml:"id"`
	Priority   int         `json:"priority" yaml:"priority"`
	Trigger    Trigger     `json:"trigger" yaml:"trigger"`
	Manifold   Manifold    `json:"manifold" yaml:"manifold"`
	Thresholds *Thresholds `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
}

// VersionedRecord captures schema and codec evolution of persisted patterns.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version" yaml:"schema_version"`
	CodecVersion  int `json:"codec_version" yaml:"codec_version"`
}

// Current record versions.
const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

// CurrentRecord returns the versions written by this build.
func CurrentRecord() VersionedRecord {
	return VersionedRecord{SchemaVersion: CurrentSchemaVersion, CodecVersion: CurrentCodecVersion}
}

// Pattern is one named reference pattern.
type Pattern struct {
	VersionedRecord `yaml:",inline"`

	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name,omitempty" yaml:"name,omitempty"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Version     int       `json:"version" yaml:"version"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`

	Transfer    tensor.TransferMatrix `json:"transfer" yaml:"transfer"`
	Manifold    Manifold              `json:"manifold" yaml:"manifold"`
	Thresholds  Thresholds            `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
	Axioms      AxiomBounds           `json:"axioms,omitempty" yaml:"axioms,omitempty"`
	SubVariants []SubVariant          `json:"sub_variants,omitempty" yaml:"sub_variants,omitempty"`
}

// Bound returns the axiom bound of cell c: the pattern override, else [-2, 2].
func (p Pattern) Bound(c Cell) Bound { return p.Axioms.For(c) }

// SortedSubVariants returns sub-variants in ascending priority; ties keep declaration order.
func (p Pattern) SortedSubVariants() []SubVariant {
	out := append([]SubVariant(nil), p.SubVariants...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })

	return out
}

// Clone returns a deep copy.
func (p Pattern) Clone() Pattern {
	out := p
	out.Transfer = p.Transfer.Clone()
	out.Manifold = p.Manifold.Clone()
	if p.Axioms != nil {
		out.Axioms = make(AxiomBounds, len(p.Axioms))
		for k, v := range p.Axioms {
			out.Axioms[k] = v
		}
	}
	if p.SubVariants != nil {
		out.SubVariants = make([]SubVariant, len(p.SubVariants))
		for i, sv := range p.SubVariants {
			sv.Manifold = sv.Manifold.Clone()
			if sv.Thresholds != nil {
				th := *sv.Thresholds
				sv.Thresholds = &th
			}
			out.SubVariants[i] = sv
		}
	}

	return out
}

// Validate checks the pattern once at load time.
//
// Errors (all wrap ErrInvalidPattern or ErrUnknownTrigger):
//   - empty ID; non-finite transfer weights; weights outside their axiom bound;
//   - inverted bounds; malformed manifold or thresholds;
//   - sub-variants with empty or duplicate IDs, or unknown trigger kinds.
//
// A missing transfer row is allowed: that axis projects to zero.
func (p Pattern) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("empty id: %w", ErrInvalidPattern)
	}
	for c, b := range p.Axioms {
		if b.Min > b.Max {
			return fmt.Errorf("%s: axiom bound [%g,%g] inverted: %w", c, b.Min, b.Max, ErrInvalidPattern)
		}
	}
	for a, row := range p.Transfer {
		for c, w := range row {
			if math.IsNaN(w) || math.IsInf(w, 0) {
				return fmt.Errorf("%s: transfer weight not finite: %w", p.ID, ErrInvalidPattern)
			}
			cell := Cell{Axis: a, Category: c}
			if !p.Bound(cell).Contains(w) {
				return fmt.Errorf("%s: %s = %g outside axiom bound: %w", p.ID, cell, w, ErrInvalidPattern)
			}
		}
	}
	if err := p.Manifold.validate(); err != nil {
		return fmt.Errorf("%s: %w", p.ID, err)
	}
	if err := p.Thresholds.validate(); err != nil {
		return fmt.Errorf("%s: %w", p.ID, err)
	}
	seen := make(map[string]bool, len(p.SubVariants))
	for _, sv := range p.SubVariants {
		if sv.ID == "" || seen[sv.ID] {
			return fmt.Errorf("%s: sub-variant id %q empty or duplicate: %w", p.ID, sv.ID, ErrInvalidPattern)
		}
		seen[sv.ID] = true
		if err := sv.Trigger.validate(); err != nil {
			return fmt.Errorf("%s/%s: %w", p.ID, sv.ID, err)
		}
		if err := sv.Manifold.validate(); err != nil {
			return fmt.Errorf("%s/%s: %w", p.ID, sv.ID, err)
		}
		if sv.Thresholds != nil {
			if err := sv.Thresholds.validate(); err != nil {
				return fmt.Errorf("%s/%s: %w", p.ID, sv.ID, err)
			}
		}
	}

	return nil
}
