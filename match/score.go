// SPDX-License-Identifier: MIT

package match

import (
	"fmt"
	"math"

	"github.com/suksuki/bazi-sub001/pattern"
)

// Classification is the three-way outcome of a match.
type Classification uint8

const (
	Broken Classification = iota
	Marginal
	Matched
)

var classificationNames = [...]string{"broken", "marginal", "matched"}

func (c Classification) String() string {
	if int(c) < len(classificationNames) {
		return classificationNames[c]
	}

	return fmt.Sprintf("Classification(%d)", uint8(c))
}

func (c Classification) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Classification) UnmarshalText(b []byte) error {
	for i, n := range classificationNames {
		if n == string(b) {
			*c = Classification(i)
			return nil
		}
	}

	return fmt.Errorf("match: classification %q: %w", b, ErrUnknownName)
}

// Score combines similarity, distance and magnitude into [0,1].
// th must be fully resolved (see pattern.Thresholds.WithDefaults).
func Score(sim, dist, magnitude float64, th pattern.Thresholds) float64 {
	proximity := math.Exp(-(dist * dist) / (2 * th.Sigma * th.Sigma))
	gate := math.Tanh(magnitude / th.MagnitudeK)
	s := (th.SimWeight*sim + th.DistWeight*proximity) * gate

	return math.Min(math.Max(s, 0), 1)
}

// Classify applies the match and broken thresholds.
func Classify(score, dist float64, th pattern.Thresholds) Classification {
	switch {
	case score > th.Match && dist <= th.MaxDistance:
		return Matched
	case score < th.Broken:
		return Broken
	default:
		return Marginal
	}
}
