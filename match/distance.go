// SPDX-License-Identifier: MIT

package match

import (
	"fmt"
	"math"

	"github.com/viterin/vek"

	"github.com/suksuki/bazi-sub001/matrix"
	"github.com/suksuki/bazi-sub001/tensor"
)

// DistanceKind records which metric produced a distance.
type DistanceKind uint8

const (
	// DistanceEuclidean is used when no covariance is present, or as the last fallback.
	DistanceEuclidean DistanceKind = iota
	// DistanceMahalanobis uses the exact inverse covariance.
	DistanceMahalanobis
	// DistancePseudoInverse uses the Moore–Penrose pseudo-inverse of a singular covariance.
	DistancePseudoInverse
)

var distanceNames = [...]string{"euclidean", "mahalanobis", "pseudo_inverse"}

func (k DistanceKind) String() string {
	if int(k) < len(distanceNames) {
		return distanceNames[k]
	}

	return fmt.Sprintf("DistanceKind(%d)", uint8(k))
}

func (k DistanceKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *DistanceKind) UnmarshalText(b []byte) error {
	for i, n := range distanceNames {
		if n == string(b) {
			*k = DistanceKind(i)
			return nil
		}
	}

	return fmt.Errorf("match: distance kind %q: %w", b, ErrUnknownName)
}

// Euclidean returns |x − mu|₂.
func Euclidean(x, mu tensor.Tensor) float64 {
	return vek.Norm(vek.Sub(x[:], mu[:]))
}

// MahalanobisDistance returns sqrt((x−mu)ᵀ Σ⁻¹ (x−mu)).
//
// A nil covariance selects Euclidean distance with a nil error. A singular
// covariance is pseudo-inverted with cutoff rcond (≤0 selects matrix.DefaultRCond).
// When neither inverse yields a usable quadratic form the Euclidean distance is
// returned together with ErrNumericInstability; the distance is always usable.
func MahalanobisDistance(x, mu tensor.Tensor, cov [][]float64, rcond float64) (float64, DistanceKind, error) {
	if cov == nil {
		return Euclidean(x, mu), DistanceEuclidean, nil
	}
	if rcond <= 0 {
		rcond = matrix.DefaultRCond
	}

	diff := vek.Sub(x[:], mu[:])
	c, err := matrix.NewDenseFromRows(cov)
	if err != nil {
		return Euclidean(x, mu), DistanceEuclidean, fmt.Errorf("%w: %v", ErrNumericInstability, err)
	}

	kind := DistanceMahalanobis
	inv, err := matrix.Inverse(c)
	if err != nil {
		kind = DistancePseudoInverse
		if inv, err = matrix.PseudoInverse(c, rcond); err != nil {
			return Euclidean(x, mu), DistanceEuclidean, fmt.Errorf("%w: %v", ErrNumericInstability, err)
		}
	}

	d2, err := matrix.QuadForm(inv, diff)
	if err != nil {
		return Euclidean(x, mu), DistanceEuclidean, fmt.Errorf("%w: %v", ErrNumericInstability, err)
	}
	// round-off on a PSD form
	if d2 < 0 && d2 > -1e-12 {
		d2 = 0
	}
	if d2 < 0 || math.IsNaN(d2) || math.IsInf(d2, 0) {
		return Euclidean(x, mu), DistanceEuclidean, fmt.Errorf("%w: quadratic form %g", ErrNumericInstability, d2)
	}

	return math.Sqrt(d2), kind, nil
}
