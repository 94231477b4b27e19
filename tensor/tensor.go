// SPDX-License-Identifier: MIT

package tensor

import (
	"math"

	"github.com/viterin/vek"
)

// Tensor is a point in the 5-axis space, indexed by Axis.
type Tensor [NumAxes]float64

// Slice returns a copy of the components as a slice.
func (t Tensor) Slice() []float64 {
	out := make([]float64, NumAxes)
	copy(out, t[:])

	return out
}

// FromSlice copies the first NumAxes values of v into a Tensor; short input
// leaves the remaining axes zero.
func FromSlice(v []float64) Tensor {
	var t Tensor
	copy(t[:], v)

	return t
}

// IsZero reports whether every component is exactly zero.
func (t Tensor) IsZero() bool {
	for _, v := range t {
		if v != 0 {
			return false
		}
	}

	return true
}

// L1 returns Σ|t[a]|.
func L1(t Tensor) float64 {
	var s float64
	for _, v := range t {
		s += math.Abs(v)
	}

	return s
}

// unitTol is how far a norm or cosine may sit from 1 and still count as 1.
const unitTol = 1e-12

// Normalize divides t by its L1 norm. A zero-sum tensor, or one whose L1
// norm is already 1 within unitTol, is returned unchanged, so Normalize is
// exactly idempotent.
func Normalize(t Tensor) Tensor {
	s := L1(t)
	if s == 0 || math.Abs(s-1) <= unitTol {
		return t
	}
	for i := range t {
		t[i] /= s
	}

	return t
}

// Magnitude returns the Euclidean norm of t.
func Magnitude(t Tensor) float64 {
	return vek.Norm(t[:])
}

// CosineSimilarity returns the cosine of the angle between a and b clipped to [0,1].
//
//   - both zero  → 1
//   - one zero   → 0
//   - otherwise  → clamp(a·b / (|a||b|), 0, 1), snapped to 1 within unitTol
func CosineSimilarity(a, b Tensor) float64 {
	na, nb := vek.Norm(a[:]), vek.Norm(b[:])
	switch {
	case na == 0 && nb == 0:
		return 1
	case na == 0 || nb == 0:
		return 0
	}
	c := vek.Dot(a[:], b[:]) / (na * nb)
	if c >= 1-unitTol {
		return 1
	}

	return math.Min(math.Max(c, 0), 1)
}
