// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Element-wise clipping and approximate comparison.
//   - ClipBounds is the projection step of the transfer-matrix fitter:
//     each cell is clipped into its own [lo,hi] box after every update.

package matrix

import "math"

const (
	opClip       = "Clip"
	opClipBounds = "ClipBounds"
	opAllClose   = "AllClose"
)

// Clip returns a copy of m with every element clamped into [lo, hi].
// lo > hi is a programmer error and reports ErrOutOfRange.
func Clip(m *Dense, lo, hi float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opClip, err)
	}
	if lo > hi {
		return nil, matrixErrorf(opClip, ErrOutOfRange)
	}
	out := m.Clone()
	for i, v := range out.data {
		out.data[i] = math.Min(math.Max(v, lo), hi)
	}

	return out, nil
}

// ClipBounds clamps m in place: m[i,j] into [lo[i,j], hi[i,j]].
// Returns the number of cells that were moved.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch when lo/hi shapes differ from m.
//
// Complexity:
//   - Time O(r*c), Space O(1).
func ClipBounds(m, lo, hi *Dense) (int, error) {
	if err := ValidateSameShape(m, lo); err != nil {
		return 0, matrixErrorf(opClipBounds, err)
	}
	if err := ValidateSameShape(m, hi); err != nil {
		return 0, matrixErrorf(opClipBounds, err)
	}
	var moved int
	var v float64
	for i := range m.data {
		v = m.data[i]
		switch {
		case v < lo.data[i]:
			m.data[i] = lo.data[i]
			moved++
		case v > hi.data[i]:
			m.data[i] = hi.data[i]
			moved++
		}
	}

	return moved, nil
}

// AllClose reports whether |a-b| <= atol + rtol·|b| element-wise.
func AllClose(a, b *Dense, rtol, atol float64) (bool, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	for i := range a.data {
		if math.Abs(a.data[i]-b.data[i]) > atol+rtol*math.Abs(b.data[i]) {
			return false, nil
		}
	}

	return true, nil
}
