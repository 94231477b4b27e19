// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Column statistics for manifold fitting: means, centering, sample covariance,
//     ridge-stabilized covariance and L1 row normalization.
//
// Exposed API:
//   - ColumnMeans(X)            -> means
//   - CenterColumns(X)          -> (Xc, means)
//   - Covariance(X)             -> (Cov, means)  // (Xcᵀ Xc)/(r-1)
//   - RidgeCovariance(X, eps)   -> (Cov+εI, means)
//   - NormalizeRowsL1(X)        -> (Y, norms)    // degenerate rows unchanged
//
// Determinism & Performance:
//   - Fixed i→j traversal; all loops read the flat row-major buffer directly.

package matrix

import "math"

const (
	opColumnMeans     = "ColumnMeans"
	opCenterColumns   = "CenterColumns"
	opCovariance      = "Covariance"
	opRidgeCovariance = "RidgeCovariance"
	opNormalizeRowsL1 = "NormalizeRowsL1"
)

// ColumnMeans returns Σ_i X[i,j] / r for every column j.
// Complexity: O(r*c).
func ColumnMeans(X *Dense) ([]float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opColumnMeans, err)
	}
	means := make([]float64, X.c)
	var i, j, base int
	for i = 0; i < X.r; i++ {
		base = i * X.c
		for j = 0; j < X.c; j++ {
			means[j] += X.data[base+j]
		}
	}
	inv := 1.0 / float64(X.r)
	for j = range means {
		means[j] *= inv
	}

	return means, nil
}

// CenterColumns subtracts the per-column mean from every element.
// Returns the centered copy and the means used.
func CenterColumns(X *Dense) (*Dense, []float64, error) {
	means, err := ColumnMeans(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}
	out := X.Clone()
	var i, j, base int
	for i = 0; i < X.r; i++ {
		base = i * X.c
		for j = 0; j < X.c; j++ {
			out.data[base+j] -= means[j]
		}
	}

	return out, means, nil
}

// Covariance returns the sample covariance of the columns of X: (Xcᵀ·Xc)/(r-1).
//
// Errors:
//   - ErrNilMatrix; ErrDimensionMismatch when r < 2 (sample covariance undefined).
//
// Determinism:
//   - Only the upper triangle is accumulated; the lower triangle is mirrored,
//     so the result is exactly symmetric.
//
// Complexity:
//   - Time O(r*c^2), Space O(c^2).
func Covariance(X *Dense) (*Dense, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	if X.r < 2 {
		return nil, nil, matrixErrorf(opCovariance, ErrDimensionMismatch)
	}
	Xc, means, err := CenterColumns(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	c := X.c
	cov, err := NewDense(c, c)
	if err != nil {
		return nil, nil, matrixErrorf(opCovariance, err)
	}
	denom := 1.0 / float64(X.r-1)
	var i, j, k int
	var sum float64
	for i = 0; i < c; i++ {
		for j = i; j < c; j++ {
			sum = ZeroSum
			for k = 0; k < X.r; k++ {
				sum += Xc.data[k*c+i] * Xc.data[k*c+j]
			}
			cov.data[i*c+j] = sum * denom
			cov.data[j*c+i] = sum * denom
		}
	}

	return cov, means, nil
}

// RidgeCovariance returns Covariance(X) + eps·I.
// A positive eps keeps the result positive definite so Inverse never needs pivoting.
func RidgeCovariance(X *Dense, eps float64) (*Dense, []float64, error) {
	cov, means, err := Covariance(X)
	if err != nil {
		return nil, nil, matrixErrorf(opRidgeCovariance, err)
	}
	n := cov.r
	for i := 0; i < n; i++ {
		cov.data[i*n+i] += eps
	}

	return cov, means, nil
}

// NormalizeRowsL1 divides every row by Σ_j |X[i,j]|.
// Rows with zero L1 norm are copied unchanged and report norm 0.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NormalizeRowsL1(X *Dense) (*Dense, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opNormalizeRowsL1, err)
	}
	out := X.Clone()
	norms := make([]float64, X.r)
	var i, j, base int
	var sum float64
	for i = 0; i < X.r; i++ {
		base = i * X.c
		sum = ZeroSum
		for j = 0; j < X.c; j++ {
			sum += math.Abs(X.data[base+j])
		}
		norms[i] = sum
		if sum == 0 {
			continue
		}
		for j = 0; j < X.c; j++ {
			out.data[base+j] /= sum
		}
	}

	return out, norms, nil
}
