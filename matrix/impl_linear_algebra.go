// SPDX-License-Identifier: MIT
// Package matrix: canonical linear-algebra kernels.
//
// Purpose:
//   - Element-wise Add/Sub, Mul, Transpose, Scale, MatVec and quadratic forms.
//   - Deterministic LU (Doolittle, no pivoting) and Inverse built on it.
//   - PseudoInverse for rank-deficient inputs, delegated to gonum's SVD.
//
// Notes:
//   - All kernels validate through validators.go and wrap errors via matrixErrorf.
//   - Inputs are never mutated; every result is a fresh *Dense.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Operation name constants for unified error wrapping.
const (
	opAdd           = "Add"
	opSub           = "Sub"
	opMul           = "Mul"
	opTranspose     = "Transpose"
	opScale         = "Scale"
	opMatVec        = "MatVec"
	opQuadForm      = "QuadForm"
	opLU            = "LU"
	opInverse       = "Inverse"
	opPseudoInverse = "PseudoInverse"
)

// matrixErrorf wraps err with an operation tag, preserving the sentinel via %w.
// Call only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// addSub computes out = a + sign*b for sign ∈ {+1, -1} in one flat loop.
func addSub(a, b *Dense, sign float64, opTag string) (*Dense, error) {
	if err := ValidateSameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	res, err := NewDense(a.r, a.c)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	for i := range a.data {
		res.data[i] = a.data[i] + sign*b.data[i]
	}

	return res, nil
}

// Add returns a + b. Complexity: O(r*c).
func Add(a, b *Dense) (*Dense, error) { return addSub(a, b, +1, opAdd) }

// Sub returns a − b. Complexity: O(r*c).
func Sub(a, b *Dense) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Mul returns the matrix product a × b.
//
// Determinism:
//   - Fixed i→k→j loop order; zero a[i,k] are skipped.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	res, err := NewDense(a.r, b.c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	var i, j, k, rowA, rowB, rowR int
	var av float64
	for i = 0; i < a.r; i++ {
		rowA = i * a.c
		rowR = i * b.c
		for k = 0; k < a.c; k++ {
			av = a.data[rowA+k]
			if av == 0 {
				continue
			}
			rowB = k * b.c
			for j = 0; j < b.c; j++ {
				res.data[rowR+j] += av * b.data[rowB+j]
			}
		}
	}

	return res, nil
}

// Transpose returns mᵀ. Complexity: O(r*c).
func Transpose(m *Dense) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	res, err := NewDense(m.c, m.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			res.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return res, nil
}

// Scale returns alpha*m. Complexity: O(r*c).
func Scale(m *Dense, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res := m.Clone()
	for i := range res.data {
		res.data[i] *= alpha
	}

	return res, nil
}

// MatVec returns y = m·x.
//
// AI-Hints:
//   - The propagator calls this once per iteration on a pre-transposed adjacency,
//     so keep x/y allocation outside hot loops when N grows.
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m *Dense, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.c); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	y := make([]float64, m.r)
	var sum float64
	for i := 0; i < m.r; i++ {
		sum = ZeroSum
		base := i * m.c
		for j := 0; j < m.c; j++ {
			sum += m.data[base+j] * x[j]
		}
		y[i] = sum
	}

	return y, nil
}

// QuadForm returns xᵀ·m·x for a square m.
// Used by Mahalanobis distance with m = Σ⁻¹.
//
// Complexity:
//   - Time O(n^2), Space O(n).
func QuadForm(m *Dense, x []float64) (float64, error) {
	if err := ValidateSquare(m); err != nil {
		return 0, matrixErrorf(opQuadForm, err)
	}
	mx, err := MatVec(m, x)
	if err != nil {
		return 0, matrixErrorf(opQuadForm, err)
	}
	sum := ZeroSum
	for i := range x {
		sum += x[i] * mx[i]
	}

	return sum, nil
}

// FrobeniusSquared returns ‖m‖²_F = Σ m[i,j]².
func FrobeniusSquared(m *Dense) float64 {
	if m == nil {
		return 0
	}
	sum := ZeroSum
	for _, v := range m.data {
		sum += v * v
	}

	return sum
}

// LU computes the Doolittle factorization A = L*U with unit diagonal on L (no pivoting).
//
// Implementation:
//   - Stage 1: validate square; allocate L,U; set diag(L)=1.
//   - Stage 2: for i=0..n-1 build row i of U, then column i of L.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular when |U[i,i]| <= PivotTolerance.
//
// Determinism:
//   - Fixed loop orders; no pivoting, so identical inputs give identical factors.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func LU(m *Dense) (*Dense, *Dense, error) {
	if err := ValidateSquare(m); err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	n := m.r
	L, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	U, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}

	var i, j, k int
	var sum, pivot float64
	for i = 0; i < n; i++ {
		// Row i of U.
		for k = i; k < n; k++ {
			sum = ZeroSum
			for j = 0; j < i; j++ {
				sum += L.data[i*n+j] * U.data[j*n+k]
			}
			U.data[i*n+k] = m.data[i*n+k] - sum
		}
		pivot = U.data[i*n+i]
		if math.Abs(pivot) <= PivotTolerance {
			return nil, nil, matrixErrorf(opLU, ErrSingular)
		}
		// Column i of L (below the diagonal).
		for k = i + 1; k < n; k++ {
			sum = ZeroSum
			for j = 0; j < i; j++ {
				sum += L.data[k*n+j] * U.data[j*n+i]
			}
			L.data[k*n+i] = (m.data[k*n+i] - sum) / pivot
		}
	}

	return L, U, nil
}

// Inverse returns A⁻¹ via LU and n triangular solves (no pivoting; deterministic).
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare, ErrSingular (propagated from LU).
//
// Notes:
//   - Covariances handed to the matcher are ridge-stabilized (cov+εI), which keeps
//     them SPD, and SPD matrices never need pivoting.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func Inverse(m *Dense) (*Dense, error) {
	L, U, err := LU(m)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	n := m.r
	inv, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}

	y := make([]float64, n)
	x := make([]float64, n)
	var col, i, k int
	var sum float64
	for col = 0; col < n; col++ {
		// Forward: L*y = e_col.
		for i = 0; i < n; i++ {
			sum = ZeroSum
			for k = 0; k < i; k++ {
				sum += L.data[i*n+k] * y[k]
			}
			if i == col {
				y[i] = 1.0 - sum
			} else {
				y[i] = -sum
			}
		}
		// Backward: U*x = y.
		for i = n - 1; i >= 0; i-- {
			sum = ZeroSum
			for k = i + 1; k < n; k++ {
				sum += U.data[i*n+k] * x[k]
			}
			x[i] = (y[i] - sum) / U.data[i*n+i]
		}
		for i = 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}

	return inv, nil
}

// PseudoInverse returns the Moore–Penrose inverse A⁺ = V·Σ⁺·Uᵀ.
// Singular values below rcond·σ_max are dropped; rcond<=0 uses DefaultRCond.
//
// Implementation:
//   - Stage 1: copy into a gonum mat.Dense and run a thin SVD.
//   - Stage 2: accumulate A⁺[i,j] = Σ_k V[i,k]·(1/σ_k)·U[j,k] over kept σ_k.
//
// Errors:
//   - ErrNilMatrix; ErrSVDFailed when gonum reports non-convergence.
//
// Complexity:
//   - Time O(min(r,c)·r·c), Space O(r*c).
//
// AI-Hints:
//   - Use only after Inverse reported ErrSingular; Inverse is cheaper and exact on SPD input.
func PseudoInverse(m *Dense, rcond float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opPseudoInverse, err)
	}
	if rcond <= 0 {
		rcond = DefaultRCond
	}

	a := mat.NewDense(m.r, m.c, append([]float64(nil), m.data...))
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, matrixErrorf(opPseudoInverse, ErrSVDFailed)
	}
	sigma := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	res, err := NewDense(m.c, m.r)
	if err != nil {
		return nil, matrixErrorf(opPseudoInverse, err)
	}
	if len(sigma) == 0 || sigma[0] == 0 {
		return res, nil // A = 0 ⇒ A⁺ = 0
	}
	cutoff := rcond * sigma[0]
	var i, j, k int
	var sum float64
	for i = 0; i < m.c; i++ {
		for j = 0; j < m.r; j++ {
			sum = ZeroSum
			for k = 0; k < len(sigma); k++ {
				if sigma[k] <= cutoff {
					continue
				}
				sum += v.At(i, k) * u.At(j, k) / sigma[k]
			}
			res.data[i*m.r+j] = sum
		}
	}

	return res, nil
}
