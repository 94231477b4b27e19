// SPDX-License-Identifier: MIT

// Package matrix provides the small dense linear-algebra kernels used by the
// energy pipeline: adjacency propagation, transfer-matrix fitting and
// manifold statistics.
//
// The package provides:
//
//   - Dense: row-major float64 storage with safe accessors (At/Set never panic).
//   - Kernels: Add, Sub, Mul, Transpose, Scale, MatVec, Clip, ClipBounds.
//   - Inversion: Inverse (Doolittle LU, no pivoting, deterministic) and
//     PseudoInverse (Moore–Penrose via gonum SVD) for singular inputs.
//   - Statistics: ColumnMeans, CenterColumns, Covariance, RidgeCovariance,
//     NormalizeRowsL1.
//
// Matrices in this domain are tiny (N ≤ 12 nodes, 5 axes, 7 categories), so
// every kernel allocates a fresh result and keeps fixed i→j→k loop orders.
// Identical inputs produce bit-identical outputs.
//
// Errors are package sentinels (see errors.go) wrapped with an operation tag;
// match them with errors.Is.
package matrix
