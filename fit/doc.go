// SPDX-License-Identifier: MIT

// Package fit learns a pattern's transfer matrix from labelled samples.
//
// Given X (N×7 category energies) and Y (N×5 target tensors), the fitter
// minimizes
//
//	L(W) = (1/N)·‖sat(X)·Wᵀ − Y‖²_F + ρ·‖W‖²_F
//
// by projected gradient descent:
//
//	grad = (2/N)·(Ŷ − Y)ᵀ·sat(X) + 2ρ·W
//	W   ← clip(W − η·grad, axiom bounds)
//
// starting from the pattern's current matrix (zero for a new pattern).
// The epoch budget is fixed; the loss history is reported, not tested for
// convergence. After training, the fitted outputs are L1-normalized and
// their column means and ridge covariance (cov + εI) become the pattern
// manifold. The result is written through registry.Writer.SaveFit.
//
// A single fit is sequential and deterministic: identical inputs produce
// identical matrices. RunBatch fits independent patterns in parallel.
package fit
