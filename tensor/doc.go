// SPDX-License-Identifier: MIT

// Package tensor defines the 7-category frequency space, the 5-axis tensor
// space and the linear projection between them.
//
//   - Category: Parallel, Output, Wealth, Power, Resource, Clash, Combination.
//   - Axis: E (energy), O (order), M (material), S (stress), R (relation).
//   - FrequencyVector: category → energy; Clash ≤ 0, Combination signed, the rest ≥ 0.
//   - TransferMatrix: axis row → category → weight. A missing row projects to 0.
//   - Tensor: [5]float64; Normalize divides by Σ|t| so the L1 norm is 1.
//
// Project applies the optional saturation sat(x) = k·tanh(x/k) to the input
// before the matrix product. CosineSimilarity and Magnitude use vek kernels.
package tensor
