// SPDX-License-Identifier: MIT

// Package match scores a projected tensor against a pattern manifold.
//
// For a tensor t and a pattern p:
//
//	x     = Normalize(t)
//	sim   = CosineSimilarity(x, p.Manifold.Centroid)
//	d     = Mahalanobis(x, centroid, Σ)            (Σ⁻¹ → Σ⁺ → Euclidean)
//	score = (w_sim·sim + w_dist·exp(−d²/2σ²)) · tanh(|t|/k)   clipped to [0,1]
//
// Classification: Matched when score > match and d ≤ max distance; Broken
// when score < broken; Marginal otherwise.
//
// Sub-variants are tried first, in ascending priority. The first one whose
// trigger holds and whose own manifold classifies Matched wins, and its id
// replaces the pattern id as the recognized category.
//
// Failed covariance inversion is a soft condition: the distance falls back
// to Euclidean, a warning is logged and ErrNumericInstability never escapes
// Recognize.
package match
