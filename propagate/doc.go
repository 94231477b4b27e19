// SPDX-License-Identifier: MIT

// Package propagate redistributes node energy across a signed adjacency.
//
// State machine:
//
//	Initialized ──Step──▶ Propagating ──Δ<ε──▶ Converged
//	                           │
//	                           └──iter = MaxIterations──▶ IterationCapped
//
// One step computes, for every node i,
//
//	new[i] = (1−λ)·e[i] + λ·Σ_j A[j][i]·e[j]
//
// via a single MatVec on Aᵀ, then Δ = max_i |new[i] − e[i]|. Initial energies
// are the node energies scaled by the adjacency SelfScale (vault damping).
// When the run stops, negative energies are clipped to zero and counted.
//
// Hitting the cap is an expected outcome, not an error. No I/O, no randomness:
// identical inputs give bit-identical outputs.
package propagate
