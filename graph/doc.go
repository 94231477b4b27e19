// SPDX-License-Identifier: MIT

// Package graph builds the node set and the signed adjacency matrix that the
// propagator runs on.
//
// Nodes: one per slot (stem and branch of every pillar, auxiliary included),
// N ≤ 12. A node carries its base element, its role against the reference,
// a mutable energy initialised from flux.SlotFlux, and a Transformed flag set
// when two branches combine into the month element.
//
// Adjacency A[j][i] is the contribution of source j to target i:
//
//	generation  j→i   +GenerationWeight
//	control     j→i   −ControlWeight
//	clash       j,i   ClashWeight × ClashDamping            (branches only)
//	combination j,i   CombinationWeight × CombinationBonus  (branches only)
//	                  ÷ (1 + JealousyFactor·(k−1)) when k ≥ 2 partners court i
//
// The diagonal is zero. Vault branches (辰戌丑未) get a SelfScale of
// VaultSealed, or VaultOpen when any node clashes with them.
//
// BuildAdjacency is a pure function of the node multiset.
package graph
