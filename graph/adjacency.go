// SPDX-License-Identifier: MIT

package graph

import (
	"github.com/suksuki/bazi-sub001/matrix"
	"github.com/suksuki/bazi-sub001/symbol"
)

const opBuildAdjacency = "BuildAdjacency"

// Adjacency is the signed weight matrix over a node set.
// Weights[j][i] is the contribution from source j to target i.
type Adjacency struct {
	Nodes     []Node
	Weights   *matrix.Dense
	SelfScale []float64
}

// Weight returns Weights[j][i], zero when out of range.
func (a Adjacency) Weight(j, i int) float64 {
	v, err := a.Weights.At(j, i)
	if err != nil {
		return 0
	}

	return v
}

// BuildAdjacency derives the N×N adjacency of nodes against ref.
// The returned Nodes are a copy with roles re-derived against ref from
// each node's current element and polarity.
//
// Errors:
//   - ErrNoNodes for an empty set, ErrTooManyNodes above MaxNodes.
//
// Determinism:
//   - Fixed j→i loops, no maps; identical node sets yield identical matrices.
//
// Complexity:
//   - Time O(N^2), Space O(N^2).
func BuildAdjacency(nodes []Node, ref symbol.Stem, opts ...Option) (Adjacency, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	n := len(nodes)
	if n == 0 {
		return Adjacency{}, graphErrorf(opBuildAdjacency, ErrNoNodes)
	}
	if n > MaxNodes {
		return Adjacency{}, graphErrorf(opBuildAdjacency, ErrTooManyNodes)
	}

	cp := make([]Node, n)
	copy(cp, nodes)
	for i := range cp {
		cp[i].Role = symbol.RoleOf(ref, cp[i].Element, cp[i].Polarity)
	}

	W, err := matrix.NewDense(n, n)
	if err != nil {
		return Adjacency{}, graphErrorf(opBuildAdjacency, err)
	}

	// suitors[i] counts the branch nodes that combine with branch node i.
	suitors := make([]int, n)
	clashed := make([]bool, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || !cp[i].IsBranch() || !cp[j].IsBranch() {
				continue
			}
			if _, ok := symbol.Combination(cp[j].Branch, cp[i].Branch); ok {
				suitors[i]++
			}
			if symbol.Clashes(cp[j].Branch, cp[i].Branch) {
				clashed[i] = true
			}
		}
	}

	var w float64
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			if i == j {
				continue
			}
			w = elementWeight(cp[j].Element, cp[i].Element, o)
			if cp[i].IsBranch() && cp[j].IsBranch() {
				if symbol.Clashes(cp[j].Branch, cp[i].Branch) {
					w += o.ClashWeight * o.ClashDamping
				}
				if _, ok := symbol.Combination(cp[j].Branch, cp[i].Branch); ok {
					w += o.CombinationWeight * o.CombinationBonus / jealousy(suitors[i], o.JealousyFactor)
				}
			}
			if err = W.Set(j, i, w); err != nil {
				return Adjacency{}, graphErrorf(opBuildAdjacency, err)
			}
		}
	}

	self := make([]float64, n)
	for i := range cp {
		self[i] = 1
		if cp[i].IsBranch() && symbol.IsVault(cp[i].Branch) {
			if clashed[i] {
				self[i] = o.VaultOpen
			} else {
				self[i] = o.VaultSealed
			}
		}
	}

	return Adjacency{Nodes: cp, Weights: W, SelfScale: self}, nil
}

// elementWeight is the generation/control contribution of a source element on a target.
func elementWeight(src, dst symbol.Element, o Options) float64 {
	switch {
	case src.Generates(dst):
		return o.GenerationWeight
	case src.Controls(dst):
		return -o.ControlWeight
	default:
		return 0
	}
}

// jealousy is the divisor applied when k ≥ 2 branches court the same partner.
func jealousy(k int, factor float64) float64 {
	if k < 2 {
		return 1
	}

	return 1 + factor*float64(k-1)
}
