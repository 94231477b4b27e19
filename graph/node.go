// SPDX-License-Identifier: MIT

package graph

import (
	"github.com/suksuki/bazi-sub001/flux"
	"github.com/suksuki/bazi-sub001/symbol"
)

// MaxNodes bounds the node set: four pillars plus two auxiliary pillars.
const MaxNodes = 2 * (4 + symbol.MaxAuxiliary)

// Node is one symbol at one slot of the chart.
type Node struct {
	Slot   symbol.Slot   `json:"slot"`
	Symbol string        `json:"symbol"`
	Stem   symbol.Stem   `json:"-"` // valid for stem slots
	Branch symbol.Branch `json:"-"` // valid for branch slots

	Element  symbol.Element  `json:"element"`  // current element, after transformation
	Original symbol.Element  `json:"original"` // element before transformation
	Polarity symbol.Polarity `json:"polarity"`
	Role     symbol.Role     `json:"role"`

	Energy      float64 `json:"energy"`
	Transformed bool    `json:"transformed"`
}

// IsBranch reports whether the node sits on a branch slot.
func (n Node) IsBranch() bool { return n.Slot.Kind == symbol.BranchSlot }

// BuildNodes creates one node per slot of c with initial energy = raw slot flux.
// When two branches combine into the month element, both are transformed:
// Element becomes the combined element and Role is re-derived against ref.
//
// Complexity: O(N^2) for the combination scan.
func BuildNodes(c symbol.Chart, ref symbol.Stem, opts ...flux.Option) []Node {
	pillars := c.All()
	nodes := make([]Node, 0, 2*len(pillars))
	for i, p := range pillars {
		stemSlot := symbol.Slot{Pillar: i, Kind: symbol.StemSlot}
		nodes = append(nodes, Node{
			Slot:     stemSlot,
			Symbol:   p.Stem.String(),
			Stem:     p.Stem,
			Element:  p.Stem.Element(),
			Original: p.Stem.Element(),
			Polarity: p.Stem.Polarity(),
			Role:     symbol.StemRole(ref, p.Stem),
			Energy:   flux.SlotFlux(c, ref, stemSlot, opts...),
		})
		branchSlot := symbol.Slot{Pillar: i, Kind: symbol.BranchSlot}
		nodes = append(nodes, Node{
			Slot:     branchSlot,
			Symbol:   p.Branch.String(),
			Branch:   p.Branch,
			Element:  p.Branch.Element(),
			Original: p.Branch.Element(),
			Polarity: p.Branch.Polarity(),
			Role:     symbol.BranchRole(ref, p.Branch),
			Energy:   flux.SlotFlux(c, ref, branchSlot, opts...),
		})
	}

	month := c.MonthElement()
	for i := range nodes {
		if !nodes[i].IsBranch() {
			continue
		}
		for j := i + 1; j < len(nodes); j++ {
			if !nodes[j].IsBranch() {
				continue
			}
			e, ok := symbol.Combination(nodes[i].Branch, nodes[j].Branch)
			if !ok || e != month {
				continue
			}
			transform(&nodes[i], e, ref)
			transform(&nodes[j], e, ref)
		}
	}

	return nodes
}

func transform(n *Node, e symbol.Element, ref symbol.Stem) {
	n.Element = e
	n.Transformed = n.Original != e
	n.Role = symbol.RoleOf(ref, e, n.Polarity)
}

// Energies returns the node energies in node order.
func Energies(nodes []Node) []float64 {
	out := make([]float64, len(nodes))
	for i, n := range nodes {
		out[i] = n.Energy
	}

	return out
}
