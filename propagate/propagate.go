// SPDX-License-Identifier: MIT

package propagate

import (
	"fmt"
	"math"

	"github.com/suksuki/bazi-sub001/graph"
	"github.com/suksuki/bazi-sub001/matrix"
)

// State of a propagation run.
type State uint8

const (
	StateInitialized State = iota
	StatePropagating
	StateConverged
	StateIterationCapped
)

var stateNames = [...]string{"initialized", "propagating", "converged", "iteration_capped"}

// String returns the snake_case state name.
func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}

	return fmt.Sprintf("State(%d)", uint8(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Terminal reports whether no further steps are possible.
func (s State) Terminal() bool { return s == StateConverged || s == StateIterationCapped }

// Result summarises a finished run.
type Result struct {
	Energies   []float64 `json:"energies"`
	State      State     `json:"state"`
	Iterations int       `json:"iterations"`
	Delta      float64   `json:"delta"`   // last Δ
	Clipped    int       `json:"clipped"` // energies raised to zero at the end
	Deltas     []float64 `json:"deltas"`  // Δ per iteration
}

// Propagator carries one run. It is not safe for concurrent use.
type Propagator struct {
	opts    Options
	adj     graph.Adjacency // Nodes is a private copy
	wt      *matrix.Dense // Aᵀ, so one MatVec yields Σ_j A[j][i]·e[j]
	energy  []float64
	state   State
	iter    int
	delta   float64
	deltas  []float64
	clipped int
}

// New prepares a run over adj starting from the node energies scaled by SelfScale.
// adj is not modified; final energies are written to the Propagator's own
// copy of the nodes (see Nodes).
//
// Errors:
//   - ErrNoAdjacency when adj.Weights is nil.
//   - ErrLengthMismatch when Nodes, SelfScale and Weights disagree on N.
func New(adj graph.Adjacency, opts ...Option) (*Propagator, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if adj.Weights == nil {
		return nil, ErrNoAdjacency
	}
	n := len(adj.Nodes)
	if r, c := adj.Weights.Shape(); r != n || c != n || len(adj.SelfScale) != n {
		return nil, fmt.Errorf("New(n=%d): %w", n, ErrLengthMismatch)
	}
	wt, err := matrix.Transpose(adj.Weights)
	if err != nil {
		return nil, fmt.Errorf("New: %w", err)
	}
	e := make([]float64, n)
	for i, node := range adj.Nodes {
		e[i] = node.Energy * adj.SelfScale[i]
	}
	adj.Nodes = append([]graph.Node(nil), adj.Nodes...)

	return &Propagator{opts: o, adj: adj, wt: wt, energy: e, state: StateInitialized}, nil
}

// State returns the current state.
func (p *Propagator) State() State { return p.state }

// Energies returns a copy of the current energies.
func (p *Propagator) Energies() []float64 {
	out := make([]float64, len(p.energy))
	copy(out, p.energy)

	return out
}

// Step performs one update and returns true once a terminal state is reached.
// Calling Step after that returns ErrFinished.
func (p *Propagator) Step() (bool, error) {
	if p.state.Terminal() {
		return true, ErrFinished
	}
	p.state = StatePropagating

	flow, err := matrix.MatVec(p.wt, p.energy)
	if err != nil {
		return false, fmt.Errorf("Step: %w", err)
	}
	l := p.opts.Lambda
	var delta, nv float64
	for i, e := range p.energy {
		nv = (1-l)*e + l*flow[i]
		if d := math.Abs(nv - e); d > delta {
			delta = d
		}
		p.energy[i] = nv
	}
	p.iter++
	p.delta = delta
	p.deltas = append(p.deltas, delta)

	switch {
	case delta < p.opts.Epsilon:
		p.state = StateConverged
	case p.iter >= p.opts.MaxIterations:
		p.state = StateIterationCapped
	default:
		return false, nil
	}
	p.finish()

	return true, nil
}

// finish clips negatives and writes energies into the private node copy.
func (p *Propagator) finish() {
	for i, e := range p.energy {
		if e < 0 {
			p.energy[i] = 0
			p.clipped++
		}
		p.adj.Nodes[i].Energy = p.energy[i]
	}
}

// Nodes returns a copy of the nodes carrying the current energies once the
// run is terminal, and the initial energies before that.
func (p *Propagator) Nodes() []graph.Node {
	return append([]graph.Node(nil), p.adj.Nodes...)
}

// Result returns the run summary; meaningful once State is terminal.
func (p *Propagator) Result() Result {
	return Result{
		Energies:   p.Energies(),
		State:      p.state,
		Iterations: p.iter,
		Delta:      p.delta,
		Clipped:    p.clipped,
		Deltas:     append([]float64(nil), p.deltas...),
	}
}

// Run steps a fresh Propagator until it is Converged or IterationCapped.
// It terminates after at most MaxIterations steps.
func Run(adj graph.Adjacency, opts ...Option) (Result, error) {
	p, err := New(adj, opts...)
	if err != nil {
		return Result{}, err
	}
	for {
		done, err := p.Step()
		if err != nil {
			return Result{}, err
		}
		if done {
			return p.Result(), nil
		}
	}
}
