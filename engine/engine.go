// SPDX-License-Identifier: MIT

package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/suksuki/bazi-sub001/flux"
	"github.com/suksuki/bazi-sub001/graph"
	"github.com/suksuki/bazi-sub001/match"
	"github.com/suksuki/bazi-sub001/pattern"
	"github.com/suksuki/bazi-sub001/propagate"
	"github.com/suksuki/bazi-sub001/registry"
	"github.com/suksuki/bazi-sub001/symbol"
	"github.com/suksuki/bazi-sub001/tensor"
)

// Input is one chart: four pillars, the reference stem and optional auxiliary pillars.
type Input struct {
	Pillars   [4]string `json:"pillars"`
	Reference string    `json:"reference"`
	Auxiliary []string  `json:"auxiliary,omitempty"`
}

// Issue is a recorded, non-fatal condition.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	err     error
}

// Unwrap exposes the sentinel so errors.Is works on issues.
func (i Issue) Unwrap() error { return i.err }

func (i Issue) Error() string { return i.Message }

// Issue codes.
const (
	CodeMissingData        = "missing_data"
	CodeConfiguration      = "configuration"
	CodeIterationCapped    = "iteration_capped"
	CodeNumericInstability = "numeric_instability"
)

// Output is the result of one evaluation.
type Output struct {
	PatternID   string                 `json:"pattern_id"`
	Tensor      tensor.Tensor          `json:"tensor"` // L1-normalized
	Raw         tensor.Tensor          `json:"raw"`
	Magnitude   float64                `json:"magnitude"`
	Recognition match.Recognition      `json:"recognition"`
	Frequency   tensor.FrequencyVector `json:"frequency,omitempty"`
	Propagation *propagate.Result      `json:"propagation,omitempty"`
	Nodes       []graph.Node           `json:"nodes,omitempty"` // post-propagation energies
	Issues      []Issue                `json:"issues,omitempty"`
}

// HasIssue reports whether an issue wrapping target was recorded.
func (o Output) HasIssue(target error) bool {
	for _, i := range o.Issues {
		if errors.Is(i, target) {
			return true
		}
	}

	return false
}

// Engine evaluates charts against registry patterns. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	reader  registry.Reader
	matcher *match.Matcher
	logger  *slog.Logger
	opts    Options
}

// New returns an Engine. A nil matcher is built over r with default options;
// a nil logger selects slog.Default().
func New(r registry.Reader, m *match.Matcher, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if r == nil {
		return nil, match.ErrNilReader
	}
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		var err error
		if m, err = match.New(r, logger); err != nil {
			return nil, err
		}
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Engine{reader: r, matcher: m, logger: logger, opts: o}, nil
}

// prepared is the pattern-independent part of an evaluation.
type prepared struct {
	freq   tensor.FrequencyVector
	prop   *propagate.Result
	nodes  []graph.Node
	issues []Issue
}

// Evaluate runs the pipeline for in against patternID.
func (e *Engine) Evaluate(ctx context.Context, in Input, patternID string) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}
	pre, ok, err := e.prepare(in)
	if err != nil {
		return Output{}, err
	}
	out := Output{PatternID: patternID, Issues: pre.issues}
	if !ok {
		out.Recognition = notMatched(patternID)
		return out, nil
	}
	out.Frequency, out.Propagation, out.Nodes = pre.freq, pre.prop, pre.nodes

	p, found, err := e.reader.GetPattern(ctx, patternID)
	if err != nil {
		return Output{}, fmt.Errorf("engine: load pattern %q: %w", patternID, err)
	}
	if !found {
		e.logger.Warn("pattern not found; tensor left at zero", "pattern", patternID)
		out.Issues = append(out.Issues, issue(CodeConfiguration, ErrConfiguration, "pattern %q not found", patternID))
		out.Recognition = notMatched(patternID)
		return out, nil
	}

	e.score(&out, p)

	return out, nil
}

// Rank evaluates in against every pattern in ids (all registry patterns when
// ids is empty) and returns the recognitions by descending score.
func (e *Engine) Rank(ctx context.Context, in Input, ids ...string) ([]match.Recognition, []Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	pre, ok, err := e.prepare(in)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, pre.issues, nil
	}
	if len(ids) == 0 {
		if ids, err = e.reader.ListPatterns(ctx); err != nil {
			return nil, nil, err
		}
	}

	issues := pre.issues
	out := make([]match.Recognition, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		p, found, err := e.reader.GetPattern(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("engine: load pattern %q: %w", id, err)
		}
		if !found {
			issues = append(issues, issue(CodeConfiguration, ErrConfiguration, "pattern %q not found", id))
			continue
		}
		o := Output{PatternID: id, Frequency: pre.freq}
		e.score(&o, p)
		out = append(out, o.Recognition)
		issues = append(issues, o.Issues...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	return out, issues, nil
}

// prepare parses the input, propagates energy and builds the frequency vector.
// ok is false when the input is unusable; the reason is in the issues.
func (e *Engine) prepare(in Input) (prepared, bool, error) {
	var pre prepared
	ref, err := symbol.ParseStem(strings.TrimSpace(in.Reference))
	if err != nil {
		pre.issues = append(pre.issues, issue(CodeMissingData, ErrMissingData, "reference %q: %v", in.Reference, err))
		e.logger.Warn("unusable reference; returning zero tensor", "reference", in.Reference)
		return pre, false, nil
	}
	c, err := symbol.ParseChart(in.Pillars[:], in.Auxiliary...)
	if err != nil {
		pre.issues = append(pre.issues, issue(CodeMissingData, ErrMissingData, "chart: %v", err))
		e.logger.Warn("unusable chart; returning zero tensor", "pillars", in.Pillars, "error", err)
		return pre, false, nil
	}

	nodes := graph.BuildNodes(c, ref, e.opts.Flux...)
	adj, err := graph.BuildAdjacency(nodes, ref, e.opts.Graph...)
	if err != nil {
		return pre, false, fmt.Errorf("engine: %w", err)
	}
	res, err := propagate.Run(adj, e.opts.Propagate...)
	if err != nil {
		return pre, false, fmt.Errorf("engine: %w", err)
	}
	if res.State == propagate.StateIterationCapped {
		pre.issues = append(pre.issues, Issue{
			Code:    CodeIterationCapped,
			Message: fmt.Sprintf("propagation capped after %d iterations (Δ=%.3g)", res.Iterations, res.Delta),
		})
		e.logger.Debug("propagation hit iteration cap", "iterations", res.Iterations, "delta", res.Delta)
	}

	pre.prop = &res
	pre.nodes = make([]graph.Node, len(adj.Nodes))
	for i, n := range adj.Nodes {
		n.Energy = res.Energies[i]
		pre.nodes[i] = n
	}
	if e.opts.Propagated {
		pre.freq = propagatedVector(c, ref, nodes, res.Energies, e.opts.Flux)
	} else {
		pre.freq = flux.Vector(c, ref, e.opts.Flux...)
	}

	return pre, true, nil
}

// score projects the frequency vector through p and recognizes the tensor.
func (e *Engine) score(out *Output, p pattern.Pattern) {
	if missing := p.Transfer.MissingAxes(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, a := range missing {
			names[i] = a.String()
		}
		out.Issues = append(out.Issues, issue(CodeConfiguration, ErrConfiguration,
			"pattern %q has no transfer row for %s; axes left at zero", p.ID, strings.Join(names, ",")))
		e.logger.Warn("transfer matrix incomplete", "pattern", p.ID, "missing", names)
	}

	raw := tensor.Project(out.Frequency, p.Transfer, e.opts.Saturate, e.opts.Tensor...)
	out.Raw = raw
	out.Tensor = tensor.Normalize(raw)
	out.Magnitude = tensor.Magnitude(raw)
	out.Recognition = e.matcher.Evaluate(raw, p)
	if out.Recognition.Unstable {
		out.Issues = append(out.Issues, issue(CodeNumericInstability, match.ErrNumericInstability,
			"pattern %q: covariance unusable, euclidean distance used", p.ID))
	}
}

// propagatedVector re-weights each slot's category split by its propagation
// gain. Transformed branches feed their transformed role. Interaction keys
// come from the chart itself.
func propagatedVector(c symbol.Chart, ref symbol.Stem, nodes []graph.Node, energies []float64, opts []flux.Option) tensor.FrequencyVector {
	fv := make(tensor.FrequencyVector, tensor.NumCategories)
	for _, cat := range tensor.Categories() {
		fv[cat] = 0
	}
	for i, n := range nodes {
		e := energies[i]
		if n.Transformed {
			fv[flux.CategoryOf(n.Role.Group())] += e
			continue
		}
		if n.Energy == 0 {
			continue
		}
		for cat, v := range flux.SlotVector(c, ref, n.Slot, opts...) {
			fv[cat] += e * v / n.Energy
		}
	}
	for cat, v := range fv {
		fv[cat] = math.Round(v*1e4) / 1e4
	}
	fv[tensor.Clash], fv[tensor.Combination] = flux.Interactions(c, ref, opts...)

	return fv
}

func notMatched(patternID string) match.Recognition {
	return match.Recognition{PatternID: patternID, Category: patternID, Classification: match.Broken}
}

func issue(code string, sentinel error, format string, args ...any) Issue {
	return Issue{Code: code, Message: fmt.Sprintf(format, args...), err: sentinel}
}
