// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suksuki/bazi-sub001/engine"
	"github.com/suksuki/bazi-sub001/match"
	"github.com/suksuki/bazi-sub001/registry"
)

type evaluateFlags struct {
	pillars []string
	ref     string
	pattern string
	aux     []string
	raw     bool
}

// rankOutput is printed when no --pattern is given.
type rankOutput struct {
	Recognitions []match.Recognition `json:"recognitions"`
	Issues       []engine.Issue      `json:"issues,omitempty"`
}

func newEvaluateCmd(a *app) *cobra.Command {
	var f evaluateFlags
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a chart against one or all patterns",
		Long: `Evaluate builds the chart graph, propagates energy, projects the
frequency vector through the pattern's transfer matrix and recognizes the
resulting tensor. Without --pattern every registry pattern is ranked.

Input problems are reported as issues in the JSON output, not as errors.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(f.pillars) != 4 {
				return fmt.Errorf("--pillars needs 4 values, got %d", len(f.pillars))
			}
			ctx := cmd.Context()
			store, closeFn, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			e, err := a.newEngine(store, f.raw)
			if err != nil {
				return err
			}
			in := engine.Input{Reference: f.ref, Auxiliary: f.aux}
			copy(in.Pillars[:], f.pillars)

			if f.pattern == "" {
				recs, issues, err := e.Rank(ctx, in)
				if err != nil {
					return err
				}
				return a.printJSON(rankOutput{Recognitions: recs, Issues: issues})
			}
			out, err := e.Evaluate(ctx, in, f.pattern)
			if err != nil {
				return err
			}

			return a.printJSON(out)
		},
	}

	fl := cmd.Flags()
	fl.StringSliceVarP(&f.pillars, "pillars", "p", nil, "year,month,day,hour pillars, e.g. 甲子,丙寅,甲申,乙亥")
	fl.StringVarP(&f.ref, "ref", "r", "", "reference stem")
	fl.StringVar(&f.pattern, "pattern", "", "pattern id; empty ranks every pattern")
	fl.StringSliceVar(&f.aux, "aux", nil, "auxiliary (luck/annual) pillars, at most 2")
	fl.BoolVar(&f.raw, "raw-frequency", false, "use the static frequency vector instead of the propagated one")
	_ = cmd.MarkFlagRequired("pillars")

	return cmd
}

// newEngine wires the configured matcher and pipeline options over store.
func (a *app) newEngine(store registry.Reader, raw bool) (*engine.Engine, error) {
	m, err := match.New(store, a.logger, a.cfg.MatchOptions()...)
	if err != nil {
		return nil, err
	}
	opts := []engine.Option{
		engine.WithFluxOptions(a.cfg.FluxOptions()...),
		engine.WithGraphOptions(a.cfg.GraphOptions()...),
		engine.WithPropagateOptions(a.cfg.PropagateOptions()...),
		engine.WithTensorOptions(a.cfg.TensorOptions()...),
	}
	if !a.cfg.Projector.Saturate {
		opts = append(opts, engine.WithoutSaturation())
	}
	if raw {
		opts = append(opts, engine.WithRawFrequency())
	}

	return engine.New(store, m, a.logger, opts...)
}
