// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suksuki/bazi-sub001/dataset"
	"github.com/suksuki/bazi-sub001/fit"
	"github.com/suksuki/bazi-sub001/registry"
)

// fitSummary drops the per-epoch loss history from printed results.
type fitSummary struct {
	fit.Result
	LossHistory []float64 `json:"loss_history,omitempty"`
}

func summarize(r fit.Result) fitSummary { return fitSummary{Result: r} }

func (a *app) newFitter(store registry.Store) (*fit.Fitter, error) {
	return fit.New(store, a.logger, a.cfg.FitOptions()...)
}

func newFitCmd(a *app) *cobra.Command {
	var (
		patternID string
		data      string
		epochs    int
		history   bool
	)
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Train one pattern's transfer matrix from a CSV sample file",
		Long: `Fit reads labelled samples (seven category columns and five axis
columns, in any order) and runs gradient descent on the pattern's transfer
matrix, starting from the stored one. The fitted matrix and manifold are
saved back to the registry with a bumped version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := dataset.ReadFile(data)
			if err != nil {
				return err
			}
			store, closeFn, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			f, err := a.newFitter(store)
			if err != nil {
				return err
			}
			res, err := f.Fit(ctx, patternID, s.X, s.Y, epochs)
			if err != nil {
				return err
			}
			if history {
				return a.printJSON(res)
			}

			return a.printJSON(summarize(res))
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&patternID, "pattern", "", "pattern id to train")
	fl.StringVar(&data, "data", "", "CSV sample file")
	fl.IntVar(&epochs, "epochs", 0, "epochs; 0 uses the configured default")
	fl.BoolVar(&history, "history", false, "include the per-epoch loss history")
	_ = cmd.MarkFlagRequired("pattern")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newFitBatchCmd(a *app) *cobra.Command {
	var (
		dir    string
		epochs int
	)
	cmd := &cobra.Command{
		Use:   "fit-batch",
		Short: "Train every pattern that has a CSV file in a directory",
		Long: `fit-batch reads <dir>/<pattern id>.csv for every CSV file and fits the
patterns concurrently, bounded by fit.workers. The first failure stops the
batch; fits already saved stay saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sets, ids, err := dataset.ReadDir(dir)
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				return fmt.Errorf("no *.csv files in %s", dir)
			}
			store, closeFn, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			f, err := a.newFitter(store)
			if err != nil {
				return err
			}
			jobs := make([]fit.Job, len(ids))
			for i, id := range ids {
				jobs[i] = fit.Job{PatternID: id, X: sets[id].X, Y: sets[id].Y, Epochs: epochs}
			}
			results, err := f.RunBatch(ctx, jobs)
			if err != nil {
				return err
			}
			out := make([]fitSummary, len(results))
			for i, r := range results {
				out[i] = summarize(r)
			}

			return a.printJSON(out)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&dir, "data-dir", "", "directory of <pattern id>.csv files")
	fl.IntVar(&epochs, "epochs", 0, "epochs per job; 0 uses the configured default")
	_ = cmd.MarkFlagRequired("data-dir")

	return cmd
}
