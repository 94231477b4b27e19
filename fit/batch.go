// SPDX-License-Identifier: MIT

package fit

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/suksuki/bazi-sub001/matrix"
)

// Job is one pattern's training set.
type Job struct {
	PatternID string
	X, Y      *matrix.Dense
	Epochs    int
}

// RunBatch fits independent jobs with at most Options.Workers in flight.
// Results are in job order. The first failure cancels the jobs not yet
// finished and is returned; already saved fits stay saved.
func (f *Fitter) RunBatch(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.Workers)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := f.Fit(gctx, job.PatternID, job.X, job.Y, job.Epochs)
			if err != nil {
				return err
			}
			results[i] = res

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
