// SPDX-License-Identifier: MIT

package fit

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/suksuki/bazi-sub001/matrix"
	"github.com/suksuki/bazi-sub001/pattern"
	"github.com/suksuki/bazi-sub001/registry"
	"github.com/suksuki/bazi-sub001/tensor"
)

// Registry is what the fitter needs: read the current pattern, write the fit.
type Registry interface {
	registry.Reader
	registry.Writer
}

// Result reports one completed fit.
type Result struct {
	RunID       string                `json:"run_id"`
	PatternID   string                `json:"pattern_id"`
	Samples     int                   `json:"samples"`
	Epochs      int                   `json:"epochs"`
	Transfer    tensor.TransferMatrix `json:"transfer"`
	Manifold    pattern.Manifold      `json:"manifold"`
	InitialLoss float64               `json:"initial_loss"`
	FinalLoss   float64               `json:"final_loss"`
	MinLoss     float64               `json:"min_loss"`
	LossHistory []float64             `json:"loss_history"`
	// Clipped counts cell clips across all epochs.
	Clipped int `json:"clipped"`
	// CovarianceKept is set when too few samples left the stored covariance in place.
	CovarianceKept bool          `json:"covariance_kept,omitempty"`
	WarmStart      bool          `json:"warm_start"`
	Duration       time.Duration `json:"duration"`
}

// Fitter trains transfer matrices and is the only registry writer.
type Fitter struct {
	reg    Registry
	logger *slog.Logger
	opts   Options
}

// New returns a Fitter over reg. A nil logger selects slog.Default().
func New(reg Registry, logger *slog.Logger, opts ...Option) (*Fitter, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	if logger == nil {
		logger = slog.Default()
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Fitter{reg: reg, logger: logger, opts: o}, nil
}

// Fit trains patternID on X (N×7) and Y (N×5) for epochs (≤0 selects the
// configured default) and saves the result. Shape errors are returned before
// any work; ctx is checked between epochs.
func (f *Fitter) Fit(ctx context.Context, patternID string, X, Y *matrix.Dense, epochs int) (Result, error) {
	start := time.Now()
	if err := checkShapes(X, Y); err != nil {
		return Result{}, fitErrorf(patternID, err)
	}
	if epochs <= 0 {
		epochs = f.opts.Epochs
	}
	runID := uuid.NewString()
	log := f.logger.With("run", runID, "pattern", patternID)

	p, found, err := f.reg.GetPattern(ctx, patternID)
	if err != nil {
		return Result{}, fitErrorf(patternID, err)
	}
	if !found {
		log.Info("pattern not in registry; fitting from zero")
		p = pattern.Pattern{ID: patternID}
	}

	res, err := f.train(ctx, log, p, X, Y, epochs)
	if err != nil {
		return Result{}, fitErrorf(patternID, err)
	}
	res.RunID = runID
	res.PatternID = patternID
	res.WarmStart = found

	if err := f.reg.SaveFit(ctx, patternID, res.Transfer, res.Manifold); err != nil {
		return Result{}, fitErrorf(patternID, err)
	}
	res.Duration = time.Since(start)
	log.Info("fit saved", "epochs", res.Epochs, "samples", res.Samples,
		"initial_loss", res.InitialLoss, "final_loss", res.FinalLoss, "clipped", res.Clipped)

	return res, nil
}

func checkShapes(X, Y *matrix.Dense) error {
	if X == nil || Y == nil {
		return fmt.Errorf("%w: nil samples", ErrShape)
	}
	if X.Cols() != tensor.NumCategories || Y.Cols() != tensor.NumAxes {
		return fmt.Errorf("%w: X is N×%d (want %d), Y is N×%d (want %d)",
			ErrShape, X.Cols(), tensor.NumCategories, Y.Cols(), tensor.NumAxes)
	}
	if X.Rows() == 0 {
		return ErrNoSamples
	}
	if X.Rows() != Y.Rows() {
		return fmt.Errorf("%w: X has %d rows, Y has %d", ErrShape, X.Rows(), Y.Rows())
	}

	return nil
}

// train runs the descent and derives the manifold. It does not touch the registry.
func (f *Fitter) train(ctx context.Context, log *slog.Logger, p pattern.Pattern, X, Y *matrix.Dense, epochs int) (Result, error) {
	n := X.Rows()
	S := X.Clone()
	if f.opts.Saturate {
		k := f.opts.SaturationK
		if err := S.Apply(func(_, _ int, v float64) float64 { return tensor.Saturate(v, k) }); err != nil {
			return Result{}, err
		}
	}

	W, err := p.Transfer.Dense()
	if err != nil {
		return Result{}, err
	}
	lo, hi, err := boundMatrices(p)
	if err != nil {
		return Result{}, err
	}
	clipped, err := matrix.ClipBounds(W, lo, hi)
	if err != nil {
		return Result{}, err
	}

	history := make([]float64, 0, epochs+1)
	eta, rho := f.opts.LearningRate, f.opts.Ridge
	for epoch := 0; epoch < epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		R, err := residual(S, W, Y)
		if err != nil {
			return Result{}, err
		}
		loss := objective(R, W, n, rho)
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return Result{}, fmt.Errorf("%w at epoch %d", ErrDiverged, epoch)
		}
		history = append(history, loss)
		if f.opts.LogEvery > 0 && epoch%f.opts.LogEvery == 0 {
			log.Debug("fit progress", "epoch", epoch, "loss", loss)
		}

		// grad = (2/N)·Rᵀ·S + 2ρ·W
		Rt, err := matrix.Transpose(R)
		if err != nil {
			return Result{}, err
		}
		G, err := matrix.Mul(Rt, S)
		if err != nil {
			return Result{}, err
		}
		if G, err = matrix.Scale(G, 2/float64(n)); err != nil {
			return Result{}, err
		}
		reg, err := matrix.Scale(W, 2*rho)
		if err != nil {
			return Result{}, err
		}
		if G, err = matrix.Add(G, reg); err != nil {
			return Result{}, err
		}
		step, err := matrix.Scale(G, eta)
		if err != nil {
			return Result{}, err
		}
		if W, err = matrix.Sub(W, step); err != nil {
			return Result{}, err
		}
		moved, err := matrix.ClipBounds(W, lo, hi)
		if err != nil {
			return Result{}, err
		}
		clipped += moved
	}

	R, err := residual(S, W, Y)
	if err != nil {
		return Result{}, err
	}
	final := objective(R, W, n, rho)
	history = append(history, final)

	manifold, kept, err := f.manifold(log, p, S, W)
	if err != nil {
		return Result{}, err
	}
	tm, err := tensor.TransferMatrixFromDense(W)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Samples:        n,
		Epochs:         epochs,
		Transfer:       tm,
		Manifold:       manifold,
		InitialLoss:    history[0],
		FinalLoss:      final,
		MinLoss:        floats.Min(history),
		LossHistory:    history,
		Clipped:        clipped,
		CovarianceKept: kept,
	}, nil
}

// residual returns S·Wᵀ − Y.
func residual(S, W, Y *matrix.Dense) (*matrix.Dense, error) {
	Wt, err := matrix.Transpose(W)
	if err != nil {
		return nil, err
	}
	Yhat, err := matrix.Mul(S, Wt)
	if err != nil {
		return nil, err
	}

	return matrix.Sub(Yhat, Y)
}

func objective(R, W *matrix.Dense, n int, rho float64) float64 {
	return matrix.FrobeniusSquared(R)/float64(n) + rho*matrix.FrobeniusSquared(W)
}

// boundMatrices expands the pattern's axiom bounds into 5×7 lo/hi matrices.
func boundMatrices(p pattern.Pattern) (lo, hi *matrix.Dense, err error) {
	if lo, err = matrix.NewDense(tensor.NumAxes, tensor.NumCategories); err != nil {
		return nil, nil, err
	}
	if hi, err = matrix.NewDense(tensor.NumAxes, tensor.NumCategories); err != nil {
		return nil, nil, err
	}
	for _, a := range tensor.Axes() {
		for _, c := range tensor.Categories() {
			b := p.Bound(pattern.Cell{Axis: a, Category: c})
			if err = lo.Set(int(a), int(c), b.Min); err != nil {
				return nil, nil, err
			}
			if err = hi.Set(int(a), int(c), b.Max); err != nil {
				return nil, nil, err
			}
		}
	}

	return lo, hi, nil
}

// manifold derives centroid and ridge covariance from the L1-normalized fitted outputs.
// With fewer than two samples the stored covariance is kept.
func (f *Fitter) manifold(log *slog.Logger, p pattern.Pattern, S, W *matrix.Dense) (pattern.Manifold, bool, error) {
	Wt, err := matrix.Transpose(W)
	if err != nil {
		return pattern.Manifold{}, false, err
	}
	Yhat, err := matrix.Mul(S, Wt)
	if err != nil {
		return pattern.Manifold{}, false, err
	}
	Yn, _, err := matrix.NormalizeRowsL1(Yhat)
	if err != nil {
		return pattern.Manifold{}, false, err
	}

	var m pattern.Manifold
	cols, err := matrix.Transpose(Yn)
	if err != nil {
		return pattern.Manifold{}, false, err
	}
	for _, a := range tensor.Axes() {
		col, err := cols.Row(int(a))
		if err != nil {
			return pattern.Manifold{}, false, err
		}
		m.Centroid[a] = stat.Mean(col, nil)
	}

	if Yn.Rows() < 2 {
		log.Warn("too few samples for a covariance; keeping the stored one", "samples", Yn.Rows())
		m.Covariance = p.Manifold.Clone().Covariance
		return m, true, nil
	}
	cov, _, err := matrix.RidgeCovariance(Yn, f.opts.CovarianceEpsilon)
	if err != nil {
		return pattern.Manifold{}, false, err
	}
	m.Covariance = cov.ToRows()

	return m, false, nil
}
