// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suksuki/bazi-sub001/matrix"
)

func TestColumnMeansAndCenter(t *testing.T) {
	t.Parallel()

	X := mustRows(t, [][]float64{{1, 2, 3}, {10, 20, 30}})
	means, err := matrix.ColumnMeans(X)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{5.5, 11, 16.5}, means, 1e-12)

	Xc, _, err := matrix.CenterColumns(X)
	require.NoError(t, err)
	cm, err := matrix.ColumnMeans(Xc)
	require.NoError(t, err)
	for _, v := range cm {
		assert.InDelta(t, 0, v, 1e-12)
	}
}

func TestCovariance(t *testing.T) {
	t.Parallel()

	X := mustRows(t, [][]float64{{1, 2}, {2, 4}, {3, 6}})
	cov, means, err := matrix.Covariance(X)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2, 4}, means, 1e-12)
	requireClose(t, mustRows(t, [][]float64{{1, 2}, {2, 4}}), cov, 1e-12)
	require.NoError(t, matrix.ValidateSymmetric(cov, 0))

	_, _, err = matrix.Covariance(mustRows(t, [][]float64{{1, 2}}))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestRidgeCovariance_Invertible(t *testing.T) {
	t.Parallel()

	// Perfectly collinear samples: plain covariance is singular.
	X := mustRows(t, [][]float64{{1, 2}, {2, 4}, {3, 6}})
	cov, _, err := matrix.Covariance(X)
	require.NoError(t, err)
	_, err = matrix.Inverse(cov)
	require.ErrorIs(t, err, matrix.ErrSingular)

	ridge, _, err := matrix.RidgeCovariance(X, 1e-4)
	require.NoError(t, err)
	assert.InDelta(t, 1+1e-4, mustAt(t, ridge, 0, 0), 1e-12)
	_, err = matrix.Inverse(ridge)
	require.NoError(t, err)
}

func TestNormalizeRowsL1(t *testing.T) {
	t.Parallel()

	X := mustRows(t, [][]float64{{1, -3}, {0, 0}, {2, 2}})
	Y, norms, err := matrix.NormalizeRowsL1(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 0, 4}, norms)
	assert.Equal(t, [][]float64{{0.25, -0.75}, {0, 0}, {0.5, 0.5}}, Y.ToRows())

	for i := 0; i < 3; i++ {
		row, err := Y.Row(i)
		require.NoError(t, err)
		var s float64
		for _, v := range row {
			s += math.Abs(v)
		}
		if norms[i] != 0 {
			assert.InDelta(t, 1, s, 1e-12)
		}
	}
}
