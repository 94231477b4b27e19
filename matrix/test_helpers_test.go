// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers.
//
// Purpose:
//   - Small deterministic fixtures shared by kernel, statistics and bench tests.

package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suksuki/bazi-sub001/matrix"
)

// mustRows builds a *Dense from rows or fails the test.
func mustRows(tb testing.TB, rows [][]float64) *matrix.Dense {
	tb.Helper()
	m, err := matrix.NewDenseFromRows(rows)
	require.NoError(tb, err)

	return m
}

// mustAt reads (i,j) or fails the test.
func mustAt(tb testing.TB, m *matrix.Dense, i, j int) float64 {
	tb.Helper()
	v, err := m.At(i, j)
	require.NoError(tb, err)

	return v
}

// requireClose asserts element-wise closeness within tol.
func requireClose(tb testing.TB, want, got *matrix.Dense, tol float64) {
	tb.Helper()
	ok, err := matrix.AllClose(got, want, 0, tol)
	require.NoError(tb, err)
	require.Truef(tb, ok, "matrices differ:\nwant\n%sgot\n%s", want, got)
}

// randDense fills an r×c matrix with values in [-1,1) from a fixed seed.
func randDense(tb testing.TB, r, c int, seed int64) *matrix.Dense {
	tb.Helper()
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.Float64()*2 - 1
	}
	m, err := matrix.NewDenseFrom(r, c, data)
	require.NoError(tb, err)

	return m
}

// spd returns XᵀX + n·I, a well-conditioned symmetric positive-definite matrix.
func spd(tb testing.TB, n int, seed int64) *matrix.Dense {
	tb.Helper()
	X := randDense(tb, n, n, seed)
	Xt, err := matrix.Transpose(X)
	require.NoError(tb, err)
	P, err := matrix.Mul(Xt, X)
	require.NoError(tb, err)
	I, err := matrix.NewIdentity(n)
	require.NoError(tb, err)
	nI, err := matrix.Scale(I, float64(n))
	require.NoError(tb, err)
	S, err := matrix.Add(P, nI)
	require.NoError(tb, err)

	return S
}
