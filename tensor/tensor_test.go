// SPDX-License-Identifier: MIT

package tensor_test

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/suksuki/bazi-sub001/matrix"
	"github.com/suksuki/bazi-sub001/tensor"
)

func randTensor(rng *rand.Rand) tensor.Tensor {
	var t tensor.Tensor
	for i := range t {
		t[i] = rng.Float64()*4 - 2
	}

	return t
}

func TestNormalize_L1Property(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		v := randTensor(rng)
		if i%20 == 0 {
			v = tensor.Tensor{}
		}
		n := tensor.Normalize(v)
		s := tensor.L1(n)
		if v.IsZero() {
			assert.Equal(t, 0.0, s)
			continue
		}
		assert.InDelta(t, 1.0, s, 1e-6)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		once := tensor.Normalize(randTensor(rng))
		assert.Equal(t, once, tensor.Normalize(once), "exact, not approximate")
	}
}

func TestUnitIdentities_GaussianInputs(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		var v tensor.Tensor
		for k := range v {
			v[k] = rng.NormFloat64()
		}
		require.Equal(t, 1.0, tensor.CosineSimilarity(v, v), "%v", v)
		n := tensor.Normalize(v)
		require.Equal(t, n, tensor.Normalize(n), "%v", v)
	}
}

func TestCosineSimilarity(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		a, b := randTensor(rng), randTensor(rng)
		assert.Equal(t, 1.0, tensor.CosineSimilarity(a, a))
		ab, ba := tensor.CosineSimilarity(a, b), tensor.CosineSimilarity(b, a)
		assert.Equal(t, ab, ba)
		assert.GreaterOrEqual(t, ab, 0.0)
		assert.LessOrEqual(t, ab, 1.0)
	}
	// Opposite directions clip to 0.
	a := tensor.Tensor{1, 0, 0, 0, 0}
	assert.Equal(t, 0.0, tensor.CosineSimilarity(a, tensor.Tensor{-1, 0, 0, 0, 0}))
}

func TestCosineSimilarity_ZeroTensor(t *testing.T) {
	t.Parallel()

	zero := tensor.Tensor{}
	assert.Equal(t, 1.0, tensor.CosineSimilarity(zero, tensor.Tensor{}))
	assert.Equal(t, 0.0, tensor.CosineSimilarity(zero, tensor.Tensor{0, 0.2, 0, 0, 0}))
	assert.Equal(t, 0.0, tensor.CosineSimilarity(tensor.Tensor{1, 1, 1, 1, 1}, zero))
}

func TestMagnitude(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 5.0, tensor.Magnitude(tensor.Tensor{3, 4, 0, 0, 0}), 1e-12)
	assert.Equal(t, 0.0, tensor.Magnitude(tensor.Tensor{}))
}

func TestSaturate(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.01, tensor.Saturate(0.01, 3), 1e-6)
	assert.Less(t, tensor.Saturate(100, 3), 3.0)
	assert.Greater(t, tensor.Saturate(-100, 3), -3.0)
	assert.Equal(t, 7.0, tensor.Saturate(7, 0))
	assert.InDelta(t, 3*math.Tanh(1), tensor.Saturate(3, 3), 1e-12)
}

func TestProject(t *testing.T) {
	t.Parallel()

	tm := tensor.NewTransferMatrix()
	tm.Set(tensor.AxisE, tensor.Parallel, 1)
	tm.Set(tensor.AxisE, tensor.Resource, 0.5)
	tm.Set(tensor.AxisS, tensor.Clash, -1)
	fv := tensor.FrequencyVector{tensor.Parallel: 2, tensor.Resource: 4, tensor.Clash: -1}

	got := tensor.Project(fv, tm, false)
	assert.Equal(t, tensor.Tensor{4, 0, 0, 1, 0}, got)

	sat := tensor.Project(fv, tm, true)
	assert.InDelta(t, tensor.Saturate(2, 3)+0.5*tensor.Saturate(4, 3), sat[tensor.AxisE], 1e-12)

	k1 := tensor.Project(fv, tm, true, tensor.WithSaturationK(1))
	assert.InDelta(t, math.Tanh(2)+0.5*math.Tanh(4), k1[tensor.AxisE], 1e-12)
}

func TestProject_MissingAxisRow(t *testing.T) {
	t.Parallel()

	tm := tensor.TransferMatrix{
		tensor.AxisE: {tensor.Parallel: 1},
		tensor.AxisO: {tensor.Output: 1},
		tensor.AxisM: {tensor.Wealth: 1},
		tensor.AxisS: {tensor.Power: 1},
	}
	fv := tensor.FrequencyVector{tensor.Parallel: 1, tensor.Output: 1, tensor.Wealth: 1, tensor.Power: 1, tensor.Resource: 9}

	var got tensor.Tensor
	require.NotPanics(t, func() { got = tensor.Project(fv, tm, true) })
	assert.Equal(t, 0.0, got[tensor.AxisR])
	assert.Greater(t, got[tensor.AxisE], 0.0)
	assert.Equal(t, []tensor.Axis{tensor.AxisR}, tm.MissingAxes())
}

func TestWithSaturationK_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { tensor.WithSaturationK(0) })
}

func TestTransferMatrix_DenseRoundTrip(t *testing.T) {
	t.Parallel()

	tm := tensor.TransferMatrix{tensor.AxisM: {tensor.Wealth: 1.5, tensor.Combination: -0.25}}
	d, err := tm.Dense()
	require.NoError(t, err)
	v, err := d.At(int(tensor.AxisM), int(tensor.Wealth))
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	back, err := tensor.TransferMatrixFromDense(d)
	require.NoError(t, err)
	assert.Equal(t, -0.25, back.Get(tensor.AxisM, tensor.Combination))
	assert.Empty(t, back.MissingAxes())

	bad, err := matrix.NewDense(3, 3)
	require.NoError(t, err)
	_, err = tensor.TransferMatrixFromDense(bad)
	require.ErrorIs(t, err, tensor.ErrShape)
}

func TestTransferMatrix_TextKeys(t *testing.T) {
	t.Parallel()

	tm := tensor.TransferMatrix{tensor.AxisE: {tensor.Parallel: 0.5}}
	js, err := json.Marshal(tm)
	require.NoError(t, err)
	assert.JSONEq(t, `{"E":{"parallel":0.5}}`, string(js))

	var fromYAML tensor.TransferMatrix
	require.NoError(t, yaml.Unmarshal([]byte("R:\n  clash: -0.75\n"), &fromYAML))
	assert.Equal(t, -0.75, fromYAML.Get(tensor.AxisR, tensor.Clash))

	var bad tensor.TransferMatrix
	require.Error(t, yaml.Unmarshal([]byte("Q:\n  clash: 1\n"), &bad))
}

func TestParseAxisCategory(t *testing.T) {
	t.Parallel()

	a, err := tensor.ParseAxis("s")
	require.NoError(t, err)
	assert.Equal(t, tensor.AxisS, a)
	_, err = tensor.ParseAxis("X")
	require.ErrorIs(t, err, tensor.ErrUnknownAxis)

	c, err := tensor.ParseCategory("Combination")
	require.NoError(t, err)
	assert.Equal(t, tensor.Combination, c)
	_, err = tensor.ParseCategory("luck")
	require.ErrorIs(t, err, tensor.ErrUnknownCategory)
}
