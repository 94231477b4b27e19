// SPDX-License-Identifier: MIT

package pattern_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suksuki/bazi-sub001/pattern"
	"github.com/suksuki/bazi-sub001/tensor"
)

func loadFixture(t *testing.T) []pattern.Pattern {
	t.Helper()
	f, err := os.Open(filepath.Join("..", "testdata", "patterns.yaml"))
	require.NoError(t, err)
	defer f.Close()
	ps, err := pattern.DecodeYAML(f)
	require.NoError(t, err)

	return ps
}

func TestDecodeYAML_Fixture(t *testing.T) {
	t.Parallel()

	ps := loadFixture(t)
	require.Len(t, ps, 3)

	p := ps[0]
	assert.Equal(t, "parallel_strength", p.ID)
	assert.Equal(t, pattern.CurrentRecord(), p.VersionedRecord)
	assert.Equal(t, 0.9, p.Transfer.Get(tensor.AxisE, tensor.Parallel))
	assert.True(t, p.Manifold.HasCovariance())
	assert.Equal(t, 0.42, p.Manifold.Centroid[tensor.AxisE])

	b := p.Bound(pattern.Cell{Axis: tensor.AxisE, Category: tensor.Parallel})
	assert.Equal(t, pattern.Bound{Min: 0.2, Max: 1.5}, b)
	assert.Equal(t, pattern.DefaultBound(), p.Bound(pattern.Cell{Axis: tensor.AxisM, Category: tensor.Wealth}))

	require.Len(t, p.SubVariants, 2)
	assert.Equal(t, pattern.TriggerAxisAbove, p.SubVariants[0].Trigger.Kind)
	assert.Equal(t, tensor.AxisS, p.SubVariants[0].Trigger.Axis)

	assert.Equal(t, []tensor.Axis{tensor.AxisR}, ps[2].Transfer.MissingAxes())
	assert.False(t, ps[2].Manifold.HasCovariance())
}

func TestDecodeYAML_RejectsUnknownTrigger(t *testing.T) {
	t.Parallel()

	doc := `
patterns:
  - id: p
    transfer: {E: {parallel: 1}}
    manifold: {centroid: [1, 0, 0, 0, 0]}
    sub_variants:
      - id: p.x
        trigger: {kind: moon_phase}
        manifold: {centroid: [1, 0, 0, 0, 0]}
`
	_, err := pattern.DecodeYAML(bytes.NewBufferString(doc))
	require.ErrorIs(t, err, pattern.ErrUnknownTrigger)
}

func TestDecodeYAML_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"unknown field":  "patterns:\n  - id: p\n    colour: red\n",
		"bad axis":       "patterns:\n  - id: p\n    transfer: {Q: {parallel: 1}}\n",
		"short centroid": "patterns:\n  - id: p\n    manifold: {centroid: [1, 0]}\n",
	}
	for name, doc := range tests {
		_, err := pattern.DecodeYAML(bytes.NewBufferString(doc))
		assert.Error(t, err, name)
	}

	_, err := pattern.DecodeYAML(bytes.NewBufferString("schema_version: 9\npatterns: []\n"))
	require.ErrorIs(t, err, pattern.ErrVersionMismatch)

	dup := "patterns:\n  - id: p\n  - id: p\n"
	_, err = pattern.DecodeYAML(bytes.NewBufferString(dup))
	require.ErrorIs(t, err, pattern.ErrInvalidPattern)

	ps, err := pattern.DecodeYAML(bytes.NewBufferString(""))
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() pattern.Pattern {
		return pattern.Pattern{
			ID:       "p",
			Transfer: tensor.TransferMatrix{tensor.AxisE: {tensor.Parallel: 1}},
			Manifold: pattern.Manifold{Centroid: tensor.Tensor{1}},
		}
	}
	require.NoError(t, base().Validate())

	tests := []struct {
		name   string
		mutate func(*pattern.Pattern)
	}{
		{"empty id", func(p *pattern.Pattern) { p.ID = "" }},
		{"outside generic bound", func(p *pattern.Pattern) { p.Transfer.Set(tensor.AxisO, tensor.Power, 2.5) }},
		{"outside override", func(p *pattern.Pattern) {
			p.Axioms = pattern.AxiomBounds{{Axis: tensor.AxisE, Category: tensor.Parallel}: {Min: 0, Max: 0.5}}
		}},
		{"inverted bound", func(p *pattern.Pattern) {
			p.Axioms = pattern.AxiomBounds{{Axis: tensor.AxisM, Category: tensor.Wealth}: {Min: 1, Max: 0}}
		}},
		{"ragged covariance", func(p *pattern.Pattern) { p.Manifold.Covariance = [][]float64{{1}} }},
		{"weights not summing to one", func(p *pattern.Pattern) { p.Thresholds.SimWeight, p.Thresholds.DistWeight = 0.5, 0.2 }},
		{"broken above match", func(p *pattern.Pattern) { p.Thresholds.Match, p.Thresholds.Broken = 0.4, 0.5 }},
		{"duplicate sub-variant", func(p *pattern.Pattern) {
			p.SubVariants = []pattern.SubVariant{{ID: "a"}, {ID: "a"}}
		}},
	}
	for _, tc := range tests {
		p := base()
		tc.mutate(&p)
		require.ErrorIs(t, p.Validate(), pattern.ErrInvalidPattern, tc.name)
	}

	p := base()
	p.SubVariants = []pattern.SubVariant{{ID: "a", Trigger: pattern.Trigger{Kind: pattern.TriggerKind(42)}}}
	require.ErrorIs(t, p.Validate(), pattern.ErrUnknownTrigger)
}

func TestTriggerHolds(t *testing.T) {
	t.Parallel()

	x := tensor.Tensor{0.1, -0.5, 0.2, 0.1, 0.1}
	assert.True(t, pattern.Trigger{Kind: pattern.TriggerAlways}.Holds(x))
	assert.True(t, pattern.Trigger{Kind: pattern.TriggerAxisAbove, Axis: tensor.AxisM, Value: 0.15}.Holds(x))
	assert.False(t, pattern.Trigger{Kind: pattern.TriggerAxisAbove, Axis: tensor.AxisE, Value: 0.15}.Holds(x))
	assert.True(t, pattern.Trigger{Kind: pattern.TriggerAxisBelow, Axis: tensor.AxisO, Value: 0}.Holds(x))
	assert.True(t, pattern.Trigger{Kind: pattern.TriggerDominantAxis, Axis: tensor.AxisO}.Holds(x))
	assert.False(t, pattern.Trigger{Kind: pattern.TriggerKind(42)}.Holds(x))
}

func TestSortedSubVariants(t *testing.T) {
	t.Parallel()

	p := pattern.Pattern{SubVariants: []pattern.SubVariant{
		{ID: "c", Priority: 3}, {ID: "a", Priority: 1}, {ID: "b", Priority: 1},
	}}
	got := p.SortedSubVariants()
	ids := []string{got[0].ID, got[1].ID, got[2].ID}
	assert.Equal(t, []string{"a", "b", "c"}, ids)
	assert.Equal(t, "c", p.SubVariants[0].ID, "original order untouched")
}

func TestThresholdsWithDefaults(t *testing.T) {
	t.Parallel()

	th := pattern.Thresholds{Match: 0.8}.WithDefaults(pattern.DefaultThresholds())
	assert.Equal(t, 0.8, th.Match)
	assert.Equal(t, pattern.DefaultBroken, th.Broken)
	assert.Equal(t, pattern.DefaultSimWeight, th.SimWeight)
	assert.Equal(t, pattern.DefaultDistWeight, th.DistWeight)
}

func TestJSONCodec(t *testing.T) {
	t.Parallel()

	p := loadFixture(t)[0]
	data, err := pattern.EncodeJSON(p)
	require.NoError(t, err)

	back, err := pattern.DecodeJSON(data)
	require.NoError(t, err)
	assert.Equal(t, p.Transfer, back.Transfer)
	assert.Equal(t, p.Axioms, back.Axioms)
	assert.Equal(t, p.Manifold, back.Manifold)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	raw["codec_version"] = 7
	stale, err := json.Marshal(raw)
	require.NoError(t, err)
	_, err = pattern.DecodeJSON(stale)
	require.ErrorIs(t, err, pattern.ErrVersionMismatch)
}

func TestYAMLRoundTrip(t *testing.T) {
	t.Parallel()

	ps := loadFixture(t)
	var buf bytes.Buffer
	require.NoError(t, pattern.EncodeYAML(&buf, ps))
	back, err := pattern.DecodeYAML(&buf)
	require.NoError(t, err)
	require.Len(t, back, len(ps))
	assert.Equal(t, ps[0].SubVariants, back[0].SubVariants)
	assert.Equal(t, ps[1].Manifold, back[1].Manifold)
}

func TestClone_Deep(t *testing.T) {
	t.Parallel()

	p := loadFixture(t)[0]
	cp := p.Clone()
	cp.Transfer.Set(tensor.AxisE, tensor.Parallel, -1)
	cp.Manifold.Covariance[0][0] = 99
	cp.SubVariants[0].ID = "changed"

	assert.Equal(t, 0.9, p.Transfer.Get(tensor.AxisE, tensor.Parallel))
	assert.Equal(t, 0.010, p.Manifold.Covariance[0][0])
	assert.Equal(t, "parallel_strength.clash_heavy", p.SubVariants[0].ID)
}
