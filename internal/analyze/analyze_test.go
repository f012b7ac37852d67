package analyze_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimic-ml/mimic/internal/analyze"
	"github.com/mimic-ml/mimic/internal/backend/cpu"
	"github.com/mimic-ml/mimic/internal/extract"
	"github.com/mimic-ml/mimic/internal/nn"
	"github.com/mimic-ml/mimic/internal/tensor"
)

func decompose(t *testing.T, m nn.Module, shape tensor.Shape, mode extract.Mode) *extract.Sequence {
	t.Helper()
	seq, err := extract.Decompose(m, shape, mode)
	require.NoError(t, err)
	return seq
}

func TestMeasureConvOps(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential(nn.NewConv2D(3, 16, 3, 3, 1, 1, true, backend))
	seq := decompose(t, model, tensor.Shape{3, 32, 32}, extract.Layerwise)

	result, err := analyze.Measure(seq, analyze.Options{})
	require.NoError(t, err)
	require.Len(t, result.Records, 2)

	// out_h * out_w * out_channels * kernel_h * kernel_w * in_channels
	assert.Equal(t, float64(32*32*16*3*3*3), result.OpCounts[1])
	assert.Equal(t, 16*3*3*3+16, result.Records[1].Params)
	assert.Equal(t, float64(3*32*32*tensor.ElemSize), result.Bandwidths[0])
	assert.Equal(t, float64(16*32*32*tensor.ElemSize), result.Bandwidths[1])
}

func TestMeasureLinearOps(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential(
		nn.NewFlatten(),
		nn.NewLinear(3*8*8, 10, backend),
	)
	seq := decompose(t, model, tensor.Shape{3, 8, 8}, extract.Layerwise)

	result, err := analyze.Measure(seq, analyze.Options{})
	require.NoError(t, err)

	assert.Zero(t, result.OpCounts[1], "flatten costs no operations")
	assert.Equal(t, float64(3*8*8*10), result.OpCounts[2])
	assert.Equal(t, float64(10*tensor.ElemSize), result.Bandwidths[2])
}

func TestMeasureInputBandwidthBaseline(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential(nn.NewReLU(backend))
	seq := decompose(t, model, tensor.Shape{3, 224, 224}, extract.Layerwise)

	result, err := analyze.Measure(seq, analyze.Options{})
	require.NoError(t, err)

	assert.Equal(t, float64(3*224*224*4), result.Bandwidths[0])
	assert.Zero(t, result.OpCounts[0])
	assert.Zero(t, result.AccumOps[0])
	assert.Zero(t, result.Records[0].Params)
}

func TestMeasureAccumulation(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential(
		nn.NewConv2D(1, 4, 3, 3, 1, 1, true, backend),
		nn.NewReLU(backend),
		nn.NewConv2D(4, 8, 3, 3, 1, 1, true, backend),
	)
	seq := decompose(t, model, tensor.Shape{1, 16, 16}, extract.Layerwise)

	result, err := analyze.Measure(seq, analyze.Options{})
	require.NoError(t, err)

	sum := 0.0
	for i, ops := range result.OpCounts {
		sum += ops
		assert.Equal(t, sum, result.AccumOps[i], "prefix sum at position %d", i)
	}
	assert.Equal(t, sum, result.TotalOps())
}

func TestMeasureScaledBandwidth(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential(nn.NewReLU(backend))
	seq := decompose(t, model, tensor.Shape{3, 32, 32}, extract.Layerwise)

	native, err := analyze.Measure(seq, analyze.Options{})
	require.NoError(t, err)
	scaled, err := analyze.Measure(seq, analyze.Options{Scaled: true})
	require.NoError(t, err)
	wide, err := analyze.Measure(seq, analyze.Options{Scaled: true, BitsPerElement: 16})
	require.NoError(t, err)

	elems := float64(3 * 32 * 32)
	assert.Equal(t, elems*4, native.Bandwidths[0], "native float32 width")
	assert.Equal(t, elems, scaled.Bandwidths[0], "scaled defaults to 8 bits")
	assert.Equal(t, elems*2, wide.Bandwidths[0])
}

func TestMeasureSubmoduleMatchesLayerwiseTotal(t *testing.T) {
	backend := cpu.New()
	features := nn.NewSequential(
		nn.NewConv2D(1, 6, 5, 5, 1, 2, true, backend),
		nn.NewTanh(backend),
		nn.NewMaxPool2D(2, 2, backend),
	)
	classifier := nn.NewSequential(
		nn.NewLinear(6*14*14, 32, backend),
		nn.NewLinear(32, 10, backend),
	)
	model := nn.NewSequential(features, nn.NewFlatten(), classifier)

	layerwise, err := analyze.Measure(decompose(t, model, tensor.Shape{1, 28, 28}, extract.Layerwise), analyze.Options{})
	require.NoError(t, err)
	submodule, err := analyze.Measure(decompose(t, model, tensor.Shape{1, 28, 28}, extract.Submodule), analyze.Options{})
	require.NoError(t, err)

	assert.Equal(t, layerwise.TotalOps(), submodule.TotalOps(),
		"opaque blocks should cost the sum of their children")
	assert.Equal(t, layerwise.TotalParams(), submodule.TotalParams())
}

func TestMeasureDeterministic(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential(
		nn.NewConv2D(3, 8, 3, 3, 1, 1, true, backend),
		nn.NewReLU(backend),
	)
	seq := decompose(t, model, tensor.Shape{3, 16, 16}, extract.Layerwise)

	first, err := analyze.Measure(seq, analyze.Options{})
	require.NoError(t, err)
	second, err := analyze.Measure(seq, analyze.Options{})
	require.NoError(t, err)

	assert.Equal(t, first.OpCounts, second.OpCounts)
	assert.Equal(t, first.Bandwidths, second.Bandwidths)
	assert.Equal(t, first.AccumOps, second.AccumOps)
}
