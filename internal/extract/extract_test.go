package extract_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimic-ml/mimic/internal/backend/cpu"
	"github.com/mimic-ml/mimic/internal/extract"
	"github.com/mimic-ml/mimic/internal/nn"
	"github.com/mimic-ml/mimic/internal/tensor"
)

// lenetLike builds a nested [features, flatten, classifier] network for
// 1x28x28 inputs.
func lenetLike(backend tensor.Backend) *nn.Sequential {
	features := nn.NewSequential(
		nn.NewConv2D(1, 6, 5, 5, 1, 2, true, backend),
		nn.NewTanh(backend),
		nn.NewMaxPool2D(2, 2, backend),
		nn.NewConv2D(6, 16, 5, 5, 1, 0, true, backend),
		nn.NewTanh(backend),
		nn.NewMaxPool2D(2, 2, backend),
	)
	classifier := nn.NewSequential(
		nn.NewLinear(16*5*5, 120, backend),
		nn.NewTanh(backend),
		nn.NewLinear(120, 10, backend),
	)
	return nn.NewSequential(features, nn.NewFlatten(), classifier)
}

func TestDecomposeLayerwise(t *testing.T) {
	backend := cpu.New()
	model := lenetLike(backend)

	seq, err := extract.Decompose(model, tensor.Shape{1, 28, 28}, extract.Layerwise)
	require.NoError(t, err)

	assert.Equal(t, 10, seq.Len(), "layerwise mode should flatten to primitive layers")
	require.Len(t, seq.Shapes, 11)

	assert.Equal(t, tensor.Shape{1, 28, 28}, seq.Shapes[0])
	assert.Equal(t, tensor.Shape{6, 28, 28}, seq.Shapes[1], "padded 5x5 conv keeps resolution")
	assert.Equal(t, tensor.Shape{6, 14, 14}, seq.Shapes[3])
	assert.Equal(t, tensor.Shape{16, 10, 10}, seq.Shapes[4])
	assert.Equal(t, tensor.Shape{16, 5, 5}, seq.Shapes[6])
	assert.Equal(t, tensor.Shape{400}, seq.Shapes[7], "flatten collapses to features")
	assert.Equal(t, tensor.Shape{10}, seq.Shapes[10])
}

func TestDecomposeSubmodule(t *testing.T) {
	backend := cpu.New()
	model := lenetLike(backend)

	seq, err := extract.Decompose(model, tensor.Shape{1, 28, 28}, extract.Submodule)
	require.NoError(t, err)

	assert.Equal(t, 3, seq.Len(), "submodule mode should stop at direct children")
	require.Len(t, seq.Shapes, 4)
	assert.Equal(t, tensor.Shape{16, 5, 5}, seq.Shapes[1], "feature block output")
	assert.Equal(t, tensor.Shape{400}, seq.Shapes[2])
	assert.Equal(t, tensor.Shape{10}, seq.Shapes[3])
}

func TestDecomposeNonContainer(t *testing.T) {
	backend := cpu.New()
	conv := nn.NewConv2D(3, 8, 3, 3, 1, 1, true, backend)

	seq, err := extract.Decompose(conv, tensor.Shape{3, 16, 16}, extract.Layerwise)
	require.NoError(t, err)
	assert.Equal(t, 1, seq.Len())
	assert.Equal(t, tensor.Shape{8, 16, 16}, seq.Shapes[1])
}

func TestSequenceForwardMatchesOriginal(t *testing.T) {
	backend := cpu.New()
	model := lenetLike(backend)

	for _, mode := range []extract.Mode{extract.Layerwise, extract.Submodule} {
		seq, err := extract.Decompose(model, tensor.Shape{1, 28, 28}, mode)
		require.NoError(t, err)

		rng := rand.New(rand.NewSource(7)) //nolint:gosec // test input
		input, err := tensor.Rand(tensor.Shape{2, 1, 28, 28}, rng)
		require.NoError(t, err)

		want, err := model.Forward(input)
		require.NoError(t, err)
		got, err := seq.Forward(input)
		require.NoError(t, err)

		assert.Equal(t, want.Shape(), got.Shape(), "mode %s", mode)
		assert.Equal(t, want.Data(), got.Data(), "mode %s", mode)
	}
}

func TestDecomposeShapeInferenceError(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential(
		nn.NewReLU(backend),
		nn.NewConv2D(3, 8, 3, 3, 1, 1, true, backend),
	)

	// 1 channel in, conv expects 3.
	_, err := extract.Decompose(model, tensor.Shape{1, 28, 28}, extract.Layerwise)
	require.Error(t, err)

	var shapeErr *extract.ShapeInferenceError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 1, shapeErr.LayerIndex)
	assert.Equal(t, tensor.Shape{1, 28, 28}, shapeErr.InputShape)
	assert.Error(t, shapeErr.Unwrap())
}

func TestDecomposeInvalidInputShape(t *testing.T) {
	backend := cpu.New()
	model := nn.NewSequential(nn.NewReLU(backend))

	_, err := extract.Decompose(model, tensor.Shape{3, 0, 28}, extract.Layerwise)
	assert.Error(t, err)
}

func TestDecomposeDeterministic(t *testing.T) {
	backend := cpu.New()
	model := lenetLike(backend)

	first, err := extract.Decompose(model, tensor.Shape{1, 28, 28}, extract.Layerwise)
	require.NoError(t, err)
	second, err := extract.Decompose(model, tensor.Shape{1, 28, 28}, extract.Layerwise)
	require.NoError(t, err)

	assert.Equal(t, first.Shapes, second.Shapes)
}
