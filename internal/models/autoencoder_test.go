package models_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimic-ml/mimic/internal/backend/cpu"
	"github.com/mimic-ml/mimic/internal/config"
	"github.com/mimic-ml/mimic/internal/models"
	"github.com/mimic-ml/mimic/internal/tensor"
)

func TestParseAEType(t *testing.T) {
	got, err := models.ParseAEType("input")
	require.NoError(t, err)
	assert.Equal(t, models.AEInput, got)

	_, err = models.ParseAEType("variational")
	assert.ErrorIs(t, err, models.ErrUnknownAutoencoderType)
}

func TestInputAutoencoderPreservesShape(t *testing.T) {
	backend := cpu.New()
	ae := models.NewInputAutoencoder(3, 12, backend)

	rng := rand.New(rand.NewSource(3)) //nolint:gosec // test input
	input, err := tensor.Rand(tensor.Shape{1, 3, 32, 32}, rng)
	require.NoError(t, err)

	output, err := ae.Forward(input)
	require.NoError(t, err)
	assert.Equal(t, input.Shape(), output.Shape(),
		"the stage must be spliceable in front of any host")

	// sigmoid output range
	for _, v := range output.Data() {
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1))
	}
}

func TestNewAutoencoderFromConfig(t *testing.T) {
	backend := cpu.New()
	cfg := &config.AutoencoderConfig{
		Type:   "input",
		Params: map[string]any{"bottleneck_channels": 8},
	}

	ae, tag, err := models.NewAutoencoder(cfg, 3, backend)
	require.NoError(t, err)
	assert.Equal(t, "input", tag)
	assert.Equal(t, 5, ae.Len())

	_, _, err = models.NewAutoencoder(&config.AutoencoderConfig{Type: "vae"}, 3, backend)
	assert.ErrorIs(t, err, models.ErrUnknownAutoencoderType)
}

func TestExtendModelWrapsAtInput(t *testing.T) {
	backend := cpu.New()
	ae := models.NewInputAutoencoder(3, 12, backend)
	host, err := models.New(models.MiniVGG, 10, backend)
	require.NoError(t, err)

	for _, idx := range []*int{nil, intPtr(0)} {
		extended, err := models.ExtendModel(ae, host, tensor.Shape{3, 32, 32}, idx)
		require.NoError(t, err)
		assert.Equal(t, 2, extended.Len(), "input splice wraps the whole host")

		rng := rand.New(rand.NewSource(3)) //nolint:gosec // test input
		input, err := tensor.Rand(tensor.Shape{1, 3, 32, 32}, rng)
		require.NoError(t, err)
		output, err := extended.Forward(input)
		require.NoError(t, err)
		assert.Equal(t, tensor.Shape{1, 10}, output.Shape())
	}
}

func TestExtendModelSplicesMidNetwork(t *testing.T) {
	backend := cpu.New()
	host, err := models.NewStudent(models.MiniVGG, "1", backend)
	require.NoError(t, err)

	// After conv/relu/pool the tensor has 32 channels at 16x16.
	ae := models.NewInputAutoencoder(32, 8, backend)
	extended, err := models.ExtendModel(ae, host, tensor.Shape{3, 32, 32}, intPtr(3))
	require.NoError(t, err)
	assert.Equal(t, host.Len()+1, extended.Len())
	assert.Same(t, ae, extended.Module(3))

	rng := rand.New(rand.NewSource(3)) //nolint:gosec // test input
	input, err := tensor.Rand(tensor.Shape{1, 3, 32, 32}, rng)
	require.NoError(t, err)
	output, err := extended.Forward(input)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 64, 16, 16}, output.Shape())
}

func TestExtendModelIndexOutOfRange(t *testing.T) {
	backend := cpu.New()
	host, err := models.NewStudent(models.MiniVGG, "1", backend)
	require.NoError(t, err)
	ae := models.NewInputAutoencoder(3, 12, backend)

	_, err = models.ExtendModel(ae, host, tensor.Shape{3, 32, 32}, intPtr(99))
	assert.Error(t, err)
}

func intPtr(v int) *int {
	return &v
}
