package nn

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimic-ml/mimic/internal/backend/cpu"
)

func TestCheckpoint_SaveLoadRoundTrip(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "ckpt", "input_ae.ckpt")

	src := NewSequential(
		NewConv2D(3, 4, 2, 2, 2, 0, true, backend),
		NewReLU(backend),
	)
	require.NoError(t, SaveCheckpoint(path, "input", src, 7, 0.042))

	ckpt, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, "input", ckpt.Type)
	assert.Equal(t, 7, ckpt.Epoch)
	assert.InDelta(t, 0.042, ckpt.BestAvgLoss, 1e-12)

	dst := NewSequential(
		NewConv2D(3, 4, 2, 2, 2, 0, true, backend),
		NewReLU(backend),
	)
	epoch, bestLoss, err := Resume(path, dst)
	require.NoError(t, err)
	assert.Equal(t, 7, epoch)
	assert.InDelta(t, 0.042, bestLoss, 1e-12)

	srcW := src.Module(0).(*Conv2D).weight.Tensor().Data()
	dstW := dst.Module(0).(*Conv2D).weight.Tensor().Data()
	assert.Equal(t, srcW, dstW)
}

func TestCheckpoint_MissingFile(t *testing.T) {
	backend := cpu.New()
	model := NewLinear(4, 2, backend)

	epoch, bestLoss, err := Resume(filepath.Join(t.TempDir(), "nope.ckpt"), model)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCheckpoint))

	// Missing checkpoints downgrade to fresh initialization.
	assert.Equal(t, 1, epoch)
	assert.Equal(t, FreshBestAvgLoss, bestLoss)
}

func TestCheckpoint_ShapeMismatch(t *testing.T) {
	backend := cpu.New()
	path := filepath.Join(t.TempDir(), "mismatch.ckpt")

	require.NoError(t, SaveCheckpoint(path, "input", NewLinear(4, 2, backend), 1, 1.0))

	// Different architecture must refuse the restore.
	_, _, err := Resume(path, NewLinear(8, 2, backend))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMissingCheckpoint)
}
