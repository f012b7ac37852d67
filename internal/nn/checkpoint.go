package nn

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"

	"github.com/mimic-ml/mimic/internal/tensor"
)

// ErrMissingCheckpoint reports that no checkpoint file exists at the
// requested path. Callers downgrade it to a warning and continue with
// a freshly initialized component.
var ErrMissingCheckpoint = errors.New("checkpoint not found")

// FreshBestAvgLoss is the sentinel best-loss value reported when no
// checkpoint was restored. Any observed loss improves on it.
const FreshBestAvgLoss = 1e60

// TensorState is the serialized form of a single parameter tensor.
type TensorState struct {
	Shape []int     `cbor:"shape"`
	Data  []float32 `cbor:"data"`
}

// Checkpoint is a persisted snapshot of a fitted component.
//
// The record mirrors the external checkpoint boundary: a type tag, the
// model parameter state, the epoch to resume from, and the best average
// loss seen so far. Files are CBOR-encoded.
type Checkpoint struct {
	Type        string                 `cbor:"type"`
	Model       map[string]TensorState `cbor:"model"`
	Epoch       int                    `cbor:"epoch"`
	BestAvgLoss float64                `cbor:"best_avg_loss"`
}

// SaveCheckpoint writes a checkpoint for the given module, creating
// parent directories as needed.
func SaveCheckpoint(path, typ string, m Module, epoch int, bestAvgLoss float64) error {
	state := make(map[string]TensorState)
	for name, t := range m.StateDict() {
		data := make([]float32, len(t.Data()))
		copy(data, t.Data())
		state[name] = TensorState{Shape: t.Shape().Clone(), Data: data}
	}

	ckpt := Checkpoint{
		Type:        typ,
		Model:       state,
		Epoch:       epoch,
		BestAvgLoss: bestAvgLoss,
	}

	encoded, err := cbor.Marshal(ckpt)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create checkpoint directory: %w", err)
		}
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads a checkpoint from disk.
//
// A non-existent file yields ErrMissingCheckpoint; any other failure is
// a corrupt or unreadable checkpoint and is returned as-is.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	encoded, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingCheckpoint, path)
		}
		return nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}

	var ckpt Checkpoint
	if err := cbor.Unmarshal(encoded, &ckpt); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint %s: %w", path, err)
	}
	return &ckpt, nil
}

// Apply restores the checkpoint's parameter state into the module.
func (c *Checkpoint) Apply(m Module) error {
	stateDict := make(map[string]*tensor.Tensor, len(c.Model))
	for name, ts := range c.Model {
		t, err := tensor.FromSlice(tensor.Shape(ts.Shape), ts.Data)
		if err != nil {
			return fmt.Errorf("checkpoint entry %s: %w", name, err)
		}
		stateDict[name] = t
	}
	return m.LoadStateDict(stateDict)
}

// Resume restores a module from a checkpoint file.
//
// On success it returns the epoch to resume from and the recorded best
// average loss. When the file is missing it returns epoch 1, the
// FreshBestAvgLoss sentinel, and ErrMissingCheckpoint so the caller can
// log and continue with the module's fresh initialization.
func Resume(path string, m Module) (int, float64, error) {
	ckpt, err := LoadCheckpoint(path)
	if err != nil {
		return 1, FreshBestAvgLoss, err
	}
	if err := ckpt.Apply(m); err != nil {
		return 1, FreshBestAvgLoss, fmt.Errorf("failed to restore checkpoint %s: %w", path, err)
	}
	return ckpt.Epoch, ckpt.BestAvgLoss, nil
}
