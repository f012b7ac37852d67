package models

import (
	"fmt"

	"github.com/mimic-ml/mimic/internal/extract"
	"github.com/mimic-ml/mimic/internal/nn"
	"github.com/mimic-ml/mimic/internal/tensor"
)

// ExtendModel splices an autoencoder stage into a host network at a
// partition index.
//
// A nil index or index 0 wraps the whole network: the autoencoder
// preprocesses the input and the host runs unchanged. Any other index
// decomposes the host into its primitive layers and inserts the
// autoencoder between layer partitionIdx-1 and layer partitionIdx,
// which requires a dry pass over the host and can therefore fail with
// a ShapeInferenceError.
func ExtendModel(autoencoder, model nn.Module, inputShape tensor.Shape, partitionIdx *int) (*nn.Sequential, error) {
	if partitionIdx == nil || *partitionIdx == 0 {
		return nn.NewSequential(autoencoder, model), nil
	}

	idx := *partitionIdx
	seq, err := extract.Decompose(model, inputShape, extract.Layerwise)
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx > seq.Len() {
		return nil, fmt.Errorf("partition_idx %d out of range for %d decomposed layers", idx, seq.Len())
	}

	modules := make([]nn.Module, 0, seq.Len()+1)
	modules = append(modules, seq.Layers[:idx]...)
	modules = append(modules, autoencoder)
	modules = append(modules, seq.Layers[idx:]...)
	return nn.NewSequential(modules...), nil
}
