// Package extract decomposes a network into an ordered, flat sequence
// of its computational layers and recovers the tensor shape flowing
// across every boundary in the sequence.
//
// Shape recovery runs one concrete forward pass with a randomly
// sampled input instead of static inference: output shapes can depend
// on dynamic behavior (Flatten collapses whatever arrives at it), and
// a single dry pass captures exactly what each layer produces without
// re-deriving every layer's shape rule.
package extract

import (
	"fmt"
	"math/rand"

	"github.com/mimic-ml/mimic/internal/nn"
	"github.com/mimic-ml/mimic/internal/tensor"
)

// Mode selects how deep the decomposition descends.
type Mode int

const (
	// Layerwise recurses into containers until only primitive leaf
	// operations remain.
	Layerwise Mode = iota

	// Submodule stops at the first level of child modules, treating
	// composite blocks as opaque units.
	Submodule
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Submodule {
		return "submodule"
	}
	return "layerwise"
}

// Sequence is a decomposed network: layer references in forward order
// plus the shapes observed at every boundary.
//
// Shapes[0] is the network input shape and Shapes[i+1] is the output
// shape of Layers[i]; both exclude the batch dimension. Composing the
// layers in order reproduces the original network's output.
type Sequence struct {
	Layers []nn.Module
	Shapes []tensor.Shape
}

// ShapeInferenceError reports that the dry forward pass failed while
// recovering shapes. It is fatal for the analysis being attempted and
// is not recovered locally.
type ShapeInferenceError struct {
	LayerIndex int
	InputShape tensor.Shape
	Err        error
}

// Error implements the error interface.
func (e *ShapeInferenceError) Error() string {
	return fmt.Sprintf("shape inference failed at layer %d (input shape %v): %v",
		e.LayerIndex, e.InputShape, e.Err)
}

// Unwrap returns the underlying layer error.
func (e *ShapeInferenceError) Unwrap() error {
	return e.Err
}

// Decompose flattens a network into a Sequence for the given input
// shape (channels, height, width; no batch dimension).
//
// The network is treated as immutable: layers are referenced, never
// copied, and the only side effect is the transient dry-pass tensor
// allocation.
func Decompose(m nn.Module, inputShape tensor.Shape, mode Mode) (*Sequence, error) {
	if err := inputShape.Validate(); err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	layers := flatten(m, mode)
	shapes, err := propagate(layers, inputShape)
	if err != nil {
		return nil, err
	}
	return &Sequence{Layers: layers, Shapes: shapes}, nil
}

// Forward runs the decomposed sequence end to end. The result must
// match the original network's output for any valid input.
func (s *Sequence) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	output := input
	for i, layer := range s.Layers {
		var err error
		output, err = layer.Forward(output)
		if err != nil {
			return nil, fmt.Errorf("extract: layer %d: %w", i, err)
		}
	}
	return output, nil
}

// Len returns the number of layers in the sequence.
func (s *Sequence) Len() int {
	return len(s.Layers)
}

func flatten(m nn.Module, mode Mode) []nn.Module {
	seq, ok := m.(*nn.Sequential)
	if !ok {
		return []nn.Module{m}
	}
	if mode == Submodule {
		return seq.Modules()
	}
	var layers []nn.Module
	for _, child := range seq.Modules() {
		layers = append(layers, flatten(child, Layerwise)...)
	}
	return layers
}

// propagate runs the dry pass and captures the shape at every layer
// boundary. The sampled input values are irrelevant; only shapes are
// kept.
func propagate(layers []nn.Module, inputShape tensor.Shape) ([]tensor.Shape, error) {
	rng := rand.New(rand.NewSource(1)) //nolint:gosec // shape probing, not sampling
	x, err := tensor.Rand(append(tensor.Shape{1}, inputShape...), rng)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	shapes := make([]tensor.Shape, 0, len(layers)+1)
	shapes = append(shapes, inputShape.Clone())
	for i, layer := range layers {
		out, err := layer.Forward(x)
		if err != nil {
			return nil, &ShapeInferenceError{
				LayerIndex: i,
				InputShape: x.Shape()[1:].Clone(),
				Err:        err,
			}
		}
		shapes = append(shapes, out.Shape()[1:].Clone())
		x = out
	}
	return shapes, nil
}
