package nn

import (
	"fmt"

	"github.com/mimic-ml/mimic/internal/tensor"
)

// Flatten collapses all dimensions after the batch dimension.
//
// Input shape:  [batch, d1, d2, ...]
// Output shape: [batch, d1*d2*...]
//
// The output size depends on the concrete input shape, which is why
// shape recovery runs a real forward pass instead of static inference.
type Flatten struct {
	stateless
}

// NewFlatten creates a new Flatten module.
func NewFlatten() *Flatten {
	return &Flatten{}
}

// Forward reshapes the input to [batch, features].
func (f *Flatten) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	shape := input.Shape()
	if len(shape) < 2 {
		return nil, fmt.Errorf("flatten: expected at least 2D input, got shape %v", shape)
	}
	features := 1
	for _, dim := range shape[1:] {
		features *= dim
	}
	return input.Reshape(tensor.Shape{shape[0], features})
}

// Kind reports KindFlatten.
func (f *Flatten) Kind() Kind {
	return KindFlatten
}

// String returns a string representation of the layer.
func (f *Flatten) String() string {
	return "Flatten()"
}
