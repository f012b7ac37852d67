package tensor

import (
	"fmt"
	"math/rand"
)

// ElemSize is the byte width of a single tensor element. Every tensor
// in the analysis pipeline is float32, which is also the element width
// the bandwidth accounting assumes.
const ElemSize = 4

// Tensor is a dense float32 tensor in row-major layout.
//
// Tensors are plain value carriers: layers read them during a forward
// pass and produce fresh outputs. Nothing mutates a tensor after it
// has been handed to a consumer.
type Tensor struct {
	shape Shape
	data  []float32
}

// New creates a zero-filled tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Tensor{
		shape: shape.Clone(),
		data:  make([]float32, shape.NumElements()),
	}, nil
}

// Zeros creates a zero-filled tensor and panics on an invalid shape.
// Use it for shapes that are known-valid by construction.
func Zeros(shape Shape) *Tensor {
	t, err := New(shape)
	if err != nil {
		panic(fmt.Sprintf("tensor.Zeros: %v", err))
	}
	return t
}

// Rand creates a tensor filled with uniform values in [0, 1).
//
// The extractor uses Rand to sample dry-pass inputs: shape recovery
// runs one concrete forward evaluation, so the values only need to be
// valid, not meaningful.
func Rand(shape Shape, rng *rand.Rand) (*Tensor, error) {
	t, err := New(shape)
	if err != nil {
		return nil, err
	}
	for i := range t.data {
		t.data[i] = rng.Float32()
	}
	return t, nil
}

// FromSlice creates a tensor wrapping the given data.
// The data length must match the shape's element count.
func FromSlice(shape Shape, data []float32) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, shape.NumElements())
	}
	return &Tensor{shape: shape.Clone(), data: data}, nil
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Data returns the underlying float32 slice.
func (t *Tensor) Data() []float32 {
	return t.data
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.shape.NumElements()
}

// ByteSize returns the total memory size in bytes.
func (t *Tensor) ByteSize() int {
	return t.NumElements() * ElemSize
}

// Reshape returns a view of the tensor with a new shape.
// The element count must be preserved; the data is shared.
func (t *Tensor) Reshape(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if shape.NumElements() != t.NumElements() {
		return nil, fmt.Errorf("cannot reshape %v (%d elements) to %v (%d elements)",
			t.shape, t.NumElements(), shape, shape.NumElements())
	}
	return &Tensor{shape: shape.Clone(), data: t.data}, nil
}

// String returns a compact description of the tensor.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v, bytes=%d)", t.shape, t.ByteSize())
}
