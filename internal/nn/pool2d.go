package nn

import (
	"fmt"

	"github.com/mimic-ml/mimic/internal/tensor"
)

// MaxPool2D is a 2D max pooling layer.
//
// Max pooling reduces spatial dimensions by taking the maximum value
// in each window. It has no learnable parameters.
//
// Input shape:  [batch, channels, height, width]
// Output shape: [batch, channels, (height-kernel)/stride+1, (width-kernel)/stride+1]
type MaxPool2D struct {
	stateless
	kernelSize int
	stride     int
	backend    tensor.Backend
}

// NewMaxPool2D creates a new 2D max pooling layer.
func NewMaxPool2D(kernelSize, stride int, backend tensor.Backend) *MaxPool2D {
	if kernelSize <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid stride %d", stride))
	}
	return &MaxPool2D{kernelSize: kernelSize, stride: stride, backend: backend}
}

// Forward performs the forward pass.
func (m *MaxPool2D) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if len(input.Shape()) != 4 {
		return nil, fmt.Errorf("maxpool2d: expected 4D input [N,C,H,W], got shape %v", input.Shape())
	}
	return m.backend.MaxPool2D(input, m.kernelSize, m.stride)
}

// Kind reports KindPool.
func (m *MaxPool2D) Kind() Kind {
	return KindPool
}

// KernelSize returns the pooling kernel size.
func (m *MaxPool2D) KernelSize() int {
	return m.kernelSize
}

// Stride returns the stride.
func (m *MaxPool2D) Stride() int {
	return m.stride
}

// ComputeOutputSize computes output spatial dimensions for given input size.
func (m *MaxPool2D) ComputeOutputSize(inputH, inputW int) [2]int {
	return [2]int{(inputH-m.kernelSize)/m.stride + 1, (inputW-m.kernelSize)/m.stride + 1}
}

// String returns a string representation of the layer.
func (m *MaxPool2D) String() string {
	return fmt.Sprintf("MaxPool2D(kernel_size=%d, stride=%d)", m.kernelSize, m.stride)
}

// AvgPool2D is a 2D average pooling layer.
//
// Same geometry as MaxPool2D but takes the window mean instead of the
// maximum.
type AvgPool2D struct {
	stateless
	kernelSize int
	stride     int
	backend    tensor.Backend
}

// NewAvgPool2D creates a new 2D average pooling layer.
func NewAvgPool2D(kernelSize, stride int, backend tensor.Backend) *AvgPool2D {
	if kernelSize <= 0 {
		panic(fmt.Sprintf("avgpool2d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("avgpool2d: invalid stride %d", stride))
	}
	return &AvgPool2D{kernelSize: kernelSize, stride: stride, backend: backend}
}

// Forward performs the forward pass.
func (a *AvgPool2D) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	if len(input.Shape()) != 4 {
		return nil, fmt.Errorf("avgpool2d: expected 4D input [N,C,H,W], got shape %v", input.Shape())
	}
	return a.backend.AvgPool2D(input, a.kernelSize, a.stride)
}

// Kind reports KindPool.
func (a *AvgPool2D) Kind() Kind {
	return KindPool
}

// ComputeOutputSize computes output spatial dimensions for given input size.
func (a *AvgPool2D) ComputeOutputSize(inputH, inputW int) [2]int {
	return [2]int{(inputH-a.kernelSize)/a.stride + 1, (inputW-a.kernelSize)/a.stride + 1}
}

// String returns a string representation of the layer.
func (a *AvgPool2D) String() string {
	return fmt.Sprintf("AvgPool2D(kernel_size=%d, stride=%d)", a.kernelSize, a.stride)
}
