package nn

import (
	"fmt"

	"github.com/mimic-ml/mimic/internal/tensor"
)

// Conv2D is a 2D convolutional layer.
//
// Input shape:  [batch, in_channels, height, width]
// Weight shape: [out_channels, in_channels, kernel_h, kernel_w]
// Bias shape:   [out_channels]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Where:
//
//	out_h = (height + 2*padding - kernel_h) / stride + 1
//	out_w = (width + 2*padding - kernel_w) / stride + 1
type Conv2D struct {
	inChannels  int
	outChannels int
	kernelSize  [2]int
	stride      int
	padding     int

	weight *Parameter
	bias   *Parameter // nil when bias is disabled

	backend tensor.Backend
}

// NewConv2D creates a new 2D convolutional layer with Xavier-initialized
// weights and zero-initialized bias.
func NewConv2D(inChannels, outChannels, kernelH, kernelW, stride, padding int, useBias bool, backend tensor.Backend) *Conv2D {
	if inChannels <= 0 || outChannels <= 0 {
		panic(fmt.Sprintf("conv2d: invalid channels in=%d, out=%d", inChannels, outChannels))
	}
	if kernelH <= 0 || kernelW <= 0 {
		panic(fmt.Sprintf("conv2d: invalid kernel size h=%d, w=%d", kernelH, kernelW))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid padding %d", padding))
	}

	fanIn := inChannels * kernelH * kernelW
	fanOut := outChannels * kernelH * kernelW
	weight := NewParameter("weight", Xavier(fanIn, fanOut, tensor.Shape{outChannels, inChannels, kernelH, kernelW}))

	var bias *Parameter
	if useBias {
		bias = NewParameter("bias", tensor.Zeros(tensor.Shape{outChannels}))
	}

	return &Conv2D{
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelSize:  [2]int{kernelH, kernelW},
		stride:      stride,
		padding:     padding,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward performs the forward pass.
//
// Input: [batch, in_channels, height, width]
// Output: [batch, out_channels, out_h, out_w].
func (c *Conv2D) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		return nil, fmt.Errorf("conv2d: expected 4D input [N,C,H,W], got shape %v", inputShape)
	}
	if inputShape[1] != c.inChannels {
		return nil, fmt.Errorf("conv2d: input channels %d != expected %d", inputShape[1], c.inChannels)
	}

	var bias *tensor.Tensor
	if c.bias != nil {
		bias = c.bias.Tensor()
	}
	return c.backend.Conv2D(input, c.weight.Tensor(), bias, c.stride, c.padding)
}

// Kind reports KindConv.
func (c *Conv2D) Kind() Kind {
	return KindConv
}

// Parameters returns all trainable parameters.
func (c *Conv2D) Parameters() []*Parameter {
	if c.bias != nil {
		return []*Parameter{c.weight, c.bias}
	}
	return []*Parameter{c.weight}
}

// InChannels returns the number of input channels.
func (c *Conv2D) InChannels() int {
	return c.inChannels
}

// OutChannels returns the number of output channels.
func (c *Conv2D) OutChannels() int {
	return c.outChannels
}

// KernelSize returns the kernel size [height, width].
func (c *Conv2D) KernelSize() [2]int {
	return c.kernelSize
}

// Stride returns the stride.
func (c *Conv2D) Stride() int {
	return c.stride
}

// Padding returns the padding.
func (c *Conv2D) Padding() int {
	return c.padding
}

// ComputeOutputSize computes output spatial dimensions for given input size.
//
// Returns: [out_height, out_width].
func (c *Conv2D) ComputeOutputSize(inputH, inputW int) [2]int {
	outH := (inputH+2*c.padding-c.kernelSize[0])/c.stride + 1
	outW := (inputW+2*c.padding-c.kernelSize[1])/c.stride + 1
	return [2]int{outH, outW}
}

// String returns a string representation of the layer.
func (c *Conv2D) String() string {
	return fmt.Sprintf("Conv2D(in_channels=%d, out_channels=%d, kernel_size=(%d, %d), stride=%d, padding=%d, bias=%v)",
		c.inChannels, c.outChannels, c.kernelSize[0], c.kernelSize[1], c.stride, c.padding, c.bias != nil)
}

// StateDict returns a map of parameter names to tensors.
func (c *Conv2D) StateDict() map[string]*tensor.Tensor {
	stateDict := map[string]*tensor.Tensor{"weight": c.weight.Tensor()}
	if c.bias != nil {
		stateDict["bias"] = c.bias.Tensor()
	}
	return stateDict
}

// LoadStateDict loads parameters from a state dictionary.
func (c *Conv2D) LoadStateDict(stateDict map[string]*tensor.Tensor) error {
	expectedWeight := tensor.Shape{c.outChannels, c.inChannels, c.kernelSize[0], c.kernelSize[1]}
	if err := loadParam(stateDict, "weight", expectedWeight, c.weight); err != nil {
		return fmt.Errorf("conv2d: %w", err)
	}
	if c.bias != nil {
		if err := loadParam(stateDict, "bias", tensor.Shape{c.outChannels}, c.bias); err != nil {
			return fmt.Errorf("conv2d: %w", err)
		}
	}
	return nil
}

// loadParam copies a named state-dict entry into a parameter after
// validating its shape.
func loadParam(stateDict map[string]*tensor.Tensor, name string, expected tensor.Shape, dst *Parameter) error {
	src, ok := stateDict[name]
	if !ok {
		return fmt.Errorf("missing %s in state dict", name)
	}
	if !src.Shape().Equal(expected) {
		return fmt.Errorf("%s shape mismatch: expected %v, got %v", name, expected, src.Shape())
	}
	copy(dst.Tensor().Data(), src.Data())
	return nil
}
