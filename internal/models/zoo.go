// Package models constructs the networks the toolkit analyzes: a small
// zoo of reference classifiers, student architectures that mimic a
// teacher's head, and autoencoder stages that can be spliced into a
// host network at a partition index.
package models

import (
	"fmt"
	"strings"

	"github.com/mimic-ml/mimic/internal/nn"
	"github.com/mimic-ml/mimic/internal/tensor"
)

// ModelType is the closed set of reference architectures.
type ModelType int

// Supported reference architectures.
const (
	LeNet5 ModelType = iota
	AlexNet
	MiniVGG
)

// String returns the canonical model type name.
func (t ModelType) String() string {
	switch t {
	case LeNet5:
		return "lenet5"
	case AlexNet:
		return "alexnet"
	case MiniVGG:
		return "minivgg"
	default:
		return "unknown"
	}
}

// ParseModelType resolves a model type tag from a configuration.
// Unrecognized tags are a configuration error.
func ParseModelType(s string) (ModelType, error) {
	switch strings.ToLower(s) {
	case "lenet5", "mnist":
		return LeNet5, nil
	case "alexnet":
		return AlexNet, nil
	case "minivgg", "vgg":
		return MiniVGG, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownModelType, s)
	}
}

// New constructs a reference network of the given type.
//
// Networks are built as a Sequential of [features, flatten, classifier]
// so that submodule-mode decomposition yields the coarse blocks and
// layerwise mode the primitive layers.
func New(t ModelType, numClasses int, backend tensor.Backend) (*nn.Sequential, error) {
	switch t {
	case LeNet5:
		return newLeNet5(numClasses, backend), nil
	case AlexNet:
		return newAlexNet(numClasses, backend), nil
	case MiniVGG:
		return newMiniVGG(numClasses, backend), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownModelType, int(t))
	}
}

// InputShape returns the input shape (channels, height, width) the
// architecture was designed for.
func (t ModelType) InputShape() tensor.Shape {
	switch t {
	case LeNet5:
		return tensor.Shape{1, 28, 28}
	case MiniVGG:
		return tensor.Shape{3, 32, 32}
	default:
		return tensor.Shape{3, 224, 224}
	}
}

// newLeNet5 builds the classic LeNet-5 for 1x28x28 inputs. The first
// convolution pads by 2 so the MNIST resolution survives the 5x5 kernel.
func newLeNet5(numClasses int, backend tensor.Backend) *nn.Sequential {
	if numClasses <= 0 {
		numClasses = 10
	}
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
		nn.NewLinear(120, 84, backend),
		nn.NewTanh(backend),
		nn.NewLinear(84, numClasses, backend),
	)
	return nn.NewSequential(features, nn.NewFlatten(), classifier)
}

// newAlexNet builds AlexNet for 3x224x224 inputs.
func newAlexNet(numClasses int, backend tensor.Backend) *nn.Sequential {
	if numClasses <= 0 {
		numClasses = 1000
	}
	features := nn.NewSequential(
		nn.NewConv2D(3, 64, 11, 11, 4, 2, true, backend),
		nn.NewReLU(backend),
		nn.NewMaxPool2D(3, 2, backend),
		nn.NewConv2D(64, 192, 5, 5, 1, 2, true, backend),
		nn.NewReLU(backend),
		nn.NewMaxPool2D(3, 2, backend),
		nn.NewConv2D(192, 384, 3, 3, 1, 1, true, backend),
		nn.NewReLU(backend),
		nn.NewConv2D(384, 256, 3, 3, 1, 1, true, backend),
		nn.NewReLU(backend),
		nn.NewConv2D(256, 256, 3, 3, 1, 1, true, backend),
		nn.NewReLU(backend),
		nn.NewMaxPool2D(3, 2, backend),
	)
	classifier := nn.NewSequential(
		nn.NewDropout(0.5),
		nn.NewLinear(256*6*6, 4096, backend),
		nn.NewReLU(backend),
		nn.NewDropout(0.5),
		nn.NewLinear(4096, 4096, backend),
		nn.NewReLU(backend),
		nn.NewLinear(4096, numClasses, backend),
	)
	return nn.NewSequential(features, nn.NewFlatten(), classifier)
}

// newMiniVGG builds a compact VGG-style network for 3x32x32 inputs.
func newMiniVGG(numClasses int, backend tensor.Backend) *nn.Sequential {
	if numClasses <= 0 {
		numClasses = 10
	}
	features := nn.NewSequential(
		nn.NewConv2D(3, 32, 3, 3, 1, 1, true, backend),
		nn.NewReLU(backend),
		nn.NewConv2D(32, 32, 3, 3, 1, 1, true, backend),
		nn.NewReLU(backend),
		nn.NewMaxPool2D(2, 2, backend),
		nn.NewConv2D(32, 64, 3, 3, 1, 1, true, backend),
		nn.NewReLU(backend),
		nn.NewConv2D(64, 64, 3, 3, 1, 1, true, backend),
		nn.NewReLU(backend),
		nn.NewMaxPool2D(2, 2, backend),
		nn.NewConv2D(64, 128, 3, 3, 1, 1, true, backend),
		nn.NewReLU(backend),
		nn.NewMaxPool2D(2, 2, backend),
	)
	classifier := nn.NewSequential(
		nn.NewLinear(128*4*4, 256, backend),
		nn.NewReLU(backend),
		nn.NewDropout(0.5),
		nn.NewLinear(256, numClasses, backend),
	)
	return nn.NewSequential(features, nn.NewFlatten(), classifier)
}

// intParam reads an integer parameter from a config params map,
// falling back to def when absent.
func intParam(params map[string]any, key string, def int) int {
	if params == nil {
		return def
	}
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}
