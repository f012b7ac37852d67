// Copyright 2025 Mimic ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for neural network modules in the
// Mimic toolkit.
//
// Modules are forward-only building blocks assembled into Sequential
// containers. Every module reports a Kind used by the complexity
// analyzer and exposes its state for checkpoint restoration.
//
// Example:
//
//	backend := cpu.New()
//	model := nn.NewSequential(
//	    nn.NewConv2D(1, 6, 5, 5, 1, 2, true, backend),
//	    nn.NewReLU(backend),
//	    nn.NewMaxPool2D(2, 2, backend),
//	)
package nn

import (
	"github.com/mimic-ml/mimic/internal/nn"
	"github.com/mimic-ml/mimic/internal/tensor"
)

// Module defines the common interface for all neural network modules.
type Module = nn.Module

// Kind is the closed set of primitive layer kinds.
type Kind = nn.Kind

// Layer kind constants.
const (
	KindConv        Kind = nn.KindConv
	KindLinear      Kind = nn.KindLinear
	KindPool        Kind = nn.KindPool
	KindActivation  Kind = nn.KindActivation
	KindFlatten     Kind = nn.KindFlatten
	KindUpsample    Kind = nn.KindUpsample
	KindElementwise Kind = nn.KindElementwise
	KindContainer   Kind = nn.KindContainer
)

// Parameter represents a trainable parameter in a neural network.
type Parameter = nn.Parameter

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return nn.NewParameter(name, t)
}

// ParamCount returns the total number of scalar parameters of a module.
func ParamCount(m Module) int {
	return nn.ParamCount(m)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// NewLinear creates a new linear layer with Xavier initialization.
func NewLinear(inFeatures, outFeatures int, backend tensor.Backend) *Linear {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// Conv2D represents a 2D convolutional layer.
type Conv2D = nn.Conv2D

// NewConv2D creates a new 2D convolutional layer with Xavier
// initialization.
func NewConv2D(inChannels, outChannels, kernelH, kernelW, stride, padding int, useBias bool, backend tensor.Backend) *Conv2D {
	return nn.NewConv2D(inChannels, outChannels, kernelH, kernelW, stride, padding, useBias, backend)
}

// MaxPool2D represents a 2D max pooling layer.
type MaxPool2D = nn.MaxPool2D

// NewMaxPool2D creates a new max pooling layer.
func NewMaxPool2D(kernelSize, stride int, backend tensor.Backend) *MaxPool2D {
	return nn.NewMaxPool2D(kernelSize, stride, backend)
}

// AvgPool2D represents a 2D average pooling layer.
type AvgPool2D = nn.AvgPool2D

// NewAvgPool2D creates a new average pooling layer.
func NewAvgPool2D(kernelSize, stride int, backend tensor.Backend) *AvgPool2D {
	return nn.NewAvgPool2D(kernelSize, stride, backend)
}

// Upsample2D represents a 2D nearest-neighbor upsampling layer.
type Upsample2D = nn.Upsample2D

// NewUpsample2D creates a new nearest-neighbor upsampling layer.
func NewUpsample2D(scale int, backend tensor.Backend) *Upsample2D {
	return nn.NewUpsample2D(scale, backend)
}

// Flatten reshapes its input to [batch, features].
type Flatten = nn.Flatten

// NewFlatten creates a new flatten layer.
func NewFlatten() *Flatten {
	return nn.NewFlatten()
}

// Dropout is an identity layer during forward-only evaluation.
type Dropout = nn.Dropout

// NewDropout creates a new dropout layer with the given drop rate.
func NewDropout(p float64) *Dropout {
	return nn.NewDropout(p)
}

// Activations

// ReLU applies the rectified linear unit element-wise.
type ReLU = nn.ReLU

// NewReLU creates a new ReLU activation.
func NewReLU(backend tensor.Backend) *ReLU {
	return nn.NewReLU(backend)
}

// Sigmoid applies the logistic function element-wise.
type Sigmoid = nn.Sigmoid

// NewSigmoid creates a new sigmoid activation.
func NewSigmoid(backend tensor.Backend) *Sigmoid {
	return nn.NewSigmoid(backend)
}

// Tanh applies the hyperbolic tangent element-wise.
type Tanh = nn.Tanh

// NewTanh creates a new tanh activation.
func NewTanh(backend tensor.Backend) *Tanh {
	return nn.NewTanh(backend)
}

// Containers

// Sequential chains modules, feeding each output to the next module.
type Sequential = nn.Sequential

// NewSequential creates a sequential container from the given modules.
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// Checkpoints

// Checkpoint is a serialized training snapshot.
type Checkpoint = nn.Checkpoint

// ErrMissingCheckpoint reports that no checkpoint exists at a path.
var ErrMissingCheckpoint = nn.ErrMissingCheckpoint

// FreshBestAvgLoss is the sentinel best-loss value for a fresh run.
const FreshBestAvgLoss = nn.FreshBestAvgLoss

// SaveCheckpoint writes a module's state and training progress to disk.
func SaveCheckpoint(path, typ string, m Module, epoch int, bestAvgLoss float64) error {
	return nn.SaveCheckpoint(path, typ, m, epoch, bestAvgLoss)
}

// LoadCheckpoint reads a checkpoint from disk.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	return nn.LoadCheckpoint(path)
}

// Resume restores a module from a checkpoint and returns the epoch to
// continue from along with the best average loss seen so far.
func Resume(path string, m Module) (int, float64, error) {
	return nn.Resume(path, m)
}
