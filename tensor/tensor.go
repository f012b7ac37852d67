// Copyright 2025 Mimic ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for tensor operations in the
// Mimic toolkit.
//
// The package defines the core types for forward-only network
// evaluation:
//   - Tensor: dense float32 tensor
//   - Shape: dimension list with element and stride helpers
//   - Backend: interface for device-specific compute implementations
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros(tensor.Shape{1, 3, 32, 32})
//	y, err := backend.ReLU(x)
package tensor

import (
	"math/rand"

	"github.com/mimic-ml/mimic/internal/tensor"
)

// Type aliases for public API

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// Tensor is a dense float32 tensor in row-major layout.
type Tensor = tensor.Tensor

// Backend is the interface for device-specific compute implementations.
type Backend = tensor.Backend

// ElemSize is the byte size of a single tensor element.
const ElemSize = tensor.ElemSize

// New creates a zero-filled tensor with the given shape.
func New(shape Shape) (*Tensor, error) {
	return tensor.New(shape)
}

// Zeros creates a zero-filled tensor, panicking on an invalid shape.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Rand creates a tensor filled with uniform random values in [0, 1)
// drawn from the given source.
func Rand(shape Shape, rng *rand.Rand) (*Tensor, error) {
	return tensor.Rand(shape, rng)
}

// FromSlice creates a tensor wrapping the given data.
func FromSlice(shape Shape, data []float32) (*Tensor, error) {
	return tensor.FromSlice(shape, data)
}
