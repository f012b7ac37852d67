// Copyright 2025 Mimic ML Toolkit. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the public API for the pure-Go CPU backend.
//
// Example:
//
//	backend := cpu.New()
//	model, err := models.New(models.LeNet5, 10, backend)
package cpu

import (
	"github.com/mimic-ml/mimic/internal/backend/cpu"
)

// Backend is the pure-Go CPU compute backend.
type Backend = cpu.Backend

// New creates a CPU backend instance.
func New() *Backend {
	return cpu.New()
}
