// Package tensor implements the minimal tensor substrate used by the
// Mimic analysis toolkit: shapes, dense float32 tensors, and the
// Backend interface that compute devices implement.
//
// The package is forward-only. Mimic measures networks (operation
// counts, inter-layer bandwidth) rather than training them, so there
// is no gradient tape and no dtype zoo: every tensor is float32 and
// every operation allocates a fresh output.
package tensor
