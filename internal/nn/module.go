// Package nn implements the neural network modules the Mimic toolkit
// analyzes and splices.
//
// This package provides the building blocks for constructing networks:
//   - Module interface: base interface for all components
//   - Parameter: named weight/bias tensors
//   - Conv2D, Linear: parameterized layers
//   - MaxPool2D, AvgPool2D, activations, Flatten, Upsample2D: shape and
//     element-wise transforms
//   - Sequential: decomposable container for stacking layers
//
// Modules are forward-only. Mimic measures and splices networks; it
// does not train them, so there is no gradient machinery.
package nn

import "github.com/mimic-ml/mimic/internal/tensor"

// Kind is the closed set of primitive layer kinds.
//
// The analyzer dispatches on Kind to pick the operation-count formula
// for a layer. Keeping the set closed gives compile-time exhaustiveness
// instead of a runtime string lookup; kinds without a formula fall
// through to zero operations with their bandwidth still recorded.
type Kind int

// Supported layer kinds.
const (
	KindConv Kind = iota
	KindLinear
	KindPool
	KindActivation
	KindFlatten
	KindUpsample
	KindElementwise
	KindContainer
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindConv:
		return "conv"
	case KindLinear:
		return "linear"
	case KindPool:
		return "pool"
	case KindActivation:
		return "activation"
	case KindFlatten:
		return "flatten"
	case KindUpsample:
		return "upsample"
	case KindElementwise:
		return "elementwise"
	case KindContainer:
		return "container"
	default:
		return "unknown"
	}
}

// Module is the base interface for all neural network components.
//
// Forward returns an error rather than panicking: a failed forward pass
// during shape inference must propagate to the analysis caller, and
// incompatible input shapes are an expected failure mode when probing
// arbitrary configurations.
type Module interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor) (*tensor.Tensor, error)

	// Kind reports the primitive layer kind for analysis dispatch.
	Kind() Kind

	// Parameters returns all trainable parameters of this module,
	// including nested module parameters. Parameter-free modules
	// return nil.
	Parameters() []*Parameter

	// StateDict returns a map of parameter names to tensors.
	StateDict() map[string]*tensor.Tensor

	// LoadStateDict loads parameters from a state dictionary.
	LoadStateDict(stateDict map[string]*tensor.Tensor) error
}

// ParamCount returns the total number of scalar parameters in a module.
func ParamCount(m Module) int {
	total := 0
	for _, p := range m.Parameters() {
		total += p.Tensor().NumElements()
	}
	return total
}

// stateless provides the no-op parameter surface shared by layers
// without trainable state.
type stateless struct{}

func (stateless) Parameters() []*Parameter {
	return nil
}

func (stateless) StateDict() map[string]*tensor.Tensor {
	return nil
}

func (stateless) LoadStateDict(map[string]*tensor.Tensor) error {
	return nil
}
