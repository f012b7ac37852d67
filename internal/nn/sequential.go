package nn

import (
	"fmt"

	"github.com/mimic-ml/mimic/internal/tensor"
)

// Sequential is a container module that chains multiple modules
// together. Each module's output becomes the next module's input.
//
// Sequential is the decomposition unit of the toolkit: the extractor
// walks its children to flatten a network into primitive layers, and
// the splicer inserts an autoencoder between two of its positions.
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{modules: modules}
}

// Forward applies all modules in sequence.
func (s *Sequential) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	output := input
	for i, module := range s.modules {
		var err error
		output, err = module.Forward(output)
		if err != nil {
			return nil, fmt.Errorf("sequential: module %d: %w", i, err)
		}
	}
	return output, nil
}

// Kind reports KindContainer.
func (s *Sequential) Kind() Kind {
	return KindContainer
}

// Parameters returns all trainable parameters from all modules.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Add appends a module to the sequence.
func (s *Sequential) Add(module Module) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}

// Modules returns a copy of the module list in forward order.
func (s *Sequential) Modules() []Module {
	out := make([]Module, len(s.modules))
	copy(out, s.modules)
	return out
}

// String returns a string representation of the container.
func (s *Sequential) String() string {
	return fmt.Sprintf("Sequential(len=%d)", len(s.modules))
}

// StateDict returns a map of parameter names to tensors.
//
// Parameters are prefixed with their module index (e.g. "0.weight",
// "2.bias") to avoid name collisions.
func (s *Sequential) StateDict() map[string]*tensor.Tensor {
	stateDict := make(map[string]*tensor.Tensor)
	for i, module := range s.modules {
		for name, t := range module.StateDict() {
			stateDict[fmt.Sprintf("%d.%s", i, name)] = t
		}
	}
	return stateDict
}

// LoadStateDict loads parameters from an index-prefixed state dictionary.
func (s *Sequential) LoadStateDict(stateDict map[string]*tensor.Tensor) error {
	for i, module := range s.modules {
		prefix := fmt.Sprintf("%d.", i)
		moduleStateDict := make(map[string]*tensor.Tensor)
		for key, t := range stateDict {
			if len(key) > len(prefix) && key[:len(prefix)] == prefix {
				moduleStateDict[key[len(prefix):]] = t
			}
		}
		if len(moduleStateDict) > 0 {
			if err := module.LoadStateDict(moduleStateDict); err != nil {
				return fmt.Errorf("failed to load module %d: %w", i, err)
			}
		}
	}
	return nil
}
