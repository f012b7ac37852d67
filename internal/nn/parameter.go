package nn

import "github.com/mimic-ml/mimic/internal/tensor"

// Parameter represents a named weight or bias tensor in a network.
//
// Parameters exist so that layers can enumerate and serialize their
// state uniformly; the analyzer counts them, checkpoints persist them.
type Parameter struct {
	name   string
	tensor *tensor.Tensor
}

// NewParameter creates a new parameter.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{name: name, tensor: t}
}

// Name returns the parameter name (e.g. "weight", "bias").
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}
