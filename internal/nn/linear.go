package nn

import (
	"fmt"

	"github.com/mimic-ml/mimic/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch_size, out_features]
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter
	bias        *Parameter
	backend     tensor.Backend
}

// NewLinear creates a new Linear layer.
func NewLinear(inFeatures, outFeatures int, backend tensor.Backend) *Linear {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("linear: invalid features in=%d, out=%d", inFeatures, outFeatures))
	}

	weight := NewParameter("weight", Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}))
	bias := NewParameter("bias", tensor.Zeros(tensor.Shape{outFeatures}))

	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
		backend:     backend,
	}
}

// Forward computes the output of the linear layer.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features].
func (l *Linear) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		return nil, fmt.Errorf("linear: expected 2D input [batch, features], got shape %v", inputShape)
	}
	if inputShape[1] != l.inFeatures {
		return nil, fmt.Errorf("linear: expected input with %d features, got %d", l.inFeatures, inputShape[1])
	}
	return l.backend.Linear(input, l.weight.Tensor(), l.bias.Tensor())
}

// Kind reports KindLinear.
func (l *Linear) Kind() Kind {
	return KindLinear
}

// Parameters returns the trainable parameters of this layer.
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

// String returns a string representation of the layer.
func (l *Linear) String() string {
	return fmt.Sprintf("Linear(in_features=%d, out_features=%d)", l.inFeatures, l.outFeatures)
}

// StateDict returns a map of parameter names to tensors.
func (l *Linear) StateDict() map[string]*tensor.Tensor {
	return map[string]*tensor.Tensor{
		"weight": l.weight.Tensor(),
		"bias":   l.bias.Tensor(),
	}
}

// LoadStateDict loads parameters from a state dictionary.
func (l *Linear) LoadStateDict(stateDict map[string]*tensor.Tensor) error {
	if err := loadParam(stateDict, "weight", tensor.Shape{l.outFeatures, l.inFeatures}, l.weight); err != nil {
		return fmt.Errorf("linear: %w", err)
	}
	if err := loadParam(stateDict, "bias", tensor.Shape{l.outFeatures}, l.bias); err != nil {
		return fmt.Errorf("linear: %w", err)
	}
	return nil
}
