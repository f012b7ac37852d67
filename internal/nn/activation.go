package nn

import "github.com/mimic-ml/mimic/internal/tensor"

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function: f(x) = max(0, x)
type ReLU struct {
	stateless
	backend tensor.Backend
}

// NewReLU creates a new ReLU activation module.
func NewReLU(backend tensor.Backend) *ReLU {
	return &ReLU{backend: backend}
}

// Forward applies ReLU activation.
func (r *ReLU) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	return r.backend.ReLU(input), nil
}

// Kind reports KindActivation.
func (r *ReLU) Kind() Kind {
	return KindActivation
}

// String returns a string representation of the layer.
func (r *ReLU) String() string {
	return "ReLU()"
}

// Sigmoid is a sigmoid activation module.
//
// Applies the element-wise function: f(x) = 1 / (1 + exp(-x))
type Sigmoid struct {
	stateless
	backend tensor.Backend
}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid(backend tensor.Backend) *Sigmoid {
	return &Sigmoid{backend: backend}
}

// Forward applies Sigmoid activation.
func (s *Sigmoid) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	return s.backend.Sigmoid(input), nil
}

// Kind reports KindActivation.
func (s *Sigmoid) Kind() Kind {
	return KindActivation
}

// String returns a string representation of the layer.
func (s *Sigmoid) String() string {
	return "Sigmoid()"
}

// Tanh is a hyperbolic tangent activation module.
type Tanh struct {
	stateless
	backend tensor.Backend
}

// NewTanh creates a new Tanh activation module.
func NewTanh(backend tensor.Backend) *Tanh {
	return &Tanh{backend: backend}
}

// Forward applies Tanh activation.
func (t *Tanh) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	return t.backend.Tanh(input), nil
}

// Kind reports KindActivation.
func (t *Tanh) Kind() Kind {
	return KindActivation
}

// String returns a string representation of the layer.
func (t *Tanh) String() string {
	return "Tanh()"
}
