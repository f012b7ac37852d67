package nn

import (
	"fmt"

	"github.com/mimic-ml/mimic/internal/tensor"
)

// Dropout is an element-wise regularization layer.
//
// Mimic only ever evaluates networks, so Dropout is the identity here;
// it exists to keep classifier architectures structurally faithful to
// their training-time definitions, which matters for layer indexing
// when splicing at a partition index.
type Dropout struct {
	stateless
	p float64
}

// NewDropout creates a new Dropout module with drop probability p.
func NewDropout(p float64) *Dropout {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("dropout: invalid probability %v", p))
	}
	return &Dropout{p: p}
}

// Forward returns the input unchanged (evaluation mode).
func (d *Dropout) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	return input, nil
}

// Kind reports KindElementwise.
func (d *Dropout) Kind() Kind {
	return KindElementwise
}

// String returns a string representation of the layer.
func (d *Dropout) String() string {
	return fmt.Sprintf("Dropout(p=%v)", d.p)
}
