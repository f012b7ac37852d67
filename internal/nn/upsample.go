package nn

import (
	"fmt"

	"github.com/mimic-ml/mimic/internal/tensor"
)

// Upsample2D scales spatial dimensions by an integer factor using
// nearest-neighbor interpolation. Autoencoder decoders use it to undo
// the spatial reduction of strided encoder convolutions.
//
// Input shape:  [batch, channels, height, width]
// Output shape: [batch, channels, height*scale, width*scale]
type Upsample2D struct {
	stateless
	scale   int
	backend tensor.Backend
}

// NewUpsample2D creates a new nearest-neighbor upsampling module.
func NewUpsample2D(scale int, backend tensor.Backend) *Upsample2D {
	if scale <= 0 {
		panic(fmt.Sprintf("upsample2d: invalid scale %d", scale))
	}
	return &Upsample2D{scale: scale, backend: backend}
}

// Forward performs the forward pass.
func (u *Upsample2D) Forward(input *tensor.Tensor) (*tensor.Tensor, error) {
	return u.backend.Upsample2D(input, u.scale)
}

// Kind reports KindUpsample.
func (u *Upsample2D) Kind() Kind {
	return KindUpsample
}

// Scale returns the upsampling factor.
func (u *Upsample2D) Scale() int {
	return u.scale
}

// String returns a string representation of the layer.
func (u *Upsample2D) String() string {
	return fmt.Sprintf("Upsample2D(scale=%d)", u.scale)
}
