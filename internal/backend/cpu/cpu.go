package cpu

import (
	"fmt"
	"math"

	"github.com/mimic-ml/mimic/internal/parallel"
	"github.com/mimic-ml/mimic/internal/tensor"
)

// Backend is the pure-Go CPU compute backend. Convolution and pooling
// kernels spread their batch*channel grids across worker goroutines.
type Backend struct {
	workers parallel.Config
}

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
func New() *Backend {
	return &Backend{workers: parallel.DefaultConfig()}
}

// Name returns the backend identifier.
func (b *Backend) Name() string {
	return "cpu"
}

// Conv2D performs 2D convolution.
//
// Input shape:  [N, C_in, H, W]
// Kernel shape: [C_out, C_in, K_h, K_w]
// Bias shape:   [C_out] (may be nil)
// Output shape: [N, C_out, H_out, W_out]
//
// Where:
//
//	H_out = (H + 2*padding - K_h) / stride + 1
//	W_out = (W + 2*padding - K_w) / stride + 1
func (b *Backend) Conv2D(input, kernel, bias *tensor.Tensor, stride, padding int) (*tensor.Tensor, error) {
	inShape := input.Shape()
	kShape := kernel.Shape()
	if len(inShape) != 4 {
		return nil, fmt.Errorf("conv2d: input must be 4D [N,C,H,W], got %dD", len(inShape))
	}
	if len(kShape) != 4 {
		return nil, fmt.Errorf("conv2d: kernel must be 4D [C_out,C_in,K_h,K_w], got %dD", len(kShape))
	}

	n, cIn, h, w := inShape[0], inShape[1], inShape[2], inShape[3]
	cOut, cInK, kh, kw := kShape[0], kShape[1], kShape[2], kShape[3]
	if cIn != cInK {
		return nil, fmt.Errorf("conv2d: input channels %d != kernel channels %d", cIn, cInK)
	}

	hOut := (h+2*padding-kh)/stride + 1
	wOut := (w+2*padding-kw)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		return nil, fmt.Errorf("conv2d: invalid output dimensions h=%d, w=%d for input %v (check stride/padding)",
			hOut, wOut, inShape)
	}

	output, err := tensor.New(tensor.Shape{n, cOut, hOut, wOut})
	if err != nil {
		return nil, err
	}

	in := input.Data()
	kd := kernel.Data()
	out := output.Data()
	var bd []float32
	if bias != nil {
		if !bias.Shape().Equal(tensor.Shape{cOut}) {
			return nil, fmt.Errorf("conv2d: bias shape %v != [%d]", bias.Shape(), cOut)
		}
		bd = bias.Data()
	}

	// Each (batch, output channel) pair writes a disjoint output plane.
	parallel.ForGrid(n, cOut, func(bn, oc int) {
		for oy := 0; oy < hOut; oy++ {
			for ox := 0; ox < wOut; ox++ {
				var sum float32
				if bd != nil {
					sum = bd[oc]
				}
				for ic := 0; ic < cIn; ic++ {
					for ky := 0; ky < kh; ky++ {
						iy := oy*stride + ky - padding
						if iy < 0 || iy >= h {
							continue
						}
						for kx := 0; kx < kw; kx++ {
							ix := ox*stride + kx - padding
							if ix < 0 || ix >= w {
								continue
							}
							sum += in[((bn*cIn+ic)*h+iy)*w+ix] *
								kd[((oc*cIn+ic)*kh+ky)*kw+kx]
						}
					}
				}
				out[((bn*cOut+oc)*hOut+oy)*wOut+ox] = sum
			}
		}
	}, b.workers)
	return output, nil
}

// MaxPool2D performs 2D max pooling over non-padded windows.
//
// Input shape:  [N, C, H, W]
// Output shape: [N, C, (H-kernelSize)/stride+1, (W-kernelSize)/stride+1]
func (b *Backend) MaxPool2D(input *tensor.Tensor, kernelSize, stride int) (*tensor.Tensor, error) {
	return b.pool2d(input, kernelSize, stride, true)
}

// AvgPool2D performs 2D average pooling over non-padded windows.
func (b *Backend) AvgPool2D(input *tensor.Tensor, kernelSize, stride int) (*tensor.Tensor, error) {
	return b.pool2d(input, kernelSize, stride, false)
}

func (b *Backend) pool2d(input *tensor.Tensor, kernelSize, stride int, maxPool bool) (*tensor.Tensor, error) {
	inShape := input.Shape()
	if len(inShape) != 4 {
		return nil, fmt.Errorf("pool2d: expected 4D input [N,C,H,W], got %dD", len(inShape))
	}
	if kernelSize <= 0 || stride <= 0 {
		return nil, fmt.Errorf("pool2d: invalid kernel=%d stride=%d", kernelSize, stride)
	}

	n, c, h, w := inShape[0], inShape[1], inShape[2], inShape[3]
	hOut := (h-kernelSize)/stride + 1
	wOut := (w-kernelSize)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		return nil, fmt.Errorf("pool2d: invalid output dimensions h=%d, w=%d for input %v", hOut, wOut, inShape)
	}

	output, err := tensor.New(tensor.Shape{n, c, hOut, wOut})
	if err != nil {
		return nil, err
	}

	in := input.Data()
	out := output.Data()
	windowArea := float32(kernelSize * kernelSize)

	parallel.ForGrid(n, c, func(bn, ch int) {
		for oy := 0; oy < hOut; oy++ {
			for ox := 0; ox < wOut; ox++ {
				var acc float32
				if maxPool {
					acc = float32(math.Inf(-1))
				}
				for ky := 0; ky < kernelSize; ky++ {
					for kx := 0; kx < kernelSize; kx++ {
						v := in[((bn*c+ch)*h+oy*stride+ky)*w+ox*stride+kx]
						if maxPool {
							if v > acc {
								acc = v
							}
						} else {
							acc += v
						}
					}
				}
				if !maxPool {
					acc /= windowArea
				}
				out[((bn*c+ch)*hOut+oy)*wOut+ox] = acc
			}
		}
	}, b.workers)
	return output, nil
}

// Linear computes input @ weight.T + bias.
//
// Input shape:  [N, F_in]
// Weight shape: [F_out, F_in]
// Bias shape:   [F_out] (may be nil)
// Output shape: [N, F_out]
func (b *Backend) Linear(input, weight, bias *tensor.Tensor) (*tensor.Tensor, error) {
	inShape := input.Shape()
	wShape := weight.Shape()
	if len(inShape) != 2 {
		return nil, fmt.Errorf("linear: expected 2D input [N,F], got shape %v", inShape)
	}
	if len(wShape) != 2 {
		return nil, fmt.Errorf("linear: expected 2D weight [F_out,F_in], got shape %v", wShape)
	}
	n, fIn := inShape[0], inShape[1]
	fOut, fInW := wShape[0], wShape[1]
	if fIn != fInW {
		return nil, fmt.Errorf("linear: input features %d != weight features %d", fIn, fInW)
	}

	output, err := tensor.New(tensor.Shape{n, fOut})
	if err != nil {
		return nil, err
	}

	in := input.Data()
	wd := weight.Data()
	out := output.Data()
	var bd []float32
	if bias != nil {
		if !bias.Shape().Equal(tensor.Shape{fOut}) {
			return nil, fmt.Errorf("linear: bias shape %v != [%d]", bias.Shape(), fOut)
		}
		bd = bias.Data()
	}

	parallel.ForGrid(n, fOut, func(bn, of int) {
		var sum float32
		if bd != nil {
			sum = bd[of]
		}
		for f := 0; f < fIn; f++ {
			sum += in[bn*fIn+f] * wd[of*fIn+f]
		}
		out[bn*fOut+of] = sum
	}, b.workers)
	return output, nil
}

// Upsample2D scales spatial dimensions by an integer factor using
// nearest-neighbor interpolation.
//
// Input shape:  [N, C, H, W]
// Output shape: [N, C, H*scale, W*scale]
func (b *Backend) Upsample2D(input *tensor.Tensor, scale int) (*tensor.Tensor, error) {
	inShape := input.Shape()
	if len(inShape) != 4 {
		return nil, fmt.Errorf("upsample2d: expected 4D input [N,C,H,W], got %dD", len(inShape))
	}
	if scale <= 0 {
		return nil, fmt.Errorf("upsample2d: invalid scale %d", scale)
	}

	n, c, h, w := inShape[0], inShape[1], inShape[2], inShape[3]
	hOut, wOut := h*scale, w*scale
	output, err := tensor.New(tensor.Shape{n, c, hOut, wOut})
	if err != nil {
		return nil, err
	}

	in := input.Data()
	out := output.Data()
	for bn := 0; bn < n; bn++ {
		for ch := 0; ch < c; ch++ {
			for oy := 0; oy < hOut; oy++ {
				for ox := 0; ox < wOut; ox++ {
					out[((bn*c+ch)*hOut+oy)*wOut+ox] = in[((bn*c+ch)*h+oy/scale)*w+ox/scale]
				}
			}
		}
	}
	return output, nil
}

// ReLU applies f(x) = max(0, x) element-wise.
func (b *Backend) ReLU(x *tensor.Tensor) *tensor.Tensor {
	return b.mapElems(x, func(v float32) float32 {
		if v < 0 {
			return 0
		}
		return v
	})
}

// Sigmoid applies f(x) = 1 / (1 + exp(-x)) element-wise.
func (b *Backend) Sigmoid(x *tensor.Tensor) *tensor.Tensor {
	return b.mapElems(x, func(v float32) float32 {
		return float32(1.0 / (1.0 + math.Exp(-float64(v))))
	})
}

// Tanh applies the hyperbolic tangent element-wise.
func (b *Backend) Tanh(x *tensor.Tensor) *tensor.Tensor {
	return b.mapElems(x, func(v float32) float32 {
		return float32(math.Tanh(float64(v)))
	})
}

func (b *Backend) mapElems(x *tensor.Tensor, f func(float32) float32) *tensor.Tensor {
	out := tensor.Zeros(x.Shape())
	in := x.Data()
	od := out.Data()
	for i, v := range in {
		od[i] = f(v)
	}
	return out
}
