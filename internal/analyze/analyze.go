// Package analyze computes operation counts, parameter counts, and
// inter-layer tensor bandwidth for a decomposed network.
//
// Operation counts are derived analytically from layer kind and
// geometry, never measured at runtime: the formula table below is the
// single source of truth for what a layer costs. Bandwidth is the byte
// size of the tensor crossing each layer boundary, with position 0
// holding the input tensor itself so that downstream ratio
// computations have a normalization baseline.
package analyze

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/mimic-ml/mimic/internal/extract"
	"github.com/mimic-ml/mimic/internal/nn"
	"github.com/mimic-ml/mimic/internal/tensor"
)

// Options configure a measurement pass.
type Options struct {
	// Scaled switches bandwidth accounting from the native float32
	// width to BitsPerElement bits per element, modeling a quantized
	// or compressed wire format.
	Scaled bool

	// BitsPerElement is the element width used when Scaled is set.
	// Zero defaults to 8 (one byte per element).
	BitsPerElement int
}

func (o Options) bytesPerElement() float64 {
	if !o.Scaled {
		return tensor.ElemSize
	}
	bits := o.BitsPerElement
	if bits == 0 {
		bits = 8
	}
	return float64(bits) / 8
}

// Record is the measurement for one position in the sequence.
//
// Position 0 describes the network input (zero operations, input
// bandwidth); position i >= 1 describes layer i-1 of the sequence.
// Records are produced once per analysis pass and never mutated.
type Record struct {
	Index     int
	Ops       float64
	Params    int
	Bandwidth float64
	AccumOps  float64
}

// Result holds the full measurement of one decomposed network.
//
// The parallel slices all have length len(sequence)+1 and share the
// Record indexing: entry 0 is the input position.
type Result struct {
	Records    []Record
	OpCounts   []float64
	Bandwidths []float64
	AccumOps   []float64
}

// TotalOps returns the accumulated operation count of the whole network.
func (r *Result) TotalOps() float64 {
	return r.AccumOps[len(r.AccumOps)-1]
}

// TotalParams returns the total parameter count of the whole network.
func (r *Result) TotalParams() int {
	total := 0
	for _, rec := range r.Records {
		total += rec.Params
	}
	return total
}

// Measure analyzes a decomposed sequence.
//
// Each call is a pure function of the sequence and options: running it
// twice yields identical results, and no state is shared across
// analyses.
func Measure(seq *extract.Sequence, opts Options) (*Result, error) {
	n := seq.Len()
	if len(seq.Shapes) != n+1 {
		return nil, fmt.Errorf("analyze: sequence has %d layers but %d shapes", n, len(seq.Shapes))
	}

	opCounts := make([]float64, n+1)
	bandwidths := make([]float64, n+1)
	params := make([]int, n+1)

	bandwidths[0] = float64(seq.Shapes[0].NumElements()) * opts.bytesPerElement()
	for i, layer := range seq.Layers {
		ops, err := layerOps(layer, seq.Shapes[i])
		if err != nil {
			return nil, err
		}
		opCounts[i+1] = ops
		params[i+1] = nn.ParamCount(layer)
		bandwidths[i+1] = float64(seq.Shapes[i+1].NumElements()) * opts.bytesPerElement()
	}

	accum := make([]float64, n+1)
	floats.CumSum(accum, opCounts)

	records := make([]Record, n+1)
	for i := range records {
		records[i] = Record{
			Index:     i,
			Ops:       opCounts[i],
			Params:    params[i],
			Bandwidth: bandwidths[i],
			AccumOps:  accum[i],
		}
	}

	return &Result{
		Records:    records,
		OpCounts:   opCounts,
		Bandwidths: bandwidths,
		AccumOps:   accum,
	}, nil
}

// layerOps returns the multiply-accumulate count of a layer given its
// input shape (no batch dimension).
//
// Formulas by kind:
//
//	conv:   out_h * out_w * out_channels * kernel_h * kernel_w * in_channels
//	linear: in_features * out_features
//
// Containers cost the sum of their children. Every other kind, and any
// kind without a formula, costs zero operations; its bandwidth is still
// recorded, so unfamiliar layers degrade gracefully instead of failing
// the analysis.
func layerOps(layer nn.Module, in tensor.Shape) (float64, error) {
	switch layer.Kind() {
	case nn.KindConv:
		conv, ok := layer.(*nn.Conv2D)
		if !ok || len(in) != 3 {
			return 0, nil
		}
		out := conv.ComputeOutputSize(in[1], in[2])
		kernel := conv.KernelSize()
		return float64(out[0]) * float64(out[1]) * float64(conv.OutChannels()) *
			float64(kernel[0]) * float64(kernel[1]) * float64(conv.InChannels()), nil
	case nn.KindLinear:
		linear, ok := layer.(*nn.Linear)
		if !ok {
			return 0, nil
		}
		return float64(linear.InFeatures()) * float64(linear.OutFeatures()), nil
	case nn.KindContainer:
		seq, ok := layer.(*nn.Sequential)
		if !ok {
			return 0, nil
		}
		return containerOps(seq, in)
	default:
		return 0, nil
	}
}

// containerOps walks an opaque submodule with its own dry pass: child
// input shapes are only known by evaluating the children in order.
func containerOps(s *nn.Sequential, in tensor.Shape) (float64, error) {
	rng := rand.New(rand.NewSource(1)) //nolint:gosec // shape probing, not sampling
	x, err := tensor.Rand(append(tensor.Shape{1}, in...), rng)
	if err != nil {
		return 0, fmt.Errorf("analyze: %w", err)
	}

	total := 0.0
	for i, child := range s.Modules() {
		ops, err := layerOps(child, x.Shape()[1:])
		if err != nil {
			return 0, err
		}
		total += ops

		childIn := x.Shape()[1:].Clone()
		x, err = child.Forward(x)
		if err != nil {
			return 0, &extract.ShapeInferenceError{
				LayerIndex: i,
				InputShape: childIn,
				Err:        err,
			}
		}
	}
	return total, nil
}
