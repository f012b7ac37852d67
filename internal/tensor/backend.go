package tensor

// Backend defines the compute operations the analysis dry pass needs.
// Backends handle the actual math for layer forward passes.
//
// The backend is always passed in explicitly; there is no process-wide
// device or tuning state. A layer built against one backend runs all
// of its forward evaluations on that backend.
type Backend interface {
	// Conv2D convolves input [N, C_in, H, W] with kernel
	// [C_out, C_in, K_h, K_w] and adds bias [C_out] when non-nil.
	Conv2D(input, kernel, bias *Tensor, stride, padding int) (*Tensor, error)

	// MaxPool2D reduces spatial dimensions by taking window maxima.
	MaxPool2D(input *Tensor, kernelSize, stride int) (*Tensor, error)

	// AvgPool2D reduces spatial dimensions by taking window means.
	AvgPool2D(input *Tensor, kernelSize, stride int) (*Tensor, error)

	// Linear computes input [N, F_in] @ weight.T [F_in, F_out] + bias.
	Linear(input, weight, bias *Tensor) (*Tensor, error)

	// Upsample2D scales spatial dimensions by an integer factor using
	// nearest-neighbor interpolation.
	Upsample2D(input *Tensor, scale int) (*Tensor, error)

	// Element-wise activations.
	ReLU(x *Tensor) *Tensor
	Sigmoid(x *Tensor) *Tensor
	Tanh(x *Tensor) *Tensor

	// Name identifies the backend in logs and summaries.
	Name() string
}
