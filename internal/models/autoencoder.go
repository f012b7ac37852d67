package models

import (
	"fmt"
	"strings"

	"github.com/mimic-ml/mimic/internal/config"
	"github.com/mimic-ml/mimic/internal/nn"
	"github.com/mimic-ml/mimic/internal/tensor"
)

// AEType is the closed set of autoencoder stages.
type AEType int

// Supported autoencoder stages.
const (
	// AEInput compresses the host network's input tensor: a strided
	// convolutional encoder into a narrow channel bottleneck, then a
	// nearest-neighbor upsample decoder that restores the input shape.
	AEInput AEType = iota
)

// String returns the canonical autoencoder type name.
func (t AEType) String() string {
	if t == AEInput {
		return "input"
	}
	return "unknown"
}

// ParseAEType resolves an autoencoder type tag from a configuration.
func ParseAEType(s string) (AEType, error) {
	if strings.ToLower(s) == "input" {
		return AEInput, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAutoencoderType, s)
}

// NewInputAutoencoder builds the input-compressing autoencoder.
//
// The encoder halves the spatial dimensions with a strided convolution
// into bottleneckChannels; the decoder upsamples back and restores the
// channel count, so the output shape equals the input shape and the
// stage can be spliced in front of any host network.
func NewInputAutoencoder(inChannels, bottleneckChannels int, backend tensor.Backend) *nn.Sequential {
	if bottleneckChannels <= 0 {
		bottleneckChannels = 12
	}
	return nn.NewSequential(
		// encoder
		nn.NewConv2D(inChannels, bottleneckChannels, 3, 3, 2, 1, true, backend),
		nn.NewReLU(backend),
		// decoder
		nn.NewUpsample2D(2, backend),
		nn.NewConv2D(bottleneckChannels, inChannels, 3, 3, 1, 1, true, backend),
		nn.NewSigmoid(backend),
	)
}

// NewAutoencoder constructs the autoencoder stage a configuration
// describes. Returns the stage and its type tag for checkpointing.
func NewAutoencoder(cfg *config.AutoencoderConfig, inChannels int, backend tensor.Backend) (*nn.Sequential, string, error) {
	aeType, err := ParseAEType(cfg.Type)
	if err != nil {
		return nil, "", err
	}
	switch aeType {
	case AEInput:
		bottleneck := intParam(cfg.Params, "bottleneck_channels", 12)
		return NewInputAutoencoder(inChannels, bottleneck, backend), aeType.String(), nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownAutoencoderType, cfg.Type)
	}
}
