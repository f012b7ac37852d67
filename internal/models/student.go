package models

import (
	"fmt"
	"strings"

	"github.com/mimic-ml/mimic/internal/nn"
	"github.com/mimic-ml/mimic/internal/tensor"
)

// HasBottleneck reports whether a student version declares an intended
// bandwidth bottleneck. The convention is a "b" suffix on the version
// tag; the comparator only trusts a detected bandwidth minimum when
// the architecture declared one.
func HasBottleneck(version string) bool {
	return strings.HasSuffix(version, "b")
}

// NewStudent builds the student architecture for a teacher type and
// version tag.
//
// Students mimic the teacher's head: they reproduce the teacher's
// intermediate representation with fewer operations. Bottleneck
// versions squeeze the representation through a narrow channel count
// partway through, which is the compression point the bandwidth
// analysis is designed to find.
func NewStudent(teacherType ModelType, version string, backend tensor.Backend) (*nn.Sequential, error) {
	switch teacherType {
	case AlexNet:
		return newAlexNetStudent(version, backend)
	case MiniVGG:
		return newMiniVGGStudent(version, backend)
	default:
		return nil, fmt.Errorf("%w: no student architectures for teacher %s", ErrUnknownModelType, teacherType)
	}
}

func newAlexNetStudent(version string, backend tensor.Backend) (*nn.Sequential, error) {
	switch version {
	case "1":
		return nn.NewSequential(
			nn.NewConv2D(3, 64, 11, 11, 4, 2, true, backend),
			nn.NewReLU(backend),
			nn.NewMaxPool2D(3, 2, backend),
			nn.NewConv2D(64, 192, 5, 5, 1, 2, true, backend),
			nn.NewReLU(backend),
		), nil
	case "1b":
		return nn.NewSequential(
			nn.NewConv2D(3, 64, 11, 11, 4, 2, true, backend),
			nn.NewReLU(backend),
			nn.NewMaxPool2D(3, 2, backend),
			nn.NewConv2D(64, 12, 3, 3, 1, 1, true, backend), // bottleneck
			nn.NewReLU(backend),
			nn.NewConv2D(12, 192, 3, 3, 1, 1, true, backend),
			nn.NewReLU(backend),
		), nil
	case "2":
		return nn.NewSequential(
			nn.NewConv2D(3, 48, 7, 7, 2, 2, true, backend),
			nn.NewReLU(backend),
			nn.NewMaxPool2D(3, 2, backend),
			nn.NewConv2D(48, 128, 5, 5, 1, 2, true, backend),
			nn.NewReLU(backend),
			nn.NewMaxPool2D(3, 2, backend),
			nn.NewConv2D(128, 192, 3, 3, 1, 1, true, backend),
			nn.NewReLU(backend),
		), nil
	case "2b":
		return nn.NewSequential(
			nn.NewConv2D(3, 48, 7, 7, 2, 2, true, backend),
			nn.NewReLU(backend),
			nn.NewMaxPool2D(3, 2, backend),
			nn.NewConv2D(48, 8, 3, 3, 2, 1, true, backend), // bottleneck
			nn.NewReLU(backend),
			nn.NewUpsample2D(2, backend),
			nn.NewConv2D(8, 192, 3, 3, 1, 1, true, backend),
			nn.NewReLU(backend),
		), nil
	default:
		return nil, fmt.Errorf("%w: %q for teacher alexnet", ErrUnknownStudentVersion, version)
	}
}

func newMiniVGGStudent(version string, backend tensor.Backend) (*nn.Sequential, error) {
	switch version {
	case "1":
		return nn.NewSequential(
			nn.NewConv2D(3, 32, 5, 5, 1, 2, true, backend),
			nn.NewReLU(backend),
			nn.NewMaxPool2D(2, 2, backend),
			nn.NewConv2D(32, 64, 3, 3, 1, 1, true, backend),
			nn.NewReLU(backend),
		), nil
	case "1b":
		return nn.NewSequential(
			nn.NewConv2D(3, 32, 5, 5, 1, 2, true, backend),
			nn.NewReLU(backend),
			nn.NewMaxPool2D(2, 2, backend),
			nn.NewConv2D(32, 4, 3, 3, 1, 1, true, backend), // bottleneck
			nn.NewReLU(backend),
			nn.NewConv2D(4, 64, 3, 3, 1, 1, true, backend),
			nn.NewReLU(backend),
		), nil
	default:
		return nil, fmt.Errorf("%w: %q for teacher minivgg", ErrUnknownStudentVersion, version)
	}
}
