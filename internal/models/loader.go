package models

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mimic-ml/mimic/internal/config"
	"github.com/mimic-ml/mimic/internal/nn"
	"github.com/mimic-ml/mimic/internal/tensor"
)

// Loader resolves model type tags and experiment configurations to
// constructed networks.
//
// Missing checkpoints are non-fatal: the loader logs a warning and
// keeps the fresh initialization, since an unfitted component still
// has the geometry the analysis needs. Unknown type tags are fatal
// configuration errors.
type Loader struct {
	backend tensor.Backend
}

// NewLoader creates a model loader on the given compute backend.
func NewLoader(backend tensor.Backend) *Loader {
	return &Loader{backend: backend}
}

// FromType builds a reference network from its type tag, returning the
// network, its type label, and its designed input shape.
func (l *Loader) FromType(name string) (nn.Module, string, tensor.Shape, error) {
	modelType, err := ParseModelType(name)
	if err != nil {
		return nil, "", nil, err
	}
	model, err := New(modelType, 0, l.backend)
	if err != nil {
		return nil, "", nil, err
	}
	return model, modelType.String(), modelType.InputShape(), nil
}

// FromConfig resolves a configuration to a constructed network.
//
// Configurations with an autoencoder and an org_model section resolve
// to the extended (spliced) network; everything else resolves to the
// plain model the config names. The returned shape is the config's
// input_shape when present, else the architecture default.
func (l *Loader) FromConfig(cfg *config.Config) (nn.Module, string, tensor.Shape, error) {
	if cfg.Autoencoder != nil && cfg.OrgModel != nil {
		return l.extendedFromConfig(cfg)
	}

	modelType, err := ParseModelType(cfg.Model.Type)
	if err != nil {
		return nil, "", nil, err
	}
	model, err := New(modelType, intParam(cfg.Model.Params, "num_classes", 0), l.backend)
	if err != nil {
		return nil, "", nil, err
	}
	if err := l.Restore(cfg.Model.Ckpt, modelType.String(), model); err != nil {
		return nil, "", nil, err
	}
	return model, modelType.String(), l.inputShape(cfg, modelType), nil
}

// extendedFromConfig builds the host network named by org_model.config,
// splices the configured autoencoder at org_model.partition_idx, and
// returns the extended network.
func (l *Loader) extendedFromConfig(cfg *config.Config) (nn.Module, string, tensor.Shape, error) {
	orgCfg, err := config.Load(cfg.OrgModel.Config)
	if err != nil {
		return nil, "", nil, err
	}

	host, hostType, inputShape, err := l.FromConfig(orgCfg)
	if err != nil {
		return nil, "", nil, err
	}
	if len(cfg.InputShape) == 3 {
		inputShape = tensor.Shape(cfg.InputShape).Clone()
	}

	autoencoder, aeType, err := NewAutoencoder(cfg.Autoencoder, inputShape[0], l.backend)
	if err != nil {
		return nil, "", nil, err
	}
	if err := l.Restore(cfg.Autoencoder.Ckpt, "autoencoder "+aeType, autoencoder); err != nil {
		return nil, "", nil, err
	}

	extended, err := ExtendModel(autoencoder, host, inputShape, cfg.OrgModel.PartitionIdx)
	if err != nil {
		return nil, "", nil, err
	}
	return extended, fmt.Sprintf("%s+%s_ae", hostType, aeType), inputShape, nil
}

// TeacherStudent builds the teacher and student networks of a mimic
// configuration. The teacher's fitted parameters are restored when a
// checkpoint path is configured.
func (l *Loader) TeacherStudent(cfg *config.Config) (teacher, student nn.Module, teacherType, version string, err error) {
	if cfg.TeacherModel == nil || cfg.StudentModel == nil {
		return nil, nil, "", "", fmt.Errorf("config is missing teacher_model or student_model")
	}

	modelType, err := ParseModelType(cfg.TeacherModel.Type)
	if err != nil {
		return nil, nil, "", "", err
	}
	teacherNet, err := New(modelType, intParam(cfg.TeacherModel.Params, "num_classes", 0), l.backend)
	if err != nil {
		return nil, nil, "", "", err
	}
	if err := l.Restore(cfg.TeacherModel.Ckpt, "teacher "+modelType.String(), teacherNet); err != nil {
		return nil, nil, "", "", err
	}

	studentNet, err := NewStudent(modelType, cfg.StudentModel.Version, l.backend)
	if err != nil {
		return nil, nil, "", "", err
	}
	return teacherNet, studentNet, modelType.String(), cfg.StudentModel.Version, nil
}

// Restore loads a checkpoint into a module when a path is configured.
// A missing checkpoint downgrades to a warning; corrupt or mismatched
// checkpoints fail the load.
func (l *Loader) Restore(path, label string, m nn.Module) error {
	if path == "" {
		return nil
	}
	_, _, err := nn.Resume(path, m)
	if err != nil {
		if errors.Is(err, nn.ErrMissingCheckpoint) {
			log.Warn().Str("path", path).Msgf("%s checkpoint was not found, using fresh initialization", label)
			return nil
		}
		return err
	}
	log.Info().Str("path", path).Msgf("restored %s from checkpoint", label)
	return nil
}

func (l *Loader) inputShape(cfg *config.Config, modelType ModelType) tensor.Shape {
	if len(cfg.InputShape) == 3 {
		return tensor.Shape(cfg.InputShape).Clone()
	}
	return modelType.InputShape()
}
