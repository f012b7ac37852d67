// Package config loads the YAML experiment configurations that drive
// model construction and analysis.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is a full experiment configuration.
//
// Only the fields the model loader consumes are modeled; unknown YAML
// keys are ignored so configs can carry training-side settings this
// toolkit does not interpret.
type Config struct {
	Dataset      DatasetConfig      `yaml:"dataset"`
	Model        ModelConfig        `yaml:"model"`
	InputShape   []int              `yaml:"input_shape"`
	TeacherModel *TeacherConfig     `yaml:"teacher_model"`
	StudentModel *StudentConfig     `yaml:"student_model"`
	Autoencoder  *AutoencoderConfig `yaml:"autoencoder"`
	OrgModel     *OrgModelConfig    `yaml:"org_model"`
	Train        *TrainConfig       `yaml:"train"`
}

// DatasetConfig names the dataset an experiment targets.
type DatasetConfig struct {
	Name string `yaml:"name"`
}

// ModelConfig selects a network architecture.
type ModelConfig struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
	Ckpt   string         `yaml:"ckpt"`
}

// TeacherConfig selects the reference network of a teacher/student pair.
type TeacherConfig struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
	Ckpt   string         `yaml:"ckpt"`
}

// StudentConfig selects the student architecture version. Versions
// ending in "b" declare an intended bandwidth bottleneck.
type StudentConfig struct {
	Version string `yaml:"version"`
}

// AutoencoderConfig selects and parameterizes the autoencoder stage.
type AutoencoderConfig struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
	Ckpt   string         `yaml:"ckpt"`
}

// OrgModelConfig points at the host network an autoencoder is spliced
// into and the layer index of the splice.
type OrgModelConfig struct {
	Config       string `yaml:"config"`
	PartitionIdx *int   `yaml:"partition_idx"`
}

// TrainConfig carries the training-side fields the analyzer needs to
// echo back in summaries. Training itself is out of scope.
type TrainConfig struct {
	BatchSize int             `yaml:"batch_size"`
	Criterion CriterionConfig `yaml:"criterion"`
}

// CriterionConfig names a loss function.
type CriterionConfig struct {
	Type   string         `yaml:"type"`
	Params map[string]any `yaml:"params"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks structural invariants the loader relies on.
func (c *Config) Validate() error {
	if len(c.InputShape) != 0 && len(c.InputShape) != 3 {
		return fmt.Errorf("input_shape must be a 3-tuple (channels, height, width), got %v", c.InputShape)
	}
	for i, dim := range c.InputShape {
		if dim <= 0 {
			return fmt.Errorf("input_shape[%d] must be positive, got %d", i, dim)
		}
	}
	if c.StudentModel != nil && c.StudentModel.Version == "" {
		return fmt.Errorf("student_model.version must not be empty")
	}
	return nil
}
