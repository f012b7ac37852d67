package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimic-ml/mimic/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
dataset:
  name: cifar10
model:
  type: minivgg
  params:
    num_classes: 10
  ckpt: ckpt/minivgg.cbor
input_shape: [3, 32, 32]
train:
  batch_size: 128
  criterion:
    type: cross_entropy
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "cifar10", cfg.Dataset.Name)
	assert.Equal(t, "minivgg", cfg.Model.Type)
	assert.Equal(t, "ckpt/minivgg.cbor", cfg.Model.Ckpt)
	assert.Equal(t, []int{3, 32, 32}, cfg.InputShape)
	require.NotNil(t, cfg.Train)
	assert.Equal(t, 128, cfg.Train.BatchSize)
	assert.Equal(t, "cross_entropy", cfg.Train.Criterion.Type)
	assert.Nil(t, cfg.Autoencoder)
	assert.Nil(t, cfg.OrgModel)
}

func TestLoadTeacherStudent(t *testing.T) {
	path := writeConfig(t, `
teacher_model:
  type: alexnet
  ckpt: ckpt/alexnet.cbor
student_model:
  version: 1b
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.TeacherModel)
	require.NotNil(t, cfg.StudentModel)
	assert.Equal(t, "alexnet", cfg.TeacherModel.Type)
	assert.Equal(t, "1b", cfg.StudentModel.Version)
}

func TestLoadExtendedModel(t *testing.T) {
	path := writeConfig(t, `
autoencoder:
  type: input
  params:
    bottleneck_channels: 8
org_model:
  config: configs/minivgg.yaml
  partition_idx: 3
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Autoencoder)
	require.NotNil(t, cfg.OrgModel)
	assert.Equal(t, "configs/minivgg.yaml", cfg.OrgModel.Config)
	require.NotNil(t, cfg.OrgModel.PartitionIdx)
	assert.Equal(t, 3, *cfg.OrgModel.PartitionIdx)
}

func TestLoadAbsentPartitionIdx(t *testing.T) {
	path := writeConfig(t, `
org_model:
  config: configs/minivgg.yaml
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.OrgModel)
	assert.Nil(t, cfg.OrgModel.PartitionIdx, "absent index is distinct from index 0")
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
model:
  type: lenet5
optimizer:
  type: adam
  lr: 0.001
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "lenet5", cfg.Model.Type)
}

func TestLoadRejectsBadInputShape(t *testing.T) {
	for _, shape := range []string{"[3, 32]", "[3, 32, 32, 32]", "[3, 0, 32]"} {
		path := writeConfig(t, "input_shape: "+shape+"\n")
		_, err := config.Load(path)
		assert.Error(t, err, "shape %s", shape)
	}
}

func TestLoadRejectsEmptyStudentVersion(t *testing.T) {
	path := writeConfig(t, `
student_model:
  version: ""
`)
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
