package models_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mimic-ml/mimic/internal/backend/cpu"
	"github.com/mimic-ml/mimic/internal/config"
	"github.com/mimic-ml/mimic/internal/models"
	"github.com/mimic-ml/mimic/internal/nn"
	"github.com/mimic-ml/mimic/internal/tensor"
)

func TestLoaderFromType(t *testing.T) {
	loader := models.NewLoader(cpu.New())

	model, label, shape, err := loader.FromType("lenet5")
	require.NoError(t, err)
	assert.NotNil(t, model)
	assert.Equal(t, "lenet5", label)
	assert.Equal(t, tensor.Shape{1, 28, 28}, shape)

	_, _, _, err = loader.FromType("resnet")
	assert.ErrorIs(t, err, models.ErrUnknownModelType)
}

func TestLoaderFromConfig(t *testing.T) {
	loader := models.NewLoader(cpu.New())
	cfg := &config.Config{
		Model:      config.ModelConfig{Type: "minivgg", Params: map[string]any{"num_classes": 10}},
		InputShape: []int{3, 32, 32},
	}

	model, label, shape, err := loader.FromConfig(cfg)
	require.NoError(t, err)
	assert.NotNil(t, model)
	assert.Equal(t, "minivgg", label)
	assert.Equal(t, tensor.Shape{3, 32, 32}, shape)
}

func TestLoaderMissingCheckpointIsNonFatal(t *testing.T) {
	loader := models.NewLoader(cpu.New())
	cfg := &config.Config{
		Model: config.ModelConfig{
			Type: "lenet5",
			Ckpt: filepath.Join(t.TempDir(), "absent.cbor"),
		},
	}

	model, _, _, err := loader.FromConfig(cfg)
	require.NoError(t, err, "a missing checkpoint downgrades to a warning")
	assert.NotNil(t, model)
}

func TestLoaderRestoresCheckpoint(t *testing.T) {
	backend := cpu.New()
	original, err := models.New(models.LeNet5, 10, backend)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "lenet5.cbor")
	require.NoError(t, nn.SaveCheckpoint(path, "lenet5", original, 4, 0.25))

	loader := models.NewLoader(backend)
	restored, _, _, err := loader.FromConfig(&config.Config{
		Model: config.ModelConfig{Type: "lenet5", Ckpt: path},
	})
	require.NoError(t, err)

	want := original.StateDict()
	got := restored.StateDict()
	require.Len(t, got, len(want))
	for name, param := range want {
		require.Contains(t, got, name)
		assert.Equal(t, param.Data(), got[name].Data(), "parameter %s", name)
	}
}

func TestLoaderRestore(t *testing.T) {
	backend := cpu.New()
	loader := models.NewLoader(backend)

	fitted, err := models.New(models.LeNet5, 10, backend)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "lenet5.cbor")
	require.NoError(t, nn.SaveCheckpoint(path, "lenet5", fitted, 2, 0.5))

	fresh, err := models.New(models.LeNet5, 10, backend)
	require.NoError(t, err)
	require.NoError(t, loader.Restore(path, "lenet5", fresh))
	want := fitted.StateDict()
	got := fresh.StateDict()
	require.Len(t, got, len(want))
	for name, param := range want {
		require.Contains(t, got, name)
		assert.Equal(t, param.Data(), got[name].Data(), "parameter %s", name)
	}

	// empty path is a no-op, missing file downgrades to a warning
	require.NoError(t, loader.Restore("", "lenet5", fresh))
	require.NoError(t, loader.Restore(filepath.Join(t.TempDir(), "absent.cbor"), "lenet5", fresh))

	// corrupt files fail the load
	corrupt := filepath.Join(t.TempDir(), "corrupt.cbor")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a checkpoint"), 0o644))
	assert.Error(t, loader.Restore(corrupt, "lenet5", fresh))
}

func TestLoaderTeacherStudent(t *testing.T) {
	loader := models.NewLoader(cpu.New())
	cfg := &config.Config{
		TeacherModel: &config.TeacherConfig{Type: "minivgg"},
		StudentModel: &config.StudentConfig{Version: "1b"},
	}

	teacher, student, teacherType, version, err := loader.TeacherStudent(cfg)
	require.NoError(t, err)
	assert.NotNil(t, teacher)
	assert.NotNil(t, student)
	assert.Equal(t, "minivgg", teacherType)
	assert.Equal(t, "1b", version)

	_, _, _, _, err = loader.TeacherStudent(&config.Config{})
	assert.Error(t, err, "both teacher_model and student_model are required")
}

func TestLoaderExtendedFromConfig(t *testing.T) {
	dir := t.TempDir()
	orgPath := filepath.Join(dir, "minivgg.yaml")
	require.NoError(t, os.WriteFile(orgPath, []byte(`
model:
  type: minivgg
  params:
    num_classes: 10
input_shape: [3, 32, 32]
`), 0o644))

	loader := models.NewLoader(cpu.New())
	zero := 0
	cfg := &config.Config{
		Autoencoder: &config.AutoencoderConfig{
			Type:   "input",
			Params: map[string]any{"bottleneck_channels": 8},
		},
		OrgModel: &config.OrgModelConfig{Config: orgPath, PartitionIdx: &zero},
	}

	extended, label, shape, err := loader.FromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "minivgg+input_ae", label)
	assert.Equal(t, tensor.Shape{3, 32, 32}, shape)

	seq, ok := extended.(*nn.Sequential)
	require.True(t, ok)
	assert.Equal(t, 2, seq.Len())
}
