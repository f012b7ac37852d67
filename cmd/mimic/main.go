// Package main provides the Mimic network analyzer CLI.
//
// It measures the computational complexity and inter-layer bandwidth
// of convolutional networks: a single model, several models side by
// side, or teacher/student pairs with bottleneck detection.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mimic-ml/mimic/internal/analyze"
	"github.com/mimic-ml/mimic/internal/backend/cpu"
	"github.com/mimic-ml/mimic/internal/config"
	"github.com/mimic-ml/mimic/internal/extract"
	"github.com/mimic-ml/mimic/internal/models"
	"github.com/mimic-ml/mimic/internal/nn"
	"github.com/mimic-ml/mimic/internal/report"
	"github.com/mimic-ml/mimic/internal/tensor"
)

var (
	inputSize = flag.String("isize", "3,224,224", "input data shape (delimited by comma)")
	modelName = flag.String("model", "alexnet", "network model (used when no config is given)")
	ckptPath  = flag.String("ckpt", "", "checkpoint file to restore into -model")
	scale     = flag.Bool("scale", false, "bandwidth scaling option")
	bits      = flag.Int("bits", 8, "bits per element when -scale is set")
	submodule = flag.Bool("submodule", false, "submodule extraction option")
	ts        = flag.Bool("ts", false, "teacher-student models option")
	csvPath   = flag.String("csv", "", "write comparison CSV to the given file")
)

func main() {
	var configPaths []string
	flag.Func("config", "yaml config file path (repeatable)", func(s string) error {
		configPaths = append(configPaths, s)
		return nil
	})
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(configPaths); err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}
}

func run(configPaths []string) error {
	backend := cpu.New()
	loader := models.NewLoader(backend)
	opts := analyze.Options{Scaled: *scale, BitsPerElement: *bits}
	mode := extract.Layerwise
	if *submodule {
		mode = extract.Submodule
	}

	switch {
	case *ts:
		return analyzeTeacherStudents(loader, configPaths, mode, opts)
	case len(configPaths) > 1:
		return analyzeMultipleModels(loader, configPaths, mode, opts)
	default:
		return analyzeSingleModel(loader, configPaths, mode, opts)
	}
}

// analyzeModel decomposes and measures one network.
func analyzeModel(model nn.Module, shape tensor.Shape, mode extract.Mode, opts analyze.Options) (*extract.Sequence, *analyze.Result, error) {
	seq, err := extract.Decompose(model, shape, mode)
	if err != nil {
		return nil, nil, err
	}
	result, err := analyze.Measure(seq, opts)
	if err != nil {
		return nil, nil, err
	}
	return seq, result, nil
}

// resolveModel loads the model either from a config file or from the
// -model/-isize flags.
func resolveModel(loader *models.Loader, configPath string) (nn.Module, string, tensor.Shape, error) {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, "", nil, err
		}
		return loader.FromConfig(cfg)
	}

	model, label, shape, err := loader.FromType(*modelName)
	if err != nil {
		return nil, "", nil, err
	}
	if err := loader.Restore(*ckptPath, label, model); err != nil {
		return nil, "", nil, err
	}
	if flagPassed("isize") {
		shape, err = parseShape(*inputSize)
		if err != nil {
			return nil, "", nil, err
		}
	}
	return model, label, shape, nil
}

// flagPassed reports whether a flag was set on the command line.
func flagPassed(name string) bool {
	passed := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			passed = true
		}
	})
	return passed
}

func analyzeSingleModel(loader *models.Loader, configPaths []string, mode extract.Mode, opts analyze.Options) error {
	configPath := ""
	if len(configPaths) == 1 {
		configPath = configPaths[0]
	}

	model, label, shape, err := resolveModel(loader, configPath)
	if err != nil {
		return err
	}
	log.Info().Str("model", label).Str("mode", mode.String()).Msg("analyzing model")

	seq, result, err := analyzeModel(model, shape, mode, opts)
	if err != nil {
		return err
	}
	if err := report.Summary(os.Stdout, label, seq, result); err != nil {
		return err
	}

	var set report.ComparisonSet
	set.Add(label, result)
	return renderComparison(&set)
}

func analyzeMultipleModels(loader *models.Loader, configPaths []string, mode extract.Mode, opts analyze.Options) error {
	var set report.ComparisonSet
	for _, path := range configPaths {
		model, label, shape, err := resolveModel(loader, path)
		if err != nil {
			return err
		}
		log.Info().Str("model", label).Str("config", path).Msg("analyzing model")

		_, result, err := analyzeModel(model, shape, mode, opts)
		if err != nil {
			return err
		}
		set.Add(label, result)
	}
	return renderComparison(&set)
}

func analyzeTeacherStudents(loader *models.Loader, configPaths []string, mode extract.Mode, opts analyze.Options) error {
	if len(configPaths) == 0 {
		return fmt.Errorf("teacher-student analysis requires at least one -config")
	}

	var pairs report.PairSet
	for _, path := range configPaths {
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		teacher, student, teacherType, version, err := loader.TeacherStudent(cfg)
		if err != nil {
			return err
		}

		shape := tensor.Shape(cfg.InputShape)
		if len(shape) != 3 {
			modelType, err := models.ParseModelType(teacherType)
			if err != nil {
				return err
			}
			shape = modelType.InputShape()
		}
		log.Info().Str("teacher", teacherType).Str("student", version).Msg("analyzing pair")

		_, teacherResult, err := analyzeModel(teacher, shape, mode, opts)
		if err != nil {
			return err
		}
		_, studentResult, err := analyzeModel(student, shape, mode, opts)
		if err != nil {
			return err
		}
		pairs.AddPair("Ver."+version, teacherResult, studentResult, models.HasBottleneck(version))
	}
	return pairs.Write(os.Stdout)
}

func renderComparison(set *report.ComparisonSet) error {
	if err := set.WriteComplexities(os.Stdout); err != nil {
		return err
	}
	if err := set.WriteAccumulatedComplexities(os.Stdout); err != nil {
		return err
	}
	if err := set.WriteBandwidths(os.Stdout); err != nil {
		return err
	}
	if *csvPath == "" {
		return nil
	}

	f, err := os.Create(*csvPath)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()
	return set.WriteCSV(f)
}

// parseShape parses a comma-delimited shape like "3,224,224".
func parseShape(s string) (tensor.Shape, error) {
	parts := strings.Split(s, ",")
	shape := make(tensor.Shape, 0, len(parts))
	for _, part := range parts {
		dim, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid shape %q: %w", s, err)
		}
		shape = append(shape, dim)
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape %q: %w", s, err)
	}
	return shape, nil
}
