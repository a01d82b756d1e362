package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ishanwen-byte/evoenv-go/internal/constants"
	"github.com/ishanwen-byte/evoenv-go/internal/types"
)

// Environment variables that override file settings
const (
	EnvGenerations = "EVOENV_GENERATIONS"
	EnvSeed        = "EVOENV_SEED"
	EnvMode        = "EVOENV_MODE"
	EnvOutputDir   = "EVOENV_OUTPUT_DIR"
	EnvLogLevel    = "EVOENV_LOG_LEVEL"
	EnvParallel    = "EVOENV_PARALLEL"
)

// Manager handles configuration loading and validation
type Manager struct {
	config *types.Config
	path   string
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		config: getDefaultConfig(),
	}
}

// Load loads configuration from a file
func (m *Manager) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	config := getDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides
	if err := m.applyEnvOverrides(config); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	// Validate configuration
	if err := m.validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	m.path = path
	return nil
}

// LoadDefaults applies environment overrides to the built-in defaults, for
// runs started without a config file
func (m *Manager) LoadDefaults() error {
	config := getDefaultConfig()
	if err := m.applyEnvOverrides(config); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	if err := m.validate(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	m.config = config
	return nil
}

// Save saves configuration to a file
func (m *Manager) Save(path string) error {
	data, err := yaml.Marshal(m.config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *types.Config {
	return m.config
}

// SetConfig updates the configuration
func (m *Manager) SetConfig(config *types.Config) {
	m.config = config
}

// GetPath returns the configuration file path
func (m *Manager) GetPath() string {
	return m.path
}

// applyEnvOverrides applies environment variable overrides to the configuration
func (m *Manager) applyEnvOverrides(config *types.Config) error {
	if generations := os.Getenv(EnvGenerations); generations != "" {
		n, err := strconv.Atoi(generations)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvGenerations, err)
		}
		config.Run.Generations = n
	}
	if seed := os.Getenv(EnvSeed); seed != "" {
		n, err := strconv.ParseInt(seed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvSeed, err)
		}
		config.Run.Seed = n
	}
	if mode := os.Getenv(EnvMode); mode != "" {
		config.Run.Mode = strings.ToLower(mode)
	}

	if outputDir := os.Getenv(EnvOutputDir); outputDir != "" {
		config.Report.OutputDir = outputDir
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		config.Log.Level = level
	}

	if parallel := os.Getenv(EnvParallel); parallel != "" {
		config.Adversarial.Parallel = strings.ToLower(parallel) == "true"
	}

	return nil
}

// validate validates the configuration
func (m *Manager) validate(config *types.Config) error {
	// Validate run configuration
	switch config.Run.Mode {
	case constants.ModeSequential, constants.ModeAdversarial, constants.ModeChronological, constants.ModeAdaptive:
	default:
		return fmt.Errorf("unknown mode: %q", config.Run.Mode)
	}
	if config.Run.Generations <= 0 {
		return fmt.Errorf("generations must be positive")
	}
	if config.Run.ReportInterval < 0 {
		return fmt.Errorf("report interval must not be negative")
	}
	switch config.Run.Device {
	case constants.DeviceCPU, constants.DeviceGPU:
	default:
		return fmt.Errorf("unknown device: %q", config.Run.Device)
	}

	// Validate problem configuration
	if config.Problem.PopulationSize <= 0 {
		return fmt.Errorf("population size must be positive")
	}
	if config.Problem.GenomeLength <= 0 {
		return fmt.Errorf("genome length must be positive")
	}
	if len(config.Problem.MutationRates) == 0 {
		return fmt.Errorf("at least one mutation rate is required")
	}
	for _, rate := range config.Problem.MutationRates {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("mutation rate %g must be within [0, 1]", rate)
		}
	}

	// Validate composition configuration
	for i, phase := range config.Chronological.Phases {
		if phase < 0 {
			return fmt.Errorf("phase %d generation count must not be negative", i)
		}
	}
	if config.Adaptive.SwitchInterval <= 0 {
		return fmt.Errorf("switch interval must be positive")
	}
	if config.Adaptive.GoFor < 0 {
		return fmt.Errorf("go_for must not be negative")
	}

	// Validate logging
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if config.Log.Format != constants.LogFormatText && config.Log.Format != constants.LogFormatJSON {
		return fmt.Errorf("unknown log format: %q", config.Log.Format)
	}

	// Validate paths
	if config.Report.OutputDir == "" {
		config.Report.OutputDir = constants.OutputDir
	}
	if config.Report.PlotWidth <= 0 {
		config.Report.PlotWidth = constants.DefaultPlotWidthInches
	}
	if config.Report.PlotHeight <= 0 {
		config.Report.PlotHeight = constants.DefaultPlotHeightInches
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *types.Config {
	return &types.Config{
		Run: types.RunConfig{
			Name:           "onemax",
			Mode:           constants.ModeSequential,
			Generations:    constants.DefaultGenerations,
			ReportInterval: constants.DefaultReportInterval,
			Seed:           constants.DefaultSeed,
			Device:         constants.DefaultDevice,
		},
		Problem: types.ProblemConfig{
			PopulationSize: constants.DefaultPopulationSize,
			GenomeLength:   constants.DefaultGenomeLength,
			MutationRates:  []float64{0.01, constants.DefaultMutationRate, 0.2},
		},
		Adversarial: types.AdversarialConfig{
			Parallel: false,
		},
		Chronological: types.ChronologicalConfig{
			Phases: []int{20, 20, 10},
		},
		Adaptive: types.AdaptiveConfig{
			SwitchInterval:        constants.DefaultSwitchInterval,
			GoFor:                 constants.DefaultGoFor,
			DeactivationThreshold: constants.DeactivationThreshold,
			ExcludeInactive:       false,
			GreedySwitch:          false,
		},
		Report: types.ReportConfig{
			OutputDir:  constants.OutputDir,
			Plots:      false,
			PlotWidth:  constants.DefaultPlotWidthInches,
			PlotHeight: constants.DefaultPlotHeightInches,
		},
		Log: types.LogConfig{
			Level:  "info",
			Format: constants.LogFormatText,
		},
	}
}

// CreateDefaultConfig creates a default configuration file
func CreateDefaultConfig(path string) error {
	manager := NewManager()
	return manager.Save(path)
}
