package constants

// Application constants
const (
	Name        = "evoenv-go"
	Version     = "1.0.0"
	Description = "Evolutionary run orchestrator - environments, stages and composition strategies"

	// Default configuration values
	DefaultGenerations      = 50
	DefaultReportInterval   = 1
	DefaultSwitchInterval   = 10
	DefaultGoFor            = 0
	DefaultPopulationSize   = 20
	DefaultGenomeLength     = 32
	DefaultMutationRate     = 0.05
	DefaultDevice           = DeviceCPU
	DefaultSeed             = 42
	DefaultPlotWidthInches  = 10
	DefaultPlotHeightInches = 6

	// WarmUpIterations is the last 0-based generation index that never emits
	// a progress line, so indexes 0 through WarmUpIterations stay silent. The
	// first generations of a run are noisy and their output is suppressed.
	WarmUpIterations = 1

	// DeactivationThreshold is the fitness below which an adaptive pool
	// member is deactivated.
	DeactivationThreshold = 1.0

	// Directory names
	OutputDir = "evoenv_output"
	PlotsDir  = "plots"

	// Exit codes
	ExitSuccess   = 0
	ExitError     = 1
	ExitInterrupt = 2
)

// Execution devices a Stage may inspect
const (
	DeviceCPU = "cpu"
	DeviceGPU = "gpu"
)

// Composition modes
const (
	ModeSequential    = "sequential"
	ModeAdversarial   = "adversarial"
	ModeChronological = "chronological"
	ModeAdaptive      = "adaptive"
)

// Log formats
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Palette cycles through distinct colors for multi-series fitness plots.
var Palette = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b"}
