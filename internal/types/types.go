package types

import (
	"time"
)

// RunResult summarizes one sub-environment run for ranking and reporting
type RunResult struct {
	Name     string        `json:"name"`
	Fitness  float64       `json:"fitness"`
	Duration time.Duration `json:"duration"`
	History  []float64     `json:"history,omitempty"`
}

// Series is one labeled line of a fitness-history chart.
// Offset shifts the series along the generation axis, so phases of a
// chronological run can share one axis.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Offset int       `json:"offset"`
}

// Config represents the main configuration
type Config struct {
	Run           RunConfig           `yaml:"run" json:"run"`
	Problem       ProblemConfig       `yaml:"problem" json:"problem"`
	Adversarial   AdversarialConfig   `yaml:"adversarial" json:"adversarial"`
	Chronological ChronologicalConfig `yaml:"chronological" json:"chronological"`
	Adaptive      AdaptiveConfig      `yaml:"adaptive" json:"adaptive"`
	Report        ReportConfig        `yaml:"report" json:"report"`
	Log           LogConfig           `yaml:"log" json:"log"`
}

// RunConfig represents the top-level run settings
type RunConfig struct {
	Name           string `yaml:"name" json:"name"`
	Mode           string `yaml:"mode" json:"mode"`
	Generations    int    `yaml:"generations" json:"generations"`
	ReportInterval int    `yaml:"report_interval" json:"report_interval"`
	Seed           int64  `yaml:"seed" json:"seed"`
	Device         string `yaml:"device" json:"device"`
}

// ProblemConfig represents the reference OneMax problem settings
type ProblemConfig struct {
	PopulationSize int       `yaml:"population_size" json:"population_size"`
	GenomeLength   int       `yaml:"genome_length" json:"genome_length"`
	MutationRates  []float64 `yaml:"mutation_rates" json:"mutation_rates"`
}

// AdversarialConfig represents adversarial composition settings
type AdversarialConfig struct {
	Parallel bool `yaml:"parallel" json:"parallel"`
}

// ChronologicalConfig represents chronological composition settings.
// Phases lists the per-phase generation counts; zero falls back to the run
// generation count.
type ChronologicalConfig struct {
	Phases []int `yaml:"phases" json:"phases"`
}

// AdaptiveConfig represents adaptive composition settings
type AdaptiveConfig struct {
	SwitchInterval        int     `yaml:"switch_interval" json:"switch_interval"`
	GoFor                 int     `yaml:"go_for" json:"go_for"`
	DeactivationThreshold float64 `yaml:"deactivation_threshold" json:"deactivation_threshold"`
	ExcludeInactive       bool    `yaml:"exclude_inactive" json:"exclude_inactive"`
	GreedySwitch          bool    `yaml:"greedy_switch" json:"greedy_switch"`
}

// ReportConfig represents reporting settings
type ReportConfig struct {
	OutputDir  string  `yaml:"output_dir" json:"output_dir"`
	Plots      bool    `yaml:"plots" json:"plots"`
	PlotWidth  float64 `yaml:"plot_width" json:"plot_width"`
	PlotHeight float64 `yaml:"plot_height" json:"plot_height"`
}

// LogConfig represents logging settings
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}
