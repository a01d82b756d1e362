package environment

import (
	"math/rand"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ishanwen-byte/evoenv-go/internal/constants"
	"github.com/ishanwen-byte/evoenv-go/internal/types"
	"github.com/ishanwen-byte/evoenv-go/pkg/report"
)

// Reporter renders run summaries. Both methods are fire-and-forget.
// The default is a report.Console on stdout with plotting disabled.
type Reporter interface {
	Table(title string, results []types.RunResult)
	Plot(title string, series []types.Series)
}

type options struct {
	logger   *logrus.Logger
	reporter Reporter
	device   string
	rng      *rand.Rand
	parallel bool
}

// Option configures an environment at construction
type Option func(*options)

// WithLogger sets the logger
func WithLogger(logger *logrus.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithReporter sets the table and plot renderer
func WithReporter(reporter Reporter) Option {
	return func(o *options) {
		o.reporter = reporter
	}
}

// WithDevice sets the execution device stages may inspect
func WithDevice(device string) Option {
	return func(o *options) {
		o.device = device
	}
}

// WithRand sets the random source shared with stages and weighted draws
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithParallel runs adversarial members concurrently. Members must not share
// a random source or any other mutable state while they run. The callback
// given to the adversarial Compile is serialised across members.
func WithParallel(parallel bool) Option {
	return func(o *options) {
		o.parallel = parallel
	}
}

func buildOptions(opts []Option) options {
	o := options{device: constants.DefaultDevice}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logrus.New()
		o.logger.SetLevel(logrus.InfoLevel)
	}
	if o.reporter == nil {
		o.reporter = report.NewConsole(os.Stdout, "", o.logger)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(constants.DefaultSeed))
	}
	return o
}

type compileSettings struct {
	population     Population
	callback       Callback
	reportInterval int
}

// CompileOption configures Compile
type CompileOption func(*compileSettings)

// WithPopulation supplies the initial population
func WithPopulation(pop Population) CompileOption {
	return func(s *compileSettings) {
		s.population = pop
	}
}

// WithCallback sets the post-generation callback
func WithCallback(callback Callback) CompileOption {
	return func(s *compileSettings) {
		s.callback = callback
	}
}

// WithReportInterval sets how often progress lines are logged; 0 disables them
func WithReportInterval(every int) CompileOption {
	return func(s *compileSettings) {
		s.reportInterval = every
	}
}

func buildCompileSettings(opts []CompileOption) compileSettings {
	s := compileSettings{reportInterval: constants.DefaultReportInterval}
	for _, opt := range opts {
		opt(&s)
	}
	if s.population == nil {
		s.population = Population{}
	}
	return s
}
