package environment

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ishanwen-byte/evoenv-go/internal/types"
)

// Phase is one environment of a chronological run and how long it runs.
// Generations <= 0 means unset.
type Phase struct {
	Env         Member
	Generations int
}

// Chronological runs phases one after another, handing the accumulated
// population from each phase to the next and concatenating their histories.
type Chronological struct {
	name   string
	phases []Phase

	compiled bool

	population Population
	history    []float64
	segments   []types.Series

	bestName    string
	bestFitness float64
	hasBest     bool

	logger   *logrus.Logger
	reporter Reporter
}

// NewChronological creates a chronological composite
func NewChronological(name string, phases []Phase, opts ...Option) *Chronological {
	o := buildOptions(opts)

	return &Chronological{
		name:       name,
		phases:     phases,
		population: Population{},
		history:    []float64{},
		logger:     o.logger,
		reporter:   o.reporter,
	}
}

// Compile stores the initial population and compiles every phase
// environment that is not compiled yet
func (c *Chronological) Compile(fitness FitnessFunc, opts ...CompileOption) {
	s := buildCompileSettings(opts)

	c.population = s.population
	c.compiled = true

	for _, phase := range c.phases {
		if !phase.Env.IsCompiled() {
			phase.Env.Compile(fitness, WithCallback(s.callback), WithReportInterval(s.reportInterval))
		}
	}
}

// Evolve runs every phase in order. generations is only used for phases
// without their own count. Each phase starts from a clone of everything
// accumulated so far, and its result extends the accumulated population.
// The accumulated population therefore keeps the pre-phase candidates
// untouched, followed by what the phase produced from its clone.
func (c *Chronological) Evolve(ctx context.Context, generations int) (Population, []float64, error) {
	for _, phase := range c.phases {
		env := phase.Env
		count := phase.Generations
		if count <= 0 {
			c.logger.WithFields(logrus.Fields{
				"environment": env.Name(),
				"fallback":    generations,
			}).Warn("phase has no generation count; pass explicit per-phase counts instead of relying on the run count")
			count = generations
		}

		c.logger.WithField("environment", env.Name()).Info(fmt.Sprintf("Running %s for %d generations...", env.Name(), count))

		env.SetPopulation(ClonePopulation(c.population))
		pop, history, err := env.Evolve(ctx, count)
		if err != nil {
			return c.population, c.history, err
		}

		// A reused environment must not contribute the same generations twice
		history = append([]float64(nil), history...)
		env.SetHistory(nil)

		c.segments = append(c.segments, types.Series{
			Name:   env.Name(),
			Values: history,
			Offset: len(c.history),
		})
		c.population = append(c.population, pop...)
		c.history = append(c.history, history...)

		if len(history) == 0 {
			continue
		}
		final := history[len(history)-1]
		if !c.hasBest || final > c.bestFitness {
			c.bestName = env.Name()
			c.bestFitness = final
			c.hasBest = true
		}
	}

	return c.population, c.history, nil
}

// BestPhase returns the name and final fitness of the phase that ended highest
func (c *Chronological) BestPhase() (string, float64, bool) {
	return c.bestName, c.bestFitness, c.hasBest
}

// Population returns the accumulated population
func (c *Chronological) Population() Population {
	return c.population
}

// History returns the combined history of every phase run so far
func (c *Chronological) History() []float64 {
	return c.history
}

// Plot renders each phase as its own segment of the combined history
func (c *Chronological) Plot() {
	c.reporter.Plot("Combined Fitness History", c.segments)
}

// Name returns the composite name
func (c *Chronological) Name() string {
	return c.name
}

// IsCompiled reports whether Compile has been called
func (c *Chronological) IsCompiled() bool {
	return c.compiled
}

// FitnessMetric returns the highest best-ever fitness among the phases
func (c *Chronological) FitnessMetric() float64 {
	var best float64
	for i, phase := range c.phases {
		if metric := phase.Env.FitnessMetric(); i == 0 || metric > best {
			best = metric
		}
	}
	return best
}
