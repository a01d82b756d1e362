package environment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ishanwen-byte/evoenv-go/internal/constants"
	"github.com/ishanwen-byte/evoenv-go/internal/types"
)

// Environment drives a population through an ordered pipeline of stages,
// one generation at a time, keeping a fitness history and a snapshot of the
// best candidate seen so far.
//
// An Environment is built with New and must be compiled before it evolves.
// It is not safe for concurrent use.
type Environment struct {
	id     string
	name   string
	stages []Stage

	// Compiled configuration
	fitness        FitnessFunc
	callback       Callback
	reportInterval int
	compiled       bool

	// Run state
	population  Population
	iteration   int
	target      int
	history     []float64
	bestEver    Candidate
	deactivated bool

	device   string
	rng      *rand.Rand
	logger   *logrus.Logger
	reporter Reporter
}

// New creates an environment running stages in the given order
func New(name string, stages []Stage, opts ...Option) *Environment {
	o := buildOptions(opts)

	return &Environment{
		id:             uuid.New().String(),
		name:           name,
		stages:         stages,
		population:     Population{},
		history:        []float64{},
		reportInterval: constants.DefaultReportInterval,
		device:         o.device,
		rng:            o.rng,
		logger:         o.logger,
		reporter:       o.reporter,
	}
}

// Compile stores the fitness function and run settings
func (e *Environment) Compile(fitness FitnessFunc, opts ...CompileOption) {
	s := buildCompileSettings(opts)

	e.fitness = fitness
	e.population = s.population
	e.callback = s.callback
	e.reportInterval = s.reportInterval
	e.compiled = true
}

// Evolve runs exactly generations steps and returns the population and the
// full fitness history. A deactivated environment returns its current state
// untouched. The context is only checked between steps.
func (e *Environment) Evolve(ctx context.Context, generations int) (Population, []float64, error) {
	if e.deactivated {
		return e.population, e.history, nil
	}

	e.target = e.iteration + generations
	for i := 0; i < generations; i++ {
		if err := ctx.Err(); err != nil {
			return e.population, e.history, err
		}
		if err := e.step(); err != nil {
			return e.population, e.history, err
		}
	}

	return e.population, e.history, nil
}

// step executes one generation
func (e *Environment) step() error {
	for _, stage := range e.stages {
		if err := stage.Run(&e.population, e); err != nil {
			return err
		}
	}

	if e.callback != nil {
		e.callback(e.population, e)
	}

	if len(e.population) == 0 {
		return fmt.Errorf("environment %q generation %d: %w", e.name, e.iteration+1, ErrEmptyPopulation)
	}

	best := e.population.Last()
	fitness := best.Fitness()

	// Ties keep the older snapshot
	if e.bestEver == nil || fitness > e.bestEver.Fitness() {
		e.bestEver = best.Clone()
	}

	e.history = append(e.history, fitness)

	index := e.iteration
	e.iteration++

	// Early generations are noisy; nothing is reported up to the warm-up index
	if e.reportInterval > 0 && index%e.reportInterval == 0 && index > constants.WarmUpIterations {
		e.logger.WithFields(logrus.Fields{
			"environment": e.name,
			"env_id":      shortID(e.id),
			"generation":  index + 1,
			"target":      e.target,
			"fitness":     fitness,
			"population":  len(e.population),
		}).Info(fmt.Sprintf("%s: generation %d/%d. Max fitness: %g. Population: %d",
			e.name, index+1, e.target, fitness, len(e.population)))
	}

	return nil
}

// Deactivate turns every later Evolve call into a no-op
func (e *Environment) Deactivate() {
	e.deactivated = true
}

// Active reports whether the environment still evolves
func (e *Environment) Active() bool {
	return !e.deactivated
}

// IsCompiled reports whether Compile has been called
func (e *Environment) IsCompiled() bool {
	return e.compiled
}

// FitnessMetric returns the best-ever fitness, or zero before the first generation
func (e *Environment) FitnessMetric() float64 {
	if e.bestEver == nil {
		return 0
	}
	return e.bestEver.Fitness()
}

// BestEver returns the snapshot of the best candidate seen, or nil
func (e *Environment) BestEver() Candidate {
	return e.bestEver
}

// LastFitness returns the most recent representative fitness
func (e *Environment) LastFitness() (float64, bool) {
	if len(e.history) == 0 {
		return 0, false
	}
	return e.history[len(e.history)-1], true
}

// Name returns the environment name
func (e *Environment) Name() string {
	return e.name
}

// ID returns the unique environment id
func (e *Environment) ID() string {
	return e.id
}

// Population returns the live population
func (e *Environment) Population() Population {
	return e.population
}

// SetPopulation hands pop to the environment, which owns it from then on
func (e *Environment) SetPopulation(pop Population) {
	if pop == nil {
		pop = Population{}
	}
	e.population = pop
}

// History returns the fitness history
func (e *Environment) History() []float64 {
	return e.history
}

// SetHistory replaces the fitness history
func (e *Environment) SetHistory(history []float64) {
	if history == nil {
		history = []float64{}
	}
	e.history = history
}

// Iteration returns the number of generations run
func (e *Environment) Iteration() int {
	return e.iteration
}

// Target returns the generation the current Evolve call runs up to
func (e *Environment) Target() int {
	return e.target
}

// FitnessFunction returns the compiled fitness function
func (e *Environment) FitnessFunction() FitnessFunc {
	return e.fitness
}

// Device returns the execution device
func (e *Environment) Device() string {
	return e.device
}

// Rand returns the environment's random source
func (e *Environment) Rand() *rand.Rand {
	return e.rng
}

// Logger returns the environment's logger
func (e *Environment) Logger() *logrus.Logger {
	return e.logger
}

// Plot renders the fitness history as a line chart
func (e *Environment) Plot() {
	e.reporter.Plot(e.name+" fitness", []types.Series{{Name: e.name, Values: e.history}})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
