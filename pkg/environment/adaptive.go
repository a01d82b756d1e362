package environment

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/ishanwen-byte/evoenv-go/internal/constants"
	"github.com/ishanwen-byte/evoenv-go/internal/types"
)

// AdaptiveConfig holds the switching parameters of an Adaptive composite
type AdaptiveConfig struct {
	// SwitchInterval is how many iterations pass between weighted draws
	SwitchInterval int
	// GoFor is the trial length used by SwitchEnvironment
	GoFor int
	// DeactivationThreshold deactivates members whose latest fitness is
	// below it. Nil means constants.DeactivationThreshold; a pointer to
	// math.Inf(-1) never deactivates.
	DeactivationThreshold *float64
	// ExcludeInactive removes deactivated members from the weighted draw.
	// By default they stay selectable and simply do nothing when run.
	ExcludeInactive bool
}

// Adaptive holds a pool of environments and moves the evolving population
// between them, one generation at a time.
type Adaptive struct {
	name   string
	pool   []Member
	config AdaptiveConfig

	threshold  float64
	current    Member
	iteration  int
	generation int

	population Population
	history    []float64
	compiled   bool

	rng      *rand.Rand
	logger   *logrus.Logger
	reporter Reporter
}

// NewAdaptive creates an adaptive composite. The first pool member starts as current.
func NewAdaptive(name string, pool []Member, config AdaptiveConfig, opts ...Option) *Adaptive {
	o := buildOptions(opts)

	if config.SwitchInterval <= 0 {
		config.SwitchInterval = constants.DefaultSwitchInterval
	}
	threshold := constants.DeactivationThreshold
	if config.DeactivationThreshold != nil {
		threshold = *config.DeactivationThreshold
	}

	a := &Adaptive{
		name:       name,
		pool:       pool,
		config:     config,
		threshold:  threshold,
		population: Population{},
		history:    []float64{},
		rng:        o.rng,
		logger:     o.logger,
		reporter:   o.reporter,
	}
	if len(pool) > 0 {
		a.current = pool[0]
	}
	return a
}

// Compile compiles every pool member that is not compiled yet and hands the
// initial population to the current member
func (a *Adaptive) Compile(fitness FitnessFunc, opts ...CompileOption) {
	s := buildCompileSettings(opts)

	a.population = s.population
	a.compiled = true

	for _, env := range a.pool {
		if !env.IsCompiled() {
			env.Compile(fitness, WithCallback(s.callback), WithReportInterval(s.reportInterval))
		}
	}

	if a.current != nil && len(s.population) > 0 {
		a.current.SetPopulation(s.population)
	}
}

// Evolve runs generations outer iterations. Each iteration picks a member
// with selectWeighted, hands it the population and history of the previous
// member and runs it for one generation.
func (a *Adaptive) Evolve(ctx context.Context, generations int) (Population, []float64, error) {
	if a.current == nil {
		return a.population, a.history, ErrNoEnvironments
	}

	for i := 0; i < generations; i++ {
		if err := ctx.Err(); err != nil {
			return a.population, a.history, err
		}

		a.iteration++
		a.generation++

		next := a.selectWeighted()
		if next != a.current {
			next.SetPopulation(append(Population(nil), a.current.Population()...))
			next.SetHistory(append([]float64(nil), a.current.History()...))
			a.logger.WithFields(logrus.Fields{
				"from":       a.current.Name(),
				"to":         next.Name(),
				"generation": a.generation,
			}).Info("Switched environment")
			a.current = next
		}

		if _, _, err := a.current.Evolve(ctx, 1); err != nil {
			return a.population, a.history, err
		}

		a.population = a.current.Population()
		a.history = a.current.History()
	}

	return a.population, a.history, nil
}

// selectWeighted deactivates weak members and, every SwitchInterval
// iterations, draws a new member with probability proportional to its
// latest fitness. Between draws the current member is kept.
func (a *Adaptive) selectWeighted() Member {
	for _, env := range a.pool {
		fitness, ok := env.LastFitness()
		if ok && env.Active() && fitness < a.threshold {
			a.logger.WithFields(logrus.Fields{
				"environment": env.Name(),
				"fitness":     fitness,
				"threshold":   a.threshold,
			}).Warn("Deactivating " + env.Name())
			env.Deactivate()
		}
	}

	if a.iteration%a.config.SwitchInterval != 0 {
		return a.current
	}

	candidates := a.pool
	if a.config.ExcludeInactive {
		active := make([]Member, 0, len(a.pool))
		for _, env := range a.pool {
			if env.Active() {
				active = append(active, env)
			}
		}
		if len(active) > 0 {
			candidates = active
		}
	}

	weights := make([]float64, len(candidates))
	for i, env := range candidates {
		weights[i], _ = env.LastFitness()
	}

	return candidates[weightedIndex(a.rng, weights)]
}

// SwitchEnvironment trial-runs every pool member for GoFor generations from
// a clone of the current population and makes the member with the largest
// fitness gain current. Ties keep the first member found. The winner keeps
// the population it reached during its trial.
func (a *Adaptive) SwitchEnvironment(ctx context.Context) (Member, error) {
	if a.current == nil {
		return nil, ErrNoEnvironments
	}

	base := a.current.Population()
	if len(base) == 0 {
		return nil, fmt.Errorf("adaptive %q switch: %w", a.name, ErrEmptyPopulation)
	}
	first := base.Last().Fitness()

	maxGain := math.Inf(-1)
	var best Member
	for _, env := range a.pool {
		env.SetPopulation(ClonePopulation(base))
		pop, _, err := env.Evolve(ctx, a.config.GoFor)
		if err != nil {
			return nil, err
		}
		if len(pop) == 0 {
			continue
		}

		gain := pop.Last().Fitness() - first
		if gain > maxGain {
			maxGain = gain
			best = env
		}
	}

	if best == nil {
		return a.current, nil
	}

	a.current = best
	a.population = best.Population()
	a.history = best.History()

	a.logger.WithFields(logrus.Fields{
		"environment": best.Name(),
		"gain":        maxGain,
		"generation":  a.generation,
	}).Info(fmt.Sprintf("Switching to environment: %s (Generation %d)", best.Name(), a.generation))

	return best, nil
}

// Current returns the member currently evolving the population
func (a *Adaptive) Current() Member {
	return a.current
}

// Iteration returns the number of outer iterations run
func (a *Adaptive) Iteration() int {
	return a.iteration
}

// Population returns the population of the last step
func (a *Adaptive) Population() Population {
	return a.population
}

// History returns the history of the last step
func (a *Adaptive) History() []float64 {
	return a.history
}

// Plot renders the current member's history
func (a *Adaptive) Plot() {
	if a.current == nil {
		return
	}
	a.reporter.Plot(a.name+" fitness", []types.Series{{Name: a.current.Name(), Values: a.current.History()}})
}

// Name returns the composite name
func (a *Adaptive) Name() string {
	return a.name
}

// IsCompiled reports whether Compile has been called
func (a *Adaptive) IsCompiled() bool {
	return a.compiled
}

// FitnessMetric returns the highest best-ever fitness in the pool
func (a *Adaptive) FitnessMetric() float64 {
	var best float64
	for i, env := range a.pool {
		if metric := env.FitnessMetric(); i == 0 || metric > best {
			best = metric
		}
	}
	return best
}
