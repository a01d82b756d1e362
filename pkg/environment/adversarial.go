package environment

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ishanwen-byte/evoenv-go/internal/types"
)

// Adversarial runs several independent environments for the same number of
// generations and ranks them by final fitness.
type Adversarial struct {
	name         string
	environments []Member

	callback Callback
	compiled bool

	// mu serialises callback invocations across members running in parallel
	mu sync.Mutex

	parallel bool
	results  []types.RunResult
	winner   int

	logger   *logrus.Logger
	reporter Reporter
}

// NewAdversarial creates an adversarial composite over environments
func NewAdversarial(name string, environments []Member, opts ...Option) *Adversarial {
	o := buildOptions(opts)

	return &Adversarial{
		name:         name,
		environments: environments,
		parallel:     o.parallel,
		winner:       -1,
		logger:       o.logger,
		reporter:     o.reporter,
	}
}

// Compile stores the settings and compiles every member that is not compiled
// yet. Each of those members starts from its own clone of the initial population.
func (a *Adversarial) Compile(fitness FitnessFunc, opts ...CompileOption) {
	s := buildCompileSettings(opts)

	a.callback = s.callback
	a.compiled = true

	var memberCallback Callback
	if s.callback != nil {
		memberCallback = a.serialized
	}

	for _, env := range a.environments {
		if !env.IsCompiled() {
			env.Compile(fitness,
				WithPopulation(ClonePopulation(s.population)),
				WithCallback(memberCallback),
				WithReportInterval(s.reportInterval))
		}
	}
}

// Compete evolves every member for generations, renders the comparison and
// returns the winner. Ties go to the member listed first.
func (a *Adversarial) Compete(ctx context.Context, generations int) (types.RunResult, error) {
	if len(a.environments) == 0 {
		return types.RunResult{}, ErrNoEnvironments
	}

	results := make([]types.RunResult, len(a.environments))

	if a.parallel {
		g, gCtx := errgroup.WithContext(ctx)
		for i, env := range a.environments {
			i, env := i, env
			g.Go(func() error {
				result, err := runTimed(gCtx, env, generations)
				results[i] = result
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return types.RunResult{}, err
		}
		// Completion callbacks run after the join, in member order
		for _, env := range a.environments {
			a.notify(env)
		}
	} else {
		for i, env := range a.environments {
			result, err := runTimed(ctx, env, generations)
			if err != nil {
				return types.RunResult{}, err
			}
			results[i] = result
			a.notify(env)
		}
	}

	winner := 0
	for i := range results {
		if results[i].Fitness > results[winner].Fitness {
			winner = i
		}
	}

	a.results = results
	a.winner = winner

	a.reporter.Table(a.name, results)
	a.logger.WithFields(logrus.Fields{
		"environment": results[winner].Name,
		"fitness":     results[winner].Fitness,
	}).Info(fmt.Sprintf("Best environment: %s, Max fitness: %g", results[winner].Name, results[winner].Fitness))
	a.Plot()

	best := results[winner]
	best.History = nil
	return best, nil
}

// Evolve runs Compete and returns the winner's population and history
func (a *Adversarial) Evolve(ctx context.Context, generations int) (Population, []float64, error) {
	if _, err := a.Compete(ctx, generations); err != nil {
		return nil, nil, err
	}

	winner := a.environments[a.winner]
	return winner.Population(), winner.History(), nil
}

func runTimed(ctx context.Context, env Member, generations int) (types.RunResult, error) {
	start := time.Now()
	_, history, err := env.Evolve(ctx, generations)
	elapsed := time.Since(start)
	if err != nil {
		return types.RunResult{}, err
	}

	// A member that never recorded a generation cannot win
	final := math.Inf(-1)
	if len(history) > 0 {
		final = history[len(history)-1]
	}

	return types.RunResult{
		Name:     env.Name(),
		Fitness:  final,
		Duration: elapsed,
		History:  append([]float64(nil), history...),
	}, nil
}

func (a *Adversarial) notify(env Member) {
	a.serialized(env.Population(), env)
}

// serialized is the callback handed to members compiled by Compile. Members
// of a parallel Compete call it from their own goroutines.
func (a *Adversarial) serialized(pop Population, env Evolver) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.callback != nil {
		a.callback(pop, env)
	}
}

// Results returns the rows of the last Compete, in member order
func (a *Adversarial) Results() []types.RunResult {
	return a.results
}

// Winner returns the member that won the last Compete, or nil
func (a *Adversarial) Winner() Member {
	if a.winner < 0 {
		return nil
	}
	return a.environments[a.winner]
}

// Plot renders one fitness series per member from the last Compete
func (a *Adversarial) Plot() {
	series := make([]types.Series, 0, len(a.results))
	for _, result := range a.results {
		series = append(series, types.Series{Name: result.Name, Values: result.History})
	}
	a.reporter.Plot(a.name+", Fitness History Comparison", series)
}

// Name returns the composite name
func (a *Adversarial) Name() string {
	return a.name
}

// IsCompiled reports whether Compile has been called
func (a *Adversarial) IsCompiled() bool {
	return a.compiled
}

// FitnessMetric returns the winner's best-ever fitness, or zero before any run
func (a *Adversarial) FitnessMetric() float64 {
	if a.winner < 0 {
		return 0
	}
	return a.environments[a.winner].FitnessMetric()
}
