package environment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChronologicalCombinesHistories(t *testing.T) {
	reporter := &recordingReporter{}
	first := New("explore", []Stage{climbStage{step: 1}}, testOptions(reporter)...)
	second := New("exploit", []Stage{climbStage{step: 1}}, testOptions(reporter)...)

	chrono := NewChronological("mixed", []Phase{
		{Env: first, Generations: 2},
		{Env: second, Generations: 3},
	}, testOptions(reporter)...)
	chrono.Compile(nil, WithPopulation(seed(0)))

	pop, history, err := chrono.Evolve(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3, 4, 5}, history)

	// Same pipeline run on its own produces the first phase's segment
	solo := New("solo", []Stage{climbStage{step: 1}}, testOptions(reporter)...)
	solo.Compile(nil, WithPopulation(seed(0)))
	_, soloHistory, err := solo.Evolve(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, soloHistory, history[:2])

	// Consumed histories are cleared
	assert.Empty(t, first.History())
	assert.Empty(t, second.History())

	// [seed] + [seed', 1, 2] then + clone of those four plus three more
	assert.Len(t, pop, 11)
	assert.Equal(t, 5.0, pop.Last().Fitness())

	name, fitness, ok := chrono.BestPhase()
	require.True(t, ok)
	assert.Equal(t, "exploit", name)
	assert.Equal(t, 5.0, fitness)
	assert.Equal(t, 5.0, chrono.FitnessMetric())
}

func TestChronologicalPhasesStartFromClones(t *testing.T) {
	reporter := &recordingReporter{}
	initial := seed(0)

	var handed Population
	recorder := StageFunc(func(pop *Population, env *Environment) error {
		handed = append(Population(nil), (*pop)...)
		*pop = append(*pop, &testCandidate{fitness: 1})
		return nil
	})
	env := New("recorder", []Stage{recorder}, testOptions(reporter)...)

	chrono := NewChronological("clones", []Phase{{Env: env, Generations: 1}}, testOptions(reporter)...)
	chrono.Compile(nil, WithPopulation(initial))

	_, _, err := chrono.Evolve(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, handed, 1)
	assert.NotSame(t, initial[0], handed[0])
	assert.Equal(t, initial[0].Fitness(), handed[0].Fitness())
}

func TestChronologicalKeepsPrePhaseCandidates(t *testing.T) {
	reporter := &recordingReporter{}
	env := New("single", []Stage{climbStage{step: 1}}, testOptions(reporter)...)
	initial := seed(7)

	chrono := NewChronological("accumulate", []Phase{{Env: env, Generations: 1}}, testOptions(reporter)...)
	chrono.Compile(nil, WithPopulation(initial))

	pop, _, err := chrono.Evolve(context.Background(), 1)
	require.NoError(t, err)

	// original, its clone as handed to the phase, then the phase's new candidate
	require.Len(t, pop, 3)
	assert.Same(t, initial[0], pop[0])
	assert.NotSame(t, initial[0], pop[1])
	assert.Equal(t, 7.0, pop[1].Fitness())
	assert.Equal(t, 8.0, pop[2].Fitness())
}

func TestChronologicalFallbackGenerations(t *testing.T) {
	logger, buf := bufferLogger()
	reporter := &recordingReporter{}
	env := New("unset", []Stage{climbStage{step: 1}}, testOptions(reporter)...)

	chrono := NewChronological("fallback", []Phase{{Env: env}}, WithLogger(logger), WithReporter(reporter))
	chrono.Compile(nil, WithPopulation(seed(0)))

	_, history, err := chrono.Evolve(context.Background(), 4)
	require.NoError(t, err)

	assert.Len(t, history, 4)
	assert.Contains(t, buf.String(), "level=warning")
	assert.Contains(t, buf.String(), "phase has no generation count")
	assert.Contains(t, buf.String(), "Running unset for 4 generations...")
}

func TestChronologicalBestPhaseKeepsEarliestOnTie(t *testing.T) {
	reporter := &recordingReporter{}
	a := New("a", []Stage{constStage{value: 3}}, testOptions(reporter)...)
	b := New("b", []Stage{constStage{value: 3}}, testOptions(reporter)...)
	c := New("c", []Stage{constStage{value: 1}}, testOptions(reporter)...)

	chrono := NewChronological("ties", []Phase{
		{Env: a, Generations: 1},
		{Env: b, Generations: 1},
		{Env: c, Generations: 1},
	}, testOptions(reporter)...)
	chrono.Compile(nil)

	_, history, err := chrono.Evolve(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 3, 1}, history)

	name, fitness, ok := chrono.BestPhase()
	require.True(t, ok)
	assert.Equal(t, "a", name)
	assert.Equal(t, 3.0, fitness)
}

func TestChronologicalCompilePropagates(t *testing.T) {
	reporter := &recordingReporter{}
	fresh := New("fresh", []Stage{climbStage{step: 1}}, testOptions(reporter)...)

	chrono := NewChronological("prop", []Phase{{Env: fresh, Generations: 1}}, testOptions(reporter)...)
	assert.False(t, chrono.IsCompiled())

	chrono.Compile(func(c Candidate) float64 { return 1 })
	assert.True(t, chrono.IsCompiled())
	assert.True(t, fresh.IsCompiled())
}

func TestChronologicalPlotSegments(t *testing.T) {
	reporter := &recordingReporter{}
	a := New("a", []Stage{climbStage{step: 1}}, testOptions(reporter)...)
	b := New("b", []Stage{climbStage{step: 1}}, testOptions(reporter)...)

	chrono := NewChronological("plot", []Phase{{Env: a, Generations: 2}, {Env: b, Generations: 2}}, testOptions(reporter)...)
	chrono.Compile(nil, WithPopulation(seed(0)))
	_, _, err := chrono.Evolve(context.Background(), 1)
	require.NoError(t, err)

	chrono.Plot()

	require.Len(t, reporter.plots, 1)
	segments := reporter.plots[0]
	require.Len(t, segments, 2)
	assert.Equal(t, 0, segments[0].Offset)
	assert.Equal(t, 2, segments[1].Offset)
	assert.Equal(t, []float64{3, 4}, segments[1].Values)
}

func TestChronologicalStopsOnError(t *testing.T) {
	reporter := &recordingReporter{}
	ok := New("ok", []Stage{climbStage{step: 1}}, testOptions(reporter)...)
	broken := New("broken", []Stage{StageFunc(func(pop *Population, env *Environment) error {
		*pop = nil
		return nil
	})}, testOptions(reporter)...)

	chrono := NewChronological("err", []Phase{{Env: ok, Generations: 2}, {Env: broken, Generations: 2}}, testOptions(reporter)...)
	chrono.Compile(nil, WithPopulation(seed(0)))

	_, history, err := chrono.Evolve(context.Background(), 1)
	assert.ErrorIs(t, err, ErrEmptyPopulation)
	assert.Equal(t, []float64{1, 2}, history)
}
