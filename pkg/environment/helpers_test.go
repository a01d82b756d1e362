package environment

import (
	"bytes"
	"io"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ishanwen-byte/evoenv-go/internal/types"
)

type testCandidate struct {
	fitness float64
	tag     int
}

func (c *testCandidate) Fitness() float64 {
	return c.fitness
}

func (c *testCandidate) Clone() Candidate {
	cp := *c
	return &cp
}

func seed(fitness ...float64) Population {
	pop := make(Population, 0, len(fitness))
	for _, f := range fitness {
		pop = append(pop, &testCandidate{fitness: f})
	}
	return pop
}

// climbStage appends a candidate one step fitter than the current best
type climbStage struct {
	step float64
}

func (s climbStage) Run(pop *Population, env *Environment) error {
	best := 0.0
	for i, c := range *pop {
		if i == 0 || c.Fitness() > best {
			best = c.Fitness()
		}
	}
	*pop = append(*pop, &testCandidate{fitness: best + s.step, tag: env.Iteration()})
	return nil
}

// constStage appends a candidate with a fixed fitness
type constStage struct {
	value float64
}

func (s constStage) Run(pop *Population, env *Environment) error {
	*pop = append(*pop, &testCandidate{fitness: s.value, tag: env.Iteration()})
	return nil
}

// scriptStage appends candidates with the scripted fitness values, one per
// generation; a NaN entry empties the population instead
type scriptStage struct {
	values []float64
	next   *int
}

func newScriptStage(values ...float64) scriptStage {
	return scriptStage{values: values, next: new(int)}
}

func (s scriptStage) Run(pop *Population, env *Environment) error {
	v := s.values[*s.next]
	*s.next++
	if math.IsNaN(v) {
		*pop = (*pop)[:0]
		return nil
	}
	*pop = append(*pop, &testCandidate{fitness: v, tag: env.Iteration()})
	return nil
}

type recordingReporter struct {
	mu          sync.Mutex
	tableTitles []string
	tables      [][]types.RunResult
	plotTitles  []string
	plots       [][]types.Series
}

func (r *recordingReporter) Table(title string, results []types.RunResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tableTitles = append(r.tableTitles, title)
	r.tables = append(r.tables, results)
}

func (r *recordingReporter) Plot(title string, series []types.Series) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plotTitles = append(r.plotTitles, title)
	r.plots = append(r.plots, series)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func bufferLogger() (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return logger, &buf
}

func testOptions(reporter Reporter) []Option {
	return []Option{WithLogger(quietLogger()), WithReporter(reporter)}
}
