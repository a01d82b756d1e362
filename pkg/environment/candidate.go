package environment

import (
	"context"
)

// Candidate is a single solution instance with a comparable fitness value
type Candidate interface {
	Fitness() float64
	// Clone returns an independent deep copy
	Clone() Candidate
}

// Population is the ordered working set of candidates for one environment.
// After a generation step the last element is that generation's best.
type Population []Candidate

// Last returns the final candidate, or nil when the population is empty
func (p Population) Last() Candidate {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// ClonePopulation deep-copies every candidate of pop
func ClonePopulation(pop Population) Population {
	if pop == nil {
		return nil
	}
	cloned := make(Population, len(pop))
	for i, c := range pop {
		cloned[i] = c.Clone()
	}
	return cloned
}

// Stage is one transformation applied to the population each generation.
// Run mutates the population in place through pop and must not keep the
// pointer after it returns.
type Stage interface {
	Run(pop *Population, env *Environment) error
}

// StageFunc adapts a function to the Stage interface
type StageFunc func(pop *Population, env *Environment) error

// Run calls f(pop, env)
func (f StageFunc) Run(pop *Population, env *Environment) error {
	return f(pop, env)
}

// FitnessFunc scores a candidate. The generation loop never calls it; it is
// handed through Compile for stages to use.
type FitnessFunc func(Candidate) float64

// Callback is invoked with the population after every generation, and once
// per finished sub-environment in adversarial runs.
type Callback func(pop Population, env Evolver)

// Evolver is the behaviour shared by every environment, plain or composite
type Evolver interface {
	Name() string
	Compile(fitness FitnessFunc, opts ...CompileOption)
	IsCompiled() bool
	Evolve(ctx context.Context, generations int) (Population, []float64, error)
	FitnessMetric() float64
}

// Member is an environment that a composite can drive and hand populations to
type Member interface {
	Evolver
	Population() Population
	SetPopulation(pop Population)
	History() []float64
	SetHistory(history []float64)
	LastFitness() (float64, bool)
	Deactivate()
	Active() bool
}
