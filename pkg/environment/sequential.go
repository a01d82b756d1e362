package environment

// Sequential is a plain stage pipeline that can be rerun from scratch
type Sequential struct {
	*Environment
}

// NewSequential creates a sequential environment
func NewSequential(name string, stages []Stage, opts ...Option) *Sequential {
	return &Sequential{Environment: New(name, stages, opts...)}
}

// Reset clears the population, history and iteration index so the same
// stages can run again. The best-ever snapshot is kept.
func (s *Sequential) Reset() {
	s.population = Population{}
	s.history = []float64{}
	s.iteration = 0
	s.target = 0
}
