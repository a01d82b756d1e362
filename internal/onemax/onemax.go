// Package onemax is a small bit-string problem used to exercise the
// environment pipeline: fitness is the number of set bits.
package onemax

import (
	"fmt"
	"sort"

	"github.com/ishanwen-byte/evoenv-go/pkg/environment"
)

// Genome is a fixed-length bit string with a cached score
type Genome struct {
	Bits  []bool
	score float64
}

// NewGenome wraps bits and scores them with CountOnes
func NewGenome(bits []bool) *Genome {
	g := &Genome{Bits: bits}
	g.score = CountOnes(g)
	return g
}

// Fitness returns the cached score
func (g *Genome) Fitness() float64 {
	return g.score
}

// Clone returns a deep copy
func (g *Genome) Clone() environment.Candidate {
	bits := make([]bool, len(g.Bits))
	copy(bits, g.Bits)
	return &Genome{Bits: bits, score: g.score}
}

// String renders the genome as 0s and 1s
func (g *Genome) String() string {
	out := make([]byte, len(g.Bits))
	for i, b := range g.Bits {
		if b {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}

// CountOnes is the default OneMax fitness
func CountOnes(c environment.Candidate) float64 {
	g, ok := c.(*Genome)
	if !ok {
		return 0
	}
	var n float64
	for _, b := range g.Bits {
		if b {
			n++
		}
	}
	return n
}

// rescore applies the environment's compiled fitness function, falling
// back to CountOnes when none was compiled
func rescore(g *Genome, env *environment.Environment) {
	if fn := env.FitnessFunction(); fn != nil {
		g.score = fn(g)
		return
	}
	g.score = CountOnes(g)
}

func asGenome(c environment.Candidate) (*Genome, error) {
	g, ok := c.(*Genome)
	if !ok {
		return nil, fmt.Errorf("onemax: unexpected candidate type %T", c)
	}
	return g, nil
}

// Seed fills an empty population with Size random genomes of Length bits
type Seed struct {
	Size   int
	Length int
}

// Run implements environment.Stage
func (s Seed) Run(pop *environment.Population, env *environment.Environment) error {
	if len(*pop) > 0 {
		return nil
	}
	if s.Size <= 0 || s.Length <= 0 {
		return fmt.Errorf("onemax: invalid seed size %d or length %d", s.Size, s.Length)
	}

	rng := env.Rand()
	seeded := make(environment.Population, 0, s.Size)
	for i := 0; i < s.Size; i++ {
		bits := make([]bool, s.Length)
		for j := range bits {
			bits[j] = rng.Intn(2) == 1
		}
		g := &Genome{Bits: bits}
		rescore(g, env)
		seeded = append(seeded, g)
	}
	*pop = seeded
	return nil
}

// Mutate appends one mutated clone of every candidate. Each bit of a clone
// flips with probability Rate.
type Mutate struct {
	Rate float64
}

// Run implements environment.Stage
func (m Mutate) Run(pop *environment.Population, env *environment.Environment) error {
	rng := env.Rand()
	parents := len(*pop)
	for i := 0; i < parents; i++ {
		parent, err := asGenome((*pop)[i])
		if err != nil {
			return err
		}
		child := parent.Clone().(*Genome)
		for j := range child.Bits {
			if rng.Float64() < m.Rate {
				child.Bits[j] = !child.Bits[j]
			}
		}
		rescore(child, env)
		*pop = append(*pop, child)
	}
	return nil
}

// Sort orders the population by ascending fitness so the best is last
type Sort struct{}

// Run implements environment.Stage
func (Sort) Run(pop *environment.Population, env *environment.Environment) error {
	p := *pop
	sort.SliceStable(p, func(i, j int) bool {
		return p[i].Fitness() < p[j].Fitness()
	})
	return nil
}

// Truncate keeps the Keep last candidates. Run it after Sort.
type Truncate struct {
	Keep int
}

// Run implements environment.Stage
func (t Truncate) Run(pop *environment.Population, env *environment.Environment) error {
	if t.Keep <= 0 || len(*pop) <= t.Keep {
		return nil
	}
	*pop = (*pop)[len(*pop)-t.Keep:]
	return nil
}

// Pipeline returns the standard stage order for one generation
func Pipeline(size, length int, rate float64) []environment.Stage {
	return []environment.Stage{
		Seed{Size: size, Length: length},
		Mutate{Rate: rate},
		Sort{},
		Truncate{Keep: size},
	}
}
