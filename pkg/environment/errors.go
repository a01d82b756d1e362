package environment

import "errors"

var (
	// ErrEmptyPopulation is returned when a generation step leaves no candidates
	ErrEmptyPopulation = errors.New("population is empty after generation")

	// ErrNoEnvironments is returned by composites that were given nothing to run
	ErrNoEnvironments = errors.New("no environments to run")
)
