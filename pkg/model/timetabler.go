package model

import (
	"context"
	"fmt"
	"math"

	"github.com/go-logr/logr"
)

type Timetabler interface {
	Build(
		ctx context.Context,
		input Input,
	) (schedule Schedule, penalty uint64, err error)

	Verify(
		schedule Schedule,
		input Input,
	) bool
}

type AnnealingParameters struct {
	StartTemperature float64 // Initial temperature, must be positive
	CoolingRate      float64 // Factor applied to the temperature after every iteration, in (0, 1)
	MaxIterations    int     // Non-positive values skip the search and return the initial candidate
	Seed             uint64  // Seed of the search's random source
}

func (parameters AnnealingParameters) Validate() error {
	if !(parameters.StartTemperature > 0) || math.IsInf(parameters.StartTemperature, 1) {
		return fmt.Errorf("start temperature must be a positive number: %v", parameters.StartTemperature)
	}
	if !(parameters.CoolingRate > 0 && parameters.CoolingRate < 1) {
		return fmt.Errorf("cooling rate must be greater than 0 and smaller than 1: %v", parameters.CoolingRate)
	}
	return nil
}

// Iteration describes a single step of an annealing walk
type Iteration struct {
	Walk            int
	Number          int
	Temperature     float64
	CurrentPenalty  uint64 // Penalty of the current candidate after the step
	NeighborPenalty uint64
	BestPenalty     uint64
	Accepted        bool
}

// Observer is notified after every annealing iteration. Timetablers running several walks call it from different
// goroutines, so implementations must be safe for concurrent use.
type Observer interface {
	Observe(iteration Iteration)
}

type nopObserver struct{}

func (nopObserver) Observe(Iteration) {}

// Strategies builds a timetabler by name. walks is only used by the strategies running several walks.
var Strategies = map[string]func(parameters AnnealingParameters, walks int, logger logr.Logger, observer Observer) Timetabler{
	"pure": func(parameters AnnealingParameters, _ int, logger logr.Logger, observer Observer) Timetabler {
		return NewAnnealingTimetabler(parameters, logger, observer)
	},
	"restarts": NewRestartsTimetabler,
	"repaired": func(parameters AnnealingParameters, _ int, logger logr.Logger, observer Observer) Timetabler {
		return NewRepairedTimetabler(NewAnnealingTimetabler(parameters, logger, observer), logger)
	},
}

func NewTimetabler(strategy string, parameters AnnealingParameters, walks int, logger logr.Logger, observer Observer) (Timetabler, error) {
	constructor, ok := Strategies[strategy]
	if !ok {
		return nil, fmt.Errorf("%v is not a valid strategy", strategy)
	}
	return constructor(parameters, walks, logger, observer), nil
}
