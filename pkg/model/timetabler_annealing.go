package model

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/go-logr/logr"
)

type annealingTimetabler struct {
	parameters AnnealingParameters
	logger     logr.Logger
	observer   Observer
}

// NewAnnealingTimetabler returns a timetabler running a single simulated-annealing walk. The observer may be nil.
func NewAnnealingTimetabler(parameters AnnealingParameters, logger logr.Logger, observer Observer) Timetabler {
	if observer == nil {
		observer = nopObserver{}
	}
	return &annealingTimetabler{
		parameters: parameters,
		logger:     logger,
		observer:   observer,
	}
}

func (timetabler *annealingTimetabler) Build(ctx context.Context, input Input) (Schedule, uint64, error) {
	if err := timetabler.parameters.Validate(); err != nil {
		return nil, 0, err
	} else if err := checkSearchable(input); err != nil {
		return nil, 0, err
	}

	walk := newAnnealingWalk(0, NewPenaltyEvaluator(input), input, timetabler.parameters, timetabler.logger, timetabler.observer)
	return walk.run(ctx)
}

func (timetabler *annealingTimetabler) Verify(schedule Schedule, input Input) bool {
	return Verify(schedule, input)
}

// annealingWalk holds the whole state of one search. Walks never share their schedules nor their random source.
type annealingWalk struct {
	id         int
	evaluator  PenaltyEvaluator
	rng        *rand.Rand
	courses    uint64
	rooms      uint64
	parameters AnnealingParameters
	logger     logr.Logger
	observer   Observer

	current        Schedule
	currentPenalty uint64
	best           Schedule
	bestPenalty    uint64
	temperature    float64
}

func newAnnealingWalk(id int, evaluator PenaltyEvaluator, input Input, parameters AnnealingParameters, logger logr.Logger, observer Observer) *annealingWalk {
	return &annealingWalk{
		id:         id,
		evaluator:  evaluator,
		rng:        newRandomSource(parameters.Seed + uint64(id)),
		courses:    uint64(len(input.Courses)),
		rooms:      uint64(len(input.Rooms)),
		parameters: parameters,
		logger:     logger.WithValues("walk", id),
		observer:   observer,
	}
}

func (walk *annealingWalk) run(ctx context.Context) (Schedule, uint64, error) {
	//** Initialize
	walk.current = RandomSchedule(walk.rng, walk.courses, walk.rooms)
	walk.currentPenalty = walk.evaluator.Score(walk.current)
	walk.best, walk.bestPenalty = walk.current, walk.currentPenalty
	walk.temperature = walk.parameters.StartTemperature

	// Nothing can improve on a zero penalty
	if walk.bestPenalty == 0 {
		return walk.best, walk.bestPenalty, nil
	}

	//** Search
	maxIterations := walk.parameters.MaxIterations
	reportEvery := max(maxIterations/10, 1)
	for iteration := 0; iteration < maxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			walk.logger.Info("Search interrupted", "iteration", iteration, "bestPenalty", walk.bestPenalty)
			return walk.best, walk.bestPenalty, err
		}

		neighbor := walk.neighbor()
		neighborPenalty := walk.evaluator.Score(neighbor)

		if neighborPenalty == 0 {
			walk.current, walk.currentPenalty = neighbor, neighborPenalty
			walk.best, walk.bestPenalty = neighbor, neighborPenalty
			walk.observe(iteration, neighborPenalty, true)
			walk.logger.V(1).Info("Found a schedule without penalty", "iteration", iteration)
			return walk.best, walk.bestPenalty, nil
		}

		accepted := walk.accept(neighborPenalty)
		if accepted {
			walk.current, walk.currentPenalty = neighbor, neighborPenalty
			if walk.currentPenalty < walk.bestPenalty {
				walk.best, walk.bestPenalty = walk.current, walk.currentPenalty
			}
		}
		walk.observe(iteration, neighborPenalty, accepted)

		walk.temperature *= walk.parameters.CoolingRate

		if (iteration+1)%reportEvery == 0 {
			walk.logger.V(1).Info("Search progress",
				"iteration", iteration+1,
				"temperature", walk.temperature,
				"currentPenalty", walk.currentPenalty,
				"bestPenalty", walk.bestPenalty,
			)
		}
	}

	return walk.best, walk.bestPenalty, nil
}

// Copies the current schedule and redraws the assignment of a single random course
func (walk *annealingWalk) neighbor() Schedule {
	course := walk.rng.Uint64N(walk.courses)
	return walk.current.With(course, RandomAssignment(walk.rng, walk.rooms))
}

// Metropolis criterion: improvements are always accepted, while worse candidates are accepted with a probability
// that shrinks as the worsening grows and the temperature falls
func (walk *annealingWalk) accept(neighborPenalty uint64) bool {
	delta := float64(walk.currentPenalty) - float64(neighborPenalty)
	if delta > 0 {
		return true
	}
	return walk.rng.Float64() < acceptanceProbability(delta, walk.temperature)
}

func (walk *annealingWalk) observe(iteration int, neighborPenalty uint64, accepted bool) {
	walk.observer.Observe(Iteration{
		Walk:            walk.id,
		Number:          iteration,
		Temperature:     walk.temperature,
		CurrentPenalty:  walk.currentPenalty,
		NeighborPenalty: neighborPenalty,
		BestPenalty:     walk.bestPenalty,
		Accepted:        accepted,
	})
}

func acceptanceProbability(delta, temperature float64) float64 {
	// The temperature can underflow to zero on very long searches
	if temperature <= 0 {
		if delta == 0 {
			return 1
		}
		return 0
	}
	return math.Exp(delta / temperature)
}

func newRandomSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
