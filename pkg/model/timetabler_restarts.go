package model

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"
)

type restartsTimetabler struct {
	parameters AnnealingParameters
	walks      int
	logger     logr.Logger
	observer   Observer
}

// NewRestartsTimetabler returns a timetabler running independent annealing walks concurrently and keeping the best
// result. Walk i draws from a random source seeded with parameters.Seed + i.
func NewRestartsTimetabler(parameters AnnealingParameters, walks int, logger logr.Logger, observer Observer) Timetabler {
	if observer == nil {
		observer = nopObserver{}
	}
	return &restartsTimetabler{
		parameters: parameters,
		walks:      walks,
		logger:     logger,
		observer:   observer,
	}
}

type walkResult struct {
	schedule Schedule
	penalty  uint64
}

func (timetabler *restartsTimetabler) Build(ctx context.Context, input Input) (Schedule, uint64, error) {
	if err := timetabler.parameters.Validate(); err != nil {
		return nil, 0, err
	} else if timetabler.walks < 1 {
		return nil, 0, fmt.Errorf("at least one walk is required: %v", timetabler.walks)
	} else if err := checkSearchable(input); err != nil {
		return nil, 0, err
	}

	// The evaluator is read-only, hence all walks share it
	evaluator := NewPenaltyEvaluator(input)
	results := make([]walkResult, timetabler.walks)

	group, groupCtx := errgroup.WithContext(ctx)
	for i := range timetabler.walks {
		group.Go(func() error {
			walk := newAnnealingWalk(i, evaluator, input, timetabler.parameters, timetabler.logger, timetabler.observer)
			schedule, penalty, err := walk.run(groupCtx)
			results[i] = walkResult{schedule: schedule, penalty: penalty}
			return err
		})
	}
	err := group.Wait()

	// Ties are broken by the lowest walk index so results are reproducible
	best := -1
	for i, result := range results {
		if result.schedule == nil {
			continue
		}
		if best < 0 || result.penalty < results[best].penalty {
			best = i
		}
	}
	if best < 0 {
		return nil, 0, err
	}

	timetabler.logger.V(1).Info("Walks finished", "walks", timetabler.walks, "bestWalk", best, "penalty", results[best].penalty)
	return results[best].schedule, results[best].penalty, err
}

func (timetabler *restartsTimetabler) Verify(schedule Schedule, input Input) bool {
	return Verify(schedule, input)
}
