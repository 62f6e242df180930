package model

import (
	"context"

	"github.com/go-logr/logr"
)

type repairedTimetabler struct {
	inner  Timetabler
	logger logr.Logger
}

// NewRepairedTimetabler wraps a timetabler and reassigns the rooms of its result through maximum bipartite matching.
// The repaired schedule replaces the original one only when it scores lower.
func NewRepairedTimetabler(inner Timetabler, logger logr.Logger) Timetabler {
	return &repairedTimetabler{
		inner:  inner,
		logger: logger,
	}
}

func (timetabler *repairedTimetabler) Build(ctx context.Context, input Input) (Schedule, uint64, error) {
	schedule, penalty, err := timetabler.inner.Build(ctx, input)
	if err != nil || penalty == 0 {
		return schedule, penalty, err
	}

	repaired, err := roomAssignment(schedule, input, newPredicateEvaluator(input), timetabler.logger)
	if err != nil {
		return schedule, penalty, err
	}

	repairedPenalty := NewPenaltyEvaluator(input).Score(repaired)
	timetabler.logger.V(1).Info("Rooms reassigned", "penalty", penalty, "repairedPenalty", repairedPenalty)
	if repairedPenalty < penalty {
		return repaired, repairedPenalty, nil
	}
	return schedule, penalty, nil
}

func (timetabler *repairedTimetabler) Verify(schedule Schedule, input Input) bool {
	return timetabler.inner.Verify(schedule, input)
}
