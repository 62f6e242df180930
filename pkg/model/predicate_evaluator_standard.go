package model

import (
	"github.com/samber/lo"
)

type predicateEvaluatorStandard struct {
	input          Input
	capacityNeeded []uint64 // Students attending each course
}

func newPredicateEvaluator(input Input) predicateEvaluator {
	return &predicateEvaluatorStandard{
		input: input,
		capacityNeeded: lo.Map(input.Courses, func(_ Course, course int) uint64 {
			return input.CapacityNeeded(uint64(course))
		}),
	}
}

func (evaluator *predicateEvaluatorStandard) Fits(course, room uint64) bool {
	return evaluator.input.Rooms[room].Capacity >= evaluator.capacityNeeded[course]
}

func (evaluator *predicateEvaluatorStandard) Suitable(course, room uint64) bool {
	return !evaluator.input.Courses[course].RequiredLab || evaluator.input.Rooms[room].IsLaboratory
}

func (evaluator *predicateEvaluatorStandard) SameBuilding(room1, room2 uint64) bool {
	return evaluator.input.Rooms[room1].BuildingId == evaluator.input.Rooms[room2].BuildingId
}
