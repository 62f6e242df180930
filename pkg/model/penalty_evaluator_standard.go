package model

type penaltyEvaluatorStandard struct {
	input     Input
	predicate predicateEvaluator
	indexer   indexer
	hardUnit  uint64
}

// NewPenaltyEvaluator builds an evaluator for a normalized input. The input must not be modified afterwards.
func NewPenaltyEvaluator(input Input) PenaltyEvaluator {
	return &penaltyEvaluatorStandard{
		input:     input,
		predicate: newPredicateEvaluator(input),
		indexer:   newIndexer(Days, Slots, uint64(len(input.Rooms))),
		hardUnit:  hardUnitFor(input),
	}
}

func (evaluator *penaltyEvaluatorStandard) Score(schedule Schedule) uint64 {
	return evaluator.Breakdown(schedule).Total(evaluator.hardUnit)
}

func (evaluator *penaltyEvaluatorStandard) HardUnit() uint64 {
	return evaluator.hardUnit
}

func (evaluator *penaltyEvaluatorStandard) Breakdown(schedule Schedule) Breakdown {
	var breakdown Breakdown

	evaluator.roomUsage(schedule, &breakdown)
	for _, group := range evaluator.input.Groups {
		evaluator.ownerTimetable(schedule, group.Courses, &breakdown)
	}
	for _, teacher := range evaluator.input.Teachers {
		evaluator.ownerTimetable(schedule, teacher.Courses, &breakdown)
	}

	return breakdown
}

// Checks capacity, room type and double booking of every room
func (evaluator *penaltyEvaluatorStandard) roomUsage(schedule Schedule, breakdown *Breakdown) {
	occupied := make([]bool, evaluator.indexer.Size())

	for course, assignment := range schedule {
		course := uint64(course)

		if !evaluator.predicate.Fits(course, assignment.Room) {
			breakdown.OverCapacity++
		}
		if !evaluator.predicate.Suitable(course, assignment.Room) {
			breakdown.RoomTypeMismatch++
		}

		cell := evaluator.indexer.Index(assignment.Day, assignment.Slot, assignment.Room)
		if occupied[cell] {
			breakdown.RoomDoubleBooking++
		} else {
			occupied[cell] = true
		}
	}
}

// Checks the personal timetable of a group or a teacher given the courses it attends (or teaches)
func (evaluator *penaltyEvaluatorStandard) ownerTimetable(schedule Schedule, courses []uint64, breakdown *Breakdown) {
	var timetable [Days][Slots]uint64 // Room index plus one; zero stands for a free slot

	for _, course := range courses {
		assignment := schedule[course]
		day, slot := assignment.Day, assignment.Slot

		// The owner is already attending another course at that time
		if timetable[day][slot] != 0 {
			breakdown.OwnerDoubleBooking++
			continue
		}
		timetable[day][slot] = assignment.Room + 1

		// Adjacent courses must take place in the same building
		if slot > 0 && timetable[day][slot-1] != 0 && !evaluator.predicate.SameBuilding(timetable[day][slot-1]-1, assignment.Room) {
			breakdown.Teleportations++
		}
		if slot+1 < Slots && timetable[day][slot+1] != 0 && !evaluator.predicate.SameBuilding(timetable[day][slot+1]-1, assignment.Room) {
			breakdown.Teleportations++
		}
	}

	for day := range timetable {
		gapPoints, longDayPoints := dayPenalty(timetable[day])
		breakdown.GapPoints += gapPoints
		breakdown.LongDayPoints += longDayPoints
	}
}

// Scores the compactness of a single day. Only the active window (from the first to the last occupied slot) is
// considered, so free slots at the start or the end of the day are never penalized.
func dayPenalty(day [Slots]uint64) (gapPoints, longDayPoints uint64) {
	first, last, occupied := uint64(0), uint64(0), false
	for slot, room := range day {
		if room == 0 {
			continue
		}
		if !occupied {
			first, occupied = uint64(slot), true
		}
		last = uint64(slot)
	}
	if !occupied {
		return 0, 0
	}

	gap := uint64(0)
	for slot := first; slot <= last; slot++ {
		if day[slot] == 0 {
			gap++
			continue
		}
		if gap > 0 {
			gapPoints += gapPenalty(gap)
			gap = 0
		}
	}

	if window := last - first + 1; window > comfortableWindow {
		overflow := window - comfortableWindow
		longDayPoints = overflow * overflow * longDayFactor
	}

	return gapPoints, longDayPoints
}
