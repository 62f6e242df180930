package model

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Assignment places a course at a day, a slot within that day and a room (index into Input.Rooms)
type Assignment struct {
	Day  uint64 `json:"day"`
	Slot uint64 `json:"slot"`
	Room uint64 `json:"room"`
}

// Schedule holds one assignment per course index. It is a candidate solution and it's never validated:
// infeasible schedules must be representable so the search can score them and move away from them.
type Schedule []Assignment

func (schedule Schedule) Clone() Schedule {
	return slices.Clone(schedule)
}

// With returns a copy of the schedule where only the given course's assignment is replaced
func (schedule Schedule) With(course uint64, assignment Assignment) Schedule {
	neighbor := schedule.Clone()
	neighbor[course] = assignment
	return neighbor
}

func RandomAssignment(rng *rand.Rand, rooms uint64) Assignment {
	return Assignment{
		Day:  rng.Uint64N(Days),
		Slot: rng.Uint64N(Slots),
		Room: rng.Uint64N(rooms),
	}
}

// RandomSchedule draws every course's day, slot and room independently and uniformly
func RandomSchedule(rng *rand.Rand, courses, rooms uint64) Schedule {
	schedule := make(Schedule, courses)
	for course := range schedule {
		schedule[course] = RandomAssignment(rng, rooms)
	}
	return schedule
}

// ValidateSchedule checks a schedule coming from outside the search (e.g. a file) before it's evaluated
func ValidateSchedule(schedule Schedule, input Input) error {
	if len(schedule) != len(input.Courses) {
		return fmt.Errorf("schedule has %v assignments but there are %v courses", len(schedule), len(input.Courses))
	}
	rooms := uint64(len(input.Rooms))
	for course, assignment := range schedule {
		if assignment.Day >= Days || assignment.Slot >= Slots || assignment.Room >= rooms {
			return fmt.Errorf("assignment of course %v is out of range: %+v", input.Courses[course].Id, assignment)
		}
	}
	return nil
}
