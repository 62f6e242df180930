package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

type unassignableError struct {
}

func (err unassignableError) Error() string {
	return "not all courses can be assigned a room"
}

func checkSearchable(input Input) error {
	if len(input.Courses) > 0 && len(input.Rooms) == 0 {
		return errors.New("there are no rooms to assign courses to")
	}
	return nil
}

// roomAssignment keeps every course at its day and slot, and reassigns the rooms of each (day, slot) so that every
// course gets a distinct room which fits its students and has the required type. Time cells where no such assignment
// exists keep their original rooms.
func roomAssignment(schedule Schedule, input Input, evaluator predicateEvaluator, logger logr.Logger) (Schedule, error) {
	cells := newIndexer(Days, Slots, 1)
	simultaneousCourses := make(map[uint64][]uint64)
	for course, assignment := range schedule {
		key := cells.Index(assignment.Day, assignment.Slot, 0)
		simultaneousCourses[key] = append(simultaneousCourses[key], uint64(course))
	}

	rooms := lo.Range(len(input.Rooms))
	repaired := schedule.Clone()

	for key, courses := range simultaneousCourses {
		day, slot, _ := cells.Attributes(key)

		assignments, err := assignRooms(courses, rooms, func(course uint64, room int) bool {
			return evaluator.Fits(course, uint64(room)) && evaluator.Suitable(course, uint64(room))
		})
		if _, ok := err.(unassignableError); ok {
			logger.V(1).Info("Cannot assign rooms", "day", day, "slot", slot, "courses", describeCourses(courses, input), "error", err)
			continue
		} else if err != nil {
			return nil, err
		}

		for _, assignment := range assignments {
			course, room := assignment[0], assignment[1]
			repaired[course] = Assignment{Day: day, Slot: slot, Room: room}
		}
	}

	return repaired, nil
}

func assignRooms(courses []uint64, rooms []int, suitable func(course uint64, room int) bool) ([][2]uint64, error) {
	assignments := make([][2]uint64, 0, len(courses))

	// Build neighbors predicate based on suitability
	neighbors := func(courseAny any, roomAny any) (bool, error) {
		return suitable(courseAny.(uint64), roomAny.(int)), nil
	}

	// Transform courses and rooms to slices of any
	coursesAny, roomsAny := lo.Map(courses, func(course uint64, _ int) any { return course }), lo.Map(rooms, func(room int, _ int) any { return room })

	graph, err := bipartitegraph.NewBipartiteGraph(coursesAny, roomsAny, neighbors)
	if err != nil {
		return nil, err
	}

	matching := graph.LargestMatching()

	// Check the matching is a maximum one
	if len(matching) < len(courses) {
		return nil, unassignableError{}
	}

	for _, edge := range matching {
		courseIndex, roomIndex := edge.Node1, edge.Node2-len(courses)
		course, room := courses[courseIndex], rooms[roomIndex]

		assignments = append(assignments, [2]uint64{course, uint64(room)})
	}

	return assignments, nil
}

func describeCourses(courses []uint64, input Input) string {
	var builder strings.Builder
	for i, course := range courses {
		if i > 0 {
			builder.WriteString(", ")
		}
		fmt.Fprintf(&builder, "%v (%v students", input.Courses[course].Subject, input.CapacityNeeded(course))
		if input.Courses[course].RequiredLab {
			builder.WriteString(", laboratory")
		}
		builder.WriteString(")")
	}
	return builder.String()
}
