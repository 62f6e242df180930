package model

import (
	"sync"
	"sync/atomic"
)

// Two courses attended by a single group of 30 students, rooms placed in the given buildings
func twoCourseInput(firstBuilding, secondBuilding uint64) Input {
	return Input{
		Rooms: []Room{
			{Id: 0, Name: "A1", Capacity: 100, BuildingId: firstBuilding},
			{Id: 1, Name: "B1", Capacity: 100, BuildingId: secondBuilding},
		},
		Groups: []Group{
			{Id: 0, Name: "G11", Students: 30, Courses: []uint64{0, 1}},
		},
		Courses: []Course{
			{Id: 0, Subject: "Algebra", Groups: []uint64{0}, RequiredHours: 1},
			{Id: 1, Subject: "Physics", Groups: []uint64{0}, RequiredHours: 1},
		},
	}
}

// A small already normalized instance: one shared lecture plus a seminar and a lab per group
func smallInput() Input {
	return Input{
		Rooms: []Room{
			{Id: 0, Name: "Amphitheatre", Capacity: 100, BuildingId: 1},
			{Id: 1, Name: "Seminar 1", Capacity: 40, BuildingId: 1},
			{Id: 2, Name: "Laboratory", Capacity: 40, IsLaboratory: true, BuildingId: 2},
			{Id: 3, Name: "Seminar 2", Capacity: 40, BuildingId: 1},
		},
		Teachers: []Teacher{
			{Id: 0, Name: "Lecturer", Courses: []uint64{0, 1, 3}},
			{Id: 1, Name: "Instructor", Courses: []uint64{2, 4}},
		},
		Groups: []Group{
			{Id: 0, Name: "G11", Students: 30, Courses: []uint64{0, 1, 2}},
			{Id: 1, Name: "G12", Students: 30, Courses: []uint64{0, 3, 4}},
		},
		Courses: []Course{
			{Id: 0, Subject: "Calculus lecture", Professor: 0, Groups: []uint64{0, 1}, RequiredHours: 1},
			{Id: 1, Subject: "Calculus seminar", Professor: 0, Groups: []uint64{0}, RequiredHours: 1},
			{Id: 2, Subject: "Calculus lab", Professor: 1, Groups: []uint64{0}, RequiredHours: 1, RequiredLab: true},
			{Id: 3, Subject: "Calculus seminar", Professor: 0, Groups: []uint64{1}, RequiredHours: 1},
			{Id: 4, Subject: "Calculus lab", Professor: 1, Groups: []uint64{1}, RequiredHours: 1, RequiredLab: true},
		},
	}
}

// Every room is too small for any course, hence no schedule can reach a zero penalty
func overcrowdedInput() Input {
	input := smallInput()
	for i := range input.Rooms {
		input.Rooms[i].Capacity = 10
	}
	return input
}

type countingObserver struct {
	iterations atomic.Int64
}

func (observer *countingObserver) Observe(Iteration) {
	observer.iterations.Add(1)
}

type recordingObserver struct {
	mutex      sync.Mutex
	iterations []Iteration
}

func (observer *recordingObserver) Observe(iteration Iteration) {
	observer.mutex.Lock()
	defer observer.mutex.Unlock()
	observer.iterations = append(observer.iterations, iteration)
}
