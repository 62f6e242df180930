package model

type predicateEvaluator interface {
	// Checks whether the sum of the course's group sizes is smaller than or equal to the room's capacity (i.e. the course fits in the room)
	Fits(course, room uint64) bool

	// Checks whether the room is of the type the course requires (i.e. a laboratory when the course requires one)
	Suitable(course, room uint64) bool

	// Checks whether room1 and room2 belong to the same building
	SameBuilding(room1, room2 uint64) bool
}
