package model

import (
	"fmt"
)

type UnresolvedReferenceError struct {
	Kind     string // Kind of the referenced entity (e.g. "group")
	Referrer string // Entity holding the reference (e.g. "course 1001")
	Id       uint64
}

func (err *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%v refers to non-existent %v id: %v", err.Referrer, err.Kind, err.Id)
}

type DuplicateIdentifierError struct {
	Kind string
	Id   uint64
}

func (err *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("%v id %v is declared more than once", err.Kind, err.Id)
}

// Normalize rewrites the externally chosen identifiers held in Course.Groups, Group.Courses and Teacher.Courses
// into indices of the groups and courses slices. The entities' own Id fields are preserved so results can be mapped
// back to external identifiers. The given input is not modified.
func Normalize(input Input) (Input, error) {
	groupLookup, err := newLookup(input.Groups, "group", func(group Group) uint64 { return group.Id })
	if err != nil {
		return Input{}, err
	}
	courseLookup, err := newLookup(input.Courses, "course", func(course Course) uint64 { return course.Id })
	if err != nil {
		return Input{}, err
	}

	normalized := Input{
		Rooms:    input.Rooms,
		Teachers: make([]Teacher, len(input.Teachers)),
		Groups:   make([]Group, len(input.Groups)),
		Courses:  make([]Course, len(input.Courses)),
	}

	for i, course := range input.Courses {
		course.Groups, err = groupLookup.resolve(course.Groups, fmt.Sprintf("course %v", course.Id))
		if err != nil {
			return Input{}, err
		}
		normalized.Courses[i] = course
	}

	for i, group := range input.Groups {
		group.Courses, err = courseLookup.resolve(group.Courses, fmt.Sprintf("group %v", group.Id))
		if err != nil {
			return Input{}, err
		}
		normalized.Groups[i] = group
	}

	for i, teacher := range input.Teachers {
		teacher.Courses, err = courseLookup.resolve(teacher.Courses, fmt.Sprintf("teacher %v", teacher.Id))
		if err != nil {
			return Input{}, err
		}
		normalized.Teachers[i] = teacher
	}

	return normalized, nil
}

// identifier is any externally chosen integer identifier
type identifier interface{ ~uint64 }

// lookup maps an entity's declared identifier to its position in the entity slice
type lookup[K identifier] struct {
	kind    string
	indices map[K]uint64
}

func newLookup[T any, K identifier](items []T, kind string, key func(item T) K) (lookup[K], error) {
	indices := make(map[K]uint64, len(items))
	for i, item := range items {
		id := key(item)
		if _, ok := indices[id]; ok {
			return lookup[K]{}, &DuplicateIdentifierError{Kind: kind, Id: uint64(id)}
		}
		indices[id] = uint64(i)
	}
	return lookup[K]{kind: kind, indices: indices}, nil
}

// Translates every identifier into its index, failing on the first one that cannot be found
func (l lookup[K]) resolve(ids []K, referrer string) ([]uint64, error) {
	resolved := make([]uint64, 0, len(ids))
	for _, id := range ids {
		index, ok := l.indices[id]
		if !ok {
			return nil, &UnresolvedReferenceError{Kind: l.kind, Referrer: referrer, Id: uint64(id)}
		}
		resolved = append(resolved, index)
	}
	return resolved, nil
}
