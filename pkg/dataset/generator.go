package dataset

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samber/lo"

	"github.com/limaJavier/uctp/pkg/model"
)

// Identifier ranges of the generated rooms
const (
	amphitheatreIdBase uint64 = 100
	seminarRoomIdBase  uint64 = 200
	laboratoryIdBase   uint64 = 300
)

type Parameters struct {
	Years            uint64
	GroupsPerYear    uint64 // At most 9, group identifiers are year*10+group
	SubjectsPerYear  uint64
	StudentsPerGroup uint64
	Amphitheatres    uint64
	SeminarRooms     uint64
	Laboratories     uint64
	Teachers         bool // Generate a lecturer, a seminar teacher and a lab instructor per subject
}

// DefaultParameters describe three years of seven groups with six subjects each
func DefaultParameters() Parameters {
	return Parameters{
		Years:            3,
		GroupsPerYear:    7,
		SubjectsPerYear:  6,
		StudentsPerGroup: 30,
		Amphitheatres:    2,
		SeminarRooms:     8,
		Laboratories:     8,
		Teachers:         true,
	}
}

func (parameters Parameters) Validate() error {
	if parameters.GroupsPerYear == 0 || parameters.GroupsPerYear > 9 {
		return fmt.Errorf("groups per year must be between 1 and 9: %v", parameters.GroupsPerYear)
	} else if parameters.Years == 0 {
		return fmt.Errorf("at least one year is required")
	} else if parameters.Amphitheatres+parameters.SeminarRooms+parameters.Laboratories == 0 {
		return fmt.Errorf("at least one room is required")
	} else if parameters.Amphitheatres > 99 || parameters.SeminarRooms > 99 || parameters.Laboratories > 99 {
		return fmt.Errorf("at most 99 rooms of each type are supported")
	}
	return nil
}

// Generate builds a raw (not normalized) input. Every subject of a year has one lecture attended by all the year's
// groups, plus a seminar and a laboratory session per group. Amphitheatres and seminar rooms stand in building 1 and
// laboratories in building 2.
func Generate(parameters Parameters) (model.Input, error) {
	if err := parameters.Validate(); err != nil {
		return model.Input{}, err
	}

	input := model.Input{
		Rooms:    generateRooms(parameters),
		Teachers: make([]model.Teacher, 0),
		Groups:   make([]model.Group, 0, parameters.Years*parameters.GroupsPerYear),
		Courses:  make([]model.Course, 0, parameters.Years*parameters.SubjectsPerYear*(1+2*parameters.GroupsPerYear)),
	}

	groupIndex := make(map[uint64]int)
	for year := uint64(1); year <= parameters.Years; year++ {
		for group := uint64(1); group <= parameters.GroupsPerYear; group++ {
			id := year*10 + group
			groupIndex[id] = len(input.Groups)
			input.Groups = append(input.Groups, model.Group{
				Id:       id,
				Name:     fmt.Sprintf("Year %v - G%v", year, group),
				Students: parameters.StudentsPerGroup,
				Courses:  make([]uint64, 0),
			})
		}
	}

	const noTeacher = -1
	nextCourseId := uint64(1)

	// Returns the index of the new teacher, or noTeacher when teachers are not generated
	newTeacher := func(name string) int {
		if !parameters.Teachers {
			return noTeacher
		}
		input.Teachers = append(input.Teachers, model.Teacher{Id: uint64(len(input.Teachers) + 1), Name: name, Courses: make([]uint64, 0)})
		return len(input.Teachers) - 1
	}
	newCourse := func(subject string, teacher int, groups []uint64, laboratory bool) {
		course := model.Course{
			Id:            nextCourseId,
			Subject:       subject,
			Groups:        groups,
			RequiredHours: 2,
			RequiredLab:   laboratory,
		}
		nextCourseId++

		if teacher != noTeacher {
			course.Professor = input.Teachers[teacher].Id
			input.Teachers[teacher].Courses = append(input.Teachers[teacher].Courses, course.Id)
		}
		for _, group := range groups {
			index := groupIndex[group]
			input.Groups[index].Courses = append(input.Groups[index].Courses, course.Id)
		}
		input.Courses = append(input.Courses, course)
	}

	for year := uint64(1); year <= parameters.Years; year++ {
		yearGroups := lo.Map(lo.RangeFrom(uint64(1), int(parameters.GroupsPerYear)), func(group uint64, _ int) uint64 {
			return year*10 + group
		})

		for subject := uint64(1); subject <= parameters.SubjectsPerYear; subject++ {
			name := fmt.Sprintf("Y%v Subj %v", year, subject)
			lecturer, seminarTeacher, labInstructor := newTeacher(name+" Lecturer"), newTeacher(name+" Seminar Teacher"), newTeacher(name+" Lab Instructor")

			newCourse(name+" (Lecture)", lecturer, yearGroups, false)
			for i, group := range yearGroups {
				newCourse(fmt.Sprintf("%v (Sem G%v)", name, i+1), seminarTeacher, []uint64{group}, false)
				newCourse(fmt.Sprintf("%v (Lab G%v)", name, i+1), labInstructor, []uint64{group}, true)
			}
		}
	}

	return input, nil
}

func generateRooms(parameters Parameters) []model.Room {
	rooms := make([]model.Room, 0, parameters.Amphitheatres+parameters.SeminarRooms+parameters.Laboratories)
	for i := uint64(1); i <= parameters.Amphitheatres; i++ {
		rooms = append(rooms, model.Room{Id: amphitheatreIdBase + i, Name: fmt.Sprintf("Amphitheatre %v", i), Capacity: 300, BuildingId: 1})
	}
	for i := uint64(1); i <= parameters.SeminarRooms; i++ {
		rooms = append(rooms, model.Room{Id: seminarRoomIdBase + i, Name: fmt.Sprintf("Seminar Room %v", i), Capacity: 40, BuildingId: 1})
	}
	for i := uint64(1); i <= parameters.Laboratories; i++ {
		rooms = append(rooms, model.Room{Id: laboratoryIdBase + i, Name: fmt.Sprintf("Laboratory %v", i), Capacity: 40, IsLaboratory: true, BuildingId: 2})
	}
	return rooms
}

func Write(writer io.Writer, input model.Input) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(input); err != nil {
		return fmt.Errorf("cannot encode dataset: %w", err)
	}
	return nil
}
