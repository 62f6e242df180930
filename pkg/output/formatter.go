package output

import (
	"io"

	"github.com/limaJavier/uctp/pkg/model"
)

// Formatter renders a schedule of a normalized input
type Formatter interface {
	Format(writer io.Writer, schedule model.Schedule, input model.Input) error
}

var Formatters = map[string]func() Formatter{
	"console": NewConsoleFormatter,
	"json":    NewJsonFormatter,
}

var (
	DayNames  = [model.Days]string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	SlotNames = [model.Slots]string{
		"08:00-10:00",
		"10:00-12:00",
		"12:00-14:00",
		"14:00-16:00",
		"16:00-18:00",
		"18:00-20:00",
	}
)

// owner is a group or a teacher together with the courses making up its timetable
type owner struct {
	kind    string
	id      uint64
	name    string
	courses []uint64
}

func owners(input model.Input) []owner {
	result := make([]owner, 0, len(input.Groups)+len(input.Teachers))
	for _, group := range input.Groups {
		result = append(result, owner{kind: "group", id: group.Id, name: group.Name, courses: group.Courses})
	}
	for _, teacher := range input.Teachers {
		result = append(result, owner{kind: "teacher", id: teacher.Id, name: teacher.Name, courses: teacher.Courses})
	}
	return result
}
