package output

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/samber/lo"

	"github.com/limaJavier/uctp/pkg/model"
)

// Entry is one course of an owner's timetable. Identifiers are the external ones found in the input document.
type Entry struct {
	Day      uint64 `json:"day"`
	Slot     uint64 `json:"slot"`
	Course   uint64 `json:"course"`
	Subject  string `json:"subject"`
	Room     uint64 `json:"room"`
	RoomName string `json:"room_name"`
}

// Document is the JSON output of a solve. Schedule keeps the raw assignments (room indices, one per course) so the
// document can be scored again later.
type Document struct {
	Penalty   uint64             `json:"penalty"`
	Breakdown model.Breakdown    `json:"breakdown"`
	Groups    map[string][]Entry `json:"groups"`
	Teachers  map[string][]Entry `json:"teachers"`
	Schedule  model.Schedule     `json:"schedule"`
}

type jsonFormatter struct {
}

func NewJsonFormatter() Formatter {
	return &jsonFormatter{}
}

func (formatter *jsonFormatter) Format(writer io.Writer, schedule model.Schedule, input model.Input) error {
	document := NewDocument(schedule, input)

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(document); err != nil {
		return fmt.Errorf("an error occurred while building output json: %w", err)
	}
	return nil
}

func NewDocument(schedule model.Schedule, input model.Input) Document {
	evaluator := model.NewPenaltyEvaluator(input)
	breakdown := evaluator.Breakdown(schedule)

	document := Document{
		Penalty:   breakdown.Total(evaluator.HardUnit()),
		Breakdown: breakdown,
		Groups:    make(map[string][]Entry, len(input.Groups)),
		Teachers:  make(map[string][]Entry, len(input.Teachers)),
		Schedule:  schedule,
	}

	for _, owner := range owners(input) {
		entries := lo.Map(owner.courses, func(course uint64, _ int) Entry {
			assignment := schedule[course]
			return Entry{
				Day:      assignment.Day,
				Slot:     assignment.Slot,
				Course:   input.Courses[course].Id,
				Subject:  input.Courses[course].Subject,
				Room:     input.Rooms[assignment.Room].Id,
				RoomName: input.Rooms[assignment.Room].Name,
			}
		})
		slices.SortFunc(entries, func(a, b Entry) int {
			return cmp.Or(cmp.Compare(a.Day, b.Day), cmp.Compare(a.Slot, b.Slot), cmp.Compare(a.Course, b.Course))
		})

		key := strconv.FormatUint(owner.id, 10)
		if owner.kind == "group" {
			document.Groups[key] = entries
		} else {
			document.Teachers[key] = entries
		}
	}

	return document
}

// ReadSchedule extracts the schedule of a previously written JSON document
func ReadSchedule(reader io.Reader) (model.Schedule, error) {
	var document Document
	if err := json.NewDecoder(reader).Decode(&document); err != nil {
		return nil, fmt.Errorf("cannot parse schedule: %w", err)
	}
	if document.Schedule == nil {
		return nil, fmt.Errorf("document has no schedule")
	}
	return document.Schedule, nil
}
