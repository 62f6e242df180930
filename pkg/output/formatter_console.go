package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/limaJavier/uctp/pkg/model"
)

const (
	timeColumnWidth = 15
	dayColumnWidth  = 22
	freeCell        = "---"
)

type consoleFormatter struct {
}

// NewConsoleFormatter renders one weekly grid per group and per teacher. Every slot takes two lines: the subject
// and, below it, the room.
func NewConsoleFormatter() Formatter {
	return &consoleFormatter{}
}

func (formatter *consoleFormatter) Format(writer io.Writer, schedule model.Schedule, input model.Input) error {
	var builder strings.Builder
	lineWidth := timeColumnWidth + 2 + (dayColumnWidth+2)*int(model.Days)

	for _, owner := range owners(input) {
		title := fmt.Sprintf("%v: %v (ID: %v)", strings.ToUpper(owner.kind), owner.name, owner.id)
		builder.WriteString("\n")
		builder.WriteString("+" + strings.Repeat("=", lineWidth-2) + "+\n")
		builder.WriteString("| " + pad(truncate(title, lineWidth-4), lineWidth-4) + " |\n")
		builder.WriteString("+" + strings.Repeat("=", lineWidth-2) + "+\n")

		builder.WriteString(center("Time", timeColumnWidth) + " |")
		for _, day := range DayNames {
			builder.WriteString(center(day, dayColumnWidth) + " |")
		}
		builder.WriteString("\n" + strings.Repeat("-", lineWidth) + "\n")

		for slot, slotName := range SlotNames {
			subjects, rooms := make([]string, model.Days), make([]string, model.Days)
			for day := range model.Days {
				course, found := lo.Find(owner.courses, func(course uint64) bool {
					return schedule[course].Day == day && schedule[course].Slot == uint64(slot)
				})
				if !found {
					subjects[day], rooms[day] = freeCell, ""
					continue
				}
				subjects[day] = truncate(input.Courses[course].Subject, dayColumnWidth)
				rooms[day] = "(" + truncate(input.Rooms[schedule[course].Room].Name, dayColumnWidth-2) + ")"
			}

			writeRow(&builder, slotName, subjects)
			writeRow(&builder, "", rooms)
			builder.WriteString(strings.Repeat("-", lineWidth) + "\n")
		}
	}

	_, err := io.WriteString(writer, builder.String())
	return err
}

func writeRow(builder *strings.Builder, label string, cells []string) {
	builder.WriteString(center(label, timeColumnWidth) + " |")
	for _, cell := range cells {
		builder.WriteString(center(cell, dayColumnWidth) + " |")
	}
	builder.WriteString("\n")
}

// Shortens text longer than width runes, marking the cut with "..."
func truncate(text string, width int) string {
	if utf8.RuneCountInString(text) <= width {
		return text
	}
	return string([]rune(text)[:width-3]) + "..."
}

func center(text string, width int) string {
	length := utf8.RuneCountInString(text)
	if length >= width {
		return text
	}
	left := (width - length) / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", width-length-left)
}

func pad(text string, width int) string {
	length := utf8.RuneCountInString(text)
	if length >= width {
		return text
	}
	return text + strings.Repeat(" ", width-length)
}
