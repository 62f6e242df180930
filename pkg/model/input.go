package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

const (
	Days  uint64 = 5 // Monday to Friday
	Slots uint64 = 6 // Two-hour blocks from 08:00 to 20:00
)

type Room struct {
	Id           uint64 `mapstructure:"id" json:"id"`
	Name         string `mapstructure:"name" json:"name"`
	Capacity     uint64 `mapstructure:"capacity" json:"capacity"`
	IsLaboratory bool   `mapstructure:"is_laboratory" json:"is_laboratory"`
	BuildingId   uint64 `mapstructure:"building_id" json:"building_id"`
}

type Group struct {
	Id       uint64   `mapstructure:"id" json:"id"`
	Name     string   `mapstructure:"name" json:"name"`
	Students uint64   `mapstructure:"numbers_of_students" json:"numbers_of_students"`
	Courses  []uint64 `mapstructure:"courses" json:"courses"` // Course references (identifiers before normalization, indices after)
}

type Teacher struct {
	Id      uint64   `mapstructure:"id" json:"id"`
	Name    string   `mapstructure:"name" json:"name"`
	Courses []uint64 `mapstructure:"course_id" json:"course_id"` // Course references (identifiers before normalization, indices after)
}

type Course struct {
	Id            uint64   `mapstructure:"id" json:"id"`
	Subject       string   `mapstructure:"subject_name" json:"subject_name"`
	Professor     uint64   `mapstructure:"professor_id" json:"professor_id"`
	Groups        []uint64 `mapstructure:"group_ids" json:"group_ids"` // Group references (identifiers before normalization, indices after)
	RequiredHours uint64   `mapstructure:"required_hours" json:"required_hours"`
	RequiredLab   bool     `mapstructure:"required_lab" json:"required_lab"`
}

// Input is the whole timetabling instance. Once normalized it is treated as read-only and shared by every search.
type Input struct {
	Rooms    []Room    `mapstructure:"rooms" json:"rooms"`
	Teachers []Teacher `mapstructure:"teachers" json:"teachers"`
	Groups   []Group   `mapstructure:"groups" json:"groups"`
	Courses  []Course  `mapstructure:"courses" json:"courses"`
}

// Returns the amount of students attending the course. It assumes the course's group references are already normalized
func (input Input) CapacityNeeded(course uint64) uint64 {
	return lo.SumBy(input.Courses[course].Groups, func(group uint64) uint64 {
		return input.Groups[group].Students
	})
}

func InputFromJson(file string) (Input, error) {
	fileReader, err := os.Open(file)
	if err != nil {
		return Input{}, fmt.Errorf("cannot open input file: %w", err)
	}
	defer fileReader.Close()
	return InputFromReader(fileReader)
}

func InputFromReader(reader io.Reader) (Input, error) {
	bytes, err := io.ReadAll(reader)
	if err != nil {
		return Input{}, err
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Input{}, err
	}
	return InputFromMap(inputJson)
}

func InputFromMap(inputJson map[string]any) (Input, error) {
	var input Input
	if err := mapstructure.Decode(inputJson, &input); err != nil {
		return Input{}, fmt.Errorf("cannot decode input: %w", err)
	}
	return input, nil
}
