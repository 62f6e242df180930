package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/limaJavier/uctp/pkg/model"
	"github.com/limaJavier/uctp/pkg/output"
)

var (
	scheduleFile string
	display      bool
)

func CommandScore(cmd *cobra.Command, args []string) {
	settings, _ := loadConfig(cmd, args)
	if settings.FileName == "" {
		log.Fatal("an input file must be specified")
	} else if scheduleFile == "" {
		log.Fatal("a schedule file must be specified")
	}

	input := readInput(settings.FileName)

	file, err := os.Open(scheduleFile)
	if err != nil {
		log.Fatalf("cannot open schedule file: %v", err)
	}
	defer file.Close()

	schedule, err := output.ReadSchedule(file)
	if err != nil {
		log.Fatal(err)
	}
	if err := model.ValidateSchedule(schedule, input); err != nil {
		log.Fatalf("schedule does not match the input: %v", err)
	}

	if display {
		if err := output.NewConsoleFormatter().Format(os.Stdout, schedule, input); err != nil {
			log.Fatalf("an error occurred while writing the output: %v", err)
		}
	}

	evaluator := model.NewPenaltyEvaluator(input)
	breakdown := evaluator.Breakdown(schedule)

	fmt.Printf("Over capacity: %v\n", breakdown.OverCapacity)
	fmt.Printf("Room type mismatches: %v\n", breakdown.RoomTypeMismatch)
	fmt.Printf("Room double bookings: %v\n", breakdown.RoomDoubleBooking)
	fmt.Printf("Owner double bookings: %v\n", breakdown.OwnerDoubleBooking)
	fmt.Printf("Teleportations: %v\n", breakdown.Teleportations)
	fmt.Printf("Gap points: %v\n", breakdown.GapPoints)
	fmt.Printf("Long day points: %v\n", breakdown.LongDayPoints)
	fmt.Printf("Penalty: %v (hard unit %v)\n", breakdown.Total(evaluator.HardUnit()), evaluator.HardUnit())
}
