package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/limaJavier/uctp/pkg/dataset"
)

var (
	datasetParameters = dataset.DefaultParameters()
	datasetOut        = "input.json"
)

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64Var(&datasetParameters.Years, "years", datasetParameters.Years, "number of years")
	cmd.Flags().Uint64Var(&datasetParameters.GroupsPerYear, "groups", datasetParameters.GroupsPerYear, "groups per year, at most 9")
	cmd.Flags().Uint64Var(&datasetParameters.SubjectsPerYear, "subjects", datasetParameters.SubjectsPerYear, "subjects per year")
	cmd.Flags().Uint64Var(&datasetParameters.StudentsPerGroup, "students", datasetParameters.StudentsPerGroup, "students per group")
	cmd.Flags().Uint64Var(&datasetParameters.Amphitheatres, "amphitheatres", datasetParameters.Amphitheatres, "number of amphitheatres")
	cmd.Flags().Uint64Var(&datasetParameters.SeminarRooms, "seminar-rooms", datasetParameters.SeminarRooms, "number of seminar rooms")
	cmd.Flags().Uint64Var(&datasetParameters.Laboratories, "laboratories", datasetParameters.Laboratories, "number of laboratories")
	cmd.Flags().BoolVar(&datasetParameters.Teachers, "teachers", datasetParameters.Teachers, "generate teachers")
	cmd.Flags().StringVarP(&datasetOut, "out", "o", datasetOut, "file where the dataset will be written")
}

func CommandGenerate(cmd *cobra.Command, args []string) {
	_, logger := loadConfig(cmd, args)

	input, err := dataset.Generate(datasetParameters)
	if err != nil {
		log.Fatal(err)
	}

	file, err := os.Create(datasetOut)
	if err != nil {
		log.Fatalf("cannot create dataset file: %v", err)
	}
	defer file.Close()

	if err := dataset.Write(file, input); err != nil {
		log.Fatal(err)
	}
	logger.Info("Dataset generated", "file", datasetOut, "courses", len(input.Courses), "groups", len(input.Groups), "teachers", len(input.Teachers))
}
