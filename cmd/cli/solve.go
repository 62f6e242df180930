package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/limaJavier/uctp/internal/metrics"
	"github.com/limaJavier/uctp/pkg/model"
	"github.com/limaJavier/uctp/pkg/output"
)

var (
	format  = "console"
	outFile string
)

func CommandSolve(cmd *cobra.Command, args []string) {
	settings, logger := loadConfig(cmd, args)
	settings = settings.ResolveSeed()

	newFormatter, ok := output.Formatters[format]
	if !ok {
		log.Fatalf("%v is not a valid format", format)
	} else if settings.FileName == "" {
		log.Fatal("an input file must be specified")
	}

	// Extract input
	input := readInput(settings.FileName)

	// Initialize engines
	recorder := metrics.New()
	if settings.MetricsAddr != "" {
		serveMetrics(settings.MetricsAddr, recorder, logger)
	}
	timetabler, err := model.NewTimetabler(settings.Strategy, settings.Parameters(), settings.Restarts, logger, recorder)
	if err != nil {
		log.Fatal(err)
	}

	// Interrupting the search still yields the best schedule found so far
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build timetable
	logger.Info("Building timetable",
		"strategy", settings.Strategy,
		"courses", len(input.Courses),
		"rooms", len(input.Rooms),
		"seed", settings.Seed,
	)
	start := time.Now()
	schedule, penalty, err := timetabler.Build(ctx, input)
	duration := time.Since(start)

	interrupted := errors.Is(err, context.Canceled)
	if err != nil && !interrupted {
		log.Fatalf("an error occurred during timetable construction: %v", err)
	} else if interrupted {
		logger.Info("Search interrupted, keeping the best schedule found")
	}

	// Verify timetable correctness
	feasible := timetabler.Verify(schedule, input)
	recorder.ObserveSolve(settings.Strategy, duration, feasible, err)
	logger.Info("Timetable built", "penalty", penalty, "feasible", feasible, "duration", duration)

	writeOutput(newFormatter(), schedule, input)

	if !feasible {
		os.Exit(exitInfeasible)
	}
	os.Exit(exitFeasible)
}

func readInput(file string) model.Input {
	raw, err := model.InputFromJson(file)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}
	input, err := model.Normalize(raw)
	if err != nil {
		log.Fatalf("inconsistent input file: %v", err)
	}
	return input
}

// Writes into the out file, or into the standard output when it's empty
func writeOutput(formatter output.Formatter, schedule model.Schedule, input model.Input) {
	writer := os.Stdout
	if outFile != "" {
		file, err := os.Create(outFile)
		if err != nil {
			log.Fatalf("an error occurred while creating the output file: %v", err)
		}
		defer file.Close()
		writer = file
	}

	if err := formatter.Format(writer, schedule, input); err != nil {
		log.Fatalf("an error occurred while writing the output: %v", err)
	}
}

func serveMetrics(address string, recorder *metrics.Metrics, logger logr.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	go func() {
		if err := http.ListenAndServe(address, mux); err != nil {
			logger.Error(err, "Metrics server stopped", "address", address)
		}
	}()
	logger.Info("Serving metrics", "address", address)
}
