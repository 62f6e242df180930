package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"
	"github.com/samber/lo"
	"github.com/spf13/pflag"

	"github.com/limaJavier/uctp/internal/metrics"
	"github.com/limaJavier/uctp/pkg/dataset"
	"github.com/limaJavier/uctp/pkg/model"
)

const MB float32 = 1024 * 1024

type TestMetadata struct {
	Name     string
	Courses  int
	Groups   int
	Teachers int
	Rooms    int
	Input    model.Input
}

type TimetablerMetadata struct {
	Strategy    string
	CoolingRate float64
}

type BenchmarkResult struct {
	Timetabler     TimetablerMetadata
	Test           TestMetadata
	Seed           uint64
	Duration       int64
	Memory         float32
	Iterations     int64
	Penalty        uint64
	HardViolations uint64
	Result         string
}

var (
	strategies    = pflag.String("strategies", "pure,restarts,repaired", "comma separated strategies to benchmark")
	coolingRates  = pflag.String("cooling-rates", "0.999,0.9995,0.9999", "comma separated cooling rates to benchmark")
	sizes         = pflag.String("sizes", "1x3x2,2x5x4,3x7x6", "comma separated dataset sizes as years x groups per year x subjects per year")
	seeds         = pflag.Int("seeds", 3, "runs per combination, each with its own seed")
	startTemp     = pflag.Float64("start-temp", 1000, "initial temperature")
	maxIterations = pflag.Int("max-iterations", 100000, "iteration budget")
	restarts      = pflag.Int("restarts", runtime.NumCPU(), `walks of the "restarts" strategy`)
	outFile       = pflag.String("out", "benchmark_results.csv", "CSV file where the results will be written")
)

func main() {
	pflag.Parse()

	tests := lo.Must(getTests(*sizes))
	timetablers := lo.Must(getTimetablers(*strategies, *coolingRates))
	results := make([]BenchmarkResult, 0, len(tests)*len(timetablers)*(*seeds))

	for _, test := range tests {
		for _, timetabler := range timetablers {
			for seed := uint64(1); seed <= uint64(*seeds); seed++ {
				fmt.Printf("Benchmarking test \"%v\" with strategy \"%v\", cooling rate \"%v\" and seed \"%v\"\n", test.Name, timetabler.Strategy, timetabler.CoolingRate, seed)

				results = append(results, measure(timetabler, test, seed))
			}
		}
	}

	toCsv(results)
}

func getTests(sizes string) ([]TestMetadata, error) {
	tests := make([]TestMetadata, 0)
	for _, size := range splitList(sizes) {
		parameters, err := parseSize(size)
		if err != nil {
			return nil, err
		}

		raw, err := dataset.Generate(parameters)
		if err != nil {
			return nil, err
		}
		input, err := model.Normalize(raw)
		if err != nil {
			return nil, err
		}

		tests = append(tests, TestMetadata{
			Name:     size,
			Courses:  len(input.Courses),
			Groups:   len(input.Groups),
			Teachers: len(input.Teachers),
			Rooms:    len(input.Rooms),
			Input:    input,
		})
	}
	return tests, nil
}

func getTimetablers(strategies, coolingRates string) ([]TimetablerMetadata, error) {
	rates, err := parseRates(coolingRates)
	if err != nil {
		return nil, err
	}

	timetablers := make([]TimetablerMetadata, 0)
	for _, strategy := range splitList(strategies) {
		if _, ok := model.Strategies[strategy]; !ok {
			return nil, fmt.Errorf("%v is not a valid strategy", strategy)
		}
		for _, rate := range rates {
			timetablers = append(timetablers, TimetablerMetadata{Strategy: strategy, CoolingRate: rate})
		}
	}
	return timetablers, nil
}

func measure(metadata TimetablerMetadata, test TestMetadata, seed uint64) BenchmarkResult {
	parameters := model.AnnealingParameters{
		StartTemperature: *startTemp,
		CoolingRate:      metadata.CoolingRate,
		MaxIterations:    *maxIterations,
		Seed:             seed,
	}
	counter := &iterationCounter{}
	timetabler := lo.Must(model.NewTimetabler(metadata.Strategy, parameters, *restarts, logr.Discard(), counter))

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)

	start := time.Now()
	schedule, penalty, err := timetabler.Build(context.Background(), test.Input)
	duration := time.Since(start)

	runtime.ReadMemStats(&after)
	if err != nil {
		log.Fatalf("an error occurred at test \"%v\" using strategy \"%v\" and cooling rate \"%v\": %v", test.Name, metadata.Strategy, metadata.CoolingRate, err)
	}

	breakdown := model.NewPenaltyEvaluator(test.Input).Breakdown(schedule)

	return BenchmarkResult{
		Timetabler:     metadata,
		Test:           test,
		Seed:           seed,
		Duration:       duration.Milliseconds(),
		Memory:         float32(after.TotalAlloc-before.TotalAlloc) / MB,
		Iterations:     counter.iterations.Load(),
		Penalty:        penalty,
		HardViolations: breakdown.HardViolations(),
		Result:         metrics.Result(breakdown.HardViolations() == 0, nil),
	}
}

// Counts the iterations of every walk
type iterationCounter struct {
	iterations atomic.Int64
}

func (counter *iterationCounter) Observe(model.Iteration) {
	counter.iterations.Add(1)
}

func toCsv(results []BenchmarkResult) {
	file, err := os.Create(*outFile)
	if err != nil {
		log.Panicf("cannot create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"Strategy", "Cooling Rate", "Test", "Courses", "Groups", "Teachers", "Rooms", "Seed", "Duration(ms)", "Allocated(MB)", "Iterations", "Penalty", "Hard Violations", "Result"}
	if err := writer.Write(header); err != nil {
		log.Panicf("cannot write CSV header: %v", err)
	}

	for _, result := range results {
		record := []string{
			result.Timetabler.Strategy,
			fmt.Sprintf("%f", result.Timetabler.CoolingRate),
			result.Test.Name,
			fmt.Sprintf("%d", result.Test.Courses),
			fmt.Sprintf("%d", result.Test.Groups),
			fmt.Sprintf("%d", result.Test.Teachers),
			fmt.Sprintf("%d", result.Test.Rooms),
			fmt.Sprintf("%d", result.Seed),
			fmt.Sprintf("%d", result.Duration),
			fmt.Sprintf("%.1f", result.Memory),
			fmt.Sprintf("%d", result.Iterations),
			fmt.Sprintf("%d", result.Penalty),
			fmt.Sprintf("%d", result.HardViolations),
			result.Result,
		}
		if err := writer.Write(record); err != nil {
			log.Panicf("cannot write CSV record: %v", err)
		}
	}
}

func splitList(list string) []string {
	return lo.Filter(lo.Map(strings.Split(list, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	}), func(item string, _ int) bool {
		return item != ""
	})
}

// Parses a "years x groups x subjects" size (e.g. "3x7x6") into dataset parameters with the default rooms
func parseSize(size string) (dataset.Parameters, error) {
	parts := strings.Split(strings.ToLower(size), "x")
	if len(parts) != 3 {
		return dataset.Parameters{}, fmt.Errorf("unexpected size format: %v", size)
	}

	values := make([]uint64, len(parts))
	for i, part := range parts {
		value, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return dataset.Parameters{}, fmt.Errorf("unexpected size format: %v", size)
		}
		values[i] = value
	}

	parameters := dataset.DefaultParameters()
	parameters.Years, parameters.GroupsPerYear, parameters.SubjectsPerYear = values[0], values[1], values[2]
	return parameters, parameters.Validate()
}

func parseRates(rates string) ([]float64, error) {
	parsed := make([]float64, 0)
	for _, rate := range splitList(rates) {
		value, err := strconv.ParseFloat(rate, 64)
		if err != nil {
			return nil, fmt.Errorf("unexpected cooling rate: %v", rate)
		} else if value <= 0 || value >= 1 {
			return nil, fmt.Errorf("cooling rate must be greater than 0 and smaller than 1: %v", value)
		}
		parsed = append(parsed, value)
	}
	return parsed, nil
}
