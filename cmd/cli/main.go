package main

import (
	"log"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/limaJavier/uctp/internal/config"
	"github.com/limaJavier/uctp/internal/logging"
)

// Exit codes of the solve command
const (
	exitFeasible   = 0
	exitInfeasible = 15 // The best schedule found still violates hard constraints
)

var (
	configPath string
	logLevel   string
)

func main() {
	cmdUctp := &cobra.Command{
		Use:   "uctp",
		Short: "University course timetabling",
		Long: "A tool to assign university courses to days, time slots and rooms using simulated annealing,\n" +
			"avoiding double bookings, undersized or unsuitable rooms and scattered days",
	}
	cmdUctp.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.toml; by default it is looked up in the working directory and next to the executable")
	cmdUctp.PersistentFlags().StringVar(&logLevel, "log-level", "", `log level: "info", "debug", "trace", "warn" or "error"`)

	cmdSolve := &cobra.Command{
		Use:   "solve",
		Short: "build a timetable for an input file",
		Run:   CommandSolve,
	}
	addSolveFlags(cmdSolve)
	cmdSolve.Flags().StringVar(&format, "format", format, `output format: "console" or "json"`)
	cmdSolve.Flags().StringVarP(&outFile, "out", "o", "", "file where the output will be written; if empty, it'll be written into the standard output")
	cmdSolve.Flags().String("metrics-addr", "", "address where Prometheus metrics are served while solving (e.g. :9090)")
	cmdUctp.AddCommand(cmdSolve)

	cmdScore := &cobra.Command{
		Use:   "score",
		Short: "score and display a previously built timetable",
		Run:   CommandScore,
	}
	cmdScore.Flags().StringP("file", "f", "", "path to the input file")
	cmdScore.Flags().StringVarP(&scheduleFile, "schedule", "s", "", "path to a json output of the solve command")
	cmdScore.Flags().BoolVar(&display, "display", false, "also print every timetable")
	cmdUctp.AddCommand(cmdScore)

	cmdGenerate := &cobra.Command{
		Use:   "generate",
		Short: "generate a synthetic input file",
		Run:   CommandGenerate,
	}
	addGenerateFlags(cmdGenerate)
	cmdUctp.AddCommand(cmdGenerate)

	cmdServe := &cobra.Command{
		Use:   "serve",
		Short: "serve the timetablers over HTTP",
		Run:   CommandServe,
	}
	cmdServe.Flags().String("listen", "", "address to listen on (e.g. :8080)")
	addSolveFlags(cmdServe)
	cmdUctp.AddCommand(cmdServe)

	cmdUctp.Execute()
}

func addSolveFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "path to the input file")
	cmd.Flags().String("strategy", "", `strategy to build the timetable. Allowed values are:
- "pure" (a single simulated annealing walk),
- "restarts" (independent walks run concurrently, the best one is kept) and
- "repaired" (a single walk whose rooms are reassigned through maximum bipartite matching afterwards)`)
	cmd.Flags().Float64("start-temp", 0, "initial temperature, must be positive")
	cmd.Flags().Float64("cooling-rate", 0, "factor applied to the temperature after every iteration, between 0 and 1")
	cmd.Flags().Int("max-iterations", 0, "iteration budget; non-positive values return the initial random schedule")
	cmd.Flags().Int("restarts", 0, `number of concurrent walks of the "restarts" strategy`)
	cmd.Flags().Uint64("seed", 0, "seed of the random source; zero draws a random seed")
}

// Loads the configuration, letting the command's flags override it
func loadConfig(cmd *cobra.Command, args []string) (config.Config, logr.Logger) {
	if len(args) > 0 {
		log.Fatalf("unknown option: %s", strings.Join(args, " "))
	}

	settings, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		log.Fatalf("cannot load configuration: %v", err)
	}
	if logLevel != "" {
		settings.LogLevel = logLevel
	}

	logger, err := logging.NewConsoleLogger(settings.LogLevel)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	return settings, logger
}
