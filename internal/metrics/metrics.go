package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/limaJavier/uctp/pkg/model"
)

const namespace = "uctp"

// Results of a solve, used as label values
const (
	ResultFeasible    = "feasible"    // No hard constraint is violated
	ResultInfeasible  = "infeasible"  // The best schedule still violates hard constraints
	ResultInterrupted = "interrupted" // The search was cancelled or timed out
	ResultFailed      = "failed"
)

// Metrics records the progress of annealing searches and the outcome of solves. It implements model.Observer, so it
// can be handed to any timetabler; every method is safe for concurrent use.
type Metrics struct {
	registry *prometheus.Registry

	iterations    prometheus.Counter
	acceptedMoves prometheus.Counter
	bestPenalty   *prometheus.GaugeVec
	temperature   *prometheus.GaugeVec
	solves        *prometheus.CounterVec
	solveDuration *prometheus.HistogramVec
}

func New() *Metrics {
	metrics := &Metrics{
		registry: prometheus.NewRegistry(),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annealing_iterations_total",
			Help:      "Annealing iterations performed across every walk.",
		}),
		acceptedMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "annealing_accepted_moves_total",
			Help:      "Neighbor schedules accepted as the current candidate.",
		}),
		bestPenalty: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "annealing_best_penalty",
			Help:      "Lowest penalty found so far by each walk.",
		}, []string{"walk"}),
		temperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "annealing_temperature",
			Help:      "Current temperature of each walk.",
		}, []string{"walk"}),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Finished solves by strategy and result.",
		}, []string{"strategy", "result"}),
		solveDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time of finished solves.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"strategy"}),
	}

	metrics.registry.MustRegister(
		metrics.iterations,
		metrics.acceptedMoves,
		metrics.bestPenalty,
		metrics.temperature,
		metrics.solves,
		metrics.solveDuration,
	)
	return metrics
}

func (metrics *Metrics) Observe(iteration model.Iteration) {
	walk := strconv.Itoa(iteration.Walk)

	metrics.iterations.Inc()
	if iteration.Accepted {
		metrics.acceptedMoves.Inc()
	}
	metrics.bestPenalty.WithLabelValues(walk).Set(float64(iteration.BestPenalty))
	metrics.temperature.WithLabelValues(walk).Set(iteration.Temperature)
}

// ObserveSolve records a finished solve. feasible tells whether the returned schedule violates no hard constraint.
func (metrics *Metrics) ObserveSolve(strategy string, duration time.Duration, feasible bool, err error) {
	metrics.solves.WithLabelValues(strategy, Result(feasible, err)).Inc()
	metrics.solveDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (metrics *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{Registry: metrics.registry})
}

func (metrics *Metrics) Registry() *prometheus.Registry {
	return metrics.registry
}

func Result(feasible bool, err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ResultInterrupted
	case err != nil:
		return ResultFailed
	case feasible:
		return ResultFeasible
	default:
		return ResultInfeasible
	}
}
