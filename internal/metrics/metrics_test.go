package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"time"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/limaJavier/uctp/pkg/model"
)

var _ = Describe("Metrics", func() {
	var metrics *Metrics

	BeforeEach(func() {
		metrics = New()
	})

	Context("as an observer", func() {
		It("should count iterations and accepted moves", func() {
			metrics.Observe(model.Iteration{Walk: 0, Number: 0, Temperature: 10, BestPenalty: 300, Accepted: true})
			metrics.Observe(model.Iteration{Walk: 0, Number: 1, Temperature: 9, BestPenalty: 200, Accepted: false})
			metrics.Observe(model.Iteration{Walk: 1, Number: 0, Temperature: 10, BestPenalty: 150, Accepted: true})

			Expect(testutil.ToFloat64(metrics.iterations)).To(Equal(3.0))
			Expect(testutil.ToFloat64(metrics.acceptedMoves)).To(Equal(2.0))
			Expect(testutil.ToFloat64(metrics.bestPenalty.WithLabelValues("0"))).To(Equal(200.0))
			Expect(testutil.ToFloat64(metrics.bestPenalty.WithLabelValues("1"))).To(Equal(150.0))
			Expect(testutil.ToFloat64(metrics.temperature.WithLabelValues("0"))).To(Equal(9.0))
		})

		It("should follow a real search", func() {
			input := model.Input{
				Rooms:   []model.Room{{Id: 0, Name: "Seminar", Capacity: 10, BuildingId: 1}},
				Groups:  []model.Group{{Id: 0, Name: "G11", Students: 30, Courses: []uint64{0}}},
				Courses: []model.Course{{Id: 0, Subject: "Algebra", Groups: []uint64{0}, RequiredHours: 1}},
			}
			parameters := model.AnnealingParameters{StartTemperature: 100, CoolingRate: 0.9, MaxIterations: 50, Seed: 1}
			timetabler := model.NewRestartsTimetabler(parameters, 2, logr.Discard(), metrics)

			_, _, err := timetabler.Build(context.Background(), input)

			Expect(err).NotTo(HaveOccurred())
			Expect(testutil.ToFloat64(metrics.iterations)).To(Equal(100.0))
			Expect(testutil.ToFloat64(metrics.bestPenalty.WithLabelValues("1"))).To(Equal(float64(model.DefaultHardUnit)))
		})
	})

	Context("when solves finish", func() {
		It("should label them by strategy and result", func() {
			metrics.ObserveSolve("pure", time.Second, true, nil)
			metrics.ObserveSolve("pure", time.Second, false, nil)
			metrics.ObserveSolve("restarts", time.Second, false, context.Canceled)

			Expect(testutil.ToFloat64(metrics.solves.WithLabelValues("pure", ResultFeasible))).To(Equal(1.0))
			Expect(testutil.ToFloat64(metrics.solves.WithLabelValues("pure", ResultInfeasible))).To(Equal(1.0))
			Expect(testutil.ToFloat64(metrics.solves.WithLabelValues("restarts", ResultInterrupted))).To(Equal(1.0))
			Expect(testutil.CollectAndCount(metrics.solveDuration)).To(Equal(2))
		})
	})

	Context("results", func() {
		It("should classify errors before feasibility", func() {
			Expect(Result(true, nil)).To(Equal(ResultFeasible))
			Expect(Result(false, nil)).To(Equal(ResultInfeasible))
			Expect(Result(true, context.DeadlineExceeded)).To(Equal(ResultInterrupted))
			Expect(Result(true, errors.New("boom"))).To(Equal(ResultFailed))
		})
	})

	Context("handler", func() {
		It("should expose the registry", func() {
			metrics.Observe(model.Iteration{Accepted: true})

			recorder := httptest.NewRecorder()
			metrics.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

			body, err := io.ReadAll(recorder.Result().Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("uctp_annealing_iterations_total 1"))
		})
	})
})
