package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/limaJavier/uctp/internal/config"
	"github.com/limaJavier/uctp/internal/metrics"
	"github.com/limaJavier/uctp/pkg/model"
)

func rawInput() map[string]any {
	return map[string]any{
		"rooms": []any{
			map[string]any{"id": 1, "name": "Amphitheatre", "capacity": 300, "is_laboratory": false, "building_id": 1},
			map[string]any{"id": 2, "name": "Laboratory", "capacity": 40, "is_laboratory": true, "building_id": 2},
		},
		"teachers": []any{
			map[string]any{"id": 7, "name": "Lecturer", "course_id": []any{100, 101}},
		},
		"groups": []any{
			map[string]any{"id": 11, "name": "G11", "numbers_of_students": 30, "courses": []any{100, 101}},
		},
		"courses": []any{
			map[string]any{"id": 100, "subject_name": "Physics", "professor_id": 7, "group_ids": []any{11}, "required_hours": 1, "required_lab": false},
			map[string]any{"id": 101, "subject_name": "Physics lab", "professor_id": 7, "group_ids": []any{11}, "required_hours": 1, "required_lab": true},
		},
	}
}

func testConfig() config.Config {
	return config.Config{
		StartTemp:     100,
		CoolingRate:   0.99,
		MaxIterations: 2000,
		Strategy:      "pure",
		Restarts:      2,
		Seed:          5,
		LogLevel:      "info",
		ListenAddr:    ":0",
	}
}

func post(server *Server, path string, body any) *http.Response {
	payload, err := json.Marshal(body)
	Expect(err).NotTo(HaveOccurred())

	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	request.Header.Set("Content-Type", "application/json")
	response, err := server.App().Test(request, -1)
	Expect(err).NotTo(HaveOccurred())
	return response
}

func decode[T any](response *http.Response) T {
	defer response.Body.Close()
	var value T
	Expect(json.NewDecoder(response.Body).Decode(&value)).To(Succeed())
	return value
}

var _ = Describe("Server", func() {
	var (
		server   *Server
		recorder *metrics.Metrics
	)

	BeforeEach(func() {
		recorder = metrics.New()
		server = New(testConfig(), logr.Discard(), recorder)
	})

	Describe("GET /healthz", func() {
		It("should answer ok with a request id", func() {
			response, err := server.App().Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(response.StatusCode).To(Equal(http.StatusOK))
			Expect(response.Header.Get(RequestIdHeader)).NotTo(BeEmpty())
		})

		It("should echo a given request id", func() {
			request := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			request.Header.Set(RequestIdHeader, "abc")
			response, err := server.App().Test(request, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(response.Header.Get(RequestIdHeader)).To(Equal("abc"))
		})
	})

	Describe("POST /api/v1/solve", func() {
		It("should solve a small instance", func() {
			response := post(server, "/api/v1/solve", map[string]any{"input": rawInput()})
			Expect(response.StatusCode).To(Equal(http.StatusOK))

			body := decode[SolveResponse](response)
			Expect(body.RunId).NotTo(BeEmpty())
			Expect(body.Strategy).To(Equal("pure"))
			Expect(body.Seed).To(Equal(uint64(5)))
			Expect(body.Schedule).To(HaveLen(2))
			Expect(body.Feasible).To(BeTrue())
			Expect(body.Penalty).To(BeZero())
			Expect(body.Groups).To(HaveKey("11"))
			Expect(body.Teachers["7"]).To(HaveLen(2))
		})

		It("should honour the requested strategy", func() {
			response := post(server, "/api/v1/solve", map[string]any{"input": rawInput(), "strategy": "restarts", "restarts": 3})
			Expect(response.StatusCode).To(Equal(http.StatusOK))
			Expect(decode[SolveResponse](response).Strategy).To(Equal("restarts"))
		})

		It("should reject invalid parameters", func() {
			response := post(server, "/api/v1/solve", map[string]any{"input": rawInput(), "cooling_rate": 1.5})
			Expect(response.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("should reject an unknown strategy", func() {
			response := post(server, "/api/v1/solve", map[string]any{"input": rawInput(), "strategy": "greedy"})
			Expect(response.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("should require an input", func() {
			response := post(server, "/api/v1/solve", map[string]any{"strategy": "pure"})
			Expect(response.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("should report unresolved references", func() {
			input := rawInput()
			input["courses"].([]any)[0].(map[string]any)["group_ids"] = []any{12}

			response := post(server, "/api/v1/solve", map[string]any{"input": input})
			Expect(response.StatusCode).To(Equal(http.StatusUnprocessableEntity))
			Expect(decode[errorResponse](response).Error).To(ContainSubstring("non-existent group id: 12"))
		})
	})

	Describe("POST /api/v1/score", func() {
		It("should score a schedule", func() {
			schedule := model.Schedule{{Day: 0, Slot: 0, Room: 0}, {Day: 0, Slot: 1, Room: 1}}

			response := post(server, "/api/v1/score", map[string]any{"input": rawInput(), "schedule": schedule})
			Expect(response.StatusCode).To(Equal(http.StatusOK))

			body := decode[ScoreResponse](response)
			Expect(body.Feasible).To(BeFalse())
			Expect(body.Breakdown.Teleportations).To(Equal(uint64(2)))
			Expect(body.Penalty).To(Equal(2 * model.DefaultHardUnit))
		})

		It("should reject a schedule of the wrong length", func() {
			schedule := model.Schedule{{Day: 0, Slot: 0, Room: 0}}

			response := post(server, "/api/v1/score", map[string]any{"input": rawInput(), "schedule": schedule})
			Expect(response.StatusCode).To(Equal(http.StatusUnprocessableEntity))
		})
	})

	Describe("GET /metrics", func() {
		It("should expose solver metrics", func() {
			Expect(post(server, "/api/v1/solve", map[string]any{"input": rawInput()}).StatusCode).To(Equal(http.StatusOK))

			response, err := server.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
			Expect(err).NotTo(HaveOccurred())
			body, err := io.ReadAll(response.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`uctp_solves_total{result="feasible",strategy="pure"} 1`))
		})
	})
})
