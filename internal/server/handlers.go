package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/limaJavier/uctp/pkg/model"
	"github.com/limaJavier/uctp/pkg/output"
)

type SolveRequest struct {
	Input          map[string]any `json:"input" validate:"required"`
	Strategy       string         `json:"strategy" validate:"omitempty,oneof=pure restarts repaired"`
	StartTemp      *float64       `json:"start_temp" validate:"omitempty,gt=0"`
	CoolingRate    *float64       `json:"cooling_rate" validate:"omitempty,gt=0,lt=1"`
	MaxIterations  *int           `json:"max_iterations"`
	Restarts       int            `json:"restarts" validate:"omitempty,gte=1,lte=64"`
	Seed           uint64         `json:"seed"`
	TimeoutSeconds int            `json:"timeout_seconds" validate:"omitempty,gte=1,lte=3600"`
}

type SolveResponse struct {
	RunId       string `json:"run_id"`
	Strategy    string `json:"strategy"`
	Seed        uint64 `json:"seed"`
	Feasible    bool   `json:"feasible"`
	Interrupted bool   `json:"interrupted"`
	DurationMs  int64  `json:"duration_ms"`
	output.Document
}

type ScoreRequest struct {
	Input    map[string]any `json:"input" validate:"required"`
	Schedule model.Schedule `json:"schedule" validate:"required"`
}

type ScoreResponse struct {
	Penalty   uint64          `json:"penalty"`
	Feasible  bool            `json:"feasible"`
	Breakdown model.Breakdown `json:"breakdown"`
}

func (server *Server) solve(c *fiber.Ctx) error {
	var request SolveRequest
	if err := server.parse(c, &request); err != nil {
		return err
	}
	input, err := normalizedInput(request.Input)
	if err != nil {
		return err
	}

	// Unset fields fall back to the server's configuration
	settings := server.config
	if request.Strategy != "" {
		settings.Strategy = request.Strategy
	}
	if request.StartTemp != nil {
		settings.StartTemp = *request.StartTemp
	}
	if request.CoolingRate != nil {
		settings.CoolingRate = *request.CoolingRate
	}
	if request.MaxIterations != nil {
		settings.MaxIterations = *request.MaxIterations
	}
	if request.Restarts != 0 {
		settings.Restarts = request.Restarts
	}
	if request.Seed != 0 {
		settings.Seed = request.Seed
	}
	settings = settings.ResolveSeed()

	runId := uuid.New().String()
	logger := server.logger.WithValues("runId", runId, "strategy", settings.Strategy)
	timetabler, err := model.NewTimetabler(settings.Strategy, settings.Parameters(), settings.Restarts, logger, server.metrics)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	if request.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(request.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	logger.Info("Solve started", "courses", len(input.Courses), "seed", settings.Seed)
	start := time.Now()
	schedule, penalty, err := timetabler.Build(ctx, input)
	duration := time.Since(start)

	interrupted := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
	if err != nil && (!interrupted || schedule == nil) {
		server.metrics.ObserveSolve(settings.Strategy, duration, false, err)
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	feasible := timetabler.Verify(schedule, input)
	server.metrics.ObserveSolve(settings.Strategy, duration, feasible, err)
	logger.Info("Solve finished", "penalty", penalty, "feasible", feasible, "interrupted", interrupted, "duration", duration)

	return c.JSON(SolveResponse{
		RunId:       runId,
		Strategy:    settings.Strategy,
		Seed:        settings.Seed,
		Feasible:    feasible,
		Interrupted: interrupted,
		DurationMs:  duration.Milliseconds(),
		Document:    output.NewDocument(schedule, input),
	})
}

func (server *Server) score(c *fiber.Ctx) error {
	var request ScoreRequest
	if err := server.parse(c, &request); err != nil {
		return err
	}
	input, err := normalizedInput(request.Input)
	if err != nil {
		return err
	}
	if err := model.ValidateSchedule(request.Schedule, input); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	evaluator := model.NewPenaltyEvaluator(input)
	breakdown := evaluator.Breakdown(request.Schedule)
	return c.JSON(ScoreResponse{
		Penalty:   breakdown.Total(evaluator.HardUnit()),
		Feasible:  breakdown.HardViolations() == 0,
		Breakdown: breakdown,
	})
}

func (server *Server) parse(c *fiber.Ctx, request any) error {
	if err := c.BodyParser(request); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid body: %v", err))
	}
	if err := server.validate.Struct(request); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func normalizedInput(raw map[string]any) (model.Input, error) {
	input, err := model.InputFromMap(raw)
	if err != nil {
		return model.Input{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	input, err = model.Normalize(input)
	if err != nil {
		return model.Input{}, fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return input, nil
}
