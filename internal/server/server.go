package server

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"

	"github.com/limaJavier/uctp/internal/config"
	"github.com/limaJavier/uctp/internal/metrics"
)

const (
	RequestIdHeader = "X-Request-ID"
	bodyLimit       = 32 * 1024 * 1024
	shutdownTimeout = 10 * time.Second
)

// Server exposes the timetablers over HTTP
type Server struct {
	app      *fiber.App
	config   config.Config
	logger   logr.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate
}

func New(settings config.Config, logger logr.Logger, recorder *metrics.Metrics) *Server {
	server := &Server{
		config:   settings,
		logger:   logger,
		metrics:  recorder,
		validate: validator.New(),
	}

	server.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             bodyLimit,
		ErrorHandler:          server.handleError,
	})
	server.app.Use(server.requestId)

	server.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	server.app.Get("/metrics", adaptor.HTTPHandler(recorder.Handler()))

	api := server.app.Group("/api/v1")
	api.Post("/solve", server.solve)
	api.Post("/score", server.score)

	return server
}

func (server *Server) App() *fiber.App {
	return server.app
}

// Listen serves until the context is cancelled, then shuts down gracefully
func (server *Server) Listen(ctx context.Context, address string) error {
	errs := make(chan error, 1)
	go func() {
		errs <- server.app.Listen(address)
	}()
	server.logger.Info("Server listening", "address", address)

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		server.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.app.ShutdownWithContext(shutdownCtx)
	}
}

func (server *Server) requestId(c *fiber.Ctx) error {
	id := c.Get(RequestIdHeader)
	if id == "" {
		id = uuid.New().String()
	}
	c.Set(RequestIdHeader, id)
	c.Locals("requestId", id)

	start := time.Now()
	err := c.Next()
	server.logger.V(1).Info("Request served",
		"requestId", id,
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start),
	)
	return err
}

type errorResponse struct {
	Error string `json:"error"`
}

func (server *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	} else {
		server.logger.Error(err, "Request failed", "requestId", c.Locals("requestId"))
	}
	return c.Status(code).JSON(errorResponse{Error: err.Error()})
}
