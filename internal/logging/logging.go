package logging

import (
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Verbosity levels used with logger.V(level)
const (
	DEBUG = 1
	TRACE = 2
)

// NewLogger builds a production (JSON) logger. The level is one of "info", "debug" or "trace".
func NewLogger(level string) (logr.Logger, error) {
	zapLevel, err := parseLevel(level)
	if err != nil {
		return logr.Discard(), err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.DisableStacktrace = true

	zapLogger, err := config.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("cannot build logger: %w", err)
	}
	return zapr.NewLogger(zapLogger), nil
}

// NewConsoleLogger builds a human readable logger writing to stderr, used by the command line tools
func NewConsoleLogger(level string) (logr.Logger, error) {
	zapLevel, err := parseLevel(level)
	if err != nil {
		return logr.Discard(), err
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	zapLogger, err := config.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("cannot build logger: %w", err)
	}
	return zapr.NewLogger(zapLogger), nil
}

// NewTestLogger returns a development logger printing every verbosity level
func NewTestLogger() logr.Logger {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.Level(-TRACE))

	zapLogger, err := config.Build()
	if err != nil {
		return logr.Discard()
	}
	return zapr.NewLogger(zapLogger)
}

// zapr maps logr's V(n) onto zap level -n
func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.Level(-DEBUG), nil
	case "trace":
		return zapcore.Level(-TRACE), nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level: %v", level)
	}
}
