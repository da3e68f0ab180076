// Package utils provides logging and CSV helpers for the fundability engine.
package utils

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every log entry.
const ServiceName = "business-fundability-engine"

// Logger is the global logger instance.
var Logger *zap.Logger

// ParseLevel maps a LOG_LEVEL value to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewLogger builds a logger for the given level. Inside Lambda it writes JSON
// to stdout; locally it uses the colored development encoder.
func NewLogger(level string) (*zap.Logger, error) {
	var config zap.Config
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		config = zap.NewProductionConfig()
		config.OutputPaths = []string{"stdout"}
		config.ErrorOutputPaths = []string{"stderr"}
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.Level = zap.NewAtomicLevelAt(ParseLevel(level))

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", ServiceName)), nil
}

// InitLogger initializes the global logger.
func InitLogger(level string) error {
	logger, err := NewLogger(level)
	if err != nil {
		return err
	}
	Logger = logger
	return nil
}

// SetLogger replaces the global logger. Tests use it to capture output.
func SetLogger(logger *zap.Logger) {
	Logger = logger
}

// GetLogger returns the global logger, initializing if necessary.
func GetLogger() *zap.Logger {
	if Logger == nil {
		if err := InitLogger("info"); err != nil {
			Logger = zap.NewNop()
		}
	}
	return Logger
}

// Sync flushes any buffered log entries.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

// LogField creates a zap field for structured logging.
type LogField = zap.Field

// Common field constructors
var (
	String   = zap.String
	Int      = zap.Int
	Int64    = zap.Int64
	Float64  = zap.Float64
	Bool     = zap.Bool
	Error    = zap.Error
	Any      = zap.Any
	Duration = zap.Duration
)
